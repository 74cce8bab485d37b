package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"medicare/internal/domain"
	"medicare/internal/repository"
)

// ConsultationService records doctor consultation requests.
type ConsultationService struct {
	repo  repository.ConsultationRepository
	log   logrus.FieldLogger
	now   func() time.Time
	newID func() string
}

func NewConsultationService(repo repository.ConsultationRepository, log logrus.FieldLogger) *ConsultationService {
	return &ConsultationService{repo: repo, log: log, now: time.Now, newID: uuid.NewString}
}

// Request appends a consultation in status Requested.
func (s *ConsultationService) Request(ctx context.Context, user, symptoms, preferredTime string) (*domain.Consultation, error) {
	if strings.TrimSpace(symptoms) == "" || strings.TrimSpace(preferredTime) == "" {
		return nil, domain.ErrBlankField
	}
	c := domain.Consultation{
		ID:            s.newID(),
		User:          user,
		Symptoms:      symptoms,
		PreferredTime: preferredTime,
		DateTime:      s.now().Format(domain.TimestampLayout),
		Status:        domain.ConsultationRequested,
	}
	if err := s.repo.Append(ctx, c); err != nil {
		s.log.WithError(err).WithField("user", user).Error("consultation not saved")
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"user": user, "consultation": c.ID}).Info("consultation requested")
	return &c, nil
}

// History returns the user's requests, oldest first.
func (s *ConsultationService) History(ctx context.Context, user string) ([]domain.Consultation, error) {
	return s.repo.ListByUser(ctx, user)
}
