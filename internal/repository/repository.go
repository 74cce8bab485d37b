package repository

import (
	"context"

	"medicare/internal/domain"
	"medicare/internal/store"
)

// ErrNotFound возвращается, когда сущность не найдена
var ErrNotFound = domain.ErrNotFound

// MedicineRepository отдаёт записи каталога как есть, валидацию делает каталог
type MedicineRepository interface {
	All(ctx context.Context) ([]store.Record, error)
	Upsert(ctx context.Context, records []store.Record) (ImportResult, error)
}

// ImportResult counts what an Upsert did.
type ImportResult struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}

// OrderRepository интерфейс репозитория заказов, только добавление
type OrderRepository interface {
	Append(ctx context.Context, o domain.Order) error
	ListByUser(ctx context.Context, user string) ([]domain.Order, error)
}

// ConsultationRepository append-only журнал запросов к врачу
type ConsultationRepository interface {
	Append(ctx context.Context, c domain.Consultation) error
	ListByUser(ctx context.Context, user string) ([]domain.Consultation, error)
}

// UserRepository интерфейс репозитория пользователей
type UserRepository interface {
	Get(ctx context.Context, username string) (*domain.User, error)
	Create(ctx context.Context, u domain.User) error
}
