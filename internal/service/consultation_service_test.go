package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"medicare/internal/domain"
	"medicare/internal/repository"
	"medicare/internal/store"
)

func TestConsultationRequest(t *testing.T) {
	ctx := context.Background()
	svc := NewConsultationService(repository.NewConsultations(store.NewMemoryStore()), quietLogger())
	svc.now = func() time.Time { return time.Date(2026, 10, 14, 8, 0, 0, 0, time.UTC) }
	svc.newID = func() string { return "c-1" }

	c, err := svc.Request(ctx, "john", "headache", "tomorrow 10am")
	if err != nil {
		t.Fatal(err)
	}
	want := domain.Consultation{
		ID:            "c-1",
		User:          "john",
		Symptoms:      "headache",
		PreferredTime: "tomorrow 10am",
		DateTime:      "2026-10-14 08:00:00",
		Status:        domain.ConsultationRequested,
	}
	if *c != want {
		t.Fatalf("expected %+v, got %+v", want, *c)
	}

	list, err := svc.History(ctx, "john")
	if err != nil || len(list) != 1 || list[0] != want {
		t.Fatalf("unexpected history %+v %v", list, err)
	}
	if other, _ := svc.History(ctx, "jane"); len(other) != 0 {
		t.Fatalf("history must be per user")
	}
}

func TestConsultationRequest_BlankFields(t *testing.T) {
	svc := NewConsultationService(repository.NewConsultations(store.NewMemoryStore()), quietLogger())
	for _, in := range [][2]string{{"", "10am"}, {"cough", " "}, {"\t", ""}} {
		if _, err := svc.Request(context.Background(), "john", in[0], in[1]); !errors.Is(err, domain.ErrBlankField) {
			t.Fatalf("%q: expected blank field, got %v", in, err)
		}
	}
}

func TestConsultationRequest_StoreFailure(t *testing.T) {
	svc := NewConsultationService(repository.NewConsultations(failingStore{store.NewMemoryStore()}), quietLogger())
	_, err := svc.Request(context.Background(), "john", "cough", "10am")
	if !domain.IsStoreWrite(err) {
		t.Fatalf("expected store write error, got %v", err)
	}
}
