package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/TavolaHQ/tavola_api/internal/models"
	"github.com/TavolaHQ/tavola_api/internal/sse"
	"github.com/TavolaHQ/tavola_api/internal/utils"
)

// Validation failures return before any store access, so a nil repository is
// safe here.
func newValidationOnlyReservationService() *ReservationService {
	return NewReservationService(nil, &sse.NopNotifier{})
}

func validReservation() *models.Reservation {
	return &models.Reservation{
		Name:        "Giulia Bianchi",
		Email:       "giulia@example.com",
		PartySize:   4,
		ReservedFor: time.Now().Add(48 * time.Hour),
	}
}

func TestCreateReservationValidation(t *testing.T) {
	svc := newValidationOnlyReservationService()
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*models.Reservation)
	}{
		{"empty name", func(r *models.Reservation) { r.Name = "  " }},
		{"empty email", func(r *models.Reservation) { r.Email = "" }},
		{"email without at sign", func(r *models.Reservation) { r.Email = "giulia.example.com" }},
		{"zero party size", func(r *models.Reservation) { r.PartySize = 0 }},
		{"oversized party", func(r *models.Reservation) { r.PartySize = 21 }},
		{"time in the past", func(r *models.Reservation) { r.ReservedFor = time.Now().Add(-time.Hour) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rsv := validReservation()
			tt.mutate(rsv)
			assert.Error(t, svc.Create(ctx, rsv))
		})
	}
}

func TestListRejectsUnknownStatus(t *testing.T) {
	svc := newValidationOnlyReservationService()

	_, err := svc.List(context.Background(), "waitlisted", nil)
	assert.ErrorIs(t, err, utils.ErrInvalidStatus)
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	svc := newValidationOnlyReservationService()

	_, err := svc.UpdateStatus(context.Background(), 1, "noshow")
	assert.ErrorIs(t, err, utils.ErrInvalidStatus)
}
