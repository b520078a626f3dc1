package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/TavolaHQ/tavola_api/internal/models"
	"github.com/TavolaHQ/tavola_api/internal/repository"
	"github.com/TavolaHQ/tavola_api/internal/sse"
	"github.com/TavolaHQ/tavola_api/internal/utils"
)

const maxPartySize = 20

// ReservationService handles table booking requests from the public site and
// their lifecycle in the admin panel. New bookings and status changes are
// broadcast to connected admin dashboards.
type ReservationService struct {
	repo     *repository.ReservationRepository
	notifier sse.ReservationNotifier
}

// NewReservationService constructs a ReservationService.
func NewReservationService(repo *repository.ReservationRepository, notifier sse.ReservationNotifier) *ReservationService {
	return &ReservationService{repo: repo, notifier: notifier}
}

// Create validates and stores a new reservation in pending status.
func (s *ReservationService) Create(ctx context.Context, rsv *models.Reservation) error {
	rsv.Name = strings.TrimSpace(rsv.Name)
	rsv.Email = strings.TrimSpace(rsv.Email)

	if rsv.Name == "" {
		return errors.New("name is required")
	}
	if rsv.Email == "" || !strings.Contains(rsv.Email, "@") {
		return errors.New("a valid email is required")
	}
	if rsv.PartySize < 1 || rsv.PartySize > maxPartySize {
		return fmt.Errorf("party size must be between 1 and %d", maxPartySize)
	}
	if rsv.ReservedFor.Before(time.Now()) {
		return errors.New("reservation time must be in the future")
	}

	rsv.Status = models.ReservationPending
	if err := s.repo.Create(ctx, rsv); err != nil {
		return fmt.Errorf("create reservation: %w", err)
	}

	s.notifier.NotifyReservationCreated(rsv)
	return nil
}

// List returns reservations filtered by optional status and day.
func (s *ReservationService) List(ctx context.Context, status string, day *time.Time) ([]models.Reservation, error) {
	if status != "" && !models.ValidReservationStatus(status) {
		return nil, utils.ErrInvalidStatus
	}
	return s.repo.List(ctx, status, day)
}

// UpdateStatus moves a reservation through its lifecycle
// (pending → confirmed / cancelled / seated).
func (s *ReservationService) UpdateStatus(ctx context.Context, id int, status string) (*models.Reservation, error) {
	if !models.ValidReservationStatus(status) {
		return nil, utils.ErrInvalidStatus
	}

	found, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, fmt.Errorf("update reservation status: %w", err)
	}
	if !found {
		return nil, utils.ErrNotFound
	}

	rsv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reload reservation: %w", err)
	}

	s.notifier.NotifyReservationStatusChanged(rsv)
	return rsv, nil
}

// Delete removes a reservation.
func (s *ReservationService) Delete(ctx context.Context, id int) error {
	found, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete reservation: %w", err)
	}
	if !found {
		return utils.ErrNotFound
	}
	return nil
}
