package sse

import (
	"time"

	"github.com/TavolaHQ/tavola_api/internal/models"
)

// ReservationNotifier is the interface services use to emit reservation events.
type ReservationNotifier interface {
	NotifyReservationCreated(rsv *models.Reservation)
	NotifyReservationStatusChanged(rsv *models.Reservation)
}

// HubNotifier implements ReservationNotifier using the SSE Hub.
type HubNotifier struct {
	hub *Hub
}

// NewHubNotifier creates a notifier backed by the given Hub.
func NewHubNotifier(hub *Hub) *HubNotifier {
	return &HubNotifier{hub: hub}
}

func (n *HubNotifier) NotifyReservationCreated(rsv *models.Reservation) {
	if n.hub.ClientCount() == 0 {
		return
	}
	n.hub.Broadcast(reservationToEvent(EventReservationCreated, rsv))
}

func (n *HubNotifier) NotifyReservationStatusChanged(rsv *models.Reservation) {
	if n.hub.ClientCount() == 0 {
		return
	}
	n.hub.Broadcast(reservationToEvent(EventReservationStatusChanged, rsv))
}

func reservationToEvent(eventType EventType, rsv *models.Reservation) *ReservationEvent {
	return &ReservationEvent{
		Event:         eventType,
		ReservationID: rsv.ID,
		Name:          rsv.Name,
		PartySize:     rsv.PartySize,
		ReservedFor:   rsv.ReservedFor,
		Status:        rsv.Status,
		Timestamp:     time.Now(),
	}
}

// NopNotifier is a no-op implementation for when SSE is not needed.
type NopNotifier struct{}

func (n *NopNotifier) NotifyReservationCreated(rsv *models.Reservation)       {}
func (n *NopNotifier) NotifyReservationStatusChanged(rsv *models.Reservation) {}
