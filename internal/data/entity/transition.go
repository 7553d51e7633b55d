package entity

import "fmt"

type BookingEvent string

const (
	EventConfirmPayment BookingEvent = "confirm_payment"
	EventCancel         BookingEvent = "cancel"
	EventExpire         BookingEvent = "expire"
	EventCheckIn        BookingEvent = "check_in"
	EventCheckOut       BookingEvent = "check_out"
)

type transitionKey struct {
	from  BookingStatus
	event BookingEvent
}

var transitions = map[transitionKey]BookingStatus{
	{BookingStatusPending, EventConfirmPayment}: BookingStatusConfirmed,
	{BookingStatusPending, EventExpire}:         BookingStatusExpired,
	{BookingStatusPending, EventCancel}:         BookingStatusCancelled,
	{BookingStatusConfirmed, EventCancel}:       BookingStatusCancelled,
	{BookingStatusConfirmed, EventCheckIn}:      BookingStatusActive,
	{BookingStatusActive, EventCheckOut}:        BookingStatusCompleted,
}

// InvalidTransition describes an event that is not legal from a status.
type InvalidTransition struct {
	From  BookingStatus
	Event BookingEvent
}

func (e *InvalidTransition) Error() string {
	return fmt.Sprintf("cannot %s booking in status %s", e.Event, e.From)
}

// NextStatus looks up the target status for event applied in status from.
func NextStatus(from BookingStatus, event BookingEvent) (BookingStatus, error) {
	to, ok := transitions[transitionKey{from: from, event: event}]
	if !ok {
		return "", &InvalidTransition{From: from, Event: event}
	}
	return to, nil
}
