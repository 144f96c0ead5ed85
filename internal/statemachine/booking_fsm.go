package statemachine

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"

	"github.com/hallbook/hallbook-api/internal/models"
)

// BookingFSM wraps a booking with its state machine
type BookingFSM struct {
	booking *models.Booking
	fsm     *fsm.FSM
}

// NewBookingFSM creates a new booking state machine
func NewBookingFSM(booking *models.Booking) *BookingFSM {
	b := &BookingFSM{
		booking: booking,
	}

	b.fsm = fsm.NewFSM(
		booking.Status,
		fsm.Events{
			// pending → confirmed
			{Name: "confirm", Src: []string{models.BookingStatusPending}, Dst: models.BookingStatusConfirmed},

			// pending/confirmed → cancelled
			{Name: "cancel", Src: []string{models.BookingStatusPending, models.BookingStatusConfirmed}, Dst: models.BookingStatusCancelled},
		},
		fsm.Callbacks{},
	)

	return b
}

// Confirm transitions the booking to confirmed state
func (b *BookingFSM) Confirm(ctx context.Context) error {
	if !b.booking.MayConfirm() {
		return fmt.Errorf("booking cannot be confirmed in current state: %s", b.booking.Status)
	}

	if err := b.fsm.Event(ctx, "confirm"); err != nil {
		return fmt.Errorf("failed to confirm booking: %w", err)
	}

	b.booking.Status = b.fsm.Current()
	return nil
}

// Cancel transitions the booking to cancelled state
func (b *BookingFSM) Cancel(ctx context.Context) error {
	if !b.booking.MayCancel() {
		return fmt.Errorf("booking cannot be cancelled in current state: %s", b.booking.Status)
	}

	if err := b.fsm.Event(ctx, "cancel"); err != nil {
		return fmt.Errorf("failed to cancel booking: %w", err)
	}

	b.booking.Status = b.fsm.Current()
	return nil
}

// Current returns the current state
func (b *BookingFSM) Current() string {
	return b.fsm.Current()
}
