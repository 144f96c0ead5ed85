package statemachine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hallbook/hallbook-api/internal/models"
)

func TestBookingTransitions(t *testing.T) {
	tests := []struct {
		name    string
		status  string
		event   string
		wantErr bool
		want    string
	}{
		{"confirm pending", models.BookingStatusPending, "confirm", false, models.BookingStatusConfirmed},
		{"confirm confirmed", models.BookingStatusConfirmed, "confirm", true, models.BookingStatusConfirmed},
		{"confirm cancelled", models.BookingStatusCancelled, "confirm", true, models.BookingStatusCancelled},
		{"cancel pending", models.BookingStatusPending, "cancel", false, models.BookingStatusCancelled},
		{"cancel confirmed", models.BookingStatusConfirmed, "cancel", false, models.BookingStatusCancelled},
		{"cancel cancelled", models.BookingStatusCancelled, "cancel", true, models.BookingStatusCancelled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			booking := &models.Booking{Status: tt.status}
			machine := NewBookingFSM(booking)

			var err error
			if tt.event == "confirm" {
				err = machine.Confirm(context.Background())
			} else {
				err = machine.Cancel(context.Background())
			}

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, booking.Status)
		})
	}
}
