package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/tripwell/tripkit/pkg/domain"
)

// BookingRequest is the payload for creating a booking.
type BookingRequest struct {
	TourID          int64     `json:"tour_id"`
	Date            time.Time `json:"booking_date"`
	Participants    int       `json:"number_of_participants"`
	SpecialRequests string    `json:"special_requests,omitempty"`
}

// PaymentRequest is the payload for charging a booking.
type PaymentRequest struct {
	Type   domain.PaymentType `json:"payment_type"`
	Method string             `json:"payment_method"`
	Amount float64            `json:"amount"`
}

// CreateBooking reserves a tour and returns the pending booking.
func (c *Client) CreateBooking(ctx context.Context, req BookingRequest) (*domain.Booking, error) {
	env, err := c.post(ctx, "/bookings", req)
	if err != nil {
		return nil, err
	}
	var b domain.Booking
	if err := env.decodeData(&b); err != nil {
		return nil, err
	}
	return &b, nil
}

// GetBooking fetches a booking by ID.
func (c *Client) GetBooking(ctx context.Context, id int64) (*domain.Booking, error) {
	env, err := c.get(ctx, fmt.Sprintf("/bookings/%d", id))
	if err != nil {
		return nil, err
	}
	var b domain.Booking
	if err := env.decodeData(&b); err != nil {
		return nil, err
	}
	return &b, nil
}

// MyBookings lists the authenticated user's bookings.
func (c *Client) MyBookings(ctx context.Context) ([]domain.Booking, error) {
	env, err := c.get(ctx, "/my-bookings")
	if err != nil {
		return nil, err
	}
	var bookings []domain.Booking
	if err := env.decodeData(&bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

// CancelBooking cancels a booking and returns its updated record.
func (c *Client) CancelBooking(ctx context.Context, id int64) (*domain.Booking, error) {
	env, err := c.post(ctx, fmt.Sprintf("/bookings/%d/cancel", id), nil)
	if err != nil {
		return nil, err
	}
	var b domain.Booking
	if err := env.decodeData(&b); err != nil {
		return nil, err
	}
	return &b, nil
}

// ProcessPayment charges a booking. Each attempt carries a fresh idempotency
// key so a retried request after a transport failure cannot double-charge.
func (c *Client) ProcessPayment(ctx context.Context, bookingID int64, req PaymentRequest) (*domain.Payment, error) {
	headers := map[string]string{"Idempotency-Key": uuid.NewString()}
	env, err := c.do(ctx, http.MethodPost, fmt.Sprintf("/bookings/%d/payment", bookingID), req, headers)
	if err != nil {
		return nil, err
	}
	var p domain.Payment
	if err := env.decodeData(&p); err != nil {
		return nil, err
	}
	return &p, nil
}
