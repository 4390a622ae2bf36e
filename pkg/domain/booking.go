package domain

import "time"

// BookingStatus is the backend-reported lifecycle of a booking.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

// Booking is a reservation of a tour for a date and party size.
type Booking struct {
	ID               int64         `json:"id"`
	Reference        string        `json:"booking_reference"`
	Tour             *Tour         `json:"tour,omitempty"`
	TourID           int64         `json:"tour_id,omitempty"`
	Date             time.Time     `json:"booking_date"`
	Participants     int           `json:"number_of_participants"`
	TotalPrice       float64       `json:"total_price"`
	AmountPaid       float64       `json:"amount_paid,omitempty"`
	Status           BookingStatus `json:"status"`
	SpecialRequests  string        `json:"special_requests,omitempty"`
}

// DepositRate is the fraction of the total price due when paying by deposit.
const DepositRate = 0.30

// Deposit returns the amount due for a deposit payment.
func (b Booking) Deposit() float64 {
	return b.TotalPrice * DepositRate
}

// RemainingBalance returns what is left after a deposit payment.
func (b Booking) RemainingBalance() float64 {
	return b.TotalPrice - b.Deposit()
}

// PaymentType selects between paying in full and paying a deposit.
type PaymentType string

const (
	PaymentFull    PaymentType = "full"
	PaymentDeposit PaymentType = "deposit"
)

// Payment is the record returned after a successful charge.
type Payment struct {
	ID            int64       `json:"id"`
	BookingID     int64       `json:"booking_id"`
	Amount        float64     `json:"amount"`
	Type          PaymentType `json:"payment_type"`
	Method        string      `json:"payment_method,omitempty"`
	TransactionID string      `json:"transaction_id,omitempty"`
	PaidAt        time.Time   `json:"paid_at,omitempty"`
}
