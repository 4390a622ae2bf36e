package mockserver

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tripwell/tripkit/pkg/domain"
)

type bookingRequest struct {
	TourID          int64     `json:"tour_id"`
	Date            time.Time `json:"booking_date"`
	Participants    int       `json:"number_of_participants"`
	SpecialRequests string    `json:"special_requests"`
}

type paymentRequest struct {
	Type   domain.PaymentType `json:"payment_type"`
	Method string             `json:"payment_method"`
	Amount float64            `json:"amount"`
}

func (s *Server) handleListTours(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	tours := make([]domain.Tour, len(s.tours))
	copy(tours, s.tours)
	s.mu.Unlock()
	s.writeData(w, http.StatusOK, tours)
}

func (s *Server) handleGetTour(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		s.writeError(w, http.StatusNotFound, "Tour not found.", nil)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, tour := range s.tours {
		if tour.ID == id {
			s.writeData(w, http.StatusOK, tour)
			return
		}
	}
	s.writeError(w, http.StatusNotFound, "Tour not found.", nil)
}

func (s *Server) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	var req bookingRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Participants < 1 {
		s.writeError(w, http.StatusUnprocessableEntity, "The given data was invalid.", map[string][]string{
			"number_of_participants": {"At least one participant is required."},
		})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var tour *domain.Tour
	for i := range s.tours {
		if s.tours[i].ID == req.TourID {
			tour = &s.tours[i]
			break
		}
	}
	if tour == nil {
		s.writeError(w, http.StatusUnprocessableEntity, "The given data was invalid.", map[string][]string{
			"tour_id": {"The selected tour does not exist."},
		})
		return
	}

	booking := &domain.Booking{
		ID:              s.nextBook,
		Reference:       "TRP-" + strings.ToUpper(uuid.NewString()[:8]),
		Tour:            tour,
		TourID:          tour.ID,
		Date:            req.Date,
		Participants:    req.Participants,
		TotalPrice:      tour.Price * float64(req.Participants),
		Status:          domain.BookingPending,
		SpecialRequests: req.SpecialRequests,
	}
	s.nextBook++
	s.bookings[booking.ID] = booking
	s.owners[booking.ID] = userIDFrom(r.Context())

	s.writeData(w, http.StatusCreated, booking)
}

func (s *Server) handleGetBooking(w http.ResponseWriter, r *http.Request) {
	booking, status, msg := s.ownedBooking(r)
	if booking == nil {
		s.writeError(w, status, msg, nil)
		return
	}
	s.writeData(w, http.StatusOK, booking)
}

func (s *Server) handleMyBookings(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r.Context())

	s.mu.Lock()
	defer s.mu.Unlock()
	mine := make([]*domain.Booking, 0)
	for id, booking := range s.bookings {
		if s.owners[id] == userID {
			mine = append(mine, booking)
		}
	}
	s.writeData(w, http.StatusOK, mine)
}

func (s *Server) handleCancelBooking(w http.ResponseWriter, r *http.Request) {
	booking, status, msg := s.ownedBooking(r)
	if booking == nil {
		s.writeError(w, status, msg, nil)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if booking.Status == domain.BookingCancelled {
		s.writeError(w, http.StatusConflict, "Booking is already cancelled.", nil)
		return
	}
	booking.Status = domain.BookingCancelled
	s.writeData(w, http.StatusOK, booking)
}

func (s *Server) handleProcessPayment(w http.ResponseWriter, r *http.Request) {
	booking, status, msg := s.ownedBooking(r)
	if booking == nil {
		s.writeError(w, status, msg, nil)
		return
	}

	var req paymentRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Type != domain.PaymentFull && req.Type != domain.PaymentDeposit {
		s.writeError(w, http.StatusUnprocessableEntity, "The given data was invalid.", map[string][]string{
			"payment_type": {"The payment type must be full or deposit."},
		})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Idempotency: replay the original response for a repeated key.
	if key := r.Header.Get("Idempotency-Key"); key != "" {
		if prior, ok := s.payments[key]; ok {
			s.writeData(w, http.StatusOK, prior)
			return
		}
	}

	if booking.Status == domain.BookingCancelled {
		s.writeError(w, http.StatusConflict, "Cannot pay for a cancelled booking.", nil)
		return
	}

	amount := booking.TotalPrice
	if req.Type == domain.PaymentDeposit {
		amount = booking.Deposit()
	}

	payment := &domain.Payment{
		ID:            s.nextPay,
		BookingID:     booking.ID,
		Amount:        amount,
		Type:          req.Type,
		Method:        req.Method,
		TransactionID: uuid.NewString(),
		PaidAt:        nowFunc(),
	}
	s.nextPay++
	booking.AmountPaid += amount
	booking.Status = domain.BookingConfirmed

	if key := r.Header.Get("Idempotency-Key"); key != "" {
		s.payments[key] = payment
	}

	s.writeData(w, http.StatusOK, payment)
}

// ownedBooking resolves the {id} URL param to a booking owned by the
// authenticated user. A foreign booking reads as not-found rather than
// forbidden, to avoid leaking existence.
func (s *Server) ownedBooking(r *http.Request) (*domain.Booking, int, string) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return nil, http.StatusNotFound, "Booking not found."
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	booking, ok := s.bookings[id]
	if !ok || s.owners[id] != userIDFrom(r.Context()) {
		return nil, http.StatusNotFound, "Booking not found."
	}
	return booking, 0, ""
}
