package booking

import (
	"time"

	"eventhall/internal/domain"
)

// SlotSelection is one (date, slot) pair of a booking request. Pairs are
// validated by the service so that a bad pair fails on its own.
type SlotSelection struct {
	Date string `json:"date"`
	Slot string `json:"slot"`
}

type CreateReservationsRequest struct {
	HallID   int64           `json:"hall_id" binding:"required"`
	Bookings []SlotSelection `json:"bookings" binding:"required,min=1"`
}

// ItemResult is the outcome of one pair of a multi-slot request.
type ItemResult struct {
	Date        string               `json:"date"`
	Slot        string               `json:"slot"`
	Success     bool                 `json:"success"`
	Message     string               `json:"message"`
	Reservation *ReservationResponse `json:"reservation,omitempty"`
}

type CreateReservationsResult struct {
	Created int          `json:"created"`
	Failed  int          `json:"failed"`
	Total   int64        `json:"total_price"`
	Items   []ItemResult `json:"items"`
}

type BlockSlotRequest struct {
	Date string `json:"date" binding:"required"`
	Slot string `json:"slot" binding:"required" validate:"slot"`
}

type AttachPerformerRequest struct {
	PerformerID int64  `json:"performer_id" binding:"required"`
	HallID      int64  `json:"hall_id" binding:"required"`
	Date        string `json:"date" binding:"required"`
	Slot        string `json:"slot" binding:"required" validate:"slot"`
}

type QuoteRequest struct {
	Bookings []SlotSelection `json:"bookings" binding:"required,min=1"`
}

type QuoteLine struct {
	Date   string      `json:"date"`
	Slot   domain.Slot `json:"slot"`
	Amount int64       `json:"amount"`
	OnSale bool        `json:"on_sale"`
}

type Quote struct {
	HallID int64       `json:"hall_id"`
	Lines  []QuoteLine `json:"lines"`
	Total  int64       `json:"total"`
}

type SlotPrice struct {
	Slot   domain.Slot `json:"slot"`
	Start  string      `json:"start"`
	End    string      `json:"end"`
	Amount int64       `json:"amount"`
	OnSale bool        `json:"on_sale"`
}

type DayPrices struct {
	HallID int64       `json:"hall_id"`
	Date   string      `json:"date"`
	Slots  []SlotPrice `json:"slots"`
}

type SetPriceOverrideRequest struct {
	Date   string `json:"date" binding:"required"`
	Slot   string `json:"slot" binding:"required" validate:"slot"`
	Price  *int64 `json:"price" binding:"required"`
	IsSale bool   `json:"is_sale"`
}

type DeletePriceOverrideRequest struct {
	Date string `form:"date" binding:"required"`
	Slot string `form:"slot" binding:"required" validate:"slot"`
}

type RespondRequest struct {
	ReservationID int64
	Action        string
	Token         string
	Reason        string
}

type UpdateStatusRequest struct {
	Action string `json:"action" binding:"required,oneof=approve decline"`
	Reason string `json:"reason"`
}

type CancelRequest struct {
	Reason string `json:"reason"`
}

// ResponseSummary is what the approve/decline page displays.
type ResponseSummary struct {
	ID            int64                    `json:"id"`
	HallName      string                   `json:"hall_name"`
	CustomerName  string                   `json:"customer_name"`
	PerformerName string                   `json:"performer_name,omitempty"`
	Date          string                   `json:"date"`
	Slot          domain.Slot              `json:"slot"`
	Status        domain.ReservationStatus `json:"status"`
	Message       string                   `json:"message"`
}

type ReservationResponse struct {
	ID                 int64                    `json:"id"`
	HallID             int64                    `json:"hall_id"`
	HallName           string                   `json:"hall_name,omitempty"`
	UserID             int64                    `json:"user_id"`
	CustomerName       string                   `json:"customer_name,omitempty"`
	PerformerID        *int64                   `json:"performer_id,omitempty"`
	PerformerName      string                   `json:"performer_name,omitempty"`
	ParentID           *int64                   `json:"parent_id,omitempty"`
	Date               string                   `json:"date"`
	Slot               domain.Slot              `json:"slot"`
	StartTime          string                   `json:"start_time"`
	EndTime            string                   `json:"end_time"`
	Price              int64                    `json:"price"`
	OnSale             bool                     `json:"on_sale"`
	Status             domain.ReservationStatus `json:"status"`
	CancellationReason string                   `json:"cancellation_reason,omitempty"`
	RespondedAt        *time.Time               `json:"responded_at,omitempty"`
	CreatedAt          time.Time                `json:"created_at"`
}

type MyReservations struct {
	Reservations         []ReservationResponse `json:"reservations"`
	PerformerAttachments []ReservationResponse `json:"performer_attachments"`
}

type HallReservationsFilter struct {
	Date   string
	Status string
}

func toReservationResponse(r *domain.Reservation) ReservationResponse {
	out := ReservationResponse{
		ID:                 r.ID,
		HallID:             r.HallID,
		UserID:             r.UserID,
		PerformerID:        r.PerformerID,
		ParentID:           r.ParentID,
		Date:               r.Date(),
		Slot:               r.Slot,
		StartTime:          r.StartTime,
		EndTime:            r.EndTime,
		Price:              r.Price,
		OnSale:             r.OnSale,
		Status:             r.Status,
		CancellationReason: r.CancellationReason,
		RespondedAt:        r.RespondedAt,
		CreatedAt:          r.CreatedAt,
	}
	if r.Hall != nil {
		out.HallName = r.Hall.Name
	}
	if r.User != nil {
		out.CustomerName = r.User.Name
	}
	if r.Performer != nil {
		out.PerformerName = r.Performer.Name
	}
	return out
}
