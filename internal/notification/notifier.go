package notification

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"eventhall/internal/domain"
)

// Notifier renders and sends the booking emails.
type Notifier struct {
	mailer  Mailer
	baseURL string
}

// NewNotifier builds action links against baseURL, the public address of
// the API (e.g. https://api.example.com).
func NewNotifier(mailer Mailer, baseURL string) *Notifier {
	return &Notifier{mailer: mailer, baseURL: baseURL}
}

// ActionURL is the approve/decline link carried in emails.
func ActionURL(baseURL string, reservationID int64, action, token string) string {
	q := url.Values{}
	q.Set("bookingId", strconv.FormatInt(reservationID, 10))
	q.Set("action", action)
	q.Set("token", token)
	return baseURL + "/api/v1/booking-response?" + q.Encode()
}

type performerRequestData struct {
	PerformerName string
	CustomerName  string
	CustomerEmail string
	HallName      string
	HallLocation  string
	Date          string
	StartTime     string
	EndTime       string
	ApproveURL    string
	DeclineURL    string
}

func (n *Notifier) PerformerRequested(ctx context.Context, p *domain.Performer, customer *domain.User, hall *domain.Hall, att *domain.Reservation) error {
	if p.ContactEmail == "" {
		return fmt.Errorf("performer %d has no contact email", p.ID)
	}

	html, err := render("performer_request.html", performerRequestData{
		PerformerName: p.Name,
		CustomerName:  customer.Name,
		CustomerEmail: customer.Email,
		HallName:      hall.Name,
		HallLocation:  hall.Location,
		Date:          att.Date(),
		StartTime:     att.StartTime,
		EndTime:       att.EndTime,
		ApproveURL:    ActionURL(n.baseURL, att.ID, "approve", att.ActionToken),
		DeclineURL:    ActionURL(n.baseURL, att.ID, "decline", att.ActionToken),
	})
	if err != nil {
		return fmt.Errorf("render performer request: %w", err)
	}

	return n.mailer.Send(ctx, Message{
		To:      p.ContactEmail,
		ToName:  p.Name,
		Subject: "New booking request for " + att.Date(),
		HTML:    html,
	})
}

func (n *Notifier) PerformerAlreadyBooked(ctx context.Context, customer *domain.User, p *domain.Performer) error {
	html, err := render("already_booked.html", map[string]string{
		"CustomerName":  customer.Name,
		"PerformerName": p.Name,
	})
	if err != nil {
		return fmt.Errorf("render already booked: %w", err)
	}

	return n.mailer.Send(ctx, Message{
		To:      customer.Email,
		ToName:  customer.Name,
		Subject: p.Name + " is already booked",
		HTML:    html,
	})
}

func (n *Notifier) ReservationStatusChanged(ctx context.Context, customer *domain.User, hall *domain.Hall, r *domain.Reservation) error {
	status := string(r.Status)
	if r.Status == domain.ReservationCancelled {
		status = "declined"
	}
	data := map[string]string{
		"CustomerName": customer.Name,
		"HallName":     hall.Name,
		"Date":         r.Date(),
		"StartTime":    r.StartTime,
		"EndTime":      r.EndTime,
		"Status":       status,
		"Reason":       r.CancellationReason,
	}
	if r.Performer != nil {
		data["PerformerName"] = r.Performer.Name
	}

	html, err := render("status_changed.html", data)
	if err != nil {
		return fmt.Errorf("render status change: %w", err)
	}

	return n.mailer.Send(ctx, Message{
		To:      customer.Email,
		ToName:  customer.Name,
		Subject: "Your reservation was " + status,
		HTML:    html,
	})
}
