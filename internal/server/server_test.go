package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"eventhall/internal/database"
	"eventhall/internal/domain"
	"eventhall/internal/logger"
	"eventhall/internal/notification"
	"eventhall/internal/pkg/clock"
	"eventhall/internal/pkg/jwt"
	"eventhall/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const eventDate = "2026-06-10"

type captureMailer struct {
	mu   sync.Mutex
	sent []notification.Message
}

func (m *captureMailer) Send(_ context.Context, msg notification.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

func (m *captureMailer) to(addr string) []notification.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []notification.Message
	for _, msg := range m.sent {
		if msg.To == addr {
			out = append(out, msg)
		}
	}
	return out
}

type apiResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code    string          `json:"code"`
		Message string          `json:"message"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
}

type testApp struct {
	t      *testing.T
	router *gin.Engine
	db     *gorm.DB
	mailer *captureMailer
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Connect(":memory:", logger.Discard())
	require.NoError(t, err)
	require.NoError(t, repository.Migrate(context.Background(), db))

	mailer := &captureMailer{}
	router := NewRouter(Options{
		DB:                db,
		JWT:               jwt.New("test-secret", time.Hour),
		Log:               logger.Discard(),
		Clock:             clock.NewFixed(time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)),
		Mailer:            mailer,
		PublicBaseURL:     "http://api.test",
		RateLimitBookings: "1000-M",
		RateLimitAuth:     "1000-M",
	})
	return &testApp{t: t, router: router, db: db, mailer: mailer}
}

func (a *testApp) do(method, path, token string, body any) (int, apiResponse) {
	a.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var resp apiResponse
	require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return w.Code, resp
}

func (a *testApp) register(name, email, role string) string {
	a.t.Helper()
	code, resp := a.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"name": name, "email": email, "password": "secret123", "role": role,
	})
	require.Equal(a.t, http.StatusCreated, code, resp.Error.Message)

	var out struct {
		Token string `json:"token"`
	}
	require.NoError(a.t, json.Unmarshal(resp.Data, &out))
	return out.Token
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v), string(raw))
	return v
}

type slotView struct {
	Slot      string `json:"slot"`
	Available bool   `json:"available"`
	Reason    string `json:"reason"`
	Price     int64  `json:"price"`
	OnSale    bool   `json:"on_sale"`
}

func (a *testApp) availability(hallID int64) map[string]slotView {
	a.t.Helper()
	code, resp := a.do(http.MethodGet, fmt.Sprintf("/api/v1/halls/%d/availability?date=%s", hallID, eventDate), "", nil)
	require.Equal(a.t, http.StatusOK, code)

	day := decode[struct {
		Slots []slotView `json:"slots"`
	}](a.t, resp.Data)
	out := make(map[string]slotView, len(day.Slots))
	for _, s := range day.Slots {
		out[s.Slot] = s
	}
	return out
}

func (a *testApp) actionToken(reservationID int64) string {
	var token string
	require.NoError(a.t, a.db.Raw("SELECT action_token FROM reservations WHERE id = ?", reservationID).Scan(&token).Error)
	return token
}

func TestBookingFlow(t *testing.T) {
	app := newTestApp(t)
	ownerToken := app.register("Hall Owner", "owner@example.com", "owner")
	customerToken := app.register("Aruzhan", "customer@example.com", "")

	performer := &domain.Performer{Name: "DJ Nova", Genre: "dj", ContactEmail: "nova@example.com", Price: 300}
	require.NoError(t, repository.NewPerformerRepository(app.db).Create(context.Background(), performer))

	// owner lists a hall
	code, resp := app.do(http.MethodPost, "/api/v1/halls", ownerToken, map[string]any{
		"name": "Grand Hall", "location": "Almaty", "capacity": 200,
		"prices": map[string]int64{"morning": 100, "evening": 150, "full_day": 220},
	})
	require.Equal(t, http.StatusCreated, code, resp.Error.Message)
	hallID := decode[struct {
		Hall domain.Hall `json:"hall"`
	}](t, resp.Data).Hall.ID

	// customers cannot list halls
	code, _ = app.do(http.MethodPost, "/api/v1/halls", customerToken, map[string]any{
		"name": "Nope", "location": "Almaty", "capacity": 1, "prices": map[string]int64{},
	})
	assert.Equal(t, http.StatusForbidden, code)

	// sale price for the morning slot
	code, resp = app.do(http.MethodPut, fmt.Sprintf("/api/v1/halls/%d/prices", hallID), ownerToken, map[string]any{
		"date": eventDate, "slot": "morning", "price": 80, "is_sale": true,
	})
	require.Equal(t, http.StatusOK, code, resp.Error.Message)
	assert.Equal(t, "Price saved", resp.Message)

	slots := app.availability(hallID)
	assert.Equal(t, slotView{Slot: "morning", Available: true, Price: 80, OnSale: true}, slots["morning"])
	assert.Equal(t, slotView{Slot: "evening", Available: true, Price: 150}, slots["evening"])

	// morning reservation
	code, resp = app.do(http.MethodPost, "/api/v1/reservations", customerToken, map[string]any{
		"hall_id": hallID, "bookings": []map[string]string{{"date": eventDate, "slot": "morning"}},
	})
	require.Equal(t, http.StatusCreated, code, resp.Error.Message)
	created := decode[struct {
		Created int   `json:"created"`
		Total   int64 `json:"total_price"`
	}](t, resp.Data)
	assert.Equal(t, 1, created.Created)
	assert.Equal(t, int64(80), created.Total)

	slots = app.availability(hallID)
	assert.False(t, slots["morning"].Available)
	assert.Equal(t, "reserved", slots["morning"].Reason)
	assert.False(t, slots["full_day"].Available)
	assert.True(t, slots["evening"].Available)

	// full day now conflicts
	code, resp = app.do(http.MethodPost, "/api/v1/reservations", customerToken, map[string]any{
		"hall_id": hallID, "bookings": []map[string]string{{"date": eventDate, "slot": "udur"}},
	})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "SLOT_UNAVAILABLE", resp.Error.Code)

	// performer needs a hall reservation on the same slot
	attach := map[string]any{"performer_id": performer.ID, "hall_id": hallID, "date": eventDate, "slot": "evening"}
	code, resp = app.do(http.MethodPost, "/api/v1/performer-bookings", customerToken, attach)
	assert.Equal(t, http.StatusPreconditionFailed, code)
	assert.Equal(t, "HALL_RESERVATION_REQUIRED", resp.Error.Code)

	code, resp = app.do(http.MethodPost, "/api/v1/reservations", customerToken, map[string]any{
		"hall_id": hallID, "bookings": []map[string]string{{"date": eventDate, "slot": "pm"}},
	})
	require.Equal(t, http.StatusCreated, code, resp.Error.Message)
	evening := decode[struct {
		Items []struct {
			Reservation struct {
				ID int64 `json:"id"`
			} `json:"reservation"`
		} `json:"items"`
	}](t, resp.Data).Items[0].Reservation.ID

	code, resp = app.do(http.MethodPost, "/api/v1/performer-bookings", customerToken, attach)
	require.Equal(t, http.StatusCreated, code, resp.Error.Message)
	attachmentID := decode[struct {
		ID int64 `json:"id"`
	}](t, resp.Data).ID

	mails := app.mailer.to("nova@example.com")
	require.Len(t, mails, 1)
	assert.Contains(t, mails[0].HTML, "http://api.test/api/v1/booking-response?")

	// second request for the same performer
	code, resp = app.do(http.MethodPost, "/api/v1/performer-bookings", customerToken, attach)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "PERFORMER_ALREADY_BOOKED", resp.Error.Code)
	assert.Len(t, app.mailer.to("customer@example.com"), 1)

	// capability link
	token := app.actionToken(attachmentID)
	require.NotEmpty(t, token)

	code, _ = app.do(http.MethodGet, fmt.Sprintf("/api/v1/booking-response?bookingId=%d&action=approve&token=wrong", attachmentID), "", nil)
	assert.Equal(t, http.StatusForbidden, code)

	link := fmt.Sprintf("/api/v1/booking-response?bookingId=%d&action=approve&token=%s", attachmentID, token)
	code, resp = app.do(http.MethodGet, link, "", nil)
	require.Equal(t, http.StatusOK, code, resp.Error.Message)
	summary := decode[struct {
		Status        string `json:"status"`
		HallName      string `json:"hall_name"`
		PerformerName string `json:"performer_name"`
	}](t, resp.Data)
	assert.Equal(t, "approved", summary.Status)
	assert.Equal(t, "Grand Hall", summary.HallName)
	assert.Equal(t, "DJ Nova", summary.PerformerName)

	code, resp = app.do(http.MethodGet, strings.Replace(link, "approve", "decline", 1), "", nil)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "ALREADY_RESPONDED", resp.Error.Code)

	// cancelling the evening frees it and cancels the performer
	code, resp = app.do(http.MethodPatch, fmt.Sprintf("/api/v1/reservations/%d/cancel", evening), customerToken, nil)
	require.Equal(t, http.StatusOK, code, resp.Error.Message)
	assert.True(t, app.availability(hallID)["evening"].Available)

	code, resp = app.do(http.MethodGet, "/api/v1/users/me/reservations", customerToken, nil)
	require.Equal(t, http.StatusOK, code)
	mine := decode[struct {
		Reservations []struct {
			Slot   string `json:"slot"`
			Status string `json:"status"`
		} `json:"reservations"`
		PerformerAttachments []struct {
			Status             string `json:"status"`
			CancellationReason string `json:"cancellation_reason"`
		} `json:"performer_attachments"`
	}](t, resp.Data)
	assert.Len(t, mine.Reservations, 2)
	require.Len(t, mine.PerformerAttachments, 1)
	assert.Equal(t, "cancelled", mine.PerformerAttachments[0].Status)
	assert.Equal(t, "hall reservation cancelled", mine.PerformerAttachments[0].CancellationReason)

	// a new request is allowed once the old one is cancelled
	code, _ = app.do(http.MethodPost, "/api/v1/reservations", customerToken, map[string]any{
		"hall_id": hallID, "bookings": []map[string]string{{"date": eventDate, "slot": "evening"}},
	})
	require.Equal(t, http.StatusCreated, code)
	code, resp = app.do(http.MethodPost, "/api/v1/performer-bookings", customerToken, attach)
	assert.Equal(t, http.StatusCreated, code, resp.Error.Message)
}

func TestMultiSlotRequest(t *testing.T) {
	app := newTestApp(t)
	ownerToken := app.register("Hall Owner", "owner@example.com", "owner")
	customerToken := app.register("Customer", "customer@example.com", "customer")

	code, resp := app.do(http.MethodPost, "/api/v1/halls", ownerToken, map[string]any{
		"name": "Loft", "location": "Astana", "capacity": 40,
		"prices": map[string]int64{"morning": 10, "evening": 20, "full_day": 25},
	})
	require.Equal(t, http.StatusCreated, code)
	hallID := decode[struct {
		Hall domain.Hall `json:"hall"`
	}](t, resp.Data).Hall.ID

	code, resp = app.do(http.MethodPost, "/api/v1/reservations", customerToken, map[string]any{
		"hall_id": hallID,
		"bookings": []map[string]string{
			{"date": eventDate, "slot": "full_day"},
			{"date": eventDate, "slot": "morning"},
			{"date": "2026-06-11", "slot": "evening"},
			{"date": "2026-05-01", "slot": "evening"},
		},
	})
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "2 of 4 reservations created", resp.Message)

	result := decode[struct {
		Created int `json:"created"`
		Failed  int `json:"failed"`
		Items   []struct {
			Success bool   `json:"success"`
			Message string `json:"message"`
		} `json:"items"`
	}](t, resp.Data)
	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 2, result.Failed)
	assert.True(t, result.Items[0].Success)
	assert.False(t, result.Items[1].Success)
	assert.True(t, result.Items[2].Success)
	assert.Equal(t, "The selected date is in the past", result.Items[3].Message)

	// nothing left to take
	code, resp = app.do(http.MethodPost, "/api/v1/reservations", customerToken, map[string]any{
		"hall_id": hallID, "bookings": []map[string]string{{"date": eventDate, "slot": "evening"}},
	})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "SLOT_UNAVAILABLE", resp.Error.Code)

	// owner sees both reservations of the day
	code, resp = app.do(http.MethodGet, fmt.Sprintf("/api/v1/owner/halls/%d/reservations?date=%s", hallID, eventDate), ownerToken, nil)
	require.Equal(t, http.StatusOK, code)
	list := decode[struct {
		Reservations []struct {
			CustomerName string `json:"customer_name"`
		} `json:"reservations"`
	}](t, resp.Data)
	require.Len(t, list.Reservations, 1)
	assert.Equal(t, "Customer", list.Reservations[0].CustomerName)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	app := newTestApp(t)

	code, resp := app.do(http.MethodPost, "/api/v1/reservations", "", map[string]any{})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "AUTH_HEADER_MISSING", resp.Error.Code)

	code, resp = app.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, resp.Success)
}

func TestMultiSlotRequest_IncompleteItemFailsAlone(t *testing.T) {
	app := newTestApp(t)
	ownerToken := app.register("Hall Owner", "owner@example.com", "owner")
	customerToken := app.register("Customer", "customer@example.com", "customer")

	code, resp := app.do(http.MethodPost, "/api/v1/halls", ownerToken, map[string]any{
		"name": "Loft", "location": "Astana", "capacity": 40,
		"prices": map[string]int64{"morning": 10, "evening": 20, "full_day": 25},
	})
	require.Equal(t, http.StatusCreated, code)
	hallID := decode[struct {
		Hall domain.Hall `json:"hall"`
	}](t, resp.Data).Hall.ID

	code, resp = app.do(http.MethodPost, "/api/v1/reservations", customerToken, map[string]any{
		"hall_id": hallID,
		"bookings": []map[string]string{
			{"date": "2026-06-11", "slot": "morning"},
			{"date": "", "slot": "evening"},
			{"date": "2026-06-12", "slot": ""},
		},
	})
	require.Equal(t, http.StatusCreated, code, resp.Error.Message)
	assert.Equal(t, "1 of 3 reservations created", resp.Message)

	result := decode[struct {
		Created int `json:"created"`
		Failed  int `json:"failed"`
		Items   []struct {
			Success bool   `json:"success"`
			Message string `json:"message"`
		} `json:"items"`
	}](t, resp.Data)
	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 2, result.Failed)
	assert.True(t, result.Items[0].Success)
	assert.Equal(t, "Invalid date or slot", result.Items[1].Message)
	assert.Equal(t, "Invalid date or slot", result.Items[2].Message)

	// only incomplete pairs: nothing created
	code, resp = app.do(http.MethodPost, "/api/v1/reservations", customerToken, map[string]any{
		"hall_id": hallID, "bookings": []map[string]string{{"date": "", "slot": ""}},
	})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "SLOT_UNAVAILABLE", resp.Error.Code)

	// an empty list is still rejected as a whole
	code, resp = app.do(http.MethodPost, "/api/v1/reservations", customerToken, map[string]any{
		"hall_id": hallID, "bookings": []map[string]string{},
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
}
