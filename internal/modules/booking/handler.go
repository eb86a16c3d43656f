package booking

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"eventhall/internal/domain"
	"eventhall/internal/pkg/response"
	"eventhall/internal/pkg/validator"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(v1 *gin.RouterGroup) {
	halls := v1.Group("/halls/:id")
	{
		halls.GET("/availability", h.GetAvailability)
		halls.GET("/prices", h.GetPrices)
		halls.POST("/quote", h.Quote)
	}
	v1.GET("/booking-response", h.RespondByLink)
}

// RegisterProtectedRoutes mounts customer routes. limit guards the two
// write endpoints that send email or hold slots.
func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup, limit gin.HandlerFunc) {
	protected.POST("/reservations", limit, h.CreateReservations)
	protected.PATCH("/reservations/:id/cancel", h.CancelReservation)
	protected.POST("/performer-bookings", limit, h.AttachPerformer)
	protected.GET("/users/me/reservations", h.GetMyReservations)
}

func (h *Handler) RegisterOwnerRoutes(owner *gin.RouterGroup) {
	owner.PUT("/halls/:id/prices", h.SetPriceOverride)
	owner.DELETE("/halls/:id/prices", h.DeletePriceOverride)
	owner.GET("/owner/halls/:id/reservations", h.GetHallReservations)
	owner.POST("/owner/halls/:id/block", h.BlockSlot)
	owner.PATCH("/reservations/:id/status", h.UpdateStatus)
}

// GetAvailability godoc
// @Summary      Slot availability of a hall
// @Tags         Availability
// @Produce      json
// @Param        id    path   int     true   "Hall ID"
// @Param        date  query  string  false  "Single day, YYYY-MM-DD"
// @Param        from  query  string  false  "Range start, YYYY-MM-DD"
// @Param        to    query  string  false  "Range end, YYYY-MM-DD"
// @Success      200
// @Router       /halls/{id}/availability [get]
func (h *Handler) GetAvailability(c *gin.Context) {
	hallID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if date := c.Query("date"); date != "" {
		day, err := domain.ParseDay(date)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "date must be YYYY-MM-DD")
			return
		}
		out, err := h.service.CheckDay(c.Request.Context(), hallID, day)
		if err != nil {
			writeError(c, err)
			return
		}
		response.Success(c, http.StatusOK, out)
		return
	}

	from, errFrom := domain.ParseDay(c.Query("from"))
	to, errTo := domain.ParseDay(c.Query("to"))
	if errFrom != nil || errTo != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Provide date or from and to as YYYY-MM-DD")
		return
	}
	days, err := h.service.CheckRange(c.Request.Context(), hallID, from, to)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"hall_id": hallID, "days": days})
}

// GetPrices godoc
// @Summary      Resolved slot prices for one day
// @Tags         Pricing
// @Produce      json
// @Param        id    path   int     true  "Hall ID"
// @Param        date  query  string  true  "YYYY-MM-DD"
// @Router       /halls/{id}/prices [get]
func (h *Handler) GetPrices(c *gin.Context) {
	hallID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	out, err := h.service.PricesForDay(c.Request.Context(), hallID, c.Query("date"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, out)
}

// Quote godoc
// @Summary      Price a selection before booking
// @Tags         Pricing
// @Accept       json
// @Produce      json
// @Param        id       path  int           true  "Hall ID"
// @Param        request  body  QuoteRequest  true  "Selections"
// @Router       /halls/{id}/quote [post]
func (h *Handler) Quote(c *gin.Context) {
	hallID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	out, err := h.service.Quote(c.Request.Context(), hallID, req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, out)
}

// CreateReservations godoc
// @Summary      Reserve one or more hall slots
// @Description  Each (date, slot) pair succeeds or fails on its own.
// @Tags         Reservations
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body  CreateReservationsRequest  true  "Hall and slots"
// @Success      201  {object}  CreateReservationsResult
// @Failure      409  "No slot could be reserved"
// @Router       /reservations [post]
func (h *Handler) CreateReservations(c *gin.Context) {
	var req CreateReservationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "hall_id and a non-empty bookings list are required")
		return
	}

	result, err := h.service.CreateReservations(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		writeError(c, err)
		return
	}

	if result.Created == 0 {
		response.ErrorWithDetails(c, http.StatusConflict, "SLOT_UNAVAILABLE",
			"None of the selected slots could be reserved", result)
		return
	}

	msg := "Reservation created"
	if len(result.Items) > 1 {
		msg = fmt.Sprintf("%d of %d reservations created", result.Created, len(result.Items))
	}
	response.SuccessWithMessage(c, http.StatusCreated, msg, result)
}

// CancelReservation godoc
// @Summary      Cancel one of my reservations
// @Tags         Reservations
// @Security     BearerAuth
// @Param        id       path  int            true   "Reservation ID"
// @Param        request  body  CancelRequest  false  "Reason"
// @Router       /reservations/{id}/cancel [patch]
func (h *Handler) CancelReservation(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req CancelRequest
	_ = c.ShouldBindJSON(&req)

	r, err := h.service.CancelReservation(c.Request.Context(), c.GetInt64("user_id"), id, req.Reason)
	if err != nil {
		writeError(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "Reservation cancelled", toReservationResponse(r))
}

// AttachPerformer godoc
// @Summary      Request a performer for a reserved hall slot
// @Tags         Performers
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body  AttachPerformerRequest  true  "Performer and hall slot"
// @Failure      409  "Performer already requested"
// @Failure      412  "No hall reservation for that slot"
// @Router       /performer-bookings [post]
func (h *Handler) AttachPerformer(c *gin.Context) {
	var req AttachPerformerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "performer_id, hall_id, date and slot are required")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid slot", errs)
		return
	}

	att, err := h.service.AttachPerformer(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusCreated,
		"Request sent to the performer", toReservationResponse(att))
}

// GetMyReservations godoc
// @Summary      My reservations and performer requests
// @Tags         Reservations
// @Security     BearerAuth
// @Router       /users/me/reservations [get]
func (h *Handler) GetMyReservations(c *gin.Context) {
	out, err := h.service.ListMyReservations(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, out)
}

// RespondByLink godoc
// @Summary      Approve or decline through an emailed link
// @Tags         Reservations
// @Param        bookingId  query  int     true  "Reservation ID"
// @Param        action     query  string  true  "approve or decline"
// @Param        token      query  string  true  "Action token from the email"
// @Router       /booking-response [get]
func (h *Handler) RespondByLink(c *gin.Context) {
	id, err := strconv.ParseInt(c.Query("bookingId"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "bookingId is required")
		return
	}

	summary, err := h.service.Respond(c.Request.Context(), RespondRequest{
		ReservationID: id,
		Action:        c.Query("action"),
		Token:         c.Query("token"),
		Reason:        c.Query("reason"),
	})
	writeResponseResult(c, summary, err)
}

// UpdateStatus godoc
// @Summary      Owner approves or declines a reservation
// @Tags         Owner
// @Security     BearerAuth
// @Param        id       path  int                  true  "Reservation ID"
// @Param        request  body  UpdateStatusRequest  true  "Action"
// @Router       /reservations/{id}/status [patch]
func (h *Handler) UpdateStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "action must be approve or decline")
		return
	}

	summary, err := h.service.OwnerRespond(c.Request.Context(), c.GetInt64("user_id"), id, req.Action, req.Reason)
	writeResponseResult(c, summary, err)
}

// SetPriceOverride godoc
// @Summary      Set a per-day slot price
// @Tags         Owner
// @Security     BearerAuth
// @Param        id       path  int                      true  "Hall ID"
// @Param        request  body  SetPriceOverrideRequest  true  "Override"
// @Router       /halls/{id}/prices [put]
func (h *Handler) SetPriceOverride(c *gin.Context) {
	hallID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req SetPriceOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "date, slot and price are required")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid slot", errs)
		return
	}

	o, err := h.service.SetPriceOverride(c.Request.Context(), c.GetInt64("user_id"), hallID, req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "Price saved", gin.H{
		"hall_id": o.HallID,
		"date":    domain.FormatDay(o.Day),
		"slot":    o.Slot,
		"price":   o.Price,
		"is_sale": o.IsSale,
	})
}

// DeletePriceOverride godoc
// @Summary      Revert a slot to the hall default price
// @Tags         Owner
// @Security     BearerAuth
// @Param        id    path   int     true  "Hall ID"
// @Param        date  query  string  true  "YYYY-MM-DD"
// @Param        slot  query  string  true  "morning, evening or full_day"
// @Router       /halls/{id}/prices [delete]
func (h *Handler) DeletePriceOverride(c *gin.Context) {
	hallID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req DeletePriceOverrideRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "date and slot are required")
		return
	}

	if err := h.service.DeletePriceOverride(c.Request.Context(), c.GetInt64("user_id"), hallID, req); err != nil {
		writeError(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "Price reset to default", nil)
}

// GetHallReservations godoc
// @Summary      Reservations of an owned hall
// @Tags         Owner
// @Security     BearerAuth
// @Param        id      path   int     true   "Hall ID"
// @Param        date    query  string  false  "YYYY-MM-DD"
// @Param        status  query  string  false  "pending, approved or cancelled"
// @Router       /owner/halls/{id}/reservations [get]
func (h *Handler) GetHallReservations(c *gin.Context) {
	hallID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	out, err := h.service.ListHallReservations(c.Request.Context(), c.GetInt64("user_id"), hallID, HallReservationsFilter{
		Date:   c.Query("date"),
		Status: c.Query("status"),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"reservations": out})
}

// BlockSlot godoc
// @Summary      Owner reserves a slot of their own hall
// @Tags         Owner
// @Security     BearerAuth
// @Param        id       path  int               true  "Hall ID"
// @Param        request  body  BlockSlotRequest  true  "Slot"
// @Router       /owner/halls/{id}/block [post]
func (h *Handler) BlockSlot(c *gin.Context) {
	hallID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req BlockSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "date and slot are required")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid slot", errs)
		return
	}

	r, err := h.service.BlockSlot(c.Request.Context(), c.GetInt64("user_id"), hallID, req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusCreated, "Slot blocked", toReservationResponse(r))
}

func writeResponseResult(c *gin.Context, summary *ResponseSummary, err error) {
	if errors.Is(err, ErrAlreadyResponded) && summary != nil {
		response.ErrorWithDetails(c, http.StatusConflict, "ALREADY_RESPONDED", summary.Message, summary)
		return
	}
	if err != nil {
		writeError(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, summary.Message, summary)
}

func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid "+name)
		return 0, false
	}
	return id, true
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid date or slot")
	case errors.Is(err, ErrPastDate):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "The selected date is in the past")
	case errors.Is(err, ErrRangeTooLarge):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR",
			fmt.Sprintf("Date range must not exceed %d days", MaxRangeDays))
	case errors.Is(err, ErrUnknownAction):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "action must be approve or decline")

	case errors.Is(err, ErrHallNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Hall not found")
	case errors.Is(err, ErrPerformerNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Performer not found")
	case errors.Is(err, ErrReservationNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Reservation not found")

	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "You are not allowed to change this resource")
	case errors.Is(err, ErrInvalidToken):
		response.Error(c, http.StatusForbidden, "INVALID_ACTION_TOKEN", "This link is invalid")

	case errors.Is(err, ErrSlotUnavailable):
		response.Error(c, http.StatusConflict, "SLOT_UNAVAILABLE", "This slot is no longer available")
	case errors.Is(err, ErrPerformerAlreadyBooked):
		response.Error(c, http.StatusConflict, "PERFORMER_ALREADY_BOOKED",
			"You already have an open request for this performer")
	case errors.Is(err, ErrAlreadyResponded):
		response.Error(c, http.StatusConflict, "ALREADY_RESPONDED", "This request has already been answered")
	case errors.Is(err, ErrInvalidStatus):
		response.Error(c, http.StatusConflict, "INVALID_STATUS", "Reservation cannot be changed in its current status")

	case errors.Is(err, ErrNoHallReservation):
		response.Error(c, http.StatusPreconditionFailed, "HALL_RESERVATION_REQUIRED",
			"Book the hall for this date and slot before requesting a performer")

	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong, please try again")
	}
}
