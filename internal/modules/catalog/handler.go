package catalog

import (
	"errors"
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
	v1.GET("/halls", h.GetHalls)
	v1.GET("/halls/:id", h.GetHallByID)
	v1.GET("/performers", h.GetPerformers)
	v1.GET("/performers/genres", h.GetGenres)
	v1.GET("/performers/:id", h.GetPerformerByID)
}

func (h *Handler) RegisterOwnerRoutes(owner *gin.RouterGroup) {
	owner.POST("/halls", h.CreateHall)
	owner.PUT("/halls/:id", h.UpdateHall)
	owner.GET("/owner/halls", h.GetMyHalls)
}

func (h *Handler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	admin.POST("/performers", h.CreatePerformer)
}

/* ---------- HALL HANDLERS ---------- */

// GetHalls godoc
// @Summary      Browse halls
// @Tags         Halls
// @Produce      json
// @Param        q             query  string  false  "Search in name and description"
// @Param        location      query  string  false  "Exact location"
// @Param        min_capacity  query  int     false  "Minimum guests"
// @Param        max_price     query  int     false  "Maximum full-day price"
// @Param        sort          query  string  false  "price_asc, price_desc, capacity or newest"
// @Param        page          query  int     false  "Page, from 1"
// @Param        limit         query  int     false  "Page size, up to 100"
// @Success      200  {object}  HallList
// @Router       /halls [get]
func (h *Handler) GetHalls(c *gin.Context) {
	f := domain.HallFilter{
		Query:    c.Query("q"),
		Location: c.Query("location"),
		Sort:     c.Query("sort"),
	}
	if v, err := strconv.Atoi(c.Query("min_capacity")); err == nil && v > 0 {
		f.MinCapacity = v
	}
	if v, err := strconv.ParseInt(c.Query("max_price"), 10, 64); err == nil && v > 0 {
		f.MaxPrice = v
	}
	if v, err := strconv.Atoi(c.Query("limit")); err == nil {
		f.Limit = v
	}
	page, _ := strconv.Atoi(c.Query("page"))

	out, err := h.service.ListHalls(c.Request.Context(), f, page)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, out)
}

// GetHallByID godoc
// @Summary      Hall details with default slot prices
// @Tags         Halls
// @Produce      json
// @Param        id  path  int  true  "Hall ID"
// @Router       /halls/{id} [get]
func (h *Handler) GetHallByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	hall, err := h.service.GetHall(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"hall": hall})
}

// GetMyHalls godoc
// @Summary      Halls of the signed-in owner
// @Tags         Owner
// @Security     BearerAuth
// @Router       /owner/halls [get]
func (h *Handler) GetMyHalls(c *gin.Context) {
	halls, err := h.service.ListOwnerHalls(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"halls": halls})
}

// CreateHall godoc
// @Summary      List a new hall
// @Tags         Owner
// @Security     BearerAuth
// @Accept       json
// @Param        request  body  CreateHallRequest  true  "Hall"
// @Router       /halls [post]
func (h *Handler) CreateHall(c *gin.Context) {
	var req CreateHallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "name, location, capacity and prices are required")
		return
	}

	hall, err := h.service.CreateHall(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusCreated, "Hall created", gin.H{"hall": hall})
}

// UpdateHall godoc
// @Summary      Edit a hall
// @Tags         Owner
// @Security     BearerAuth
// @Accept       json
// @Param        id       path  int                true  "Hall ID"
// @Param        request  body  UpdateHallRequest  true  "Fields to change"
// @Router       /halls/{id} [put]
func (h *Handler) UpdateHall(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req UpdateHallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid hall fields", errs)
		return
	}

	hall, err := h.service.UpdateHall(c.Request.Context(), c.GetInt64("user_id"), id, req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "Hall updated", gin.H{"hall": hall})
}

/* ---------- PERFORMER HANDLERS ---------- */

// GetPerformers godoc
// @Summary      Browse performers
// @Tags         Performers
// @Param        genre  query  string  false  "Genre filter"
// @Router       /performers [get]
func (h *Handler) GetPerformers(c *gin.Context) {
	list, err := h.service.ListPerformers(c.Request.Context(), c.Query("genre"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"performers": list})
}

// GetGenres godoc
// @Summary      Distinct performer genres
// @Tags         Performers
// @Router       /performers/genres [get]
func (h *Handler) GetGenres(c *gin.Context) {
	genres, err := h.service.Genres(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	if genres == nil {
		genres = []string{}
	}
	response.Success(c, http.StatusOK, gin.H{"genres": genres})
}

// GetPerformerByID godoc
// @Summary      Performer details
// @Tags         Performers
// @Param        id  path  int  true  "Performer ID"
// @Router       /performers/{id} [get]
func (h *Handler) GetPerformerByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	p, err := h.service.GetPerformer(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"performer": p})
}

// CreatePerformer godoc
// @Summary      Add a performer to the directory
// @Tags         Admin
// @Security     BearerAuth
// @Accept       json
// @Param        request  body  CreatePerformerRequest  true  "Performer"
// @Router       /performers [post]
func (h *Handler) CreatePerformer(c *gin.Context) {
	var req CreatePerformerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "name, genre and contact_email are required")
		return
	}

	p, err := h.service.CreatePerformer(c.Request.Context(), req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusCreated, "Performer created", gin.H{"performer": p})
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid id")
		return 0, false
	}
	return id, true
}

func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrHallNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Hall not found")
	case errors.Is(err, ErrPerformerNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Performer not found")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Only the hall owner can do this")
	case errors.Is(err, ErrInvalidPrices):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Prices must not be negative")
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong, please try again")
	}
}
