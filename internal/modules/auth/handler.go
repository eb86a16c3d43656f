package auth

import (
	"errors"
	"net/http"

	"eventhall/internal/pkg/response"
	"eventhall/internal/pkg/validator"

	"github.com/gin-gonic/gin"
)

// Handler manages all HTTP interactions for authentication
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublicRoutes mounts register and login. Extra handlers such as a
// rate limiter run before them.
func (h *Handler) RegisterPublicRoutes(v1 *gin.RouterGroup, extra ...gin.HandlerFunc) {
	authGroup := v1.Group("/auth", extra...)
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
	}
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	userGroup := protected.Group("/users")
	{
		userGroup.GET("/me", h.GetMe)
		userGroup.PATCH("/me", h.UpdateProfile)
	}
}

// Register godoc
// @Summary      Create an account
// @Description  Creates a customer (default) or hall owner account and returns a JWT.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request  body  RegisterRequest  true  "name, email, password, optional phone and role"
// @Success      201  {object}  AuthResult
// @Failure      400  "Validation error"
// @Failure      409  "Email already registered"
// @Router       /auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	user, token, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmailAlreadyExists):
			response.Error(c, http.StatusConflict, "EMAIL_EXISTS", "This email is already registered")
		case errors.Is(err, ErrInvalidRole):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "role must be customer or owner")
		default:
			_ = c.Error(err)
			response.Error(c, http.StatusInternalServerError, "REGISTRATION_FAILED", "Failed to register")
		}
		return
	}

	response.SuccessWithMessage(c, http.StatusCreated, "Account created", AuthResult{
		User:  toUserPublic(user),
		Token: token,
	})
}

// Login godoc
// @Summary      Sign in
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request  body  LoginRequest  true  "email and password"
// @Success      200  {object}  AuthResult
// @Failure      401  "Wrong email or password"
// @Router       /auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	user, token, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			response.Error(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
			return
		}
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "LOGIN_FAILED", "Failed to login")
		return
	}

	response.SuccessWithMessage(c, http.StatusOK, "Signed in", AuthResult{
		User:  toUserPublic(user),
		Token: token,
	})
}

// GetMe godoc
// @Summary      Current user profile
// @Tags         Users
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  UserPublic
// @Router       /users/me [get]
func (h *Handler) GetMe(c *gin.Context) {
	user, err := h.service.GetMe(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		h.writeUserError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": toUserPublic(user)})
}

// UpdateProfile godoc
// @Summary      Edit name or phone
// @Tags         Users
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body  UpdateProfileRequest  true  "Fields to change"
// @Router       /users/me [patch]
func (h *Handler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid profile fields", errs)
		return
	}

	user, err := h.service.UpdateProfile(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		h.writeUserError(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "Profile updated", gin.H{"user": toUserPublic(user)})
}

func (h *Handler) writeUserError(c *gin.Context, err error) {
	if errors.Is(err, ErrUserNotFound) {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "User not found")
		return
	}
	_ = c.Error(err)
	response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong, please try again")
}
