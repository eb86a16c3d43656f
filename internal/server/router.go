package server

import (
	"context"
	"net/http"
	"time"

	"eventhall/internal/domain"
	"eventhall/internal/events"
	"eventhall/internal/middleware"
	"eventhall/internal/modules/auth"
	"eventhall/internal/modules/booking"
	"eventhall/internal/modules/catalog"
	"eventhall/internal/notification"
	"eventhall/internal/pkg/clock"
	"eventhall/internal/pkg/jwt"
	"eventhall/internal/pkg/response"
	"eventhall/internal/realtime"
	"eventhall/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Options carries the infrastructure the router wires into the modules.
// Cache, Redis and Hub may be nil; Events defaults to a no-op publisher and
// Mailer to a logging one.
type Options struct {
	DB    *gorm.DB
	JWT   *jwt.Service
	Log   logrus.FieldLogger
	Clock clock.Clock

	Mailer        notification.Mailer
	PublicBaseURL string

	Cache  booking.AvailabilityCache
	Redis  *redis.Client
	Events events.Publisher
	Hub    *realtime.Hub

	CORSOrigins       []string
	RateLimitBookings string
	RateLimitAuth     string
}

func NewRouter(o Options) *gin.Engine {
	if o.Events == nil {
		o.Events = events.Noop{}
	}
	if o.Mailer == nil {
		o.Mailer = notification.LogMailer{Log: o.Log}
	}

	userRepo := repository.NewUserRepository(o.DB)
	hallRepo := repository.NewHallRepository(o.DB)
	performerRepo := repository.NewPerformerRepository(o.DB)
	reservationRepo := repository.NewReservationRepository(o.DB)
	priceRepo := repository.NewPriceOverrideRepository(o.DB)

	authHandler := auth.NewHandler(auth.NewService(userRepo, o.JWT))
	catalogHandler := catalog.NewHandler(catalog.NewService(hallRepo, performerRepo))

	deps := booking.Deps{
		Reservations: reservationRepo,
		Halls:        hallRepo,
		Performers:   performerRepo,
		Users:        userRepo,
		Prices:       priceRepo,
		Clock:        o.Clock,
		Log:          o.Log,
		Notifier:     notification.NewNotifier(o.Mailer, o.PublicBaseURL),
		Cache:        o.Cache,
		Events:       o.Events,
	}
	// a nil *Hub must stay a nil Pusher
	if o.Hub != nil {
		deps.Pusher = o.Hub
	}
	bookingHandler := booking.NewHandler(booking.NewService(deps))

	limits := middleware.NewRateLimiter(o.Redis, o.Log)

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.RequestLogger(o.Log), middleware.CORS(o.CORSOrigins))

	r.GET("/health", healthHandler(o.DB))

	v1 := r.Group("/api/v1")
	{
		// public
		authHandler.RegisterPublicRoutes(v1, limits.Limit("auth", o.RateLimitAuth))
		catalogHandler.RegisterPublicRoutes(v1)
		bookingHandler.RegisterPublicRoutes(v1)

		if o.Hub != nil {
			v1.GET("/ws", realtime.NewHandler(o.Hub, o.JWT, o.CORSOrigins).Connect)
		}

		protected := v1.Group("/")
		protected.Use(middleware.JWTAuth(o.JWT))
		{
			authHandler.RegisterProtectedRoutes(protected)
			bookingHandler.RegisterProtectedRoutes(protected, limits.Limit("bookings", o.RateLimitBookings))

			owner := protected.Group("/", middleware.OwnerOnly())
			catalogHandler.RegisterOwnerRoutes(owner)
			bookingHandler.RegisterOwnerRoutes(owner)

			admin := protected.Group("/", middleware.RequireRole(domain.RoleAdmin))
			catalogHandler.RegisterAdminRoutes(admin)
		}
	}

	return r
}

func healthHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			response.Error(c, http.StatusServiceUnavailable, "DB_UNAVAILABLE", "Database is not reachable")
			return
		}
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	}
}
