package middleware

import (
	"fmt"
	"net/http"
	"strconv"

	"eventhall/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/ulule/limiter/v3"
	ginmiddleware "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	redisstore "github.com/ulule/limiter/v3/drivers/store/redis"
)

// RateLimiter builds per-route limiters sharing one store backend: Redis
// when a client is given, process memory otherwise.
type RateLimiter struct {
	rdb *redis.Client
	log logrus.FieldLogger
}

func NewRateLimiter(rdb *redis.Client, log logrus.FieldLogger) *RateLimiter {
	return &RateLimiter{rdb: rdb, log: log}
}

// Limit returns middleware enforcing rate ("<limit>-<S|M|H|D>", e.g.
// "20-M") per user, or per client IP for anonymous requests. A bad rate
// disables limiting for the route and is logged.
func (l *RateLimiter) Limit(routeID, rate string) gin.HandlerFunc {
	r, err := limiter.NewRateFromFormatted(rate)
	if err != nil {
		l.log.WithError(err).WithField("route", routeID).Error("invalid rate limit, limiter disabled")
		return func(c *gin.Context) { c.Next() }
	}

	store, err := l.store(routeID)
	if err != nil {
		l.log.WithError(err).WithField("route", routeID).Error("rate limit store unavailable, limiter disabled")
		return func(c *gin.Context) { c.Next() }
	}

	return ginmiddleware.NewMiddleware(
		limiter.New(store, r),
		ginmiddleware.WithKeyGetter(rateKey),
		ginmiddleware.WithLimitReachedHandler(func(c *gin.Context) {
			response.Error(c, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests, please slow down")
		}),
		ginmiddleware.WithErrorHandler(func(c *gin.Context, err error) {
			l.log.WithError(err).WithField("route", routeID).Warn("rate limiter error")
			c.Next()
		}),
	)
}

func (l *RateLimiter) store(routeID string) (limiter.Store, error) {
	prefix := fmt.Sprintf("rate_limiter:%s", routeID)
	if l.rdb == nil {
		return memory.NewStoreWithOptions(limiter.StoreOptions{Prefix: prefix}), nil
	}
	return redisstore.NewStoreWithOptions(l.rdb, limiter.StoreOptions{Prefix: prefix})
}

func rateKey(c *gin.Context) string {
	if id := c.GetInt64("user_id"); id != 0 {
		return "user:" + strconv.FormatInt(id, 10)
	}
	return "ip:" + c.ClientIP()
}
