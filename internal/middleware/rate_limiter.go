package middleware

import (
	"net/http"
	"os"
	"strconv"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload"
	"github.com/redis/go-redis/v9"

	"empregol-backend/internal/utilities"
)

const defaultRequestsPerSecond = 5

func keyFunc(c *gin.Context) string {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		return "ip: " + c.ClientIP()
	}
	return "user: " + user.ID.String()
}

func errorHandler(c *gin.Context, info ratelimit.Info) {
	c.Header("Retry-After", strconv.Itoa(int(time.Until(info.ResetTime).Seconds())+1))
	c.AbortWithStatusJSON(http.StatusTooManyRequests, utilities.ErrorResponse{
		Error: "Too many requests. Please try again later.",
	})
}

// RateLimiterMiddleware limits requests per user (or per IP for anonymous requests)
func RateLimiterMiddleware(store ratelimit.Store) gin.HandlerFunc {
	return ratelimit.RateLimiter(store, &ratelimit.Options{
		KeyFunc:      keyFunc,
		ErrorHandler: errorHandler,
	})
}

// NewRateLimitStore returns a Redis backed store shared by every instance
// when client is set, a process local store otherwise.
func NewRateLimitStore(reqPerSec uint, client *redis.Client) ratelimit.Store {
	if client != nil {
		return ratelimit.RedisStore(&ratelimit.RedisOptions{
			RedisClient: client,
			Rate:        time.Second,
			Limit:       reqPerSec,
		})
	}
	return ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
		Rate:  time.Second,
		Limit: reqPerSec,
	})
}

// EnvRateLimitMiddleware reads RATE_LIMIT_REQUESTS_PER_SECOND from environment
func EnvRateLimitMiddleware(client *redis.Client) gin.HandlerFunc {

	rateLimitInt, err := strconv.Atoi(os.Getenv("RATE_LIMIT_REQUESTS_PER_SECOND"))

	if err != nil || rateLimitInt <= 0 {
		rateLimitInt = defaultRequestsPerSecond
	}

	return RateLimiterMiddleware(NewRateLimitStore(uint(rateLimitInt), client))
}
