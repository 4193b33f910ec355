package middleware

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"empregol-backend/internal/metrics"
)

func readBodyHandler(c *gin.Context) {
	if _, err := io.ReadAll(c.Request.Body); err != nil {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Entity too large"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func postBody(engine *gin.Engine, path string, body []byte, knownLength bool) *httptest.ResponseRecorder {
	var reader io.Reader = bytes.NewReader(body)
	if !knownLength {
		reader = io.MultiReader(reader)
	}
	req, _ := http.NewRequest(http.MethodPost, path, reader)
	if !knownLength {
		req.ContentLength = -1
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestSizeLimit_LessThanLimit(t *testing.T) {
	engine := gin.New()
	engine.POST("/upload", SizeLimit(1024), readBodyHandler)

	rec := postBody(engine, "/upload", bytes.Repeat([]byte("a"), 512), true)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSizeLimit_EqualLimit(t *testing.T) {
	engine := gin.New()
	engine.POST("/upload", SizeLimit(1024), readBodyHandler)

	rec := postBody(engine, "/upload", bytes.Repeat([]byte("a"), 1024), true)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSizeLimit_ExceedDeclaredLength(t *testing.T) {
	engine := gin.New()
	engine.POST("/upload", SizeLimit(1024), readBodyHandler)

	rec := postBody(engine, "/upload", bytes.Repeat([]byte("a"), 1025), true)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Contains(t, rec.Body.String(), "Request body too large")
}

func TestSizeLimit_ExceedUnknownLength(t *testing.T) {
	engine := gin.New()
	engine.POST("/upload", SizeLimit(1024), readBodyHandler)

	rec := postBody(engine, "/upload", bytes.Repeat([]byte("a"), 4096), false)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Contains(t, rec.Body.String(), "Entity too large")
}

func TestSafeHeader(t *testing.T) {
	engine := gin.New()
	engine.Use(SafeHeader())
	engine.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	rec, _ := doGet(engine, "/", nil)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Empty(t, rec.Header().Get("Cache-Control"))

	rec, _ = doGet(engine, "/", bearer("token"))
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

	rec, _ = doGet(engine, "/", sessionCookie("token"))
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}

func limitedEngine(store ratelimit.Store) *gin.Engine {
	engine := gin.New()
	engine.GET("/limited", RateLimiterMiddleware(store), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return engine
}

func TestRateLimiter_InMemory(t *testing.T) {
	engine := limitedEngine(NewRateLimitStore(2, nil))

	for i := 0; i < 2; i++ {
		rec, _ := doGet(engine, "/limited", nil)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec, body := doGet(engine, "/limited", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "Too many requests. Please try again later.", body["error"])
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestRateLimiter_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	engine := limitedEngine(NewRateLimitStore(3, client))

	for i := 0; i < 3; i++ {
		rec, _ := doGet(engine, "/limited", nil)
		require.Equal(t, http.StatusOK, rec.Code)
	}
	rec, _ := doGet(engine, "/limited", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// counters live in redis, so another instance shares them
	other := limitedEngine(NewRateLimitStore(3, client))
	rec, _ = doGet(other, "/limited", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// both counter keys expire after two windows
	mr.FastForward(3 * time.Second)
	rec, _ = doGet(engine, "/limited", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimiter_RedisUnavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	mr.Close()

	engine := limitedEngine(NewRateLimitStore(1, client))
	for i := 0; i < 3; i++ {
		rec, _ := doGet(engine, "/limited", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestEnvRateLimitMiddleware_InvalidValue(t *testing.T) {
	t.Setenv("RATE_LIMIT_REQUESTS_PER_SECOND", "not-a-number")

	engine := gin.New()
	engine.GET("/limited", EnvRateLimitMiddleware(nil), func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, defaultRequestsPerSecond+1)
	for i := 0; i <= defaultRequestsPerSecond; i++ {
		rec, _ := doGet(engine, "/limited", nil)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, http.StatusTooManyRequests, codes[defaultRequestsPerSecond])
	assert.Equal(t, http.StatusOK, codes[0])
}

func TestRequestMetrics(t *testing.T) {
	m := metrics.New()
	engine := gin.New()
	engine.Use(RequestMetrics(m))
	engine.GET("/vagas/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	doGet(engine, "/vagas/1", nil)
	doGet(engine, "/vagas/2", nil)
	doGet(engine, "/nada", nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues(http.MethodGet, "/vagas/:id", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues(http.MethodGet, "unmatched", "404")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.HTTPRequestDuration))
}
