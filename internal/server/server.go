package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	// Load env file into environments.
	_ "github.com/joho/godotenv/autoload"
	"github.com/redis/go-redis/v9"
	"golang.org/x/oauth2"

	"empregol-backend/internal/auth"
	"empregol-backend/internal/database"
	"empregol-backend/internal/metrics"
)

const defaultPort = 8080

// MyServer holds the dependencies shared by every route handler
type MyServer struct {
	DB               *database.DBinstanceStruct
	Redis            *redis.Client
	Blacklist        auth.JwtBlacklistStore
	Metrics          *metrics.Metrics
	OauthConfig      *oauth2.Config
	UserInfoEndpoint string
}

// New construct MyServer around an open database. redisClient may be nil.
func New(db *database.DBinstanceStruct, redisClient *redis.Client) *MyServer {
	return &MyServer{
		DB:               db,
		Redis:            redisClient,
		Blacklist:        auth.NewBlacklistStore(redisClient),
		Metrics:          metrics.New(),
		OauthConfig:      auth.NewGoogleOauthConfig(),
		UserInfoEndpoint: auth.GoogleUserInfoEndpoint,
	}
}

// NewServer construct new http.Server from environment configuration
func NewServer(ctx context.Context) (*http.Server, *MyServer, error) {
	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err != nil || port <= 0 {
		port = defaultPort
	}

	db, err := database.GetMainDB()
	if err != nil {
		return nil, nil, fmt.Errorf("database failed to initialize: %w", err)
	}

	redisClient, err := database.NewRedisClient(ctx, os.Getenv("REDIS_URL"))
	if err != nil {
		return nil, nil, err
	}
	if redisClient == nil {
		log.Println("REDIS_URL not set, token blacklist and rate limit are process local")
	}

	s := New(db, redisClient)

	// Declare Server config
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return server, s, nil
}

// Close release database, redis and blacklist resources
func (s *MyServer) Close() {
	if mem, ok := s.Blacklist.(*auth.InMemoryBlacklistStore); ok {
		mem.Close()
	}
	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			log.Printf("failed to close redis: %v", err)
		}
	}
	if s.DB != nil {
		if err := s.DB.Close(); err != nil {
			log.Printf("failed to close database: %v", err)
		}
	}
}
