package main

import (
	"database/sql"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	goredis "github.com/redis/go-redis/v9"

	"NutriForum/internal/api/middleware"
	"NutriForum/internal/api/routes"
	"NutriForum/internal/core/feed"
	"NutriForum/internal/core/likes"
	"NutriForum/internal/core/posts"
	dbmemory "NutriForum/internal/db/memory"
	dbpostgres "NutriForum/internal/db/postgres"
	dbredis "NutriForum/internal/db/redis"
	"NutriForum/internal/upstream/forum"
)

func main() {
	// Optional .env for local development
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded .env")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	forumURL := envOr("FORUM_API_URL", "http://localhost:9090")
	upstream, err := forum.NewHTTPClient(forumURL, os.Getenv("FORUM_API_TOKEN"))
	if err != nil {
		log.Fatal("Invalid forum API configuration: ", err)
	}

	storage := openStorage(logger)

	// The liked-status store is the durable tie-breaker for the liked flag;
	// the cache re-merges against it on every read
	likedStore := likes.NewStore(storage, os.Getenv("LIKED_STATUS_KEY"), logger)
	cache := posts.NewCache(posts.DefaultTTL, likedStore, logger)

	familyTagID := int64Env("RECIPE_FAMILY_TAG_ID", 2)
	pageSize := intEnv("FEED_PAGE_SIZE", feed.DefaultPageSize)
	projector := feed.NewProjector(cache, familyTagID, pageSize, logger)

	feedService := feed.NewService(cache, upstream, projector, logger)
	likeService := likes.NewService(cache, likedStore, upstream, logger)

	sessionSecret := envOr("SESSION_SECRET", "dev-session-secret")
	auth := middleware.NewSessionAuth(sessions.NewCookieStore([]byte(sessionSecret)), logger)

	r := chi.NewRouter()
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)

	// Rate limiting: 100 requests per minute per client
	rateLimiter := middleware.NewRateLimiter(100, 1*time.Minute)
	r.Use(rateLimiter.Middleware)

	routes.RegisterSessionRoutes(r, auth, cache, feedService, logger)
	routes.RegisterFeedRoutes(r, feedService, auth, logger)
	routes.RegisterLikeRoutes(r, likeService, auth, logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	port := envOr("PORT", "8080")
	logger.Info("NutriForum gateway starting",
		"port", port,
		"forum_api", forumURL)
	log.Fatal(http.ListenAndServe(":"+port, r))
}

// openStorage picks the durable key-value backend: Postgres when
// DATABASE_URL is set, Redis when REDIS_ADDR is set, otherwise in-memory
func openStorage(logger *slog.Logger) likes.StorageClient {
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		db, err := sql.Open("postgres", dbURL)
		if err != nil {
			log.Fatal("Failed to open database: ", err)
		}
		if err := db.Ping(); err != nil {
			log.Fatal("Failed to ping database: ", err)
		}

		if err := goose.SetDialect("postgres"); err != nil {
			log.Fatal("Failed to set goose dialect: ", err)
		}
		if err := goose.Up(db, "internal/db/migrations"); err != nil {
			log.Fatal("Failed to run migrations: ", err)
		}

		logger.Info("liked-status storage: postgres")
		return dbpostgres.NewKVStore(db)
	}

	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		client := goredis.NewClient(&goredis.Options{
			Addr:     addr,
			Password: os.Getenv("REDIS_PASSWORD"),
		})
		logger.Info("liked-status storage: redis", "addr", addr)
		return dbredis.NewKVStore(client)
	}

	logger.Warn("liked-status storage: in-memory only, decisions will not survive restarts")
	return dbmemory.NewKVStore()
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func intEnv(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("Invalid %s: %v", key, err)
	}
	return i
}

func int64Env(key string, def int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		log.Fatalf("Invalid %s: %v", key, err)
	}
	return i
}
