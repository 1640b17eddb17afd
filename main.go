package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/jobtrack/jobtrack/handlers"
	"github.com/jobtrack/jobtrack/internal/ai"
	"github.com/jobtrack/jobtrack/internal/application"
	"github.com/jobtrack/jobtrack/internal/config"
	"github.com/jobtrack/jobtrack/internal/database"
	"github.com/jobtrack/jobtrack/internal/documents"
	"github.com/jobtrack/jobtrack/internal/importer"
	"github.com/jobtrack/jobtrack/internal/oidc"
	"github.com/jobtrack/jobtrack/internal/sessions"
	"github.com/jobtrack/jobtrack/internal/storage"
	"github.com/jobtrack/jobtrack/internal/tokens"
	"github.com/jobtrack/jobtrack/internal/users"
	"github.com/jobtrack/jobtrack/pkg/logger"
	"github.com/jobtrack/jobtrack/pkg/metrics"
	"github.com/jobtrack/jobtrack/pkg/middleware"
)

var startTime = time.Now()

func main() {
	// LOG_LEVEL: debug|info|warn|error|fatal
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: mongo=%v redis=%v ai_provider=%s", cfg.MongoDB.URI != "", cfg.Redis.Host != "", cfg.AI.Provider)

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// Lightweight CORS middleware for dev/test: set common headers and respond to OPTIONS.
	// Production deployments should put a stricter policy in front.
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Length")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(200)
			return
		}
		c.Next()
	})

	ctx := context.Background()

	// Redis early: sign-in links, session storage, blacklist, rate limiter
	var redisClient *redis.Client
	if cfg.Redis.Host != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.Redis.Host + ":" + cfg.Redis.Port, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s:%s): %v", cfg.Redis.Host, cfg.Redis.Port, err)
			redisClient = nil
		} else {
			logger.Infof("connected to Redis at %s:%s", cfg.Redis.Host, cfg.Redis.Port)
		}
	}
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && redisClient != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(redisClient, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	blacklist := sessions.NewBlacklist(redisClient)

	var linkStore sessions.LinkStore
	if redisClient != nil {
		linkStore = sessions.NewRedisLinkStore(redisClient, "signin:")
	} else {
		logger.Warn("Redis unavailable, sign-in links held in process memory")
		linkStore = sessions.NewMemoryLinkStore()
	}

	// Refresh sessions prefer Redis, fall back to Mongo below
	var sessionsSvc *sessions.Service
	if redisClient != nil {
		sessionsSvc = sessions.NewService(sessions.NewRedisRepository(redisClient, "session:"))
	}

	// MongoDB with retry to tolerate startup races
	var mongoClient *mongo.Client
	var userSvc *users.Service
	var appSvc *application.Service
	var docRepo documents.Repository
	if cfg.MongoDB.URI != "" {
		var errConn error
		mongoClient, errConn = database.ConnectMongoWithRetry(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout, 5)
		if errConn != nil {
			logger.Warnf("giving up on MongoDB: %v", errConn)
		} else {
			defer func() { _ = mongoClient.Disconnect(ctx) }()
			db := mongoClient.Database(cfg.MongoDB.Database)
			userSvc = users.NewService(users.NewMongoUserRepository(db.Collection("users")))
			appSvc = application.NewService(application.NewMongoRepository(db.Collection("applications")))
			docRepo = documents.NewMongoRepository(db.Collection("documents"))
			if sessionsSvc == nil {
				sessionsSvc = sessions.NewService(sessions.NewMongoRepository(db.Collection("sessions")))
			}
		}
	}
	if appSvc == nil {
		logger.Warn("MongoDB unavailable, applications held in process memory")
		appSvc = application.NewService(application.NewMemoryRepository())
	}
	if docRepo == nil {
		docRepo = documents.NewMemoryRepository()
	}
	if userSvc == nil {
		logger.Warn("MongoDB unavailable, users held in process memory")
		userSvc = users.NewService(users.NewMemoryUserRepository())
	}
	if sessionsSvc == nil {
		logger.Warn("neither Redis nor MongoDB available, refresh sessions held in process memory")
		sessionsSvc = sessions.NewService(sessions.NewMemoryRepository())
	}

	// Document blob storage
	var docSvc *documents.Service
	if store, err := storage.NewMinIOStorage(cfg.MinIO); err != nil {
		logger.Warnf("MinIO unavailable, document uploads disabled: %v", err)
	} else {
		docSvc = documents.NewService(docRepo, store)
	}

	// AI provider is fixed at startup
	generator, err := ai.NewGenerator(cfg.AI)
	if err != nil {
		logger.Fatalf("ai provider: %v", err)
	}
	extract := ai.NewExtractClient(cfg.AI.ExtractURL)

	parser := importer.NewParser(cfg.Importer)
	search := importer.NewSearchClient(cfg.Importer.SearchURL)

	// Token verification: OIDC bearer mode when an issuer is configured,
	// otherwise locally minted HS256 tokens.
	var verifier middleware.Verifier
	if cfg.Auth.OIDCIssuer != "" {
		ver, err := oidc.NewVerifier(ctx, cfg.Auth.OIDCIssuer, cfg.Auth.OIDCClientID)
		if err != nil {
			logger.Fatalf("failed to initialize OIDC verifier: %v", err)
		}
		verifier = ver
		logger.Infof("verifying bearer tokens against %s", cfg.Auth.OIDCIssuer)
	} else if strings.EqualFold(strings.TrimSpace(os.Getenv("ALLOW_INSECURE_TOKEN")), "true") {
		// Integration-test escape hatch: accept tokens without signature checks.
		logger.Warn("enabling insecure token verifier (integration mode)")
		verifier = oidc.NewInsecureVerifier()
	} else {
		if cfg.Auth.JWTSecret == "" {
			logger.Fatalf("JWT_SECRET is required when OIDC is not configured")
		}
		verifier = tokens.NewVerifier(cfg.Auth.JWTSecret)
	}

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	r.GET("/ready", func(c *gin.Context) {
		ready := true
		deps := map[string]bool{
			"mongo":   mongoClient != nil,
			"redis":   redisClient != nil,
			"storage": docSvc != nil,
		}
		if cfg.MongoDB.URI != "" && mongoClient == nil {
			ready = false
		}
		if !ready {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "deps": deps, "uptime": time.Since(startTime).String()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "deps": deps, "uptime": time.Since(startTime).String()})
	})

	authHandler := handlers.NewAuthHandler(cfg, userSvc, sessionsSvc, linkStore, blacklist)

	api := r.Group("/api/v1")
	authHandler.Register(api)

	authed := api.Group("/", middleware.AuthMiddleware(verifier, blacklist.Contains))
	authed.GET("/me", authHandler.Me)
	handlers.NewApplicationsHandler(appSvc).Register(authed)
	if docSvc != nil {
		handlers.NewDocumentsHandler(docSvc).Register(authed)
	}
	handlers.NewGenerateHandler(generator, extract).Register(authed)
	handlers.NewImporterHandler(parser, search).Register(authed)

	handlers.RegisterSwagger(r)

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	logger.Infof("starting jobtrack on %s", addr)
	if err := r.Run(addr); err != nil {
		logger.Fatalf("server failed: %v", err)
	}
}
