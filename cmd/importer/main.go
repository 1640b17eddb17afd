// Standalone importer service: exposes only the URL pre-fill heuristic and
// the job search proxy, for deployments that want to scale scraping traffic
// separately from the main API.
package main

import (
	"os"

	"github.com/gin-gonic/gin"

	"github.com/jobtrack/jobtrack/handlers"
	"github.com/jobtrack/jobtrack/internal/config"
	"github.com/jobtrack/jobtrack/internal/importer"
	"github.com/jobtrack/jobtrack/pkg/logger"
)

func main() {
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}

	port := os.Getenv("IMPORTER_SERVICE_PORT")
	if port == "" {
		port = "5010"
	}

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	h := handlers.NewImporterHandler(
		importer.NewParser(cfg.Importer),
		importer.NewSearchClient(cfg.Importer.SearchURL),
	)
	h.Register(r.Group("/api/v1"))

	logger.Infof("importer service listening on :%s", port)
	if err := r.Run(":" + port); err != nil {
		logger.Fatalf("server failed: %v", err)
	}
}
