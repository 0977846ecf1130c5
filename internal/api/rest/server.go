package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"wound-vision/config"
)

type Server struct {
	httpServer *http.Server
	log        *zap.Logger
}

// NewRouter регистрирует маршруты и middleware.
func NewRouter(cfg config.ServerConfig, analyzer Analyzer, log *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestID())
	router.Use(Logger(log))
	router.Use(CORS(cfg.AllowedOrigins))

	h := NewHandler(analyzer, cfg.MaxUploadSize, log)

	router.GET("/health", h.HealthCheck)
	router.POST("/analyze-wound", h.AnalyzeWound)
	router.POST("/analyze-wound/batch", h.AnalyzeBatch)

	return router
}

func New(cfg config.ServerConfig, analyzer Analyzer, log *zap.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	server := &Server{
		httpServer: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           NewRouter(cfg, analyzer, log),
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       60 * time.Second,
			WriteTimeout:      120 * time.Second,
			MaxHeaderBytes:    1 << 20, // 1 MB
		},
		log: log,
	}

	log.Info("Server created successfully", zap.String("address", cfg.Addr()))

	return server
}

func (s *Server) Run() error {
	s.log.Info("Server is running", zap.String("address", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("Shutting down server")
	return s.httpServer.Shutdown(ctx)
}
