package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sproutlens/adapters/excel"
	"sproutlens/app"
	"sproutlens/domain/core"
	"sproutlens/internal"
)

// Server exposes the belief-revision engine to the rendering layer. It does
// no domain logic of its own: every handler validates transport-level input,
// delegates to a service, and maps domain errors to HTTP status codes.
type Server struct {
	router   *gin.Engine
	registry *app.Registry
	ledger   *app.Ledger
	videos   *app.VideoWorkflow
	audit    *app.AuditTrail
	reports  *excel.ReportWriter
	log      *internal.Logger
}

// NewServer creates the HTTP server around the engine services
func NewServer(registry *app.Registry, ledger *app.Ledger, videos *app.VideoWorkflow, audit *app.AuditTrail, log *internal.Logger) *Server {
	if log == nil {
		log = internal.DefaultLogger
	}
	s := &Server{
		router:   gin.Default(),
		registry: registry,
		ledger:   ledger,
		videos:   videos,
		audit:    audit,
		reports:  excel.NewReportWriter(),
		log:      log,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	api := s.router.Group("/api")

	children := api.Group("/children/:childID")
	children.POST("/hypotheses", s.createHypothesis)
	children.GET("/hypotheses", s.listHypotheses)
	children.GET("/hypotheses/:focus", s.getHypothesis)
	children.POST("/hypotheses/:focus/evidence", s.addEvidence)
	children.POST("/hypotheses/:focus/certainty", s.adjustCertainty)
	children.POST("/hypotheses/:focus/terminal", s.markTerminal)
	children.GET("/hypotheses/:focus/timeline", s.getTimeline)
	children.GET("/summary", s.getSummary)
	children.POST("/videos", s.requestVideo)
	children.GET("/videos", s.listVideos)
	children.POST("/videos/analyze-all", s.analyzeAllPending)
	children.POST("/corrections", s.createCorrection)
	children.POST("/missed-signals", s.recordMissedSignal)
	children.GET("/missed-signals/aggregate", s.aggregateMissedSignals)

	videos := api.Group("/videos/:artifactID")
	videos.GET("", s.getVideo)
	videos.POST("/upload", s.uploadVideo)
	videos.POST("/analyze", s.analyzeVideo)
	videos.GET("/guidance", s.getGuidance)

	api.GET("/corrections/aggregate", s.aggregateCorrections)
	api.GET("/corrections/report.xlsx", s.correctionReport)

	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// Start runs the server on the given port
func (s *Server) Start(port string) error {
	s.log.Info("starting sproutlens API on :%s", port)
	return s.router.Run(":" + port)
}

// Router returns the underlying gin engine (exposed for tests)
func (s *Server) Router() *gin.Engine {
	return s.router
}

// respondError maps domain errors onto HTTP status codes
func (s *Server) respondError(c *gin.Context, err error) {
	switch {
	case core.IsValidationError(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case core.IsNotFoundError(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case core.IsConflictError(err):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case core.IsTransportError(err):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		s.log.Error("internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
