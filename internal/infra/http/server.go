package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/drseanwing/trolleys/internal/config"
	"github.com/drseanwing/trolleys/internal/usecase"
)

type Server struct {
	cfg    config.Config
	r      *gin.Engine
	logger *zap.Logger

	audits     usecase.AuditRepository
	issues     usecase.IssueRepository
	workflow   *usecase.IssueWorkflow
	submission *usecase.AuditSubmission
	selector   *usecase.RandomAuditSelector
}

type ServerDeps struct {
	Audits     usecase.AuditRepository
	Issues     usecase.IssueRepository
	Workflow   *usecase.IssueWorkflow
	Submission *usecase.AuditSubmission
	Selector   *usecase.RandomAuditSelector
}

func NewServer(cfg config.Config, deps ServerDeps, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(logger))

	s := &Server{
		cfg:        cfg,
		r:          r,
		logger:     logger,
		audits:     deps.Audits,
		issues:     deps.Issues,
		workflow:   deps.Workflow,
		submission: deps.Submission,
		selector:   deps.Selector,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := s.r.Group("/v1")
	{
		v1.POST("/audits/:audit_id/submit", s.handleSubmitAudit)
		v1.GET("/audits/:audit_id/scores", s.handleAuditScores)

		v1.POST("/issues", s.handleCreateIssue)
		v1.GET("/issues/:issue_id", s.handleGetIssue)
		v1.GET("/issues/:issue_id/comments", s.handleListComments)
		v1.POST("/issues/:issue_id/transition", s.handleTransition)
		v1.POST("/issues/:issue_id/assign", s.handleAssign)
		v1.POST("/issues/:issue_id/start", s.handleStartWork)
		v1.POST("/issues/:issue_id/submit-verification", s.handleSubmitVerification)
		v1.POST("/issues/:issue_id/verify", s.handleVerify)
		v1.POST("/issues/:issue_id/reject", s.handleReject)
		v1.POST("/issues/:issue_id/close", s.handleClose)
		v1.POST("/issues/:issue_id/reopen", s.handleReopen)
		v1.POST("/issues/:issue_id/escalate", s.handleEscalate)

		v1.POST("/selections", s.handleGenerateSelection)
		v1.GET("/selections/active", s.handleActiveSelection)
	}

	s.r.NoRoute(func(c *gin.Context) {
		writeErrorCode(c, http.StatusNotFound, "NOT_FOUND", "route not found")
	})
}

func (s *Server) Run() error {
	return s.r.Run(s.cfg.HTTPAddr)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.r
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}
