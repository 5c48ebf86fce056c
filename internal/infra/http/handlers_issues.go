package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/drseanwing/trolleys/internal/domain"
)

type createIssueRequest struct {
	LocationID  string `json:"location_id"`
	AuditID     string `json:"audit_id"`
	Category    string `json:"category"`
	Severity    string `json:"severity" binding:"required"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	ReportedBy  string `json:"reported_by" binding:"required"`
}

func (s *Server) handleCreateIssue(c *gin.Context) {
	var req createIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_ARGUMENT", err.Error())
		return
	}
	severity := domain.IssueSeverity(req.Severity)
	switch severity {
	case domain.SeverityCritical, domain.SeverityHigh, domain.SeverityMedium, domain.SeverityLow:
	default:
		writeErrorCode(c, http.StatusBadRequest, "INVALID_ARGUMENT", "unknown severity")
		return
	}

	issue := &domain.Issue{
		LocationID:  req.LocationID,
		AuditID:     req.AuditID,
		Category:    req.Category,
		Severity:    severity,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		ReportedBy:  req.ReportedBy,
	}
	if err := s.workflow.Report(c.Request.Context(), issue); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, s.issueResponse(issue))
}

func (s *Server) handleGetIssue(c *gin.Context) {
	issue, err := s.issues.Get(c.Request.Context(), c.Param("issue_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.issueResponse(issue))
}

func (s *Server) handleListComments(c *gin.Context) {
	issueID := c.Param("issue_id")
	if _, err := s.issues.Get(c.Request.Context(), issueID); err != nil {
		writeError(c, err)
		return
	}
	comments, err := s.issues.ListComments(c.Request.Context(), issueID)
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]CommentResponse, 0, len(comments))
	for _, comment := range comments {
		out = append(out, CommentResponse{
			ID:        comment.ID,
			Text:      comment.Text,
			Author:    comment.Author,
			Internal:  comment.Internal,
			CreatedAt: comment.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	c.JSON(http.StatusOK, gin.H{"issue_id": issueID, "comments": out})
}

type transitionRequest struct {
	Status string `json:"status" binding:"required"`
	Actor  string `json:"actor" binding:"required"`
	Notes  string `json:"notes"`
}

func (s *Server) handleTransition(c *gin.Context) {
	var req transitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_ARGUMENT", err.Error())
		return
	}
	s.withIssue(c, func(issue *domain.Issue) error {
		return s.workflow.Transition(c.Request.Context(), issue, domain.IssueStatus(req.Status), req.Actor, req.Notes)
	})
}

type assignRequest struct {
	Assignee string `json:"assignee" binding:"required"`
	Actor    string `json:"actor" binding:"required"`
}

func (s *Server) handleAssign(c *gin.Context) {
	var req assignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_ARGUMENT", err.Error())
		return
	}
	s.withIssue(c, func(issue *domain.Issue) error {
		return s.workflow.Assign(c.Request.Context(), issue, req.Assignee, req.Actor)
	})
}

type actorRequest struct {
	Actor string `json:"actor" binding:"required"`
}

func (s *Server) handleStartWork(c *gin.Context) {
	var req actorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_ARGUMENT", err.Error())
		return
	}
	s.withIssue(c, func(issue *domain.Issue) error {
		return s.workflow.StartWork(c.Request.Context(), issue, req.Actor)
	})
}

type summaryRequest struct {
	Actor   string `json:"actor" binding:"required"`
	Summary string `json:"summary"`
}

func (s *Server) handleSubmitVerification(c *gin.Context) {
	var req summaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_ARGUMENT", err.Error())
		return
	}
	s.withIssue(c, func(issue *domain.Issue) error {
		return s.workflow.SubmitForVerification(c.Request.Context(), issue, req.Actor, req.Summary)
	})
}

type verifyRequest struct {
	Verifier string `json:"verifier" binding:"required"`
}

func (s *Server) handleVerify(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_ARGUMENT", err.Error())
		return
	}
	s.withIssue(c, func(issue *domain.Issue) error {
		return s.workflow.VerifyAndResolve(c.Request.Context(), issue, req.Verifier)
	})
}

type reasonRequest struct {
	Actor  string `json:"actor" binding:"required"`
	Reason string `json:"reason" binding:"required"`
}

func (s *Server) handleReject(c *gin.Context) {
	var req reasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_ARGUMENT", err.Error())
		return
	}
	s.withIssue(c, func(issue *domain.Issue) error {
		return s.workflow.RejectVerification(c.Request.Context(), issue, req.Actor, req.Reason)
	})
}

func (s *Server) handleClose(c *gin.Context) {
	var req actorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_ARGUMENT", err.Error())
		return
	}
	s.withIssue(c, func(issue *domain.Issue) error {
		return s.workflow.Close(c.Request.Context(), issue, req.Actor)
	})
}

func (s *Server) handleReopen(c *gin.Context) {
	var req reasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_ARGUMENT", err.Error())
		return
	}
	s.withIssue(c, func(issue *domain.Issue) error {
		return s.workflow.Reopen(c.Request.Context(), issue, req.Actor, req.Reason)
	})
}

func (s *Server) handleEscalate(c *gin.Context) {
	var req reasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_ARGUMENT", err.Error())
		return
	}
	s.withIssue(c, func(issue *domain.Issue) error {
		return s.workflow.Escalate(c.Request.Context(), issue, req.Actor, req.Reason)
	})
}

// withIssue loads the issue, runs the workflow action against it and
// returns the updated issue on success.
func (s *Server) withIssue(c *gin.Context, action func(*domain.Issue) error) {
	issue, err := s.issues.Get(c.Request.Context(), c.Param("issue_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	if err := action(issue); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.issueResponse(issue))
}

func (s *Server) issueResponse(issue *domain.Issue) IssueResponse {
	return issueResponse(issue, s.workflow.IsSLABreached(issue), s.workflow.AvailableTransitions(issue))
}
