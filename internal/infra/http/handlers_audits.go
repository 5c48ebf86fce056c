package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/drseanwing/trolleys/internal/domain"
)

type auditScoresResponse struct {
	AuditID        string  `json:"audit_id"`
	Status         string  `json:"status"`
	DocumentScore  *string `json:"document_score"`
	EquipmentScore *string `json:"equipment_score"`
	ConditionScore *string `json:"condition_score"`
	CheckScore     *string `json:"check_score"`
	OverallScore   *string `json:"overall_score"`
}

func (s *Server) handleSubmitAudit(c *gin.Context) {
	auditID := c.Param("audit_id")
	overall, err := s.submission.Submit(c.Request.Context(), auditID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"audit_id":      auditID,
		"status":        string(domain.AuditSubmitted),
		"overall_score": overall.StringFixed(2),
	})
}

func (s *Server) handleAuditScores(c *gin.Context) {
	audit, err := s.audits.GetAudit(c.Request.Context(), c.Param("audit_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, auditScoresResponse{
		AuditID:        audit.ID,
		Status:         string(audit.Status),
		DocumentScore:  scorePtr(audit.DocumentScore),
		EquipmentScore: scorePtr(audit.EquipmentScore),
		ConditionScore: scorePtr(audit.ConditionScore),
		CheckScore:     scorePtr(audit.CheckScore),
		OverallScore:   scorePtr(audit.OverallScore),
	})
}

func scorePtr(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.StringFixed(2)
	return &s
}
