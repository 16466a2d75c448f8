package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	auditdomain "github.com/mokaihq/essential-eight/internal/audit/domain"
	"gorm.io/datatypes"
)

type appendAuditLogRequest struct {
	OrganizationID string            `json:"organization_id"`
	Action         string            `json:"action"`
	Details        datatypes.JSONMap `json:"details"`
}

func (s *Server) ListAuditLogs(c *gin.Context) {
	orgID, err := requireOrgIDQuery(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	limit, err := parseOptionalInt(c.Query("limit"))
	if err != nil {
		AbortWithError(c, newValidationError("limit", "invalid_limit", "invalid value"))
		return
	}

	req := auditdomain.ListRequest{OrgID: orgID}
	if limit != nil {
		req.Limit = *limit
	}

	items, err := s.auditSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": items})
}

func (s *Server) AppendAuditLog(c *gin.Context) {
	var req appendAuditLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	orgID, err := parseRequiredSnowflakeID(req.OrganizationID, "organization_id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.auditSvc.Append(c.Request.Context(), auditdomain.AppendRequest{
		OrgID:   orgID,
		Action:  strings.TrimSpace(req.Action),
		Details: req.Details,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}
