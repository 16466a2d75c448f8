package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	compliancedomain "github.com/mokaihq/essential-eight/internal/compliance/domain"
)

type updateControlRequest struct {
	OrganizationID string  `json:"organization_id"`
	ControlID      string  `json:"control_id"`
	MaturityLevel  *int    `json:"maturity_level"`
	Evidence       *string `json:"evidence"`
}

func (s *Server) ListControls(c *gin.Context) {
	orgID, err := requireOrgIDQuery(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	items, err := s.complianceSvc.ListControls(c.Request.Context(), orgID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": items})
}

func (s *Server) UpdateControl(c *gin.Context) {
	var req updateControlRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	orgID, err := parseRequiredSnowflakeID(req.OrganizationID, "organization_id")
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if req.MaturityLevel == nil {
		AbortWithError(c, newValidationError("maturity_level", "required", "maturity_level is required"))
		return
	}

	resp, err := s.complianceSvc.UpdateControlMaturity(c.Request.Context(), compliancedomain.UpdateControlRequest{
		OrgID:         orgID,
		ControlID:     strings.TrimSpace(req.ControlID),
		MaturityLevel: *req.MaturityLevel,
		Evidence:      req.Evidence,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
