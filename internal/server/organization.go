package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	compliancedomain "github.com/mokaihq/essential-eight/internal/compliance/domain"
)

type createOrganizationRequest struct {
	Name string `json:"name"`
	ABN  string `json:"abn"`
}

func (s *Server) CreateOrganization(c *gin.Context) {
	var req createOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.complianceSvc.CreateOrganization(c.Request.Context(), compliancedomain.CreateOrganizationRequest{
		Name: strings.TrimSpace(req.Name),
		ABN:  strings.TrimSpace(req.ABN),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (s *Server) ListOrganizations(c *gin.Context) {
	items, err := s.complianceSvc.ListOrganizations(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": items})
}
