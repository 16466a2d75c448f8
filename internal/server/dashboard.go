package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) GetDashboard(c *gin.Context) {
	orgID, err := requireOrgIDQuery(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.complianceSvc.GetDashboard(c.Request.Context(), orgID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
