package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mokaihq/essential-eight/internal/catalog"
)

func (s *Server) ListCatalogControls(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": catalog.Controls()})
}

func (s *Server) ListMaturityLevels(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": catalog.MaturityLevels()})
}
