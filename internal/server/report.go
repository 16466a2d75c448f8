package server

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mokaihq/essential-eight/internal/report"
)

func (s *Server) GetExecutiveReport(c *gin.Context) {
	r, err := s.buildExecutiveReport(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, r)
}

func (s *Server) GetExecutiveReportPDF(c *gin.Context) {
	r, err := s.buildExecutiveReport(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	reader, err := s.pdfProvider.GenerateExecutiveReport(c.Request.Context(), r)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	doc, err := io.ReadAll(reader)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	filename := fmt.Sprintf("essential-eight-report-%s.pdf", r.GeneratedAt.Format("2006-01-02"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", doc)
}

func (s *Server) buildExecutiveReport(c *gin.Context) (*report.ExecutiveReport, error) {
	orgID, err := requireOrgIDQuery(c)
	if err != nil {
		return nil, err
	}

	dashboard, err := s.complianceSvc.GetDashboard(c.Request.Context(), orgID)
	if err != nil {
		return nil, err
	}

	return report.Build(dashboard, s.clock.Now()), nil
}
