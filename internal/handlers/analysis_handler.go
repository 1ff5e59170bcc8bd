package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	apierrors "github.com/stwalsh4118/ciftlik/internal/errors"
	"github.com/stwalsh4118/ciftlik/internal/middleware"
	"github.com/stwalsh4118/ciftlik/internal/report"
	"github.com/stwalsh4118/ciftlik/internal/services"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// AnalysisHandler serves irrigation cost allocations.
type AnalysisHandler struct {
	service services.AnalysisService
}

// NewAnalysisHandler creates a new AnalysisHandler instance.
func NewAnalysisHandler(service services.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{service: service}
}

// AnalysisRequest holds the query parameters of both analysis endpoints.
type AnalysisRequest struct {
	WellID string `form:"kuyu_id"`
	Start  string `form:"baslangic"`
	End    string `form:"bitis"`
}

// Analyze handles GET /api/v1/sulama-analizi.
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	res, ok := h.run(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, res)
}

// Export handles GET /api/v1/sulama-analizi/export and returns the
// analysis as an XLSX attachment.
func (h *AnalysisHandler) Export(c *gin.Context) {
	res, ok := h.run(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := report.WriteAnalysis(&buf, res); err != nil {
		apierrors.InternalServerError(c, "Rapor oluşturulamadı", err)
		return
	}

	filename := fmt.Sprintf("sulama-analizi-%s-%s-%s.xlsx",
		safeName(res.WellID), res.Start.Format("20060102"), res.End.Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (h *AnalysisHandler) run(c *gin.Context) (*services.AnalysisResult, bool) {
	var req AnalysisRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		apierrors.BindingError(c, err)
		return nil, false
	}

	q, err := services.ParseAnalysisQuery(req.WellID, req.Start, req.End)
	if err != nil {
		apierrors.Handle(c, err)
		return nil, false
	}

	if log := middleware.GetLogger(c); log != nil {
		log.Debug("Processing irrigation analysis", map[string]interface{}{
			"kuyu_id":   q.WellID,
			"baslangic": q.Start,
			"bitis":     q.End,
		})
	}

	res, err := h.service.Analyze(c.Request.Context(), q)
	if err != nil {
		apierrors.Handle(c, err)
		return nil, false
	}
	return res, true
}

// safeName keeps only characters that are safe in a download file name.
func safeName(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			return r
		default:
			return -1
		}
	}, s)
}
