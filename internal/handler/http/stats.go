package http

import (
	"fmt"
	"net/http"

	"github.com/cmlabs-hris/hris-analytics/internal/domain/stats"
	"github.com/cmlabs-hris/hris-analytics/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-analytics/internal/pkg/spreadsheet"
)

type StatsHandler interface {
	// Get returns the dashboard report for the caller's scope
	Get(w http.ResponseWriter, r *http.Request)
	// Export returns the attendance chart of the same report as an xlsx workbook
	Export(w http.ResponseWriter, r *http.Request)
}

type statsHandlerImpl struct {
	statsService stats.StatsService
}

func NewStatsHandler(statsService stats.StatsService) StatsHandler {
	return &statsHandlerImpl{statsService: statsService}
}

// Get handles GET /stats
func (h *statsHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	report, ok := h.report(w, r)
	if !ok {
		return
	}

	response.Success(w, report)
}

// Export handles GET /stats/export
func (h *statsHandlerImpl) Export(w http.ResponseWriter, r *http.Request) {
	report, ok := h.report(w, r)
	if !ok {
		return
	}

	buf, err := spreadsheet.GenerateAttendanceWorkbook(report)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	filename := fmt.Sprintf("attendance-%s.xlsx", report.Range)
	response.File(w, spreadsheet.ContentType, filename, buf)
}

func (h *statsHandlerImpl) report(w http.ResponseWriter, r *http.Request) (*stats.Report, bool) {
	query := stats.StatsQuery{Range: r.URL.Query().Get("range")}
	if err := query.Validate(); err != nil {
		response.HandleError(w, err)
		return nil, false
	}

	report, err := h.statsService.GetStats(r.Context(), query.Range)
	if err != nil {
		response.HandleError(w, err)
		return nil, false
	}
	return report, true
}
