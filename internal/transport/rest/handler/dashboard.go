package handler

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"hurdl/internal/model"
	"hurdl/internal/service"
)

const dateLayout = "2006-01-02"

var errBadRange = errors.New("start must not be after end")

// DashboardHandler handles the HR dashboard endpoints
type DashboardHandler struct {
	dashboardSvc *service.DashboardService
	exportSvc    *service.ExportService
	logger       *zap.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardSvc *service.DashboardService, exportSvc *service.ExportService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboardSvc: dashboardSvc,
		exportSvc:    exportSvc,
		logger:       logger,
	}
}

// Get handles GET /v1/dashboard
func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	q, err := ParseDashboardQuery(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	d, err := h.dashboardSvc.Build(r.Context(), q)
	if err != nil {
		h.logger.Error("failed to build dashboard", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to build dashboard")
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// Export handles GET /v1/dashboard/export.xlsx
func (h *DashboardHandler) Export(w http.ResponseWriter, r *http.Request) {
	q, err := ParseDashboardQuery(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	data, err := h.exportSvc.Export(r.Context(), q)
	if err != nil {
		h.logger.Error("failed to export dashboard", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to export dashboard")
		return
	}

	filename := "hurdl-responses-" + time.Now().UTC().Format("20060102") + ".xlsx"
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// ParseDashboardQuery reads start, end, department and location. Dates are
// whole days in UTC; end covers its full day.
func ParseDashboardQuery(values url.Values) (model.DashboardQuery, error) {
	q := model.DashboardQuery{
		Department: values.Get("department"),
		Location:   values.Get("location"),
	}
	if s := values.Get("start"); s != "" {
		t, err := time.Parse(dateLayout, s)
		if err != nil {
			return q, errors.New("invalid start date, expected YYYY-MM-DD")
		}
		q.Start = &t
	}
	if s := values.Get("end"); s != "" {
		t, err := time.Parse(dateLayout, s)
		if err != nil {
			return q, errors.New("invalid end date, expected YYYY-MM-DD")
		}
		end := service.EndOfDay(t)
		q.End = &end
	}
	if q.Start != nil && q.End != nil && q.Start.After(*q.End) {
		return q, errBadRange
	}
	return q, nil
}
