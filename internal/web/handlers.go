package web

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/faizmokh/logsheet/internal/api"
	"github.com/faizmokh/logsheet/internal/hos"
	"github.com/faizmokh/logsheet/internal/planner"
	"github.com/faizmokh/logsheet/internal/session"
	"github.com/faizmokh/logsheet/internal/version"
)

type tripForm struct {
	Current    string  `form:"current_location"`
	Pickup     string  `form:"pickup_location"`
	Dropoff    string  `form:"dropoff_location"`
	CycleHours float64 `form:"current_cycle_hours"`
}

type sheetResponse struct {
	TripID string `json:"trip"`
	hos.Sheet
	SkippedCount int `json:"skipped"`
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": version.Info(),
	})
}

func (s *Server) listTrips(c *gin.Context) {
	trips, err := s.backend.ListTrips(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.HTML(http.StatusOK, "trips.html", gin.H{
		"Title": "Trips",
		"Trips": trips,
	})
}

func (s *Server) newTripForm(c *gin.Context) {
	c.HTML(http.StatusOK, "new.html", gin.H{
		"Title": "New trip",
		"Form":  tripForm{},
		"Max":   planner.MaxCycleHours,
	})
}

func (s *Server) createTrip(c *gin.Context) {
	var form tripForm
	if err := c.ShouldBind(&form); err != nil {
		s.renderForm(c, http.StatusBadRequest, form, fmt.Errorf("read form: %w", err))
		return
	}

	trip, err := s.planner.Plan(c.Request.Context(), planner.Request{
		Current:    form.Current,
		Pickup:     form.Pickup,
		Dropoff:    form.Dropoff,
		CycleHours: form.CycleHours,
	})
	if err != nil {
		s.renderForm(c, statusFor(err), form, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/trips/"+trip.ID.String())
}

func (s *Server) renderForm(c *gin.Context, status int, form tripForm, err error) {
	s.logger.Warn("trip form rejected", "error", err)
	c.HTML(status, "new.html", gin.H{
		"Title": "New trip",
		"Form":  form,
		"Max":   planner.MaxCycleHours,
		"Error": err.Error(),
	})
}

func (s *Server) showTrip(c *gin.Context) {
	id := c.Param("id")
	snapshot, err := session.Load(c.Request.Context(), s.backend, id)
	if err != nil {
		s.fail(c, err)
		return
	}

	validation, err := s.backend.ValidateTrip(c.Request.Context(), id)
	var validationError string
	if err != nil {
		s.logger.Warn("validate trip", "trip", id, "error", err)
		validationError = err.Error()
	}

	c.HTML(http.StatusOK, "trip.html", gin.H{
		"Title":           snapshot.Trip.Title(),
		"Session":         snapshot,
		"Validation":      validation,
		"ValidationError": validationError,
		"Sheet":           snapshot.Sheet(""),
	})
}

func (s *Server) showLogs(c *gin.Context) {
	id := c.Param("id")
	snapshot, err := session.Load(c.Request.Context(), s.backend, id)
	if err != nil {
		s.fail(c, err)
		return
	}

	sheet := snapshot.Sheet(c.Query("date"))
	s.logSkipped(id, sheet)
	c.HTML(http.StatusOK, "logs.html", gin.H{
		"Title":       fmt.Sprintf("Daily log %s", sheet.Date),
		"Session":     snapshot,
		"Sheet":       sheet,
		"Statuses":    hos.Statuses,
		"GraphHeight": hos.HeaderHeight + len(hos.Statuses)*hos.RowHeight,
	})
}

func (s *Server) generateLogs(c *gin.Context) {
	id := c.Param("id")
	if !s.begin(id) {
		s.respondError(c, http.StatusConflict, fmt.Errorf("log generation for trip %s is already running", id))
		return
	}
	defer s.end(id)

	result, err := s.backend.GenerateLogs(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.logger.Info("logs generated", "trip", id, "entries", len(result.Logs))

	if wantsJSON(c) {
		c.JSON(http.StatusOK, gin.H{"message": result.Message, "entries": len(result.Logs)})
		return
	}
	c.Redirect(http.StatusSeeOther, "/trips/"+id+"/logs")
}

func (s *Server) calculateRoute(c *gin.Context) {
	id := c.Param("id")
	result, err := s.backend.CalculateRoute(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.logger.Info("route calculated", "trip", id, "miles", result.RouteData.Miles(), "hours", result.RouteData.Hours())

	if wantsJSON(c) {
		c.JSON(http.StatusOK, result)
		return
	}
	c.Redirect(http.StatusSeeOther, "/trips/"+id)
}

func (s *Server) sheetJSON(c *gin.Context) {
	id := c.Param("id")
	logs, err := s.backend.ListLogEntries(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, statusFor(err), err)
		return
	}
	sheet := hos.BuildSheet(logs, c.Query("date"))
	s.logSkipped(id, sheet)
	c.JSON(http.StatusOK, sheetResponse{TripID: id, Sheet: sheet, SkippedCount: len(sheet.Skipped)})
}

func (s *Server) logSkipped(tripID string, sheet hos.Sheet) {
	for _, skipped := range sheet.Skipped {
		s.logger.Warn("entry not drawn", "trip", tripID, "date", sheet.Date, "index", skipped.Index, "reason", skipped.Err)
	}
}

func (s *Server) fail(c *gin.Context, err error) {
	s.respondError(c, statusFor(err), err)
}

func (s *Server) respondError(c *gin.Context, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", c.Request.URL.Path, "status", status, "error", err)
	}
	if wantsJSON(c) || strings.HasPrefix(c.FullPath(), "/api/") {
		c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
		return
	}
	c.HTML(status, "error.html", gin.H{
		"Title":   http.StatusText(status),
		"Status":  status,
		"Message": err.Error(),
	})
	c.Abort()
}

// statusFor maps domain and backend failures onto the dashboard's response code.
func statusFor(err error) int {
	var httpErr *api.HTTPError
	switch {
	case api.IsNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, planner.ErrCycleHours),
		errors.Is(err, planner.ErrMissingAddress),
		errors.Is(err, planner.ErrUnresolvedLocation):
		return http.StatusUnprocessableEntity
	case errors.As(err, &httpErr) && httpErr.StatusCode < 500:
		return httpErr.StatusCode
	default:
		return http.StatusBadGateway
	}
}

func wantsJSON(c *gin.Context) bool {
	return c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) == gin.MIMEJSON
}
