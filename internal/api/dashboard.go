package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"vcePortalApi/internal/logging"
	"vcePortalApi/internal/portal"
	"vcePortalApi/internal/store"
)

// @Summary Returns the student's dashboard
// @Description Served from the cache when a recent copy exists, scraped from the ERP otherwise.
// @Tags Portal
// @Accept json
// @Produce json
// @Param body body SessionRequest false "Session id, or send it as a Bearer token"
// @Success 200 {object} DashboardResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /dashboard [post]
// @Security BearerAuth
func (s *Server) handleDashboard(c *gin.Context) {
	var req SessionRequest
	id, ok := bindSession(c, &req, &req.SessionID)
	if !ok {
		return
	}

	payload, newID, cached, err := s.loadDashboard(c.Request.Context(), logging.FromContext(c, s.log), id)
	if err != nil {
		s.failDashboard(c, err)
		return
	}

	c.JSON(http.StatusOK, DashboardResponse{DashboardData: payload, SessionID: newID, Cached: cached})
}

// loadDashboard returns the dashboard document for a session, scraping the
// ERP on a cache miss. The session id returned is the one to use next.
func (s *Server) loadDashboard(ctx context.Context, log logrus.FieldLogger, sessionID string) ([]byte, string, bool, error) {
	payload, err := s.cache.Dashboard(sessionID, s.opts.DashboardTTL)
	if err == nil {
		return payload, sessionID, true, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		log.WithError(err).Warn("dashboard cache unavailable")
	}

	d, newID, err := s.portal.Dashboard(ctx, sessionID)
	if err != nil {
		return nil, sessionID, false, err
	}
	payload, err = json.Marshal(d)
	if err != nil {
		return nil, sessionID, false, fmt.Errorf("error encoding dashboard: %w", err)
	}

	// a rotated session id supersedes the old one, which must not keep
	// serving the cached dashboard after logout
	if newID == "" {
		newID = sessionID
	}
	if newID != sessionID {
		if err := s.cache.DeleteDashboard(sessionID); err != nil {
			log.WithError(err).Warn("failed to drop superseded dashboard")
		}
	}
	if err := s.cache.SaveDashboard(newID, payload); err != nil {
		log.WithError(err).Warn("failed to cache dashboard")
	}
	return payload, newID, false, nil
}

func (s *Server) failDashboard(c *gin.Context, err error) {
	if errors.Is(err, portal.ErrSessionExpired) {
		fail(c, http.StatusUnauthorized, "Session expired or invalid", err)
		return
	}
	logging.FromContext(c, s.log).WithError(err).Error("failed to load dashboard")
	fail(c, http.StatusBadGateway, "Failed to fetch data from the college portal. Try again later.", err)
}

// @Summary Logs out of the ERP and drops the cached dashboard
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body SessionRequest false "Session id, or send it as a Bearer token"
// @Success 200 {object} LogoutResponse
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /logout [post]
// @Security BearerAuth
func (s *Server) handleLogout(c *gin.Context) {
	var req SessionRequest
	id, ok := bindSession(c, &req, &req.SessionID)
	if !ok {
		return
	}
	log := logging.FromContext(c, s.log)

	if err := s.cache.DeleteDashboard(id); err != nil {
		log.WithError(err).Warn("failed to drop cached dashboard")
	}

	// an already expired session counts as logged out
	if err := s.portal.Logout(c.Request.Context(), id); err != nil && !errors.Is(err, portal.ErrSessionExpired) {
		log.WithError(err).Error("logout request failed")
		fail(c, http.StatusBadGateway, "Failed to reach the college portal. Try again later.", err)
		return
	}

	c.JSON(http.StatusOK, LogoutResponse{Success: true, Message: "Logged out"})
}

// @Summary Returns a subject's syllabus
// @Tags Portal
// @Produce json
// @Param subject_code query string true "Subject code"
// @Param semester query string true "Semester"
// @Param dept query string false "Department"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /get_syllabus [get]
func (s *Server) handleSyllabus(c *gin.Context) {
	var req SyllabusRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		fail(c, http.StatusBadRequest, "subject_code and semester are required", err)
		return
	}

	doc, err := s.portal.Syllabus(c.Request.Context(), portal.SyllabusQuery{
		SubjectCode: req.SubjectCode,
		Semester:    req.Semester,
		Dept:        req.Dept,
	})
	if err != nil {
		switch {
		case errors.Is(err, portal.ErrSyllabusNotFound):
			fail(c, http.StatusNotFound, "Syllabus not found", err)
		case errors.Is(err, portal.ErrNotConfigured):
			fail(c, http.StatusNotFound, "No syllabus source is configured", err)
		default:
			logging.FromContext(c, s.log).WithError(err).Error("failed to fetch syllabus")
			fail(c, http.StatusBadGateway, "Failed to fetch syllabus", err)
		}
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", doc)
}

// @Summary Returns the academic calendar document
// @Tags Portal
// @Produce application/pdf
// @Success 200 {file} file
// @Failure 404 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /calendar [get]
func (s *Server) handleCalendar(c *gin.Context) {
	f, err := s.portal.Calendar(c.Request.Context())
	if err != nil {
		if errors.Is(err, portal.ErrNotConfigured) {
			fail(c, http.StatusNotFound, "No academic calendar is published", err)
			return
		}
		logging.FromContext(c, s.log).WithError(err).Error("failed to fetch calendar")
		fail(c, http.StatusBadGateway, "Failed to fetch the academic calendar", err)
		return
	}

	c.Header("Content-Disposition", "inline; filename=academic-calendar.pdf")
	c.Data(http.StatusOK, f.ContentType, f.Body)
}

// bindSession decodes an optional JSON body into req and returns the session
// id from the body field, falling back to the bearer token.
func bindSession(c *gin.Context, req any, field *string) (string, bool) {
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(req); err != nil && !errors.Is(err, io.EOF) {
			fail(c, http.StatusBadRequest, "Invalid JSON: "+err.Error(), err)
			return "", false
		}
	}
	id := *field
	if id == "" {
		id = c.GetString(sessionKey)
	}
	if id == "" {
		fail(c, http.StatusBadRequest, "session_id is required", nil)
		return "", false
	}
	return id, true
}
