package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"vcePortalApi/internal/attendance"
	"vcePortalApi/internal/logging"
	"vcePortalApi/internal/portal"
)

// @Summary Projects one attendance category against a target percentage
// @Tags Attendance
// @Accept json
// @Produce json
// @Param body body ProjectionRequest true "Category counts and target"
// @Success 200 {object} ProjectionResponse
// @Failure 400 {object} ErrorResponse
// @Router /attendance/projection [post]
func (s *Server) handleProjection(c *gin.Context) {
	var req ProjectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid JSON: "+err.Error(), err)
		return
	}

	rec := attendance.Record{
		TotalClasses: req.TotalClasses,
		Presentees:   req.Presentees,
		ExtraClasses: req.ExtraClasses,
	}
	target := clampedTarget(req.Target)
	res := attendance.Project(rec, req.Category, target)
	logging.FromContext(c, s.log).WithFields(logrus.Fields{
		logging.FieldCategory: req.Category,
		"mode":                res.Mode,
	}).Debug("projected category")

	resp := ProjectionResponse{
		Result:         res,
		Target:         target,
		CurrentPercent: attendance.FormatPercent(rec.CurrentPercent()),
		Standing:       attendance.StandingFor(rec.CurrentPercent()),
	}
	if target != nil {
		resp.Message = res.Describe(*target)
	} else {
		resp.Message = res.Describe(0)
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Projects every attendance category of the student's dashboard
// @Tags Attendance
// @Accept json
// @Produce json
// @Param body body ProjectionsRequest true "Session id and target"
// @Success 200 {object} ProjectionsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /attendance/projections [post]
// @Security BearerAuth
func (s *Server) handleProjections(c *gin.Context) {
	var req ProjectionsRequest
	id, ok := bindSession(c, &req, &req.SessionID)
	if !ok {
		return
	}
	log := logging.FromContext(c, s.log)

	payload, newID, _, err := s.loadDashboard(c.Request.Context(), log, id)
	if err != nil {
		s.failDashboard(c, err)
		return
	}

	var d portal.Dashboard
	if err := json.Unmarshal(payload, &d); err != nil {
		log.WithError(err).Error("cached dashboard is unreadable")
		fail(c, http.StatusInternalServerError, "Failed to read dashboard", fmt.Errorf("decoding dashboard: %w", err))
		return
	}

	target := clampedTarget(req.Target)
	projections := attendance.ProjectAll(d.TotalAttendance, target)
	log.WithField(logging.FieldCount, len(projections)).Debug("projected categories")

	c.JSON(http.StatusOK, ProjectionsResponse{
		Target:      target,
		Projections: projections,
		Subjects:    d.Subjects.Subjects(),
		SessionID:   newID,
	})
}
