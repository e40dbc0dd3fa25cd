package api

import (
	"encoding/json"

	"vcePortalApi/internal/attendance"
)

type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type CaptchaResponse struct {
	LoginID string `json:"login_id"`
	Captcha string `json:"captcha"`
}

type LoginRequest struct {
	LoginID  string `json:"login_id" binding:"required"`
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Captcha  string `json:"captcha" binding:"required"`
}

type LoginResponse struct {
	SessionID string `json:"session_id"`
}

type SessionRequest struct {
	SessionID string `json:"session_id"`
}

type DashboardResponse struct {
	DashboardData json.RawMessage `json:"dashboardData"`
	SessionID     string          `json:"session_id"`
	Cached        bool            `json:"cached"`
}

type LogoutResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type SyllabusRequest struct {
	SubjectCode string `form:"subject_code" binding:"required"`
	Semester    string `form:"semester" binding:"required"`
	Dept        string `form:"dept"`
}

// ProjectionRequest carries one category's counts. Target is optional: a
// missing target yields the empty projection.
type ProjectionRequest struct {
	TotalClasses int      `json:"total_classes" binding:"min=0"`
	Presentees   int      `json:"presentees" binding:"min=0"`
	ExtraClasses int      `json:"extra_classes" binding:"min=0"`
	Category     string   `json:"category"`
	Target       *float64 `json:"target"`
}

type ProjectionResponse struct {
	attendance.Result
	Target         *int                `json:"target"`
	CurrentPercent string              `json:"currentPercent"`
	Standing       attendance.Standing `json:"standing"`
	Message        string              `json:"message"`
}

type ProjectionsRequest struct {
	SessionID string   `json:"session_id"`
	Target    *float64 `json:"target"`
}

type ProjectionsResponse struct {
	Target      *int                            `json:"target"`
	Projections []attendance.CategoryProjection `json:"projections"`
	Subjects    []attendance.SubjectPercent     `json:"subjects"`
	SessionID   string                          `json:"session_id"`
}

func clampedTarget(v *float64) *int {
	if v == nil {
		return nil
	}
	t := attendance.ClampTarget(*v)
	return &t
}
