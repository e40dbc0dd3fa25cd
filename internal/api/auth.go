package api

import (
	"encoding/base64"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"vcePortalApi/internal/logging"
	"vcePortalApi/internal/portal"
	"vcePortalApi/internal/store"
)

// @Summary Starts a login and returns the ERP captcha
// @Tags Auth
// @Produce json
// @Success 200 {object} CaptchaResponse
// @Failure 502 {object} ErrorResponse
// @Router /captcha [get]
func (s *Server) handleCaptcha(c *gin.Context) {
	log := logging.FromContext(c, s.log)

	ch, err := s.portal.StartLogin(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("failed to load login page")
		fail(c, http.StatusBadGateway, "Failed to reach the college portal. Try again later.", err)
		return
	}

	attempt := store.LoginAttempt{
		ID:     uuid.NewString(),
		Cookie: ch.Cookie,
		Action: ch.Action,
		Fields: ch.Fields,
	}
	if err := s.cache.SaveLoginAttempt(attempt); err != nil {
		log.WithError(err).Error("failed to save login attempt")
		fail(c, http.StatusInternalServerError, "Failed to start login.", err)
		return
	}

	c.JSON(http.StatusOK, CaptchaResponse{
		LoginID: attempt.ID,
		Captcha: "data:" + ch.CaptchaType + ";base64," + base64.StdEncoding.EncodeToString(ch.Captcha),
	})
}

// @Summary Logs into the ERP with the solved captcha
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Login id from /captcha, credentials and captcha text"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 410 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /login [post]
func (s *Server) handleLogin(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid JSON: "+err.Error(), err)
		return
	}
	log := logging.FromContext(c, s.log).WithField("login_id", req.LoginID)

	attempt, err := s.cache.TakeLoginAttempt(req.LoginID, s.opts.LoginTTL)
	switch {
	case errors.Is(err, store.ErrNotFound):
		fail(c, http.StatusGone, "Captcha expired. Request a new one.", err)
		return
	case err != nil:
		log.WithError(err).Error("failed to load login attempt")
		fail(c, http.StatusInternalServerError, "Failed to load login attempt.", err)
		return
	}

	ch := &portal.Challenge{Cookie: attempt.Cookie, Action: attempt.Action, Fields: attempt.Fields}
	creds := portal.Credentials{Username: req.Username, Password: req.Password, Captcha: req.Captcha}

	log.Info("logging into the portal")
	sessionID, err := s.portal.Login(c.Request.Context(), ch, creds)
	if err != nil {
		switch {
		case errors.Is(err, portal.ErrInvalidCaptcha), errors.Is(err, portal.ErrInvalidCredentials):
			fail(c, http.StatusUnauthorized, "Login failed: "+err.Error(), err)
		default:
			log.WithError(err).Error("login request failed")
			fail(c, http.StatusBadGateway, "Failed to reach the college portal. Try again later.", err)
		}
		return
	}

	c.JSON(http.StatusOK, LoginResponse{SessionID: sessionID})
}
