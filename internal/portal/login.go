package portal

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const (
	fieldUsername = "txtUserName"
	fieldPassword = "txtPassword"
	fieldCaptcha  = "txtCaptcha"
	fieldSubmit   = "btnLogin"

	loginFormSelector = "form:has(input[name='" + fieldUsername + "'])"
	captchaSelector   = "img#imgCaptcha"
	loginErrSelector  = "#lblError"
)

// StartLogin loads the login page and its captcha.
func (c *Client) StartLogin(ctx context.Context) (*Challenge, error) {
	loginURL := c.resolve(c.cfg.LoginPath)
	p, err := c.doPortalRequest(ctx, http.MethodGet, loginURL, "", "", nil)
	if err != nil {
		return nil, fmt.Errorf("error loading login page: %w", err)
	}

	form := p.doc.Find(loginFormSelector).First()
	if form.Length() == 0 {
		return nil, fmt.Errorf("login form not found on %s", loginURL)
	}

	action := p.url.String()
	if raw, ok := form.Attr("action"); ok && raw != "" {
		ref, err := p.url.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid login form action %q: %w", raw, err)
		}
		action = ref.String()
	}

	src, ok := p.doc.Find(captchaSelector).Attr("src")
	if !ok || src == "" {
		return nil, fmt.Errorf("captcha image not found on %s", loginURL)
	}
	captchaURL, err := p.url.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("invalid captcha src %q: %w", src, err)
	}

	img, err := c.fetch(ctx, http.MethodGet, captchaURL.String(), p.cookie, loginURL, nil)
	if err != nil {
		return nil, fmt.Errorf("error loading captcha: %w", err)
	}
	if img.status != http.StatusOK || len(img.body) == 0 {
		return nil, fmt.Errorf("unexpected status %d loading captcha", img.status)
	}
	contentType := img.contentType
	if contentType == "" || strings.HasPrefix(contentType, "application/octet-stream") {
		contentType = http.DetectContentType(img.body)
	}

	return &Challenge{
		Cookie:      img.cookie,
		Action:      action,
		Fields:      hiddenFields(form),
		Captcha:     img.body,
		CaptchaType: contentType,
	}, nil
}

// Login submits the login form of a challenge and returns the session cookie
// of the authenticated student.
func (c *Client) Login(ctx context.Context, ch *Challenge, creds Credentials) (string, error) {
	payload := url.Values{}
	for name, value := range ch.Fields {
		payload.Set(name, value)
	}
	payload.Set(fieldUsername, creds.Username)
	payload.Set(fieldPassword, creds.Password)
	payload.Set(fieldCaptcha, creds.Captcha)
	payload.Set(fieldSubmit, "Login")

	p, err := c.doPortalRequest(ctx, http.MethodPost, ch.Action, ch.Cookie, ch.Action, payload)
	if err != nil {
		return "", fmt.Errorf("error submitting login: %w", err)
	}

	msg := strings.ToLower(strings.TrimSpace(p.doc.Find(loginErrSelector).Text()))
	switch {
	case strings.Contains(msg, "captcha"):
		return "", ErrInvalidCaptcha
	case msg != "", hasLoginForm(p.doc):
		return "", ErrInvalidCredentials
	}

	c.log.WithField("username", creds.Username).Info("portal login succeeded")
	return p.cookie, nil
}

// Logout ends the ERP session.
func (c *Client) Logout(ctx context.Context, sessionID string) error {
	resp, err := c.fetch(ctx, http.MethodGet, c.resolve(c.cfg.LogoutPath), sessionID, "", nil)
	if err != nil {
		return fmt.Errorf("error logging out: %w", err)
	}
	if resp.status >= http.StatusBadRequest {
		return fmt.Errorf("unexpected status %d logging out", resp.status)
	}
	return nil
}
