package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vcePortalApi/internal/attendance"
	"vcePortalApi/internal/portal"
	"vcePortalApi/internal/store"
)

type fakePortal struct {
	loginErr     error
	dashboardErr error
	logoutErr    error
	syllabusErr  error
	calendarErr  error
	rotateTo     string

	dashboardCalls int
	loggedIn       *portal.Challenge
	creds          portal.Credentials
}

func (f *fakePortal) StartLogin(context.Context) (*portal.Challenge, error) {
	return &portal.Challenge{
		Cookie:      "ASP.NET_SessionId=abc",
		Action:      "https://erp.example/Login.aspx",
		Fields:      map[string]string{"__VIEWSTATE": "vs"},
		Captcha:     []byte("png"),
		CaptchaType: "image/png",
	}, nil
}

func (f *fakePortal) Login(_ context.Context, ch *portal.Challenge, creds portal.Credentials) (string, error) {
	if f.loginErr != nil {
		return "", f.loginErr
	}
	f.loggedIn, f.creds = ch, creds
	return ch.Cookie + "; .ASPXAUTH=tok", nil
}

func (f *fakePortal) Dashboard(_ context.Context, sessionID string) (*portal.Dashboard, string, error) {
	f.dashboardCalls++
	if f.dashboardErr != nil {
		return nil, sessionID, f.dashboardErr
	}
	next := sessionID
	if f.rotateTo != "" {
		next = f.rotateTo
	}
	return &portal.Dashboard{
		Student:    map[string]string{"Name": "ASHA"},
		CurrentSem: map[string]string{"Sem.": "5"},
		TotalAttendance: map[string]attendance.CategoryData{
			"Regular": {TotalClasses: 20, Presentees: 18, TotalAttendance: "90.00"},
			"ECA":     {TotalClasses: 10, Presentees: 5, ExtraClasses: 1, TotalAttendance: "60.00"},
			"Other":   {TotalClasses: 4, Presentees: 4},
		},
		Subjects: attendance.SubjectAttendance{
			Presentees:   map[string]attendance.Count{"OS": 6, "DBMS": 9},
			HeldClasses:  map[string]attendance.Count{"OS": 8, "DBMS": 10},
			ExtraClasses: map[string]attendance.Count{"DBMS": 1},
		},
	}, next, nil
}

func (f *fakePortal) Logout(context.Context, string) error { return f.logoutErr }

func (f *fakePortal) Syllabus(_ context.Context, q portal.SyllabusQuery) (json.RawMessage, error) {
	if f.syllabusErr != nil {
		return nil, f.syllabusErr
	}
	return json.RawMessage(`{"subject_code":"` + q.SubjectCode + `"}`), nil
}

func (f *fakePortal) Calendar(context.Context) (*portal.File, error) {
	if f.calendarErr != nil {
		return nil, f.calendarErr
	}
	return &portal.File{ContentType: "application/pdf", Body: []byte("%PDF")}, nil
}

type memCache struct {
	mu         sync.Mutex
	dashboards map[string][]byte
	attempts   map[string]store.LoginAttempt
}

func newMemCache() *memCache {
	return &memCache{dashboards: map[string][]byte{}, attempts: map[string]store.LoginAttempt{}}
}

func (m *memCache) SaveDashboard(id string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dashboards[id] = payload
	return nil
}

func (m *memCache) Dashboard(id string, _ time.Duration) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.dashboards[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return p, nil
}

func (m *memCache) DeleteDashboard(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.dashboards, id)
	return nil
}

func (m *memCache) SaveLoginAttempt(a store.LoginAttempt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attempts[a.ID] = a
	return nil
}

func (m *memCache) TakeLoginAttempt(id string, _ time.Duration) (store.LoginAttempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.attempts[id]
	if !ok {
		return store.LoginAttempt{}, store.ErrNotFound
	}
	delete(m.attempts, id)
	return a, nil
}

func newTestServer(p *fakePortal) (*gin.Engine, *memCache) {
	gin.SetMode(gin.TestMode)
	log := logrus.New()
	log.SetOutput(io.Discard)
	cache := newMemCache()
	srv := NewServer(p, cache, log, Options{
		AllowedOrigins: []string{"http://localhost:5173"},
		DashboardTTL:   5 * time.Minute,
		LoginTTL:       10 * time.Minute,
	})
	return srv.Router(), cache
}

func do(t *testing.T, r http.Handler, method, path string, body any, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestPing(t *testing.T) {
	r, _ := newTestServer(&fakePortal{})
	w := do(t, r, http.MethodGet, "/ping", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"pong"}`, w.Body.String())
}

func TestCaptchaAndLogin(t *testing.T) {
	p := &fakePortal{}
	r, _ := newTestServer(p)

	w := do(t, r, http.MethodGet, "/captcha", nil)
	require.Equal(t, http.StatusOK, w.Code)
	captcha := decode[CaptchaResponse](t, w)
	assert.NotEmpty(t, captcha.LoginID)
	assert.Equal(t, "data:image/png;base64,cG5n", captcha.Captcha)

	login := LoginRequest{LoginID: captcha.LoginID, Username: "1602", Password: "pw", Captcha: "X7K2"}
	w = do(t, r, http.MethodPost, "/login", login)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ASP.NET_SessionId=abc; .ASPXAUTH=tok", decode[LoginResponse](t, w).SessionID)
	assert.Equal(t, "vs", p.loggedIn.Fields["__VIEWSTATE"])
	assert.Equal(t, "X7K2", p.creds.Captcha)

	// a login id can only be used once
	w = do(t, r, http.MethodPost, "/login", login)
	assert.Equal(t, http.StatusGone, w.Code)
	assert.False(t, decode[ErrorResponse](t, w).Success)
}

func TestLoginErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"bad credentials", portal.ErrInvalidCredentials, http.StatusUnauthorized},
		{"bad captcha", portal.ErrInvalidCaptcha, http.StatusUnauthorized},
		{"upstream down", errors.New("connection refused"), http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, cache := newTestServer(&fakePortal{loginErr: tt.err})
			require.NoError(t, cache.SaveLoginAttempt(store.LoginAttempt{ID: "l1"}))

			w := do(t, r, http.MethodPost, "/login", LoginRequest{LoginID: "l1", Username: "u", Password: "p", Captcha: "c"})
			assert.Equal(t, tt.status, w.Code)
			assert.NotEmpty(t, decode[ErrorResponse](t, w).Message)
		})
	}

	r, _ := newTestServer(&fakePortal{})
	w := do(t, r, http.MethodPost, "/login", `{"username":"u"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDashboardCachesAndRotates(t *testing.T) {
	p := &fakePortal{rotateTo: "s2"}
	r, cache := newTestServer(p)

	w := do(t, r, http.MethodPost, "/dashboard", SessionRequest{SessionID: "s1"})
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[DashboardResponse](t, w)
	assert.Equal(t, "s2", resp.SessionID)
	assert.False(t, resp.Cached)
	assert.Contains(t, string(resp.DashboardData), `"Total Attendance Data"`)

	_, err := cache.Dashboard("s2", time.Minute)
	assert.NoError(t, err)
	_, err = cache.Dashboard("s1", time.Minute)
	assert.ErrorIs(t, err, store.ErrNotFound)

	w = do(t, r, http.MethodPost, "/dashboard", nil, "Authorization", "Bearer s2")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[DashboardResponse](t, w).Cached)
	assert.Equal(t, 1, p.dashboardCalls)
}

func TestLogoutAfterRotationDropsOldSession(t *testing.T) {
	p := &fakePortal{rotateTo: "new"}
	r, cache := newTestServer(p)

	w := do(t, r, http.MethodPost, "/dashboard", SessionRequest{SessionID: "old"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "new", decode[DashboardResponse](t, w).SessionID)

	w = do(t, r, http.MethodPost, "/logout", SessionRequest{SessionID: "new"})
	require.Equal(t, http.StatusOK, w.Code)

	p.dashboardErr = portal.ErrSessionExpired
	w = do(t, r, http.MethodPost, "/dashboard", SessionRequest{SessionID: "old"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, cache.dashboards)
}

func TestDashboardErrors(t *testing.T) {
	r, _ := newTestServer(&fakePortal{dashboardErr: portal.ErrSessionExpired})
	w := do(t, r, http.MethodPost, "/dashboard", SessionRequest{SessionID: "gone"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Session expired or invalid", decode[ErrorResponse](t, w).Message)

	r, _ = newTestServer(&fakePortal{dashboardErr: errors.New("timeout")})
	w = do(t, r, http.MethodPost, "/dashboard", SessionRequest{SessionID: "s1"})
	assert.Equal(t, http.StatusBadGateway, w.Code)

	w = do(t, r, http.MethodPost, "/dashboard", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogout(t *testing.T) {
	r, cache := newTestServer(&fakePortal{logoutErr: portal.ErrSessionExpired})
	require.NoError(t, cache.SaveDashboard("s1", []byte(`{}`)))

	w := do(t, r, http.MethodPost, "/logout", SessionRequest{SessionID: "s1"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"message":"Logged out"}`, w.Body.String())
	_, err := cache.Dashboard("s1", time.Minute)
	assert.ErrorIs(t, err, store.ErrNotFound)

	r, _ = newTestServer(&fakePortal{logoutErr: errors.New("reset")})
	w = do(t, r, http.MethodPost, "/logout", SessionRequest{SessionID: "s1"})
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestSyllabus(t *testing.T) {
	r, _ := newTestServer(&fakePortal{})
	w := do(t, r, http.MethodGet, "/get_syllabus?subject_code=CS301&semester=5", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"subject_code":"CS301"}`, w.Body.String())

	w = do(t, r, http.MethodGet, "/get_syllabus?subject_code=CS301", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	r, _ = newTestServer(&fakePortal{syllabusErr: portal.ErrSyllabusNotFound})
	w = do(t, r, http.MethodGet, "/get_syllabus?subject_code=X&semester=1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	r, _ = newTestServer(&fakePortal{syllabusErr: portal.ErrNotConfigured})
	w = do(t, r, http.MethodGet, "/get_syllabus?subject_code=X&semester=1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	r, _ = newTestServer(&fakePortal{syllabusErr: portal.ErrInvalidSyllabus})
	w = do(t, r, http.MethodGet, "/get_syllabus?subject_code=X&semester=1", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestCalendar(t *testing.T) {
	r, _ := newTestServer(&fakePortal{})
	w := do(t, r, http.MethodGet, "/calendar", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, "%PDF", w.Body.String())

	r, _ = newTestServer(&fakePortal{calendarErr: portal.ErrNotConfigured})
	w = do(t, r, http.MethodGet, "/calendar", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProjection(t *testing.T) {
	r, _ := newTestServer(&fakePortal{})

	tests := []struct {
		name string
		body string
		want attendance.Result
		pct  string
	}{
		{"bunk", `{"total_classes":40,"presentees":38,"extra_classes":0,"category":"Regular","target":80}`,
			attendance.Result{Mode: attendance.ModeBunk, Count: 7}, "95.00"},
		{"attend", `{"total_classes":40,"presentees":20,"extra_classes":0,"category":"Regular","target":75}`,
			attendance.Result{Mode: attendance.ModeAttend, Count: 40}, "50.00"},
		{"unreachable eca", `{"total_classes":10,"presentees":2,"category":"ECA","target":90}`,
			attendance.Result{Mode: attendance.ModeUnreachable, Count: 70, MaxRemaining: 6}, "20.00"},
		{"no target", `{"total_classes":10,"presentees":2}`,
			attendance.Result{Mode: attendance.ModeEmpty}, "20.00"},
		{"clamped target", `{"total_classes":10,"presentees":10,"target":250}`,
			attendance.Result{Mode: attendance.ModeBunk, Count: 0}, "100.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, r, http.MethodPost, "/attendance/projection", tt.body)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			got := decode[ProjectionResponse](t, w)
			assert.Equal(t, tt.want, got.Result)
			assert.Equal(t, tt.pct, got.CurrentPercent)
			assert.NotEmpty(t, got.Message)
		})
	}

	w := do(t, r, http.MethodPost, "/attendance/projection", `{"total_classes":-1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProjections(t *testing.T) {
	r, _ := newTestServer(&fakePortal{})

	w := do(t, r, http.MethodPost, "/attendance/projections", ProjectionsRequest{SessionID: "s1", Target: ptr(75.0)})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[ProjectionsResponse](t, w)

	require.NotNil(t, resp.Target)
	assert.Equal(t, 75, *resp.Target)
	require.Len(t, resp.Projections, 2)
	assert.Equal(t, "ECA", resp.Projections[0].Category)
	assert.Equal(t, attendance.ModeAttend, resp.Projections[0].Mode)
	assert.Equal(t, "Regular", resp.Projections[1].Category)
	assert.Equal(t, attendance.ModeBunk, resp.Projections[1].Mode)
	assert.Equal(t, 4, resp.Projections[1].Count)

	require.Len(t, resp.Subjects, 2)
	assert.Equal(t, attendance.SubjectPercent{Subject: "DBMS", Presentees: 9, Held: 10, Percent: 100}, resp.Subjects[0])
	assert.Equal(t, "OS", resp.Subjects[1].Subject)
	assert.InDelta(t, 75.0, resp.Subjects[1].Percent, 1e-9)
}

func ptr[T any](v T) *T { return &v }
