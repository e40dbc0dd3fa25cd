package portal

import (
	"errors"
	"time"

	"vcePortalApi/internal/attendance"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidCaptcha     = errors.New("invalid captcha")
	ErrSessionExpired     = errors.New("session expired or invalid")
	ErrSyllabusNotFound   = errors.New("syllabus not found")
	ErrInvalidSyllabus    = errors.New("syllabus source returned malformed data")
	ErrNotConfigured      = errors.New("source not configured")
)

// Config locates the ERP pages the client scrapes.
type Config struct {
	BaseURL       string
	LoginPath     string
	DashboardPath string
	MarksPath     string
	LogoutPath    string
	SyllabusURL   string
	CalendarURL   string
	UserAgent     string
	Timeout       time.Duration
}

// Challenge is a login in progress: the cookies and hidden form fields of the
// login page plus the captcha the student has to solve.
type Challenge struct {
	Cookie      string            `json:"cookie"`
	Action      string            `json:"action"`
	Fields      map[string]string `json:"fields"`
	Captcha     []byte            `json:"-"`
	CaptchaType string            `json:"-"`
}

type Credentials struct {
	Username string
	Password string
	Captcha  string
}

type MarkComponent struct {
	Name    string `json:"name"`
	Secured string `json:"secured"`
	Max     string `json:"max"`
}

type SubjectMarks struct {
	Code       string                     `json:"code"`
	Name       string                     `json:"name"`
	Components map[string][]MarkComponent `json:"components"`
}

type Marks struct {
	Subjects []SubjectMarks    `json:"subjects"`
	Summary  map[string]string `json:"summary"`
}

// Dashboard is the document served to the SPA. JSON keys follow the ERP's
// section titles.
type Dashboard struct {
	Student         map[string]string                  `json:"DashBoard"`
	StudentImage    string                             `json:"Student Image"`
	CurrentSem      map[string]string                  `json:"Current Sem"`
	TotalAttendance map[string]attendance.CategoryData `json:"Total Attendance Data"`
	Subjects        attendance.SubjectAttendance       `json:"Subjects Attendance Data"`
	Marks           *Marks                             `json:"Marks Data,omitempty"`
}

type SyllabusQuery struct {
	SubjectCode string
	Semester    string
	Dept        string
}

// File is a document proxied as is, like the academic calendar PDF.
type File struct {
	ContentType string
	Body        []byte
}
