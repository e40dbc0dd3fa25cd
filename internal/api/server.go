// Package api serves the student portal over HTTP for the SPA.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"vcePortalApi/internal/logging"
	"vcePortalApi/internal/portal"
	"vcePortalApi/internal/store"
)

// Portal is the upstream ERP as the handlers use it.
type Portal interface {
	StartLogin(ctx context.Context) (*portal.Challenge, error)
	Login(ctx context.Context, ch *portal.Challenge, creds portal.Credentials) (string, error)
	Dashboard(ctx context.Context, sessionID string) (*portal.Dashboard, string, error)
	Logout(ctx context.Context, sessionID string) error
	Syllabus(ctx context.Context, q portal.SyllabusQuery) (json.RawMessage, error)
	Calendar(ctx context.Context) (*portal.File, error)
}

// Cache keeps pending logins and recently scraped dashboards.
type Cache interface {
	SaveDashboard(sessionID string, payload []byte) error
	Dashboard(sessionID string, maxAge time.Duration) ([]byte, error)
	DeleteDashboard(sessionID string) error
	SaveLoginAttempt(a store.LoginAttempt) error
	TakeLoginAttempt(id string, maxAge time.Duration) (store.LoginAttempt, error)
}

type Options struct {
	AllowedOrigins []string
	DashboardTTL   time.Duration
	LoginTTL       time.Duration
}

type Server struct {
	portal Portal
	cache  Cache
	log    logrus.FieldLogger
	opts   Options
}

func NewServer(p Portal, cache Cache, log logrus.FieldLogger, opts Options) *Server {
	return &Server{portal: p, cache: cache, log: log, opts: opts}
}

// Router builds the gin engine with every route registered.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), logging.Middleware(s.log))
	corsCfg := cors.Config{
		AllowOrigins:     s.opts.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", logging.RequestIDHeader},
		AllowCredentials: true,
	}
	if len(corsCfg.AllowOrigins) == 0 {
		corsCfg.AllowOrigins, corsCfg.AllowAllOrigins, corsCfg.AllowCredentials = nil, true, false
	}
	router.Use(cors.New(corsCfg))

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/captcha", s.handleCaptcha)
	router.POST("/login", s.handleLogin)
	router.GET("/get_syllabus", s.handleSyllabus)
	router.GET("/calendar", s.handleCalendar)
	router.POST("/attendance/projection", s.handleProjection)

	session := router.Group("/")
	session.Use(SessionMiddleware())
	{
		session.POST("/dashboard", s.handleDashboard)
		session.POST("/logout", s.handleLogout)
		session.POST("/attendance/projections", s.handleProjections)
	}

	return router
}

// SessionMiddleware accepts the session as "Authorization: Bearer <id>" in
// addition to the session_id body field.
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if strings.HasPrefix(authHeader, "Bearer ") {
			c.Set(sessionKey, strings.TrimPrefix(authHeader, "Bearer "))
		}
		c.Next()
	}
}

const sessionKey = "session_id"

func fail(c *gin.Context, status int, message string, err error) {
	if err != nil {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, ErrorResponse{Success: false, Message: message})
}
