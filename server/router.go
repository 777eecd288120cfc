package server

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	errs "github.com/swapshelf/bookswap/errors"
)

func (s *Server) setupRouter() *gin.Engine {
	ginMode := os.Getenv("GIN_MODE")
	if ginMode == "test" {
		r := gin.New()
		s.defineRoutes(r)
		return r
	}

	r := gin.New()

	staticFiles := "server/templates/static"
	htmlFiles := "server/templates/*.html"
	if s.Config.Env == "test" {
		_, b, _, _ := runtime.Caller(0)
		basepath := filepath.Dir(b)
		staticFiles = basepath + "/templates/static"
		htmlFiles = basepath + "/templates/*.html"
	}
	r.StaticFS("/static", http.Dir(staticFiles))
	r.LoadHTMLGlob(htmlFiles)

	// LoggerWithFormatter middleware will write the logs to gin.DefaultWriter
	// By default gin.DefaultWriter = os.Stdout
	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
			param.ClientIP,
			param.TimeStamp.Format(time.RFC1123),
			param.Method,
			param.Path,
			param.Request.Proto,
			param.StatusCode,
			param.Latency,
			param.Request.UserAgent(),
			param.ErrorMessage,
		)
	}))
	r.Use(gin.Recovery())

	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if s.Config.AccessControlAllowOrigin != "" {
		corsConfig.AllowOrigins = []string{s.Config.AccessControlAllowOrigin}
	} else {
		corsConfig.AllowAllOrigins = true
	}
	r.Use(cors.New(corsConfig))

	s.defineRoutes(r)

	return r
}

func (s *Server) defineRoutes(router *gin.Engine) {
	store := ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{Rate: time.Minute, Limit: 20})
	limitAuthAttempts := ratelimit.RateLimiter(store, &ratelimit.Options{
		ErrorHandler: errs.ErrorHandler,
		KeyFunc:      func(c *gin.Context) string { return c.ClientIP() },
	})

	// Server-rendered pages. Session cookie auth, flash notices.
	router.Use(s.loadSessionUser())
	router.GET("/", s.handleIndexPage())
	router.GET("/register", s.showRegisterPage())
	router.POST("/register", limitAuthAttempts, s.handleRegisterForm())
	router.GET("/login", s.showLoginPage())
	router.POST("/login", limitAuthAttempts, s.handleLoginForm())
	router.POST("/logout", s.handleLogoutForm())
	router.GET("/listings", s.handleListingsPage())
	router.GET("/listings/new", s.requireSessionUser(), s.showCreateListingPage())
	router.POST("/listings", s.requireSessionUser(), s.handleCreateListingForm())
	router.GET("/listings/:id", s.handleListingDetailPage())
	router.POST("/listings/:id/messages", s.requireSessionUser(), s.handleSendMessageForm())
	router.GET("/my/listings", s.requireSessionUser(), s.handleMyListingsPage())
	router.GET("/messages", s.requireSessionUser(), s.handleMessagesPage())
	router.NoRoute(s.handleNotFoundPage())

	// JSON API. Bearer token auth.
	apirouter := router.Group("/api/v1")
	apirouter.POST("/auth/signup", limitAuthAttempts, s.handleSignup())
	apirouter.POST("/auth/login", limitAuthAttempts, s.handleLogin())
	apirouter.GET("/listings", s.handleGetListings())
	apirouter.GET("/listings/:id", s.handleGetListing())

	authorized := apirouter.Group("/")
	authorized.Use(s.Authorize())
	authorized.GET("/auth/logout", s.handleLogout())
	authorized.GET("/me", s.handleShowProfile())
	authorized.POST("/listings", s.handleCreateListing())
	authorized.GET("/listings/:id/thread", s.handleGetThread())
	authorized.POST("/messages", s.handleSendMessage())
	authorized.GET("/messages/overview", s.handleGetOverview())
}
