package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"devconnector/internal/auth"
	"devconnector/internal/service"
)

// DefaultAuthHeader carries the token on protected requests.
const DefaultAuthHeader = "x-auth-token"

// RepoLister fetches a user's public repositories as raw JSON.
type RepoLister interface {
	ListRepos(ctx context.Context, username string) (json.RawMessage, error)
}

// Options lists the collaborators of Handler. GitHub and Exports may be nil.
type Options struct {
	Users      service.UserService
	Profiles   service.ProfileService
	Posts      service.PostService
	Exports    service.ExportService
	Tokens     *auth.TokenService
	GitHub     RepoLister
	AuthHeader string
	Logger     *logrus.Logger
}

// Handler wires HTTP routes to domain services.
type Handler struct {
	users      service.UserService
	profiles   service.ProfileService
	posts      service.PostService
	exports    service.ExportService
	tokens     *auth.TokenService
	github     RepoLister
	authHeader string
	logger     *logrus.Logger
}

func NewHandler(opts Options) *Handler {
	header := strings.TrimSpace(opts.AuthHeader)
	if header == "" {
		header = DefaultAuthHeader
	}
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Handler{
		users:      opts.Users,
		profiles:   opts.Profiles,
		posts:      opts.Posts,
		exports:    opts.Exports,
		tokens:     opts.Tokens,
		github:     opts.GitHub,
		authHeader: header,
		logger:     logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(h.requestLogger(), corsMiddleware(h.authHeader))

	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "API Running")
	})

	private := h.requireAuth()

	api := router.Group("/api")
	{
		api.GET("/health", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"ok": "ok"})
		})

		api.POST("/users", h.register)
		api.POST("/auth", h.login)
		api.GET("/auth", private, h.currentUser)

		profile := api.Group("/profile")
		profile.GET("", h.listProfiles)
		profile.POST("", private, h.upsertProfile)
		profile.DELETE("", private, h.deleteAccount)
		profile.GET("/me", private, h.myProfile)
		profile.GET("/user/:id", h.profileByUser)
		profile.PUT("/experience", private, h.addExperience)
		profile.DELETE("/experience/:id", private, h.removeExperience)
		profile.PUT("/education", private, h.addEducation)
		profile.DELETE("/education/:id", private, h.removeEducation)
		profile.GET("/github/:username", h.githubRepos)
		profile.POST("/export", private, h.createExport)
		profile.GET("/exports", private, h.listExports)

		posts := api.Group("/posts", private)
		posts.POST("", h.createPost)
		posts.GET("", h.listPosts)
		posts.GET("/:id", h.getPost)
		posts.DELETE("/:id", h.deletePost)
		posts.PUT("/like/:id", h.likePost)
		posts.PUT("/unlike/:id", h.unlikePost)
		posts.POST("/comment/:id", h.addComment)
		posts.DELETE("/comment/:id/:comment_id", h.removeComment)
	}
}

func corsMiddleware(authHeader string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization, "+authHeader)
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func (h *Handler) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := h.logger.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
		})
		if c.Writer.Status() >= http.StatusInternalServerError {
			entry.Warn("request failed")
			return
		}
		entry.Info("request")
	}
}
