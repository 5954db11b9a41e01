// Package api exposes the form submission, read-back and export operations
// over HTTP.
package api

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"

	"incubator/internal/auth"
	"incubator/internal/middleware"
	"incubator/internal/services"
)

// Config carries the collaborators the router needs.
type Config struct {
	Database *sql.DB
	Users    *auth.UserStore
	Sessions *auth.Manager
	Forms    *services.FormService
}

// Server holds the handler dependencies.
type Server struct {
	Users    *auth.UserStore
	Sessions *auth.Manager
	Forms    *services.FormService
}

// NewRouter configures HTTP routes for the application.
func NewRouter(cfg Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), gin.Logger(), middleware.CORS())

	s := &Server{Users: cfg.Users, Sessions: cfg.Sessions, Forms: cfg.Forms}

	r.GET("/health", func(c *gin.Context) {
		payload := gin.H{"status": "ok"}
		if cfg.Database != nil {
			if err := cfg.Database.PingContext(c.Request.Context()); err != nil {
				payload["database"] = gin.H{"status": "unavailable", "error": err.Error()}
			} else {
				payload["database"] = gin.H{"status": "ok"}
			}
		}
		c.JSON(http.StatusOK, payload)
	})

	s.RegisterRoutes(r)
	return r
}

// RegisterRoutes binds every operation to its route.
func (s *Server) RegisterRoutes(r *gin.Engine) {
	r.POST("/register", s.register)
	r.POST("/login", s.login)
	r.GET("/logout", s.logout)
	r.GET("/get_current_user", s.currentUser)

	user := r.Group("/", middleware.RequireSession(s.Sessions))
	user.POST("/submit_form", s.submitForm)
	user.GET("/get_last_submission", s.lastSubmission)
	user.GET("/get_history", s.history)
	user.GET("/download_excel", s.downloadExcel)
	user.GET("/download_fields_doc", s.downloadFieldsDoc)

	r.POST("/admin/login", s.adminLogin)
	r.GET("/admin/logout", s.adminLogout)

	admin := r.Group("/admin", middleware.RequireAdmin(s.Sessions))
	admin.GET("/get_all_rooms", s.allRooms)
	admin.GET("/download_single", s.downloadSingle)
	admin.POST("/download_batch", s.downloadBatch)
}

// fail writes the structured failure envelope every operation shares.
func fail(c *gin.Context, message string) {
	c.JSON(http.StatusOK, gin.H{"success": false, "message": message})
}

func ok(c *gin.Context, payload gin.H) {
	body := gin.H{"success": true}
	for key, value := range payload {
		body[key] = value
	}
	c.JSON(http.StatusOK, body)
}
