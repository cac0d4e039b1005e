package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/gore3784/web-nesti/auth"
	"github.com/gore3784/web-nesti/config"
	userControllers "github.com/gore3784/web-nesti/controllers/user"
	"github.com/gore3784/web-nesti/middleware"
)

// SetupAuthRoutes registers registration, login, and profile endpoints.
func SetupAuthRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config) {
	r.POST("/register", auth.Register(db, cfg.JWTSecret))
	r.POST("/login", auth.Login(db, cfg.JWTSecret))

	authed := r.Group("/")
	authed.Use(middleware.ValidateToken(cfg.JWTSecret))
	{
		authed.POST("/logout", auth.Logout())
		authed.GET("/user", userControllers.GetProfile(db))
		authed.GET("/profile", userControllers.GetProfile(db))
		authed.PUT("/profile", userControllers.UpdateProfile(db))
		authed.PUT("/profile/password", userControllers.UpdatePassword(db))
	}
}
