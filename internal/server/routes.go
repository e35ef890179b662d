package server

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"bridged/internal/auth"
	"bridged/internal/server/routes"
)

func (s *Server) RegisterRoutes() http.Handler {
	// Initialize Goth providers
	auth.InitGothProviders()

	r := gin.Default()

	// Set up sessions
	store := cookie.NewStore([]byte(os.Getenv("SESSION_SECRET")))
	r.Use(sessions.Sessions("bridged-session", store))

	allowedOrigins := []string{"http://localhost:3000"}
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		allowedOrigins = strings.Split(origins, ",")
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.GET("/health", s.healthHandler)

	routes.NewAuthRoutes(s).RegisterRoutes(r)
	routes.NewUserRoutes(s).RegisterRoutes(r)
	routes.NewApplicationRoutes(s).RegisterRoutes(r)
	routes.NewPartnershipRoutes(s).RegisterRoutes(r)
	routes.NewDeliverableRoutes(s).RegisterRoutes(r)
	routes.NewVerificationRoutes(s).RegisterRoutes(r)
	routes.NewModelListRoutes(s).RegisterRoutes(r)
	routes.NewPaymentRoutes(s).RegisterRoutes(r)
	routes.NewCampaignRoutes(s).RegisterRoutes(r)
	routes.NewChatRoutes(s).RegisterRoutes(r)
	routes.NewNotificationRoutes(s).RegisterRoutes(r)
	routes.NewDashboardRoutes(s).RegisterRoutes(r)

	return r
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, s.db.Health())
}
