package routes

import (
	"net/http"
	"os"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/markbates/goth/gothic"

	"bridged/internal/cache"
	"bridged/internal/lifecycle"
	"bridged/internal/models"
	"bridged/internal/storage"
)

type AuthRoutes struct {
	server ServerInterface
}

type ServerInterface interface {
	GetDB() *models.DB
	GetS3Service() *storage.S3Service
	GetCache() *cache.QueryCache

	Applications() *lifecycle.ApplicationService
	Partnerships() *lifecycle.PartnershipService
	Verifications() *lifecycle.VerificationService
	Deliverables() *lifecycle.DeliverableService
	Extensions() *lifecycle.ExtensionService
	Paperwork() *lifecycle.PaperworkService
	ModelList() *lifecycle.ModelListService
	Payments() *lifecycle.PaymentService
}

func NewAuthRoutes(server ServerInterface) *AuthRoutes {
	return &AuthRoutes{server: server}
}

func (ar *AuthRoutes) RegisterRoutes(r *gin.Engine) {
	// OAuth routes
	r.GET("/auth/:provider", ar.authHandler)
	r.GET("/auth/:provider/callback", ar.authCallbackHandler)
	r.GET("/logout", ar.logoutHandler)
}

func (ar *AuthRoutes) authHandler(c *gin.Context) {
	provider := c.Param("provider")

	// Remember the requested role so the callback can apply it on signup.
	if role := c.Query("role"); role == string(models.RoleAthlete) || role == string(models.RoleCompany) {
		session := sessions.Default(c)
		session.Set("signup_role", role)
		session.Save()
	}

	req := c.Request.Clone(c.Request.Context())
	req.URL.Path = "/auth/" + provider

	q := req.URL.Query()
	q.Add("provider", provider)
	req.URL.RawQuery = q.Encode()

	gothic.BeginAuthHandler(c.Writer, req)
}

func (ar *AuthRoutes) authCallbackHandler(c *gin.Context) {
	provider := c.Param("provider")

	req := c.Request.Clone(c.Request.Context())
	req.URL.Path = "/auth/" + provider + "/callback"

	q := req.URL.Query()
	q.Add("provider", provider)
	req.URL.RawQuery = q.Encode()

	gothUser, err := gothic.CompleteUserAuth(c.Writer, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session := sessions.Default(c)

	role := models.RoleAthlete
	if raw, ok := session.Get("signup_role").(string); ok && raw == string(models.RoleCompany) {
		role = models.RoleCompany
	}

	db := ar.server.GetDB()
	user, _, err := db.Users.GetOrCreate(gothUser.Provider, gothUser.UserID, models.User{
		Email:     gothUser.Email,
		Name:      gothUser.Name,
		AvatarURL: gothUser.AvatarURL,
		Role:      role,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save user"})
		return
	}

	session.Delete("signup_role")
	session.Set("user_id", user.ID)
	session.Set("email", user.Email)
	session.Save()

	redirectURL := os.Getenv("FRONTEND_URL")
	if redirectURL == "" {
		redirectURL = "http://localhost:3000"
	}

	c.Redirect(http.StatusTemporaryRedirect, redirectURL+"/dashboard")
}

func (ar *AuthRoutes) logoutHandler(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Save()

	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}
