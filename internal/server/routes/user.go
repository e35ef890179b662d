package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"bridged/internal/models"
)

type UserRoutes struct {
	server ServerInterface
}

func NewUserRoutes(server ServerInterface) *UserRoutes {
	return &UserRoutes{server: server}
}

func (ur *UserRoutes) RegisterRoutes(r *gin.Engine) {
	middleware := NewMiddleware(ur.server)

	// User routes
	r.GET("/user", middleware.AuthMiddleware(), ur.userHandler)
	r.PUT("/user/profile", middleware.AuthMiddleware(), ur.updateProfileHandler)
	r.PUT("/user/parent-info", middleware.AuthMiddleware(), middleware.RequireRole(models.RoleAthlete), ur.updateParentInfoHandler)
}

func (ur *UserRoutes) userHandler(c *gin.Context) {
	user := c.MustGet("user").(*models.User)

	c.JSON(http.StatusOK, gin.H{
		"user_id":             user.ID,
		"email":               user.Email,
		"name":                user.Name,
		"avatar_url":          user.AvatarURL,
		"role":                user.Role,
		"verification_status": user.VerificationStatus,
		"is_minor":            user.IsMinor(),
		"authenticated":       true,
	})
}

func (ur *UserRoutes) updateProfileHandler(c *gin.Context) {
	user := c.MustGet("user").(*models.User)

	var req struct {
		Name        string `json:"name"`
		School      string `json:"school"`
		Sport       string `json:"sport"`
		CompanyName string `json:"company_name"`
		DateOfBirth string `json:"date_of_birth"` // YYYY-MM-DD
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.School != "" {
		user.School = req.School
	}
	if req.Sport != "" {
		user.Sport = req.Sport
	}
	if req.CompanyName != "" && user.Role == models.RoleCompany {
		user.CompanyName = req.CompanyName
	}
	if req.DateOfBirth != "" {
		dob, err := time.Parse("2006-01-02", req.DateOfBirth)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date of birth, expected YYYY-MM-DD"})
			return
		}
		user.DateOfBirth = &dob
	}

	db := ur.server.GetDB()
	if err := db.Users.Update(user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully"})
}

// updateParentInfoHandler saves the parent contact needed before a minor's
// parental consent can be signed.
func (ur *UserRoutes) updateParentInfoHandler(c *gin.Context) {
	user := c.MustGet("user").(*models.User)

	var req struct {
		ParentName  string `json:"parent_name" binding:"required"`
		ParentEmail string `json:"parent_email" binding:"required,email"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user.ParentName = req.ParentName
	user.ParentEmail = req.ParentEmail

	db := ur.server.GetDB()
	if err := db.Users.Update(user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save parent info"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Parent info saved successfully"})
}
