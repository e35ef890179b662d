package routes

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"bridged/internal/models"
)

type ApplicationRoutes struct {
	server ServerInterface
}

func NewApplicationRoutes(server ServerInterface) *ApplicationRoutes {
	return &ApplicationRoutes{server: server}
}

func (ar *ApplicationRoutes) RegisterRoutes(r *gin.Engine) {
	middleware := NewMiddleware(ar.server)

	r.POST("/applications", middleware.AuthMiddleware(), middleware.RequireRole(models.RoleAthlete), ar.createApplicationHandler)
	r.GET("/applications", middleware.AuthMiddleware(), ar.listApplicationsHandler)
	r.POST("/applications/:id/accept", middleware.AuthMiddleware(), middleware.RequireRole(models.RoleCompany), ar.acceptApplicationHandler)
	r.POST("/applications/:id/reject", middleware.AuthMiddleware(), middleware.RequireRole(models.RoleCompany), ar.rejectApplicationHandler)
}

// createApplicationHandler records an athlete's application to a company
// posting. Only verified athletes may apply.
func (ar *ApplicationRoutes) createApplicationHandler(c *gin.Context) {
	user := c.MustGet("user").(*models.User)

	if user.VerificationStatus != models.VerificationVerified {
		c.JSON(http.StatusForbidden, gin.H{"error": "Profile must be verified before applying"})
		return
	}

	var req struct {
		CompanyID int    `json:"company_id" binding:"required"`
		JobID     string `json:"job_id"`
		CoverNote string `json:"cover_note"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	app := &models.Application{
		AthleteID: user.ID,
		CompanyID: req.CompanyID,
		Status:    models.ApplicationApplied,
		CoverNote: req.CoverNote,
	}
	if req.JobID != "" {
		jobID, err := uuid.Parse(req.JobID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid job ID"})
			return
		}
		app.JobID = jobID
	}

	db := ar.server.GetDB()
	if err := db.Applications.Create(app); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create application"})
		return
	}

	ar.server.GetCache().Invalidate(fmt.Sprintf("dashboard:company:%d", req.CompanyID))

	c.JSON(http.StatusCreated, gin.H{"application": app})
}

// listApplicationsHandler returns the caller's applications: the ones they
// submitted for athletes, the incoming queue for companies.
func (ar *ApplicationRoutes) listApplicationsHandler(c *gin.Context) {
	user := c.MustGet("user").(*models.User)
	db := ar.server.GetDB()

	var (
		apps []models.Application
		err  error
	)
	if user.Role == models.RoleCompany {
		apps, err = db.Applications.ForCompany(user.ID)
	} else {
		apps, err = db.Applications.ForAthlete(user.ID)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch applications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"applications": apps, "total": len(apps)})
}

// acceptApplicationHandler accepts an application and promotes it into a
// pending partnership with the given stipend.
func (ar *ApplicationRoutes) acceptApplicationHandler(c *gin.Context) {
	user := c.MustGet("user").(*models.User)

	appID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid application ID"})
		return
	}

	var req struct {
		MonthlyStipend  float64 `json:"monthly_stipend" binding:"required,gt=0"`
		PartnershipType string  `json:"partnership_type"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	partnershipType := models.TypeInternship
	switch models.PartnershipType(req.PartnershipType) {
	case models.TypeAffiliate:
		partnershipType = models.TypeAffiliate
	case models.TypeContent:
		partnershipType = models.TypeContent
	case models.TypeInternship, "":
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid partnership type"})
		return
	}

	db := ar.server.GetDB()
	app, err := db.Applications.Get(appID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
		return
	}
	if app.CompanyID != user.ID && !user.IsAdmin() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied to application"})
		return
	}

	partnership, err := ar.server.Applications().Accept(appID, req.MonthlyStipend, partnershipType)
	if err != nil {
		respondError(c, err)
		return
	}

	ar.server.GetCache().Invalidate(
		fmt.Sprintf("dashboard:company:%d", app.CompanyID),
		fmt.Sprintf("dashboard:athlete:%d", app.AthleteID),
	)

	c.JSON(http.StatusOK, gin.H{
		"message":     "Application accepted",
		"partnership": partnership,
	})
}

// rejectApplicationHandler rejects an application.
func (ar *ApplicationRoutes) rejectApplicationHandler(c *gin.Context) {
	user := c.MustGet("user").(*models.User)

	appID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid application ID"})
		return
	}

	db := ar.server.GetDB()
	app, err := db.Applications.Get(appID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
		return
	}
	if app.CompanyID != user.ID && !user.IsAdmin() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied to application"})
		return
	}

	if err := ar.server.Applications().Reject(appID); err != nil {
		respondError(c, err)
		return
	}

	ar.server.GetCache().Invalidate(
		fmt.Sprintf("dashboard:company:%d", app.CompanyID),
		fmt.Sprintf("dashboard:athlete:%d", app.AthleteID),
	)

	c.JSON(http.StatusOK, gin.H{"message": "Application rejected"})
}
