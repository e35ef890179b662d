package routes

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"bridged/internal/models"
)

type DashboardRoutes struct {
	server ServerInterface
}

func NewDashboardRoutes(server ServerInterface) *DashboardRoutes {
	return &DashboardRoutes{server: server}
}

func (dr *DashboardRoutes) RegisterRoutes(r *gin.Engine) {
	middleware := NewMiddleware(dr.server)

	r.GET("/dashboard", middleware.AuthMiddleware(), dr.dashboardHandler)
}

// dashboardHandler returns the persona dashboard for the authenticated user.
// Results are served through the query cache; mutations on applications and
// partnerships invalidate the corresponding keys.
func (dr *DashboardRoutes) dashboardHandler(c *gin.Context) {
	user := c.MustGet("user").(*models.User)

	var (
		key   string
		fetch func() (interface{}, error)
	)

	switch user.Role {
	case models.RoleCompany:
		key = fmt.Sprintf("dashboard:company:%d", user.ID)
		fetch = func() (interface{}, error) { return dr.companyDashboard(user) }
	case models.RoleAdmin:
		key = "dashboard:admin"
		fetch = func() (interface{}, error) { return dr.adminDashboard() }
	default:
		key = fmt.Sprintf("dashboard:athlete:%d", user.ID)
		fetch = func() (interface{}, error) { return dr.athleteDashboard(user) }
	}

	data, err := dr.server.GetCache().GetOrFetch(key, fetch)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build dashboard"})
		return
	}

	c.JSON(http.StatusOK, data)
}

func (dr *DashboardRoutes) athleteDashboard(user *models.User) (gin.H, error) {
	db := dr.server.GetDB()

	partnerships, err := db.Partnerships.ForUser(user.ID)
	if err != nil {
		return nil, err
	}
	applications, err := db.Applications.ForAthlete(user.ID)
	if err != nil {
		return nil, err
	}

	active := 0
	for _, p := range partnerships {
		if p.Status == models.PartnershipActive {
			active++
		}
	}

	return gin.H{
		"role":                user.Role,
		"verification_status": user.VerificationStatus,
		"partnerships":        partnerships,
		"applications":        applications,
		"stats": gin.H{
			"active_partnerships": active,
			"total_applications":  len(applications),
		},
	}, nil
}

func (dr *DashboardRoutes) companyDashboard(user *models.User) (gin.H, error) {
	db := dr.server.GetDB()

	partnerships, err := db.Partnerships.ForUser(user.ID)
	if err != nil {
		return nil, err
	}
	applications, err := db.Applications.ForCompany(user.ID)
	if err != nil {
		return nil, err
	}

	pending := 0
	for _, a := range applications {
		if a.Status == models.ApplicationApplied {
			pending++
		}
	}

	monthlySpend := 0.0
	for _, p := range partnerships {
		if p.Status == models.PartnershipActive {
			monthlySpend += p.TotalMonthlyCost
		}
	}

	return gin.H{
		"role":         user.Role,
		"partnerships": partnerships,
		"applications": applications,
		"stats": gin.H{
			"pending_applications": pending,
			"monthly_spend":        monthlySpend,
		},
	}, nil
}

func (dr *DashboardRoutes) adminDashboard() (gin.H, error) {
	db := dr.server.GetDB()

	verificationQueue, err := db.Users.PendingVerification()
	if err != nil {
		return nil, err
	}
	modelListQueue, err := db.ModelList.Pending()
	if err != nil {
		return nil, err
	}

	return gin.H{
		"role": models.RoleAdmin,
		"stats": gin.H{
			"pending_verifications": len(verificationQueue),
			"pending_model_list":    len(modelListQueue),
		},
		"verification_queue": verificationQueue,
		"model_list_queue":   modelListQueue,
	}, nil
}
