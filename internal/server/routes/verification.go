package routes

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type VerificationRoutes struct {
	server ServerInterface
}

func NewVerificationRoutes(server ServerInterface) *VerificationRoutes {
	return &VerificationRoutes{server: server}
}

func (vr *VerificationRoutes) RegisterRoutes(r *gin.Engine) {
	middleware := NewMiddleware(vr.server)
	admin := middleware.RequireRole() // admin only

	r.GET("/admin/verifications", middleware.AuthMiddleware(), admin, vr.pendingVerificationsHandler)
	r.POST("/admin/verifications/:userID/approve", middleware.AuthMiddleware(), admin, vr.approveVerificationHandler)
	r.POST("/admin/verifications/:userID/reject", middleware.AuthMiddleware(), admin, vr.rejectVerificationHandler)
}

// pendingVerificationsHandler returns the athlete verification queue in
// signup order, with the advisory AI fields for display.
func (vr *VerificationRoutes) pendingVerificationsHandler(c *gin.Context) {
	db := vr.server.GetDB()
	athletes, err := db.Users.PendingVerification()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch verification queue"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"athletes": athletes, "total": len(athletes)})
}

func (vr *VerificationRoutes) approveVerificationHandler(c *gin.Context) {
	athleteID, err := strconv.Atoi(c.Param("userID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	if err := vr.server.Verifications().Approve(athleteID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Athlete verified"})
}

func (vr *VerificationRoutes) rejectVerificationHandler(c *gin.Context) {
	athleteID, err := strconv.Atoi(c.Param("userID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var req struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&req)

	if err := vr.server.Verifications().Reject(athleteID, req.Reason); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Athlete verification rejected"})
}
