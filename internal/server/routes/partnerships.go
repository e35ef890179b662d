package routes

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"bridged/internal/lifecycle"
	"bridged/internal/models"
)

type PartnershipRoutes struct {
	server ServerInterface
}

func NewPartnershipRoutes(server ServerInterface) *PartnershipRoutes {
	return &PartnershipRoutes{server: server}
}

func (pr *PartnershipRoutes) RegisterRoutes(r *gin.Engine) {
	middleware := NewMiddleware(pr.server)
	authed := middleware.AuthMiddleware()
	scoped := middleware.PartnershipMiddleware()

	r.GET("/partnerships", authed, pr.listPartnershipsHandler)
	r.GET("/partnerships/:id", authed, scoped, pr.getPartnershipHandler)
	r.PUT("/partnerships/:id/status", authed, middleware.RequireRole(models.RoleCompany), scoped, pr.updateStatusHandler)
	r.PUT("/partnerships/:id/onboarding/:step", authed, scoped, pr.completeOnboardingStepHandler)

	// Extension request flow
	r.POST("/partnerships/:id/extension", authed, middleware.RequireRole(models.RoleCompany), scoped, pr.requestExtensionHandler)
	r.POST("/partnerships/:id/extension/approve", authed, middleware.RequireRole(models.RoleAthlete), scoped, pr.approveExtensionHandler)
	r.POST("/partnerships/:id/extension/decline", authed, middleware.RequireRole(models.RoleAthlete), scoped, pr.declineExtensionHandler)

	// Paperwork
	r.POST("/partnerships/:id/documents/:document/sign", authed, scoped, pr.signDocumentHandler)
	r.POST("/partnerships/:id/agreement", authed, scoped, pr.uploadAgreementHandler)
	r.GET("/partnerships/:id/agreement", authed, scoped, pr.downloadAgreementHandler)
}

func (pr *PartnershipRoutes) listPartnershipsHandler(c *gin.Context) {
	user := c.MustGet("user").(*models.User)

	db := pr.server.GetDB()
	partnerships, err := db.Partnerships.ForUser(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch partnerships"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"partnerships": partnerships, "total": len(partnerships)})
}

// getPartnershipHandler returns the partnership with its deliverables,
// payments and the availability of per-status actions.
func (pr *PartnershipRoutes) getPartnershipHandler(c *gin.Context) {
	partnership := c.MustGet("partnership").(*models.Partnership)

	db := pr.server.GetDB()
	deliverables, err := db.Deliverables.ForPartnership(partnership.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch deliverables"})
		return
	}
	payments, err := db.Payments.ForPartnership(partnership.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch payments"})
		return
	}

	athlete, err := db.Users.Get(partnership.AthleteID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch athlete"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"partnership":  partnership,
		"deliverables": deliverables,
		"payments":     payments,
		"actions": gin.H{
			"can_request_extension": lifecycle.CanRequestExtension(partnership.EndDate, time.Now(), partnership.ExtensionRequested),
			"can_sign_internship":   lifecycle.CanSignInternship(partnership.InternshipAgreementURL),
			"paperwork_complete":    partnership.PaperworkComplete(athlete.IsMinor()),
		},
	})
}

// updateStatusHandler moves the partnership between its lifecycle statuses
// through the shared transition table.
func (pr *PartnershipRoutes) updateStatusHandler(c *gin.Context) {
	partnership := c.MustGet("partnership").(*models.Partnership)

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	switch models.PartnershipStatus(req.Status) {
	case models.PartnershipPending, models.PartnershipActive,
		models.PartnershipCompleted, models.PartnershipCancelled:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid partnership status"})
		return
	}

	updated, err := pr.server.Partnerships().SetStatus(partnership.ID, models.PartnershipStatus(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}

	// An activated partnership gets its payment schedule materialized.
	if updated.Status == models.PartnershipActive {
		if _, err := pr.server.Payments().GenerateSchedule(updated.ID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate payment schedule"})
			return
		}
	}

	pr.invalidateDashboards(updated)

	c.JSON(http.StatusOK, gin.H{"message": "Partnership updated", "partnership": updated})
}

// completeOnboardingStepHandler marks one onboarding checklist step done.
func (pr *PartnershipRoutes) completeOnboardingStepHandler(c *gin.Context) {
	partnership := c.MustGet("partnership").(*models.Partnership)

	stepNumber, err := strconv.Atoi(c.Param("step"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid step number"})
		return
	}

	var req struct {
		MeetingLink string `json:"meeting_link"`
	}
	// Body is optional for steps without a meeting link.
	_ = c.ShouldBindJSON(&req)

	found := false
	now := time.Now()
	for i := range partnership.OnboardingSteps {
		if partnership.OnboardingSteps[i].StepNumber == stepNumber {
			partnership.OnboardingSteps[i].IsCompleted = true
			partnership.OnboardingSteps[i].CompletedDate = &now
			if req.MeetingLink != "" {
				partnership.OnboardingSteps[i].MeetingLink = req.MeetingLink
			}
			found = true
			break
		}
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Onboarding step not found"})
		return
	}

	db := pr.server.GetDB()
	if err := db.Partnerships.Update(partnership); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update onboarding"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Step completed", "onboarding_steps": partnership.OnboardingSteps})
}

func (pr *PartnershipRoutes) requestExtensionHandler(c *gin.Context) {
	partnership := c.MustGet("partnership").(*models.Partnership)

	var req struct {
		Months int    `json:"months" binding:"required"`
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := pr.server.Extensions().Request(partnership.ID, req.Months, req.Reason); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Extension requested"})
}

func (pr *PartnershipRoutes) approveExtensionHandler(c *gin.Context) {
	partnership := c.MustGet("partnership").(*models.Partnership)

	if err := pr.server.Extensions().AthleteApprove(partnership.ID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Extension approved"})
}

func (pr *PartnershipRoutes) declineExtensionHandler(c *gin.Context) {
	partnership := c.MustGet("partnership").(*models.Partnership)

	if err := pr.server.Extensions().AthleteDecline(partnership.ID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Extension declined"})
}

// signDocumentHandler flips one signature flag for the authenticated party.
// A parent signs through the athlete's session with party=parent.
func (pr *PartnershipRoutes) signDocumentHandler(c *gin.Context) {
	user := c.MustGet("user").(*models.User)
	partnership := c.MustGet("partnership").(*models.Partnership)

	doc := models.DocumentType(c.Param("document"))

	var party lifecycle.Party
	switch {
	case user.ID == partnership.CompanyID:
		party = lifecycle.PartyCompany
	case user.ID == partnership.AthleteID:
		party = lifecycle.PartyAthlete
		if c.Query("party") == string(lifecycle.PartyParent) {
			party = lifecycle.PartyParent
		}
	default:
		// Admins passed through the partnership middleware must say which
		// party they sign for.
		party = lifecycle.Party(c.Query("party"))
		switch party {
		case lifecycle.PartyCompany, lifecycle.PartyAthlete, lifecycle.PartyParent:
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "A party parameter is required to sign for a partnership you are not part of"})
			return
		}
	}

	if err := pr.server.Paperwork().Sign(partnership.ID, doc, party); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Document signed"})
}

// uploadAgreementHandler stores the internship agreement PDF and records its
// URL on the partnership so signing unlocks.
func (pr *PartnershipRoutes) uploadAgreementHandler(c *gin.Context) {
	partnership := c.MustGet("partnership").(*models.Partnership)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}
	defer file.Close()

	result, err := pr.server.GetS3Service().UploadAgreement(c.Request.Context(), file, header, partnership.ID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := pr.server.Paperwork().SetAgreementURL(partnership.ID, result.S3Key); err != nil {
		// Clean up the uploaded file if recording the agreement fails
		pr.server.GetS3Service().DeleteFile(c.Request.Context(), result.S3Key)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Agreement uploaded",
		"s3_key":    result.S3Key,
		"file_hash": result.FileHash,
	})
}

// downloadAgreementHandler streams the decrypted agreement PDF.
func (pr *PartnershipRoutes) downloadAgreementHandler(c *gin.Context) {
	partnership := c.MustGet("partnership").(*models.Partnership)

	if partnership.InternshipAgreementURL == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "No agreement uploaded"})
		return
	}

	data, err := pr.server.GetS3Service().DownloadAgreement(c.Request.Context(), partnership.InternshipAgreementURL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to download agreement"})
		return
	}

	c.Header("Content-Disposition", "attachment; filename=internship-agreement.pdf")
	c.Data(http.StatusOK, "application/pdf", data)
}

func (pr *PartnershipRoutes) invalidateDashboards(p *models.Partnership) {
	pr.server.GetCache().Invalidate(
		fmt.Sprintf("dashboard:athlete:%d", p.AthleteID),
		fmt.Sprintf("dashboard:company:%d", p.CompanyID),
	)
}
