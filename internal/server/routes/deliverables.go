package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"bridged/internal/lifecycle"
	"bridged/internal/models"
)

type DeliverableRoutes struct {
	server ServerInterface
}

func NewDeliverableRoutes(server ServerInterface) *DeliverableRoutes {
	return &DeliverableRoutes{server: server}
}

func (dr *DeliverableRoutes) RegisterRoutes(r *gin.Engine) {
	middleware := NewMiddleware(dr.server)
	authed := middleware.AuthMiddleware()

	r.POST("/partnerships/:id/deliverables", authed, middleware.RequireRole(models.RoleCompany), middleware.PartnershipMiddleware(), dr.createDeliverableHandler)

	r.GET("/deliverables/:id", authed, dr.getDeliverableHandler)
	r.POST("/deliverables/:id/submit", authed, middleware.RequireRole(models.RoleAthlete), dr.submitDeliverableHandler)
	r.POST("/deliverables/:id/review", authed, middleware.RequireRole(models.RoleCompany), dr.reviewDeliverableHandler)
	r.POST("/deliverables/:id/approve", authed, middleware.RequireRole(models.RoleCompany), dr.approveDeliverableHandler)
	r.PUT("/deliverables/:id/status", authed, middleware.RequireRole(models.RoleCompany), dr.setDeliverableStatusHandler)
	r.DELETE("/deliverables/:id", authed, middleware.RequireRole(models.RoleCompany), dr.deleteDeliverableHandler)
}

// loadDeliverable fetches the deliverable from the :id param and verifies the
// caller is a party of its partnership. Writes the error response itself.
func (dr *DeliverableRoutes) loadDeliverable(c *gin.Context) (*models.Deliverable, bool) {
	user := c.MustGet("user").(*models.User)

	deliverableID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid deliverable ID"})
		return nil, false
	}

	db := dr.server.GetDB()
	d, err := db.Deliverables.Get(deliverableID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Deliverable not found"})
		return nil, false
	}

	partnership, err := db.Partnerships.Get(d.PartnershipID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch partnership"})
		return nil, false
	}
	if !partnership.HasParty(user.ID) && !user.IsAdmin() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied to deliverable"})
		return nil, false
	}

	return d, true
}

// createDeliverableHandler adds a week-tagged deliverable to a partnership.
func (dr *DeliverableRoutes) createDeliverableHandler(c *gin.Context) {
	partnership := c.MustGet("partnership").(*models.Partnership)

	var req struct {
		WeekNumber     int    `json:"week_number" binding:"required"`
		Title          string `json:"title" binding:"required"`
		Description    string `json:"description"`
		SubmissionType string `json:"submission_type"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	subType := models.SubmissionLink
	switch models.SubmissionType(req.SubmissionType) {
	case models.SubmissionFile:
		subType = models.SubmissionFile
	case models.SubmissionText:
		subType = models.SubmissionText
	case models.SubmissionLink, "":
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission type"})
		return
	}

	d := &models.Deliverable{
		PartnershipID:  partnership.ID,
		WeekNumber:     req.WeekNumber,
		Title:          req.Title,
		Description:    req.Description,
		Status:         models.DeliverableNotStarted,
		SubmissionType: subType,
	}

	db := dr.server.GetDB()
	if err := db.Deliverables.Create(d); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create deliverable"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"deliverable": d})
}

// getDeliverableHandler returns the deliverable. File submissions stored in
// S3 get a short-lived presigned download link.
func (dr *DeliverableRoutes) getDeliverableHandler(c *gin.Context) {
	d, ok := dr.loadDeliverable(c)
	if !ok {
		return
	}

	resp := gin.H{"deliverable": d}
	if d.SubmissionType == models.SubmissionFile && d.SubmissionURL != "" && !strings.HasPrefix(d.SubmissionURL, "http") {
		url, err := dr.server.GetS3Service().GeneratePresignedURL(c.Request.Context(), d.SubmissionURL, 15*time.Minute)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate download link"})
			return
		}
		resp["submission_download_url"] = url
	}

	c.JSON(http.StatusOK, resp)
}

// submitDeliverableHandler records the athlete's work. The request is
// multipart so file-type deliverables can carry their upload; link and text
// types use the url and notes fields.
func (dr *DeliverableRoutes) submitDeliverableHandler(c *gin.Context) {
	d, ok := dr.loadDeliverable(c)
	if !ok {
		return
	}

	sub := lifecycle.Submission{
		URL:   c.PostForm("url"),
		Notes: c.PostForm("notes"),
	}

	if file, header, err := c.Request.FormFile("file"); err == nil {
		defer file.Close()
		result, err := dr.server.GetS3Service().UploadSubmission(c.Request.Context(), file, header, d.ID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		sub.URL = result.S3Key
		sub.HasFile = true
	}

	if err := dr.server.Deliverables().Submit(d.ID, sub); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Deliverable submitted"})
}

// reviewDeliverableHandler sends a completed deliverable back for revision.
func (dr *DeliverableRoutes) reviewDeliverableHandler(c *gin.Context) {
	d, ok := dr.loadDeliverable(c)
	if !ok {
		return
	}

	var req struct {
		Feedback string `json:"feedback" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Revision feedback is required"})
		return
	}

	if err := dr.server.Deliverables().Review(d.ID, req.Feedback); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Deliverable sent back for revision"})
}

func (dr *DeliverableRoutes) approveDeliverableHandler(c *gin.Context) {
	d, ok := dr.loadDeliverable(c)
	if !ok {
		return
	}

	if err := dr.server.Deliverables().Approve(d.ID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Deliverable approved"})
}

// setDeliverableStatusHandler is the manual status selector. Needs Revision
// is rejected here; it is only reachable through the review flow.
func (dr *DeliverableRoutes) setDeliverableStatusHandler(c *gin.Context) {
	d, ok := dr.loadDeliverable(c)
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := dr.server.Deliverables().SetStatus(d.ID, models.DeliverableStatus(req.Status)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Status updated"})
}

func (dr *DeliverableRoutes) deleteDeliverableHandler(c *gin.Context) {
	d, ok := dr.loadDeliverable(c)
	if !ok {
		return
	}

	if err := dr.server.Deliverables().Delete(d.ID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Deliverable deleted"})
}
