package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"bridged/internal/lifecycle"
	"bridged/internal/models"
)

type CampaignRoutes struct {
	server ServerInterface
}

func NewCampaignRoutes(server ServerInterface) *CampaignRoutes {
	return &CampaignRoutes{server: server}
}

func (cr *CampaignRoutes) RegisterRoutes(r *gin.Engine) {
	middleware := NewMiddleware(cr.server)
	authed := middleware.AuthMiddleware()
	company := middleware.RequireRole(models.RoleCompany)

	admin := middleware.RequireRole() // admin only

	r.POST("/campaigns/affiliate", authed, company, cr.createAffiliateHandler)
	r.GET("/campaigns/affiliate", authed, company, cr.listAffiliateHandler)
	r.POST("/campaigns/content", authed, company, cr.createContentHandler)
	r.GET("/campaigns/content", authed, company, cr.listContentHandler)

	// Admin review queue
	r.GET("/admin/campaigns", authed, admin, cr.listPendingCampaignsHandler)
	r.POST("/admin/campaigns/affiliate/:id/approve", authed, admin, cr.reviewAffiliateHandler(models.CampaignApproved))
	r.POST("/admin/campaigns/affiliate/:id/reject", authed, admin, cr.reviewAffiliateHandler(models.CampaignRejected))
	r.POST("/admin/campaigns/content/:id/approve", authed, admin, cr.reviewContentHandler(models.CampaignApproved))
	r.POST("/admin/campaigns/content/:id/reject", authed, admin, cr.reviewContentHandler(models.CampaignRejected))
}

// createAffiliateHandler records an affiliate campaign intake. The status is
// fixed at creation; review happens from the admin queue.
func (cr *CampaignRoutes) createAffiliateHandler(c *gin.Context) {
	user := c.MustGet("user").(*models.User)

	var req struct {
		Name           string  `json:"name" binding:"required"`
		Description    string  `json:"description"`
		CommissionRate float64 `json:"commission_rate" binding:"required,gt=0"`
		ProductURL     string  `json:"product_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	campaign := &models.AffiliateCampaign{
		CompanyID:      user.ID,
		Name:           req.Name,
		Description:    req.Description,
		CommissionRate: req.CommissionRate,
		ProductURL:     req.ProductURL,
		Status:         models.CampaignPendingApproval,
	}

	db := cr.server.GetDB()
	if err := db.Campaigns.CreateAffiliate(campaign); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create campaign"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"campaign": campaign})
}

func (cr *CampaignRoutes) listAffiliateHandler(c *gin.Context) {
	user := c.MustGet("user").(*models.User)

	db := cr.server.GetDB()
	campaigns, err := db.Campaigns.FilterAffiliate(map[string]interface{}{"company_id": user.ID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch campaigns"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"campaigns": campaigns, "total": len(campaigns)})
}

func (cr *CampaignRoutes) createContentHandler(c *gin.Context) {
	user := c.MustGet("user").(*models.User)

	var req struct {
		Title       string  `json:"title" binding:"required"`
		Brief       string  `json:"brief"`
		ContentType string  `json:"content_type"`
		MonthlyRate float64 `json:"monthly_rate" binding:"required,gt=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	partnership := &models.ContentPartnership{
		CompanyID:   user.ID,
		Title:       req.Title,
		Brief:       req.Brief,
		ContentType: req.ContentType,
		MonthlyRate: req.MonthlyRate,
		Status:      models.CampaignPendingReview,
	}

	db := cr.server.GetDB()
	if err := db.Campaigns.CreateContent(partnership); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create content partnership"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"content_partnership": partnership})
}

func (cr *CampaignRoutes) listContentHandler(c *gin.Context) {
	user := c.MustGet("user").(*models.User)

	db := cr.server.GetDB()
	partnerships, err := db.Campaigns.FilterContent(map[string]interface{}{"company_id": user.ID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch content partnerships"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"content_partnerships": partnerships, "total": len(partnerships)})
}

// listPendingCampaignsHandler returns both intake queues awaiting review.
func (cr *CampaignRoutes) listPendingCampaignsHandler(c *gin.Context) {
	db := cr.server.GetDB()

	affiliate, err := db.Campaigns.FilterAffiliate(map[string]interface{}{"status": models.CampaignPendingApproval})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch campaigns"})
		return
	}
	content, err := db.Campaigns.FilterContent(map[string]interface{}{"status": models.CampaignPendingReview})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch content partnerships"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"affiliate_campaigns":  affiliate,
		"content_partnerships": content,
	})
}

func (cr *CampaignRoutes) reviewAffiliateHandler(target models.CampaignStatus) gin.HandlerFunc {
	return func(c *gin.Context) {
		campaignID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid campaign ID"})
			return
		}

		db := cr.server.GetDB()
		campaign, err := db.Campaigns.GetAffiliate(campaignID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Campaign not found"})
			return
		}

		if err := lifecycle.Campaigns.Validate(string(campaign.Status), string(target)); err != nil {
			respondError(c, err)
			return
		}

		campaign.Status = target
		if err := db.Campaigns.UpdateAffiliate(campaign); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update campaign"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Campaign reviewed", "campaign": campaign})
	}
}

func (cr *CampaignRoutes) reviewContentHandler(target models.CampaignStatus) gin.HandlerFunc {
	return func(c *gin.Context) {
		partnershipID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid content partnership ID"})
			return
		}

		db := cr.server.GetDB()
		content, err := db.Campaigns.GetContent(partnershipID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Content partnership not found"})
			return
		}

		if err := lifecycle.Campaigns.Validate(string(content.Status), string(target)); err != nil {
			respondError(c, err)
			return
		}

		content.Status = target
		if err := db.Campaigns.UpdateContent(content); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update content partnership"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Content partnership reviewed", "content_partnership": content})
	}
}
