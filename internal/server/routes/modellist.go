package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"bridged/internal/models"
)

type ModelListRoutes struct {
	server ServerInterface
}

func NewModelListRoutes(server ServerInterface) *ModelListRoutes {
	return &ModelListRoutes{server: server}
}

func (mr *ModelListRoutes) RegisterRoutes(r *gin.Engine) {
	middleware := NewMiddleware(mr.server)
	admin := middleware.RequireRole() // admin only

	// Public intake form; no account required.
	r.POST("/model-list", mr.createEntryHandler)

	r.GET("/admin/model-list", middleware.AuthMiddleware(), admin, mr.pendingEntriesHandler)
	r.POST("/admin/model-list/:id/approve", middleware.AuthMiddleware(), admin, mr.approveEntryHandler)
	r.POST("/admin/model-list/:id/reject", middleware.AuthMiddleware(), admin, mr.rejectEntryHandler)
}

func (mr *ModelListRoutes) createEntryHandler(c *gin.Context) {
	var req struct {
		AthleteName string `json:"athlete_name" binding:"required"`
		Email       string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry := &models.ModelListEntry{
		AthleteName: req.AthleteName,
		Email:       req.Email,
		Status:      models.ModelListPending,
	}

	db := mr.server.GetDB()
	if err := db.ModelList.Create(entry); err != nil {
		if models.IsUniqueViolation(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "An application with this email already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create entry"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"entry": entry})
}

func (mr *ModelListRoutes) pendingEntriesHandler(c *gin.Context) {
	db := mr.server.GetDB()
	entries, err := db.ModelList.Pending()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch model list queue"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": entries, "total": len(entries)})
}

func (mr *ModelListRoutes) approveEntryHandler(c *gin.Context) {
	entryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid entry ID"})
		return
	}

	if err := mr.server.ModelList().Approve(entryID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Entry approved"})
}

func (mr *ModelListRoutes) rejectEntryHandler(c *gin.Context) {
	entryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid entry ID"})
		return
	}

	if err := mr.server.ModelList().Reject(entryID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Entry rejected"})
}
