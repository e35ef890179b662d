package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bridged/internal/models"
)

type ChatRoutes struct {
	server ServerInterface
}

func NewChatRoutes(server ServerInterface) *ChatRoutes {
	return &ChatRoutes{server: server}
}

func (cr *ChatRoutes) RegisterRoutes(r *gin.Engine) {
	middleware := NewMiddleware(cr.server)
	authed := middleware.AuthMiddleware()
	scoped := middleware.PartnershipMiddleware()

	r.GET("/partnerships/:id/messages", authed, scoped, cr.listMessagesHandler)
	r.POST("/partnerships/:id/messages", authed, scoped, cr.sendMessageHandler)
}

// listMessagesHandler returns the conversation oldest first and marks the
// other party's unread messages as read. Clients poll this endpoint.
func (cr *ChatRoutes) listMessagesHandler(c *gin.Context) {
	user := c.MustGet("user").(*models.User)
	partnership := c.MustGet("partnership").(*models.Partnership)

	db := cr.server.GetDB()

	unread, err := db.Messages.UnreadForRecipient(partnership.ID, user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch messages"})
		return
	}
	for i := range unread {
		unread[i].Read = true
		if err := db.Messages.Update(&unread[i]); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark messages read"})
			return
		}
	}

	messages, err := db.Messages.ForPartnership(partnership.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch messages"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages, "total": len(messages)})
}

func (cr *ChatRoutes) sendMessageHandler(c *gin.Context) {
	user := c.MustGet("user").(*models.User)
	partnership := c.MustGet("partnership").(*models.Partnership)

	var req struct {
		Body string `json:"body" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msg := &models.Message{
		PartnershipID: partnership.ID,
		SenderID:      user.ID,
		Body:          req.Body,
	}

	db := cr.server.GetDB()
	if err := db.Messages.Create(msg); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send message"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": msg})
}
