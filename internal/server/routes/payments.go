package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"bridged/internal/models"
)

type PaymentRoutes struct {
	server ServerInterface
}

func NewPaymentRoutes(server ServerInterface) *PaymentRoutes {
	return &PaymentRoutes{server: server}
}

func (pr *PaymentRoutes) RegisterRoutes(r *gin.Engine) {
	middleware := NewMiddleware(pr.server)
	authed := middleware.AuthMiddleware()
	admin := middleware.RequireRole() // admin only

	r.GET("/partnerships/:id/payments", authed, middleware.PartnershipMiddleware(), pr.listPaymentsHandler)
	r.POST("/partnerships/:id/payments/generate", authed, admin, middleware.PartnershipMiddleware(), pr.generateScheduleHandler)
	r.POST("/payments/:id/mark-paid", authed, pr.markPaidHandler)
}

func (pr *PaymentRoutes) listPaymentsHandler(c *gin.Context) {
	partnership := c.MustGet("partnership").(*models.Partnership)

	db := pr.server.GetDB()
	payments, err := db.Payments.ForPartnership(partnership.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch payments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"payments": payments, "total": len(payments)})
}

func (pr *PaymentRoutes) generateScheduleHandler(c *gin.Context) {
	partnership := c.MustGet("partnership").(*models.Partnership)

	created, err := pr.server.Payments().GenerateSchedule(partnership.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Schedule generated", "created": len(created)})
}

// markPaidHandler records an installment as paid. The paying company and
// admins may do this.
func (pr *PaymentRoutes) markPaidHandler(c *gin.Context) {
	user := c.MustGet("user").(*models.User)

	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment ID"})
		return
	}

	db := pr.server.GetDB()
	payment, err := db.Payments.Get(paymentID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
		return
	}
	partnership, err := db.Partnerships.Get(payment.PartnershipID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch partnership"})
		return
	}
	if !user.IsAdmin() && user.ID != partnership.CompanyID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the paying company may mark this payment paid"})
		return
	}

	if err := pr.server.Payments().MarkPaid(paymentID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Payment marked paid"})
}
