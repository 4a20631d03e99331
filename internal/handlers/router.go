package handlers

import (
	"github.com/gin-gonic/gin"

	"storefront-service/internal/models"
)

func NewRouter(h *Handler, mw *Middleware) *gin.Engine {
	r := gin.Default()

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "Welcome To Susu Baroka storefront service",
		})
	})

	// Public tracking redirects
	r.GET("/track", h.Track)
	r.GET("/r/:slug", h.Track)

	api := r.Group("/api", mw.Authenticate())

	orders := api.Group("/orders")
	orders.POST("", h.CreateOrder)
	orders.GET("/:id", h.GetOrder)

	affiliate := api.Group("/affiliate", RequireAffiliate())
	affiliate.GET("/dashboard", h.AffiliateDashboard)
	affiliate.POST("/links", h.CreateLink)
	affiliate.GET("/links", h.ListLinks)
	affiliate.PUT("/links/:id", h.UpdateLink)
	affiliate.DELETE("/links/:id", h.DeleteLink)
	affiliate.POST("/withdrawals", h.RequestWithdrawal)
	affiliate.GET("/withdrawals", h.ListOwnWithdrawals)

	admin := api.Group("/admin", RequireRole(models.RoleAdmin))
	admin.POST("/affiliates", h.CreateAffiliate)
	admin.GET("/affiliates", h.ListAffiliates)
	admin.PUT("/affiliates/:id", h.UpdateAffiliate)
	admin.POST("/affiliates/:id/links", h.CreateLinkForAffiliate)
	admin.PUT("/orders/:id/status", h.UpdateOrderStatus)
	admin.POST("/orders/:id/commission", h.CalculateCommission)
	admin.GET("/withdrawals", h.ListWithdrawals)
	admin.PUT("/withdrawals/:id", h.UpdateWithdrawalStatus)

	return r
}
