package handlers

import (
	"github.com/gin-gonic/gin"

	"storefront-service/internal/services"
)

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// CreateOrder places an order for the caller, attributing it from the
// attribution cookies when present.
func (h *Handler) CreateOrder(c *gin.Context) {
	actor, _ := CurrentActor(c)

	var req services.CreateOrderDTO
	if !bindJSON(c, &req) {
		return
	}

	order, err := h.Orders.CreateOrder(c.Request.Context(), actor, req, h.attributionFromCookies(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, order, "Order placed")
}

func (h *Handler) GetOrder(c *gin.Context) {
	actor, _ := CurrentActor(c)

	order, err := h.Orders.GetOrder(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, order, "Order retrieved")
}

func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	actor, _ := CurrentActor(c)

	var req UpdateOrderStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.Orders.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status, actor.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, res, "Order status updated")
}

func (h *Handler) CalculateCommission(c *gin.Context) {
	res, err := h.Commission.CalculateCommission(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, res, "Commission processed")
}
