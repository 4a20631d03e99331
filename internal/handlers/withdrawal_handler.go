package handlers

import (
	"github.com/gin-gonic/gin"

	"storefront-service/internal/services"
)

func (h *Handler) RequestWithdrawal(c *gin.Context) {
	actor, _ := CurrentActor(c)

	var req services.RequestWithdrawalDTO
	if !bindJSON(c, &req) {
		return
	}

	withdrawal, err := h.Withdrawals.RequestWithdrawal(c.Request.Context(), actor.AffiliateID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, withdrawal, "Withdrawal request submitted")
}

func (h *Handler) ListOwnWithdrawals(c *gin.Context) {
	actor, _ := CurrentActor(c)

	res, err := h.Withdrawals.ListWithdrawals(c.Request.Context(), services.ListWithdrawalsDTO{
		AffiliateID: actor.AffiliateID,
		Status:      c.Query("status"),
		Page:        queryInt(c, "page"),
		Limit:       queryInt(c, "limit"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, res, "Withdrawals retrieved")
}

func (h *Handler) ListWithdrawals(c *gin.Context) {
	res, err := h.Withdrawals.ListWithdrawals(c.Request.Context(), services.ListWithdrawalsDTO{
		AffiliateID: c.Query("affiliate_id"),
		Status:      c.Query("status"),
		Page:        queryInt(c, "page"),
		Limit:       queryInt(c, "limit"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, res, "Withdrawals retrieved")
}

func (h *Handler) UpdateWithdrawalStatus(c *gin.Context) {
	actor, _ := CurrentActor(c)

	var req services.UpdateWithdrawalStatusDTO
	if !bindJSON(c, &req) {
		return
	}
	req.AdminID = actor.UserID

	withdrawal, err := h.Withdrawals.UpdateWithdrawalStatus(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, withdrawal, "Withdrawal updated")
}
