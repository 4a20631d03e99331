package handlers

import (
	"github.com/gin-gonic/gin"

	"storefront-service/internal/services"
)

func (h *Handler) CreateAffiliate(c *gin.Context) {
	var req services.CreateAffiliateDTO
	if !bindJSON(c, &req) {
		return
	}

	affiliate, err := h.Affiliates.CreateAffiliate(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, affiliate, "Affiliate created")
}

func (h *Handler) ListAffiliates(c *gin.Context) {
	res, err := h.Affiliates.ListAffiliates(c.Request.Context(), services.ListAffiliatesDTO{
		Status: c.Query("status"),
		Search: c.Query("search"),
		Page:   queryInt(c, "page"),
		Limit:  queryInt(c, "limit"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, res, "Affiliates retrieved")
}

func (h *Handler) UpdateAffiliate(c *gin.Context) {
	var req services.UpdateAffiliateDTO
	if !bindJSON(c, &req) {
		return
	}

	affiliate, err := h.Affiliates.UpdateAffiliate(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, affiliate, "Affiliate updated")
}

func (h *Handler) AffiliateDashboard(c *gin.Context) {
	actor, _ := CurrentActor(c)

	dash, err := h.Dashboard.AffiliateDashboard(c.Request.Context(), actor.AffiliateID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, dash, "Dashboard retrieved")
}
