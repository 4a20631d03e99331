package handlers

import (
	"github.com/gin-gonic/gin"

	"storefront-service/internal/services"
)

func (h *Handler) CreateLink(c *gin.Context) {
	actor, _ := CurrentActor(c)
	h.createLink(c, actor.AffiliateID)
}

// CreateLinkForAffiliate lets an admin create a link on an affiliate's behalf.
func (h *Handler) CreateLinkForAffiliate(c *gin.Context) {
	h.createLink(c, c.Param("id"))
}

func (h *Handler) createLink(c *gin.Context, affiliateID string) {
	var req services.CreateLinkDTO
	if !bindJSON(c, &req) {
		return
	}

	link, err := h.Links.CreateLink(c.Request.Context(), affiliateID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, link, "Link created")
}

func (h *Handler) ListLinks(c *gin.Context) {
	actor, _ := CurrentActor(c)

	links, err := h.Links.ListLinks(c.Request.Context(), actor.AffiliateID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, links, "Links retrieved")
}

func (h *Handler) UpdateLink(c *gin.Context) {
	actor, _ := CurrentActor(c)

	var req services.UpdateLinkDTO
	if !bindJSON(c, &req) {
		return
	}

	link, err := h.Links.UpdateLink(c.Request.Context(), c.Param("id"), actor.AffiliateID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, link, "Link updated")
}

func (h *Handler) DeleteLink(c *gin.Context) {
	actor, _ := CurrentActor(c)

	if err := h.Links.DeleteLink(c.Request.Context(), c.Param("id"), actor.AffiliateID); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, nil, "Link deleted")
}
