package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-service/internal/services"
)

// Track handles /track?ref=<slug>&to=<path> and /r/:slug?to=<path>.
// It always redirects, whatever happened to the click.
func (h *Handler) Track(c *gin.Context) {
	slug := c.Query("ref")
	if slug == "" {
		slug = c.Param("slug")
	}

	res := h.Tracking.TrackVisit(c.Request.Context(), services.TrackVisitDTO{
		Slug:        slug,
		Destination: c.Query("to"),
		UserAgent:   c.Request.UserAgent(),
		ClientIP:    c.ClientIP(),
		Referrer:    c.Request.Referer(),
	})

	if res.Token != nil {
		h.setAttributionCookies(c, *res.Token)
	}
	c.Redirect(http.StatusFound, res.RedirectTo)
}

// Cookies are readable by storefront scripts, so they are not HttpOnly.
func (h *Handler) setAttributionCookies(c *gin.Context, token services.AttributionToken) {
	aff := h.Cfg.Affiliate
	maxAge := int(aff.CookieTTL.Seconds())
	secure := h.Cfg.IsProduction()

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(aff.AffiliateCookieName, token.AffiliateID, maxAge, "/", "", secure, false)
	c.SetCookie(aff.LinkCookieName, token.LinkID, maxAge, "/", "", secure, false)
}

// attributionFromCookies rebuilds the token written by Track. Expiry is
// enforced by the cookie Max-Age, so the token carries none.
func (h *Handler) attributionFromCookies(c *gin.Context) *services.AttributionToken {
	affiliateID, err := c.Cookie(h.Cfg.Affiliate.AffiliateCookieName)
	if err != nil || affiliateID == "" {
		return nil
	}
	linkID, _ := c.Cookie(h.Cfg.Affiliate.LinkCookieName)
	return &services.AttributionToken{AffiliateID: affiliateID, LinkID: linkID}
}
