package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"storefront-service/internal/config"
	"storefront-service/internal/services"
	"storefront-service/pkg/common"
)

type Handler struct {
	Cfg         config.Config
	Links       *services.LinkService
	Tracking    *services.TrackingService
	Commission  *services.CommissionService
	Withdrawals *services.WithdrawalService
	Orders      *services.OrderService
	Affiliates  *services.AffiliateService
	Dashboard   *services.DashboardService
}

func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, common.ErrValidation("Invalid request body: "+err.Error()))
		return false
	}
	return true
}

func respondOK(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, common.NewSuccessResponse(data, message))
}

func respondCreated(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusCreated, common.NewCreatedResponse(data, message))
}

func queryInt(c *gin.Context, name string) int {
	v, _ := strconv.Atoi(c.Query(name))
	return v
}
