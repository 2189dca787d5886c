package handler

import (
	"net/http"

	"buyback-logistics/internal/maps"
	"buyback-logistics/internal/usecase/distance"
	appErrors "buyback-logistics/pkg/errors"
	"buyback-logistics/pkg/utils"

	"github.com/gin-gonic/gin"
)

type QuoteHandler struct {
	service *distance.Service
}

func NewQuoteHandler(service *distance.Service) *QuoteHandler {
	return &QuoteHandler{service: service}
}

func (h *QuoteHandler) RegisterRoutes(router *gin.RouterGroup) {
	quotes := router.Group("/quotes")
	{
		quotes.POST("/estimate", h.Estimate)
	}
	router.GET("/navigation", h.Navigation)
}

// Estimate computes the pickup fee and eligibility for an address. An
// ineligible address is still a successful estimate; the result carries the
// rejection reason.
func (h *QuoteHandler) Estimate(c *gin.Context) {
	var req distance.EstimateRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		respondError(c, appErrors.NewAppError(appErrors.CodeValidation, "Invalid estimate input", err))
		return
	}

	result := h.service.Calculate(c.Request.Context(), req.Address, req.QuoteValue)

	utils.SuccessResponse(c, http.StatusOK, "Estimate calculated", result)
}

// Navigation returns a deep link the driver app can open for turn-by-turn
// directions to an address.
func (h *QuoteHandler) Navigation(c *gin.Context) {
	address := c.Query("address")
	if address == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "address query parameter is required")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Navigation link generated", gin.H{
		"url": maps.NavigationURL(address),
	})
}
