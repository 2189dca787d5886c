package handler

import (
	"net/http"
	"time"

	domainSchedule "buyback-logistics/internal/domain/schedule"
	"buyback-logistics/internal/usecase/route"
	appErrors "buyback-logistics/pkg/errors"
	"buyback-logistics/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type RouteHandler struct {
	service *route.Service
}

func NewRouteHandler(service *route.Service) *RouteHandler {
	return &RouteHandler{service: service}
}

func (h *RouteHandler) RegisterRoutes(router *gin.RouterGroup) {
	routes := router.Group("/routes")
	{
		routes.GET("", h.ListRoutes)
		routes.POST("/build", h.BuildRoute)
		routes.GET("/:id", h.GetRoute)
		routes.POST("/:id/reoptimize", h.Reoptimize)
		routes.GET("/:id/next-pickup", h.NextPickup)
		routes.POST("/:id/pickups/:pickupId/status", h.UpdatePickupStatus)
	}
}

func (h *RouteHandler) ListRoutes(c *gin.Context) {
	dateStr := c.Query("date")
	if dateStr == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "date query parameter is required")
		return
	}

	date, err := time.ParseInLocation(domainSchedule.DateFormat, dateStr, time.Local)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
		return
	}

	routes, err := h.service.ListByDate(c.Request.Context(), date)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Routes retrieved", routes)
}

func (h *RouteHandler) BuildRoute(c *gin.Context) {
	var req route.BuildRouteRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		respondError(c, appErrors.NewAppError(appErrors.CodeValidation, "Invalid route input", err))
		return
	}

	date, err := time.ParseInLocation(domainSchedule.DateFormat, req.Date, time.Local)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
		return
	}

	result, err := h.service.Build(c.Request.Context(), date)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Route built", result)
}

func (h *RouteHandler) GetRoute(c *gin.Context) {
	routeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid route ID")
		return
	}

	result, err := h.service.GetByID(c.Request.Context(), routeID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Route retrieved", result)
}

func (h *RouteHandler) Reoptimize(c *gin.Context) {
	routeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid route ID")
		return
	}

	result, err := h.service.Reoptimize(c.Request.Context(), routeID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Route re-optimized", result)
}

func (h *RouteHandler) NextPickup(c *gin.Context) {
	routeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid route ID")
		return
	}

	next, err := h.service.NextPickup(c.Request.Context(), routeID)
	if err != nil {
		respondError(c, err)
		return
	}

	if next == nil {
		utils.SuccessResponse(c, http.StatusOK, "No pickups remaining", nil)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Next pickup retrieved", next)
}

func (h *RouteHandler) UpdatePickupStatus(c *gin.Context) {
	routeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid route ID")
		return
	}

	pickupID, err := uuid.Parse(c.Param("pickupId"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid pickup ID")
		return
	}

	var req route.UpdatePickupStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.service.UpdatePickupStatus(c.Request.Context(), routeID, pickupID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Pickup status updated", result)
}
