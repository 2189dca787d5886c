package handler

import (
	"net/http"
	"time"

	domainSchedule "buyback-logistics/internal/domain/schedule"
	"buyback-logistics/internal/usecase/schedule"
	appErrors "buyback-logistics/pkg/errors"
	"buyback-logistics/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ScheduleHandler struct {
	service *schedule.Service
}

func NewScheduleHandler(service *schedule.Service) *ScheduleHandler {
	return &ScheduleHandler{service: service}
}

func (h *ScheduleHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/slots", h.ListSlots)

	appointments := router.Group("/appointments")
	{
		appointments.POST("", h.Book)
		appointments.POST("/:id/cancel", h.Cancel)
		appointments.POST("/:id/status", h.UpdateStatus)
	}
}

func (h *ScheduleHandler) RegisterAdminRoutes(router *gin.RouterGroup) {
	slots := router.Group("/slots")
	{
		slots.POST("/init", h.InitSlots)
		slots.POST("/block", h.BlockSlot)
		slots.POST("/unblock", h.UnblockSlot)
	}
}

func (h *ScheduleHandler) ListSlots(c *gin.Context) {
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

	slots, err := h.service.ListAvailability(c.Request.Context(), date)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Available slots retrieved", slots)
}

func (h *ScheduleHandler) Book(c *gin.Context) {
	var req schedule.BookingRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.service.Book(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Appointment booked", result)
}

func (h *ScheduleHandler) Cancel(c *gin.Context) {
	apptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid appointment ID")
		return
	}

	var req schedule.CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.service.Cancel(c.Request.Context(), apptID, req.Reason); err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Appointment cancelled", nil)
}

func (h *ScheduleHandler) UpdateStatus(c *gin.Context) {
	apptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid appointment ID")
		return
	}

	var req schedule.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		respondError(c, appErrors.NewAppError(appErrors.CodeValidation, "Invalid status input", err))
		return
	}

	err = h.service.UpdateStatus(c.Request.Context(), apptID, domainSchedule.AppointmentStatus(req.Status), req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Appointment status updated", nil)
}

func (h *ScheduleHandler) InitSlots(c *gin.Context) {
	created, err := h.service.EnsureSlotsInitialized(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Schedule slots initialized", gin.H{"created": created})
}

func (h *ScheduleHandler) BlockSlot(c *gin.Context) {
	h.setBlocked(c, true)
}

func (h *ScheduleHandler) UnblockSlot(c *gin.Context) {
	h.setBlocked(c, false)
}

func (h *ScheduleHandler) setBlocked(c *gin.Context, blocked bool) {
	var req schedule.BlockSlotRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		respondError(c, appErrors.NewAppError(appErrors.CodeValidation, "Invalid slot input", err))
		return
	}

	date, err := time.ParseInLocation(domainSchedule.DateFormat, req.Date, time.Local)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
		return
	}

	if blocked {
		err = h.service.BlockSlot(c.Request.Context(), date, req.StartTime)
	} else {
		err = h.service.UnblockSlot(c.Request.Context(), date, req.StartTime)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	message := "Slot unblocked"
	if blocked {
		message = "Slot blocked"
	}
	utils.SuccessResponse(c, http.StatusOK, message, nil)
}
