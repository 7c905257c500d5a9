package intervention

import (
	"errors"
	"net/http"
	"strconv"

	"interventions/internal/middleware"
	"interventions/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/interventions", h.Create)
	rg.GET("/interventions", h.List)
	rg.GET("/interventions/:id", h.Get)
	rg.PUT("/interventions/:id", h.Update)
	rg.DELETE("/interventions/:id", middleware.RequireRole("admin", "manager"), h.Delete)
	rg.POST("/interventions/:id/assign/:technician_id", h.Assign)
	rg.POST("/interventions/:id/start", h.Start)
	rg.POST("/interventions/:id/close", h.Close)
	rg.GET("/interventions/machine/:machine_id", h.ListByMachine)
	rg.GET("/interventions/technician/:technician_id", h.ListByTechnician)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	iv, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err, "Failed to create intervention")
		return
	}
	response.Success(c, http.StatusCreated, iv)
}

func (h *Handler) Get(c *gin.Context) {
	iv, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err, "Failed to fetch intervention")
		return
	}
	response.Success(c, http.StatusOK, iv)
}

func (h *Handler) List(c *gin.Context) {
	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid query parameters")
		return
	}

	items, err := h.service.List(c.Request.Context(), q)
	if err != nil {
		h.respondError(c, err, "Failed to list interventions")
		return
	}
	response.Success(c, http.StatusOK, items)
}

func (h *Handler) Update(c *gin.Context) {
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	iv, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.respondError(c, err, "Failed to update intervention")
		return
	}
	response.Success(c, http.StatusOK, iv)
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err, "Failed to delete intervention")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) Assign(c *gin.Context) {
	technicianID, err := strconv.Atoi(c.Param("technician_id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid technician id")
		return
	}

	iv, err := h.service.Assign(c.Request.Context(), c.Param("id"), technicianID)
	if err != nil {
		h.respondError(c, err, "Failed to assign technician")
		return
	}
	response.Success(c, http.StatusOK, iv)
}

func (h *Handler) Start(c *gin.Context) {
	iv, err := h.service.Start(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err, "Failed to start intervention")
		return
	}
	response.Success(c, http.StatusOK, iv)
}

func (h *Handler) Close(c *gin.Context) {
	var req CloseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid closure payload")
		return
	}

	iv, err := h.service.Close(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.respondError(c, err, "Failed to close intervention")
		return
	}
	response.Success(c, http.StatusOK, iv)
}

func (h *Handler) ListByMachine(c *gin.Context) {
	machineID, err := strconv.Atoi(c.Param("machine_id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid machine id")
		return
	}

	items, err := h.service.ListByMachine(c.Request.Context(), machineID)
	if err != nil {
		h.respondError(c, err, "Failed to list interventions")
		return
	}
	response.Success(c, http.StatusOK, items)
}

func (h *Handler) ListByTechnician(c *gin.Context) {
	technicianID, err := strconv.Atoi(c.Param("technician_id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid technician id")
		return
	}

	items, err := h.service.ListByTechnician(c.Request.Context(), technicianID)
	if err != nil {
		h.respondError(c, err, "Failed to list interventions")
		return
	}
	response.Success(c, http.StatusOK, items)
}

func (h *Handler) respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrInvalidID):
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid intervention id")
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Intervention not found")
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrTechnicianUnavailable):
		response.Error(c, http.StatusBadRequest, "TECHNICIAN_UNAVAILABLE", "Technician not available at the requested time")
	case errors.Is(err, ErrStockDecrement):
		response.Error(c, http.StatusBadRequest, "STOCK_DECREMENT_FAILED", err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", fallback)
	}
}
