package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/clinicamia/hr-performance-api/internal/service"
	appErrors "github.com/clinicamia/hr-performance-api/pkg/errors"
	"github.com/clinicamia/hr-performance-api/pkg/response"
)

// ObjectiveHandler exposes objective endpoints.
type ObjectiveHandler struct {
	objectives *service.ObjectiveService
}

// NewObjectiveHandler constructs handler.
func NewObjectiveHandler(objectives *service.ObjectiveService) *ObjectiveHandler {
	return &ObjectiveHandler{objectives: objectives}
}

// Create godoc
// @Summary Create an objective for an employee
// @Tags Objectives
// @Accept json
// @Produce json
// @Param employeeId path string true "Employee ID"
// @Param payload body service.CreateObjectiveRequest true "Objective payload"
// @Success 201 {object} response.Envelope
// @Router /employees/{employeeId}/objectives [post]
func (h *ObjectiveHandler) Create(c *gin.Context) {
	var req service.CreateObjectiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	objective, err := h.objectives.Create(c.Request.Context(), c.Param("employeeId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, objective)
}

// List godoc
// @Summary List an employee's objectives
// @Tags Objectives
// @Produce json
// @Param employeeId path string true "Employee ID"
// @Param year query int false "Filter by year"
// @Success 200 {object} response.Envelope
// @Router /employees/{employeeId}/objectives [get]
func (h *ObjectiveHandler) List(c *gin.Context) {
	year, _ := strconv.Atoi(c.Query("year"))
	objectives, err := h.objectives.List(c.Request.Context(), c.Param("employeeId"), year)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, objectives, nil)
}

// UpdateProgress godoc
// @Summary Update an objective's progress
// @Tags Objectives
// @Accept json
// @Produce json
// @Param id path string true "Objective ID"
// @Param payload body service.UpdateProgressRequest true "Progress payload"
// @Success 200 {object} response.Envelope
// @Router /objectives/{id}/progress [patch]
func (h *ObjectiveHandler) UpdateProgress(c *gin.Context) {
	var req service.UpdateProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	objective, err := h.objectives.UpdateProgress(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, objective, nil)
}
