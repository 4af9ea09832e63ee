package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/clinicamia/hr-performance-api/internal/service"
	appErrors "github.com/clinicamia/hr-performance-api/pkg/errors"
	"github.com/clinicamia/hr-performance-api/pkg/response"
)

// EvaluationHandler exposes evaluation submission and results endpoints.
type EvaluationHandler struct {
	evaluations *service.EvaluationService
}

// NewEvaluationHandler constructs handler.
func NewEvaluationHandler(evaluations *service.EvaluationService) *EvaluationHandler {
	return &EvaluationHandler{evaluations: evaluations}
}

// Pending godoc
// @Summary List the caller's open evaluation tasks
// @Tags Evaluations
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /evaluations/pending [get]
func (h *EvaluationHandler) Pending(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	pending, err := h.evaluations.PendingForRater(c.Request.Context(), claims.EmployeeID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, pending, nil)
}

// Submit godoc
// @Summary Submit answers for an assigned evaluation task
// @Tags Evaluations
// @Accept json
// @Produce json
// @Param id path string true "Evaluation ID"
// @Param payload body service.SubmitRequest true "Submission payload"
// @Success 200 {object} response.Envelope
// @Router /evaluations/{id}/submit [post]
func (h *EvaluationHandler) Submit(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req service.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.evaluations.Submit(c.Request.Context(), c.Param("id"), claims.EmployeeID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Results godoc
// @Summary Consolidated evaluation results for an employee
// @Tags Evaluations
// @Produce json
// @Param employeeId path string true "Employee ID"
// @Param year query int false "Filter by period year"
// @Success 200 {object} response.Envelope
// @Router /employees/{employeeId}/results [get]
func (h *EvaluationHandler) Results(c *gin.Context) {
	year, _ := strconv.Atoi(c.Query("year"))
	results, err := h.evaluations.EmployeeResults(c.Request.Context(), c.Param("employeeId"), year)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, results, nil)
}

// Export godoc
// @Summary Export an employee's results as CSV or PDF
// @Tags Evaluations
// @Produce text/csv,application/pdf
// @Param employeeId path string true "Employee ID"
// @Param year query int false "Filter by period year"
// @Param format query string true "csv or pdf"
// @Success 200 {file} binary
// @Router /employees/{employeeId}/results/export [get]
func (h *EvaluationHandler) Export(c *gin.Context) {
	employeeID := c.Param("employeeId")
	year, _ := strconv.Atoi(c.Query("year"))
	format := c.DefaultQuery("format", "csv")

	data, contentType, err := h.evaluations.ExportResults(c.Request.Context(), employeeID, year, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	filename := fmt.Sprintf("results-%s.%s", employeeID, format)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, data)
}

// Stats godoc
// @Summary Evaluation completion statistics
// @Tags Evaluations
// @Produce json
// @Param periodId query string false "Scope to one period"
// @Success 200 {object} response.Envelope
// @Router /evaluations/stats [get]
func (h *EvaluationHandler) Stats(c *gin.Context) {
	stats, err := h.evaluations.Stats(c.Request.Context(), c.Query("periodId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil)
}
