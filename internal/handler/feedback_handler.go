package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/clinicamia/hr-performance-api/internal/models"
	"github.com/clinicamia/hr-performance-api/internal/service"
	appErrors "github.com/clinicamia/hr-performance-api/pkg/errors"
	"github.com/clinicamia/hr-performance-api/pkg/response"
)

// FeedbackHandler exposes feedback endpoints.
type FeedbackHandler struct {
	feedback *service.FeedbackService
}

// NewFeedbackHandler constructs handler.
func NewFeedbackHandler(feedback *service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{feedback: feedback}
}

// Create godoc
// @Summary Leave feedback for an employee
// @Tags Feedback
// @Accept json
// @Produce json
// @Param employeeId path string true "Employee ID"
// @Param payload body service.CreateFeedbackRequest true "Feedback payload"
// @Success 201 {object} response.Envelope
// @Router /employees/{employeeId}/feedback [post]
func (h *FeedbackHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req service.CreateFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	feedback, err := h.feedback.Create(c.Request.Context(), c.Param("employeeId"), claims.EmployeeID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, feedback)
}

// List godoc
// @Summary List feedback for an employee
// @Tags Feedback
// @Produce json
// @Param employeeId path string true "Employee ID"
// @Param type query string false "Filter by feedback type"
// @Param page query int false "Page number"
// @Param pageSize query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /employees/{employeeId}/feedback [get]
func (h *FeedbackHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	pageSize, _ := strconv.Atoi(c.Query("pageSize"))
	filter := models.FeedbackFilter{
		EmployeeID: c.Param("employeeId"),
		Type:       models.FeedbackType(c.Query("type")),
		Page:       page,
		PageSize:   pageSize,
	}
	feedback, pagination, err := h.feedback.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, feedback, pagination)
}
