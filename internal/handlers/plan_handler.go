package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "spendtrack/internal/errors"
	"spendtrack/internal/models"
	"spendtrack/internal/services"
)

// PlanHandler handles plan-related requests. Mutations echo the full plan
// collection.
type PlanHandler struct {
	planService services.PlanServicer
}

// NewPlanHandler creates a new PlanHandler.
func NewPlanHandler(planService services.PlanServicer) *PlanHandler {
	return &PlanHandler{planService: planService}
}

// PlanRequest represents the request payload for creating or updating a plan.
type PlanRequest struct {
	Type        string          `json:"type" binding:"required,plan_type"`
	Description string          `json:"description" binding:"max=500"`
	Categories  []string        `json:"categories"`
	FromDate    string          `json:"from_date" binding:"required"`
	ToDate      string          `json:"to_date" binding:"required"`
	Amount      decimal.Decimal `json:"amount"`
}

func (h *PlanHandler) echoPlans(c *gin.Context, statusCode int, extra gin.H) {
	plans, err := h.planService.ListPlans()
	if err != nil {
		respondWithError(c, err)
		return
	}
	body := gin.H{"plans": plans}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(statusCode, body)
}

// CreatePlan handles the creation of a new plan
// @Summary     Create a plan
// @Description Create a budget plan over a date range and category set. The remaining balance starts at the full amount. Returns the full plan collection.
// @Tags        plans
// @Accept      json
// @Produce     json
// @Param       request body PlanRequest true "Plan details"
// @Success     201 {object} map[string]interface{} "Created plan and full collection"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     403 {object} ErrorResponse "Anti-forgery token mismatch"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /plans [post]
func (h *PlanHandler) CreatePlan(c *gin.Context) {
	var req PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	fromDate, err := parseDate(req.FromDate)
	if err != nil {
		respondWithError(c, err)
		return
	}
	toDate, err := parseDate(req.ToDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	plan, err := h.planService.CreatePlan(
		models.PlanType(req.Type),
		req.Description,
		req.Categories,
		fromDate,
		toDate,
		req.Amount,
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.echoPlans(c, http.StatusCreated, gin.H{"plan": plan})
}

// GetPlans handles the retrieval of all plans
// @Summary     List plans
// @Description List all plans with statuses refreshed against today
// @Tags        plans
// @Accept      json
// @Produce     json
// @Success     200 {object} map[string]interface{} "Plans"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /plans [get]
func (h *PlanHandler) GetPlans(c *gin.Context) {
	plans, err := h.planService.ListPlans()
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"plans": plans})
}

// GetPlanByID handles the retrieval of a specific plan
// @Summary     Get plan by ID
// @Description Get a specific plan by ID
// @Tags        plans
// @Accept      json
// @Produce     json
// @Param       id path int true "Plan ID"
// @Success     200 {object} map[string]interface{} "Plan details"
// @Failure     400 {object} ErrorResponse "Invalid plan ID"
// @Failure     404 {object} ErrorResponse "Plan not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /plans/{id} [get]
func (h *PlanHandler) GetPlanByID(c *gin.Context) {
	planID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	plan, err := h.planService.GetPlanByID(planID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"plan": plan})
}

// UpdatePlan handles updating an existing plan
// @Summary     Update plan
// @Description Replace a plan's fields. The remaining balance resets to the new amount and the plan becomes Active again. Returns the full plan collection.
// @Tags        plans
// @Accept      json
// @Produce     json
// @Param       id      path int         true "Plan ID"
// @Param       request body PlanRequest true "New field values"
// @Success     200 {object} map[string]interface{} "Updated plan and full collection"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     403 {object} ErrorResponse "Anti-forgery token mismatch"
// @Failure     404 {object} ErrorResponse "Plan not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /plans/{id} [put]
func (h *PlanHandler) UpdatePlan(c *gin.Context) {
	planID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	fromDate, err := parseDate(req.FromDate)
	if err != nil {
		respondWithError(c, err)
		return
	}
	toDate, err := parseDate(req.ToDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	plan, err := h.planService.UpdatePlan(
		planID,
		models.PlanType(req.Type),
		req.Description,
		req.Categories,
		fromDate,
		toDate,
		req.Amount,
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.echoPlans(c, http.StatusOK, gin.H{"plan": plan})
}

// DeletePlan handles the deletion of a plan
// @Summary     Delete plan
// @Description Delete a plan by ID. Returns the full plan collection.
// @Tags        plans
// @Accept      json
// @Produce     json
// @Param       id path int true "Plan ID"
// @Success     200 {object} map[string]interface{} "Deletion message and full collection"
// @Failure     400 {object} ErrorResponse "Invalid plan ID"
// @Failure     403 {object} ErrorResponse "Anti-forgery token mismatch"
// @Failure     404 {object} ErrorResponse "Plan not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /plans/{id} [delete]
func (h *PlanHandler) DeletePlan(c *gin.Context) {
	planID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.planService.DeletePlan(planID); err != nil {
		respondWithError(c, err)
		return
	}

	h.echoPlans(c, http.StatusOK, gin.H{"message": "Plan deleted successfully"})
}
