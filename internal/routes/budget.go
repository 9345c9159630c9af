package routes

import (
	"net/http"

	"Finary/internal/contracts"
	"Finary/internal/domain/budget"
	appErrors "Finary/internal/errors"
	"Finary/internal/pkg"

	"github.com/gin-gonic/gin"
)

func (h *Handler) CreateBudget(c *gin.Context) {
	var body contracts.BudgetCreateRequest
	if !h.bind(c, &body) {
		return
	}

	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	categoryID, err := pkg.ParseULID(body.CategoryId)
	if err != nil {
		h.respondError(c, appErrors.NewValidationError("categoryId", "categoryId must be a valid ULID"))
		return
	}

	b, err := h.BudgetService.Create(c.Request.Context(), userID, budget.CreateInput{
		CategoryId: categoryID,
		Allocated:  body.Allocated,
		Period:     budget.Period(body.Period),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, contracts.NewBudgetResponse(b))
}

func (h *Handler) ListBudgets(c *gin.Context) {
	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	budgets, err := h.BudgetService.FindAll(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	out := make([]*contracts.BudgetResponse, 0, len(budgets))
	for _, b := range budgets {
		out = append(out, contracts.NewBudgetResponse(b))
	}

	c.JSON(http.StatusOK, pkg.PageOf(out, h.parsePagination(c)))
}

func (h *Handler) GetBudgetSummary(c *gin.Context) {
	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	summary, err := h.BudgetService.Summary(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, contracts.BudgetSummaryResponse{Summary: summary})
}

func (h *Handler) GetBudget(c *gin.Context) {
	budgetID, ok := h.parseID(c)
	if !ok {
		return
	}

	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	b, err := h.BudgetService.FindOne(c.Request.Context(), budgetID, userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, contracts.NewBudgetResponse(b))
}

func (h *Handler) UpdateBudget(c *gin.Context) {
	budgetID, ok := h.parseID(c)
	if !ok {
		return
	}

	var body contracts.BudgetUpdateRequest
	if !h.bind(c, &body) {
		return
	}

	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	in := budget.UpdateInput{Allocated: body.Allocated}
	if body.Period != nil {
		period := budget.Period(*body.Period)
		in.Period = &period
	}
	if in.CategoryId, err = parseOptionalID("categoryId", body.CategoryId); err != nil {
		h.respondError(c, err)
		return
	}

	b, err := h.BudgetService.Update(c.Request.Context(), budgetID, userID, in)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, contracts.NewBudgetResponse(b))
}

func (h *Handler) DeleteBudget(c *gin.Context) {
	budgetID, ok := h.parseID(c)
	if !ok {
		return
	}

	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	if err := h.BudgetService.Remove(c.Request.Context(), budgetID, userID); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, contracts.MessageResponse{Message: "Budget deleted successfully"})
}
