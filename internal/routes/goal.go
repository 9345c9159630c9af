package routes

import (
	"net/http"

	"Finary/internal/contracts"
	"Finary/internal/domain/goal"
	appErrors "Finary/internal/errors"
	"Finary/internal/pkg"

	"github.com/gin-gonic/gin"
)

func (h *Handler) CreateGoal(c *gin.Context) {
	var body contracts.GoalCreateRequest
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
	date, err := parseDate("date", body.Date)
	if err != nil {
		h.respondError(c, err)
		return
	}

	created, err := h.GoalService.Create(c.Request.Context(), userID, goal.CreateInput{
		Name:       body.Name,
		CategoryId: categoryID,
		Amount:     body.Amount,
		Date:       date,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (h *Handler) ListGoals(c *gin.Context) {
	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	goals, err := h.GoalService.FindAll(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, pkg.PageOf(goals, h.parsePagination(c)))
}

func (h *Handler) GetGoal(c *gin.Context) {
	goalID, ok := h.parseID(c)
	if !ok {
		return
	}

	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	found, err := h.GoalService.FindOne(c.Request.Context(), goalID, userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, found)
}

func (h *Handler) UpdateGoal(c *gin.Context) {
	goalID, ok := h.parseID(c)
	if !ok {
		return
	}

	var body contracts.GoalUpdateRequest
	if !h.bind(c, &body) {
		return
	}

	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	in := goal.UpdateInput{Name: body.Name, Amount: body.Amount}
	if in.CategoryId, err = parseOptionalID("categoryId", body.CategoryId); err != nil {
		h.respondError(c, err)
		return
	}
	if in.Date, err = parseOptionalDate("date", body.Date); err != nil {
		h.respondError(c, err)
		return
	}

	updated, err := h.GoalService.Update(c.Request.Context(), goalID, userID, in)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// DeleteGoal answers with the removed goal.
func (h *Handler) DeleteGoal(c *gin.Context) {
	goalID, ok := h.parseID(c)
	if !ok {
		return
	}

	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	removed, err := h.GoalService.Remove(c.Request.Context(), goalID, userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, removed)
}
