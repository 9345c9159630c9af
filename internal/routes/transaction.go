package routes

import (
	"net/http"

	"Finary/internal/contracts"
	"Finary/internal/domain/report"
	"Finary/internal/domain/transaction"
	appErrors "Finary/internal/errors"
	"Finary/internal/pkg"

	"github.com/gin-gonic/gin"
)

func (h *Handler) CreateTransaction(c *gin.Context) {
	var body contracts.TransactionCreateRequest
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

	in := transaction.CreateInput{
		CategoryId:  categoryID,
		Type:        transaction.Types(body.Type),
		Amount:      body.Amount,
		Description: body.Description,
	}
	if body.Date != "" {
		if in.Date, err = parseDate("date", body.Date); err != nil {
			h.respondError(c, err)
			return
		}
	}

	created, err := h.TransactionService.Create(c.Request.Context(), userID, in)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (h *Handler) ListTransactions(c *gin.Context) {
	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	var query contracts.TransactionListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.respondError(c, appErrors.ParseValidationErrors(err))
		return
	}

	filters := report.Filters{Type: query.Type}
	if filters.CategoryId, err = parseOptionalID("categoryId", &query.CategoryId); err != nil {
		h.respondError(c, err)
		return
	}
	if filters.DateFrom, err = parseOptionalDate("dateFrom", &query.DateFrom); err != nil {
		h.respondError(c, err)
		return
	}
	if filters.DateTo, err = parseOptionalDate("dateTo", &query.DateTo); err != nil {
		h.respondError(c, err)
		return
	}

	page, err := h.TransactionService.List(c.Request.Context(), userID, filters, h.parsePagination(c))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

func (h *Handler) GetTransaction(c *gin.Context) {
	transactionID, ok := h.parseID(c)
	if !ok {
		return
	}

	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	found, err := h.TransactionService.Get(c.Request.Context(), transactionID, userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, found)
}

func (h *Handler) UpdateTransaction(c *gin.Context) {
	transactionID, ok := h.parseID(c)
	if !ok {
		return
	}

	var body contracts.TransactionUpdateRequest
	if !h.bind(c, &body) {
		return
	}

	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	patch := transaction.Patch{
		Amount:      body.Amount,
		Description: body.Description,
	}
	if body.Type != nil {
		typ := transaction.Types(*body.Type)
		patch.Type = &typ
	}
	if patch.CategoryId, err = parseOptionalID("categoryId", body.CategoryId); err != nil {
		h.respondError(c, err)
		return
	}
	if patch.Date, err = parseOptionalDate("date", body.Date); err != nil {
		h.respondError(c, err)
		return
	}

	updated, err := h.TransactionService.Update(c.Request.Context(), transactionID, userID, patch)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (h *Handler) DeleteTransaction(c *gin.Context) {
	transactionID, ok := h.parseID(c)
	if !ok {
		return
	}

	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	res, err := h.TransactionService.Remove(c.Request.Context(), transactionID, userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}
