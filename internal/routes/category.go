package routes

import (
	"net/http"

	"Finary/internal/contracts"
	"Finary/internal/domain/category"
	"Finary/internal/pkg"

	"github.com/gin-gonic/gin"
)

func (h *Handler) CreateCategory(c *gin.Context) {
	var body contracts.CategoryCreateRequest
	if !h.bind(c, &body) {
		return
	}

	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	created, err := h.CategoryService.Create(c.Request.Context(), userID, category.CreateInput{
		Name:        body.Name,
		Description: body.Description,
		Type:        category.Types(body.Type),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (h *Handler) ListCategories(c *gin.Context) {
	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	categories, err := h.CategoryService.FindAll(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, pkg.PageOf(categories, h.parsePagination(c)))
}

func (h *Handler) GetCategory(c *gin.Context) {
	categoryID, ok := h.parseID(c)
	if !ok {
		return
	}

	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	found, err := h.CategoryService.FindOne(c.Request.Context(), categoryID, userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, found)
}

func (h *Handler) UpdateCategory(c *gin.Context) {
	categoryID, ok := h.parseID(c)
	if !ok {
		return
	}

	var body contracts.CategoryUpdateRequest
	if !h.bind(c, &body) {
		return
	}

	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	in := category.UpdateInput{Name: body.Name, Description: body.Description}
	if body.Type != nil {
		typ := category.Types(*body.Type)
		in.Type = &typ
	}

	updated, err := h.CategoryService.Update(c.Request.Context(), categoryID, userID, in)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (h *Handler) DeleteCategory(c *gin.Context) {
	categoryID, ok := h.parseID(c)
	if !ok {
		return
	}

	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	if err := h.CategoryService.Remove(c.Request.Context(), categoryID, userID); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, contracts.MessageResponse{Message: "Category deleted successfully"})
}
