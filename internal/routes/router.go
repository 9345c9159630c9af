package routes

import (
	"Finary/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Register mounts the API on router. Everything under /api requires a user.
func (h *Handler) Register(router gin.IRouter, limiter *middleware.RateLimiter) {
	RegisterValidators()

	router.GET("/health", h.Health)

	api := router.Group("/api")
	api.Use(middleware.RequireUser())
	api.Use(middleware.RateLimitByUser(limiter))
	{
		transactions := api.Group("/transactions")
		{
			transactions.POST("", h.CreateTransaction)
			transactions.GET("", h.ListTransactions)
			transactions.GET("/:id", h.GetTransaction)
			transactions.PATCH("/:id", h.UpdateTransaction)
			transactions.DELETE("/:id", h.DeleteTransaction)
		}

		budgets := api.Group("/budgets")
		{
			budgets.POST("", h.CreateBudget)
			budgets.GET("", h.ListBudgets)
			budgets.GET("/summary", h.GetBudgetSummary)
			budgets.GET("/:id", h.GetBudget)
			budgets.PATCH("/:id", h.UpdateBudget)
			budgets.DELETE("/:id", h.DeleteBudget)
		}

		categories := api.Group("/categories")
		{
			categories.POST("", h.CreateCategory)
			categories.GET("", h.ListCategories)
			categories.GET("/:id", h.GetCategory)
			categories.PATCH("/:id", h.UpdateCategory)
			categories.DELETE("/:id", h.DeleteCategory)
		}

		goals := api.Group("/goals")
		{
			goals.POST("", h.CreateGoal)
			goals.GET("", h.ListGoals)
			goals.GET("/:id", h.GetGoal)
			goals.PATCH("/:id", h.UpdateGoal)
			goals.DELETE("/:id", h.DeleteGoal)
		}
	}
}
