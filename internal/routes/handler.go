package routes

import (
	"strings"
	"time"

	"Finary/internal/domain/budget"
	"Finary/internal/domain/category"
	"Finary/internal/domain/goal"
	"Finary/internal/domain/transaction"
	appErrors "Finary/internal/errors"
	"Finary/internal/logger"
	"Finary/internal/middleware"
	"Finary/internal/pkg"

	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"
)

type Handler struct {
	TransactionService *transaction.Service
	BudgetService      *budget.Service
	CategoryService    *category.Service
	GoalService        *goal.Service
	HealthChecks       []HealthCheck
}

func (h *Handler) GetUserIDFromContext(c *gin.Context) (ulid.ULID, error) {
	userIDStr, exists := c.Get(middleware.UserIDKey)
	if !exists {
		return ulid.ULID{}, appErrors.ErrUnauthorized
	}

	userID, err := pkg.ParseULID(userIDStr.(string))
	if err != nil {
		return ulid.ULID{}, appErrors.ErrUnauthorized.WithError(err)
	}

	return userID, nil
}

func (h *Handler) parsePagination(c *gin.Context) *pkg.PaginationParams {
	page := c.DefaultQuery("page", "1")
	limit := c.DefaultQuery("limit", "10")

	var pageNum, limitNum int
	if p, err := pkg.ParseInt(page); err == nil && p > 0 {
		pageNum = p
	} else {
		pageNum = pkg.DefaultPage
	}

	if l, err := pkg.ParseInt(limit); err == nil && l > 0 {
		limitNum = l
	} else {
		limitNum = pkg.DefaultLimit
	}

	return pkg.NormalizePagination(&pkg.PaginationParams{
		Page:  pageNum,
		Limit: limitNum,
	})
}

func (h *Handler) parseID(c *gin.Context) (ulid.ULID, bool) {
	id, err := pkg.ParseULID(c.Param("id"))
	if err != nil {
		h.respondError(c, appErrors.NewValidationError("id", "id must be a valid ULID"))
		return ulid.ULID{}, false
	}
	return id, true
}

// bind decodes the JSON body into dst and reports validation failures per
// field.
func (h *Handler) bind(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		h.respondError(c, appErrors.ParseValidationErrors(err))
		return false
	}
	return true
}

func (h *Handler) respondError(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)

	event := logger.Warn()
	if appErr.Kind == appErrors.KindInternal {
		event = logger.Error()
	}
	event = event.Str("code", appErr.Code).Str("path", c.FullPath())
	if appErr.Err != nil {
		event = event.Err(appErr.Err)
	}
	event.Msg("request_error")

	payload := gin.H{
		"error":   appErr.Code,
		"message": appErr.Message,
	}
	if len(appErr.Details) > 0 {
		payload["details"] = appErr.Details
	}
	c.JSON(appErr.StatusCode, payload)
}

const dateLayout = "2006-01-02"

// parseDate accepts RFC3339 timestamps and plain dates. Plain dates are
// midnight UTC.
func parseDate(field, raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(dateLayout, raw); err == nil {
		return t, nil
	}
	return time.Time{}, appErrors.NewValidationError(field, field+" must be RFC3339 or YYYY-MM-DD")
}

func parseOptionalDate(field string, raw *string) (*time.Time, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	t, err := parseDate(field, *raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func parseOptionalID(field string, raw *string) (*ulid.ULID, error) {
	id, err := pkg.MustParseULIDPtr(raw)
	if err != nil {
		return nil, appErrors.NewValidationError(field, field+" must be a valid ULID")
	}
	return id, nil
}
