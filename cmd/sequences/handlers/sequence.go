package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/lyzr/sequences/cmd/sequences/models"
	"github.com/lyzr/sequences/cmd/sequences/service"
)

const (
	defaultListLimit = 10
	maxListLimit     = 50
)

// SequenceHandler handles sequence and subsequence requests
type SequenceHandler struct {
	service *service.SequenceService
}

// NewSequenceHandler creates a new sequence handler
func NewSequenceHandler(svc *service.SequenceService) *SequenceHandler {
	return &SequenceHandler{
		service: svc,
	}
}

// CreateSequence stores a sequence and all of its subsequences
// POST /sequences
func (h *SequenceHandler) CreateSequence(c echo.Context) error {
	var req models.CreateSequenceRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"detail": "invalid request body",
		})
	}

	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, map[string]interface{}{
			"detail": validationDetail(err),
		})
	}

	result, err := h.service.CreateFromSequence(c.Request().Context(), req.Items)
	if err != nil {
		var tooLarge *service.TooLargeError
		if errors.Is(err, service.ErrEmptySequence) || errors.As(err, &tooLarge) {
			return c.JSON(http.StatusUnprocessableEntity, map[string]interface{}{
				"detail": err.Error(),
			})
		}
		// Store failures surface as 500 through echo's error handler
		return err
	}

	return c.JSON(http.StatusCreated, result)
}

// ListSubsequences lists the latest sequences with their subsequences
// GET /subsequences?limit=10
func (h *SequenceHandler) ListSubsequences(c echo.Context) error {
	limit := defaultListLimit
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > maxListLimit {
			return c.JSON(http.StatusUnprocessableEntity, map[string]interface{}{
				"detail": "limit must be an integer between 1 and 50",
			})
		}
		limit = parsed
	}

	groups, err := h.service.ListLatest(c.Request().Context(), limit)
	if err != nil {
		return err
	}

	if groups == nil {
		groups = []models.SequenceGroup{}
	}

	return c.JSON(http.StatusOK, groups)
}

// validationDetail shapes validator errors into per-field entries
func validationDetail(err error) interface{} {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	details := make([]map[string]interface{}, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, map[string]interface{}{
			"field":   fe.Namespace(),
			"rule":    fe.Tag(),
			"message": fe.Error(),
		})
	}
	return details
}
