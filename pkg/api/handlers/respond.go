package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/coweringg/LawCaseAI/pkg/models"
	"github.com/coweringg/LawCaseAI/pkg/plans"
)

func respondOK(c echo.Context, message string, data any) error {
	return c.JSON(http.StatusOK, models.APIResponse{Success: true, Message: message, Data: data})
}

func respondCreated(c echo.Context, message string, data any) error {
	return c.JSON(http.StatusCreated, models.APIResponse{Success: true, Message: message, Data: data})
}

func respondError(c echo.Context, status int, message string) error {
	return c.JSON(status, models.APIResponse{Success: false, Message: message, Error: message})
}

// respondValidation maps validator errors to per-field messages.
func respondValidation(c echo.Context, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return respondError(c, http.StatusBadRequest, "invalid request payload")
	}

	fields := make([]models.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, models.FieldError{
			Field:   fe.Field(),
			Message: validationMessage(fe),
			Value:   fe.Value(),
		})
	}

	return c.JSON(http.StatusBadRequest, models.APIResponse{
		Success: false,
		Message: "validation failed",
		Error:   fields,
	})
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

// respondPlanLimit is the quota-exhausted response, carrying the usage
// snapshot so the client can render an upgrade prompt.
func respondPlanLimit(c echo.Context, limitErr *plans.LimitError) error {
	return c.JSON(http.StatusForbidden, models.APIResponse{
		Success: false,
		Message: "plan limit reached",
		Error:   limitErr.Error(),
		Data: map[string]any{
			"current": limitErr.Current,
			"limit":   limitErr.Limit,
			"plan":    limitErr.Plan,
		},
	})
}
