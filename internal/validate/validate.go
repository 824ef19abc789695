// Package validate normalizes create/update payloads before they reach
// persistence. It is a pure transform: a payload either comes out as a
// TaskInput or as the full list of violated rules, never both.
package validate

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Paul-Karonji/client-task-tracker/internal/model"
)

const dateLayout = "2006-01-02"

var validate = validator.New()

type checkedPayload struct {
	ClientName      string   `validate:"required,max=255"`
	TaskDescription string   `validate:"required"`
	ExpectedAmount  *float64 `validate:"required,gte=0"`
}

// Task checks a raw payload against the task schema. On success it
// returns the normalized input; on failure it returns every violated
// rule's message so the client can fix all problems in one round trip.
func Task(payload *model.TaskPayload) (*model.TaskInput, []string) {
	var details []string

	checked := checkedPayload{
		ClientName:      strings.TrimSpace(payload.ClientName),
		TaskDescription: payload.TaskDescription,
		ExpectedAmount:  payload.ExpectedAmount,
	}
	if err := validate.Struct(&checked); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return nil, []string{"invalid payload"}
		}
		for _, fe := range fieldErrs {
			details = append(details, message(fe))
		}
	}

	commissioned, err := parseDate(payload.DateCommissioned)
	if err != nil {
		details = append(details, "date_commissioned must be a valid ISO 8601 date")
	}
	delivered, err := parseDate(payload.DateDelivered)
	if err != nil {
		details = append(details, "date_delivered must be a valid ISO 8601 date")
	}

	if len(details) > 0 {
		return nil, details
	}

	input := &model.TaskInput{
		ClientName:       checked.ClientName,
		TaskDescription:  payload.TaskDescription,
		DateCommissioned: commissioned,
		DateDelivered:    delivered,
		ExpectedAmount:   *payload.ExpectedAmount,
	}
	if payload.IsPaid != nil {
		input.IsPaid = *payload.IsPaid
	}
	return input, nil
}

// parseDate treats "" as absence rather than an error. Accepts a plain
// calendar date or a full RFC 3339 timestamp truncated to its date.
func parseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse(dateLayout, value); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, err
	}
	t = t.UTC().Truncate(24 * time.Hour)
	return &t, nil
}

func message(fe validator.FieldError) string {
	field := fieldName(fe.StructField())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

func fieldName(structField string) string {
	switch structField {
	case "ClientName":
		return "client_name"
	case "TaskDescription":
		return "task_description"
	case "ExpectedAmount":
		return "expected_amount"
	default:
		return structField
	}
}
