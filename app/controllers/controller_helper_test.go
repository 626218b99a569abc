package controllers

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"github.com/taskfox/taskfox/internal/pkg/billing"
)

func TestBillingErrorStatus(t *testing.T) {
	cases := map[billing.Code]int{
		billing.CodeValidation:    fiber.StatusUnprocessableEntity,
		billing.CodeNotFound:      fiber.StatusNotFound,
		billing.CodeConflict:      fiber.StatusConflict,
		billing.CodeForbidden:     fiber.StatusForbidden,
		billing.CodeQuotaExceeded: fiber.StatusForbidden,
		billing.CodeInvalidState:  fiber.StatusBadRequest,
		billing.CodeGateway:       fiber.StatusBadGateway,
		billing.CodeInternal:      fiber.StatusInternalServerError,
	}
	for code, want := range cases {
		assert.Equal(t, want, billingErrorStatus(code), string(code))
	}
}
