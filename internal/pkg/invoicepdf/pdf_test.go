package invoicepdf

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDocument() Document {
	return Document{
		InvoiceNumber:   "INV-20260901-9F2C41A07B3D",
		IssueDate:       time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
		DueDate:         time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
		Status:          "PAID",
		UserName:        "Budi Santoso",
		UserEmail:       "budi@example.com",
		UserPhone:       "+62811111111",
		PlanName:        "Basic",
		PlanDescription: "Cocok untuk penggunaan personal",
		PlanFeatures:    []string{"50 tasks", "Priority support"},
		Subtotal:        decimal.NewFromInt(29000),
		Tax:             decimal.NewFromInt(3190),
		Total:           decimal.NewFromInt(32190),
		OrderID:         7,
		PaymentMethod:   "bank_transfer",
		Company: Company{
			Name:    "TaskFox",
			Address: "Jl. Sudirman No. 1, Jakarta",
			Phone:   "+62 21 555 0199",
			Email:   "billing@taskfox.io",
		},
	}
}

func TestRenderProducesPDF(t *testing.T) {
	data, err := NewGenerator().Render(testDocument())
	require.NoError(t, err)

	require.NotEmpty(t, data)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestRenderWithoutOptionalFields(t *testing.T) {
	doc := testDocument()
	doc.UserPhone = ""
	doc.PlanDescription = ""
	doc.PlanFeatures = nil

	data, err := NewGenerator().Render(doc)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestFormatIDR(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, "Rp 0"},
		{500, "Rp 500"},
		{29000, "Rp 29.000"},
		{199000, "Rp 199.000"},
		{1234567, "Rp 1.234.567"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, formatIDR(decimal.NewFromInt(tc.in)))
	}
}
