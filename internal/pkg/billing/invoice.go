package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/taskfox/taskfox/app/models"
	"github.com/taskfox/taskfox/internal/pkg/env"
	"github.com/taskfox/taskfox/internal/pkg/invoicepdf"
	"github.com/taskfox/taskfox/internal/pkg/storage"
	"gorm.io/gorm"
)

// taxRate is the Indonesian VAT (PPN) applied on every invoice.
var taxRate = decimal.NewFromFloat(0.11)

// newInvoiceNumber builds a unique human-readable invoice number, e.g.
// INV-20260901-9F2C41A07B3D.
func newInvoiceNumber(at time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:12]
	return fmt.Sprintf("INV-%s-%s", at.Format("20060102"), suffix)
}

func invoiceBlobKey(userEmail, invoiceNumber string) string {
	return fmt.Sprintf("invoices/%s/%s.pdf", userEmail, invoiceNumber)
}

// generateInvoice creates the invoice record and its PDF artifact for a
// settled order. It runs inside the settlement transaction; a render or
// storage failure rolls the whole settlement back.
func (s *Service) generateInvoice(ctx context.Context, tx Repository, order *models.Order, payment *models.Payment, user *models.User, plan *models.Plan) error {
	if _, err := tx.GetInvoiceByOrderID(order.ID); err == nil {
		return newError(CodeConflict, "invoice already exists for this order")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return wrapError(CodeInternal, "failed to check existing invoice", err)
	}

	now := time.Now()
	subtotal := plan.Price
	tax := subtotal.Mul(taxRate).Round(2)
	total := subtotal.Add(tax)

	invoice := &models.Invoice{
		OrderID:       order.ID,
		InvoiceNumber: newInvoiceNumber(now),
		Subtotal:      subtotal,
		TaxAmount:     tax,
		Amount:        total,
	}

	doc := invoicepdfDocument(invoice, order, payment, user, plan, now)
	pdfBytes, err := s.renderer.Render(doc)
	if err != nil {
		return wrapError(CodeGateway, "failed to render invoice", err)
	}

	key := invoiceBlobKey(user.Email, invoice.InvoiceNumber)
	if err := s.blobs.Put(ctx, key, pdfBytes, "application/pdf"); err != nil {
		return wrapError(CodeGateway, "failed to store invoice artifact", err)
	}
	invoice.PDFURL = key

	if err := tx.CreateInvoice(invoice); err != nil {
		return wrapError(CodeInternal, "failed to create invoice", err)
	}

	order.Invoice = invoice
	return nil
}

// invoicepdfDocument assembles the render input for one settled order.
func invoicepdfDocument(invoice *models.Invoice, order *models.Order, payment *models.Payment, user *models.User, plan *models.Plan, issuedAt time.Time) invoicepdf.Document {
	return invoicepdf.Document{
		InvoiceNumber:   invoice.InvoiceNumber,
		IssueDate:       issuedAt,
		DueDate:         issuedAt,
		Status:          "PAID",
		UserName:        user.Name,
		UserEmail:       user.Email,
		UserPhone:       user.Phone,
		PlanName:        plan.Name,
		PlanDescription: plan.Description,
		PlanFeatures:    plan.FeatureList(),
		Subtotal:        invoice.Subtotal,
		Tax:             invoice.TaxAmount,
		Total:           invoice.Amount,
		OrderID:         order.ID,
		PaymentMethod:   payment.PaymentMethod,
		Company: invoicepdf.Company{
			Name:    env.GetEnv("COMPANY_NAME", "TaskFox"),
			Address: env.GetEnv("COMPANY_ADDRESS", "Jl. Sudirman No. 1, Jakarta"),
			Phone:   env.GetEnv("COMPANY_PHONE", "+62 21 555 0199"),
			Email:   env.GetEnv("COMPANY_EMAIL", "billing@taskfox.io"),
		},
	}
}

// GetInvoice loads the invoice for one of the user's orders.
func (s *Service) GetInvoice(ctx context.Context, user *models.User, orderID uint) (*models.Invoice, error) {
	if _, err := s.GetOrder(ctx, user.ID, orderID); err != nil {
		return nil, err
	}

	invoice, err := s.repo.GetInvoiceByOrderID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newError(CodeNotFound, "invoice not found")
		}
		return nil, wrapError(CodeInternal, "failed to load invoice", err)
	}
	return invoice, nil
}

// DownloadInvoice returns the stored PDF artifact for an order's invoice. A
// record without its artifact is an internal inconsistency, not a NotFound.
func (s *Service) DownloadInvoice(ctx context.Context, user *models.User, orderID uint) (*models.Invoice, []byte, error) {
	invoice, err := s.GetInvoice(ctx, user, orderID)
	if err != nil {
		return nil, nil, err
	}

	data, err := s.blobs.Get(ctx, invoice.PDFURL)
	if err != nil {
		if errors.Is(err, storage.ErrBlobNotFound) {
			return nil, nil, wrapError(CodeInternal, "invoice artifact missing from storage", err).
				WithDetail("invoice_number", invoice.InvoiceNumber)
		}
		return nil, nil, wrapError(CodeInternal, "failed to read invoice artifact", err)
	}
	return invoice, data, nil
}
