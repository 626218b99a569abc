package invoicepdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// Color scheme - neutral billing-statement theme
var (
	colorPrimary     = [3]int{30, 58, 95}    // Dark navy
	colorTextDark    = [3]int{44, 62, 80}    // Dark text
	colorTextMuted   = [3]int{127, 140, 141} // Muted text
	colorTableHeader = [3]int{30, 58, 95}    // Navy header
	colorTableAlt    = [3]int{241, 245, 249} // Alternating row
	colorGridLine    = [3]int{220, 220, 220} // Rules
)

// Company is the issuer block printed on every statement.
type Company struct {
	Name    string
	Address string
	Phone   string
	Email   string
}

// Document carries everything a single-page billing statement needs.
type Document struct {
	InvoiceNumber   string
	IssueDate       time.Time
	DueDate         time.Time
	Status          string
	UserName        string
	UserEmail       string
	UserPhone       string
	PlanName        string
	PlanDescription string
	PlanFeatures    []string
	Subtotal        decimal.Decimal
	Tax             decimal.Decimal
	Total           decimal.Decimal
	OrderID         uint
	PaymentMethod   string
	Company         Company
}

// Generator renders billing statements as PDF documents.
type Generator struct{}

// NewGenerator creates a new PDF generator.
func NewGenerator() *Generator {
	return &Generator{}
}

// Render produces a single-page A4 billing statement.
func (g *Generator) Render(doc Document) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 25)
	pdf.AddPage()

	pageWidth, _ := pdf.GetPageSize()

	// Top accent bar
	pdf.SetFillColor(colorPrimary[0], colorPrimary[1], colorPrimary[2])
	pdf.Rect(0, 0, pageWidth, 8, "F")

	// Issuer block
	pdf.SetY(20)
	pdf.SetFont("Arial", "B", 22)
	pdf.SetTextColor(colorPrimary[0], colorPrimary[1], colorPrimary[2])
	pdf.CellFormat(0, 10, doc.Company.Name, "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "", 9)
	pdf.SetTextColor(colorTextMuted[0], colorTextMuted[1], colorTextMuted[2])
	pdf.CellFormat(0, 5, doc.Company.Address, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, fmt.Sprintf("%s - %s", doc.Company.Phone, doc.Company.Email), "", 1, "L", false, 0, "")

	// Invoice header, right aligned
	pdf.SetY(20)
	pdf.SetFont("Arial", "B", 16)
	pdf.SetTextColor(colorTextDark[0], colorTextDark[1], colorTextDark[2])
	pdf.CellFormat(0, 8, "INVOICE", "", 1, "R", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, doc.InvoiceNumber, "", 1, "R", false, 0, "")
	pdf.SetTextColor(colorTextMuted[0], colorTextMuted[1], colorTextMuted[2])
	pdf.CellFormat(0, 5, fmt.Sprintf("Issued: %s", doc.IssueDate.Format("02 January 2006")), "", 1, "R", false, 0, "")
	pdf.CellFormat(0, 5, fmt.Sprintf("Due: %s", doc.DueDate.Format("02 January 2006")), "", 1, "R", false, 0, "")
	pdf.CellFormat(0, 5, fmt.Sprintf("Status: %s", doc.Status), "", 1, "R", false, 0, "")

	// Customer block
	pdf.SetY(60)
	pdf.SetFont("Arial", "B", 10)
	pdf.SetTextColor(colorTextDark[0], colorTextDark[1], colorTextDark[2])
	pdf.CellFormat(0, 6, "Billed To", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 5, doc.UserName, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, doc.UserEmail, "", 1, "L", false, 0, "")
	if doc.UserPhone != "" {
		pdf.CellFormat(0, 5, doc.UserPhone, "", 1, "L", false, 0, "")
	}
	pdf.SetTextColor(colorTextMuted[0], colorTextMuted[1], colorTextMuted[2])
	pdf.CellFormat(0, 5, fmt.Sprintf("Order #%d - %s", doc.OrderID, doc.PaymentMethod), "", 1, "L", false, 0, "")

	// Item table header
	pdf.SetY(95)
	pdf.SetFillColor(colorTableHeader[0], colorTableHeader[1], colorTableHeader[2])
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(110, 8, "Description", "", 0, "L", true, 0, "")
	pdf.CellFormat(20, 8, "Qty", "", 0, "C", true, 0, "")
	pdf.CellFormat(40, 8, "Amount", "", 1, "R", true, 0, "")

	// Plan line
	pdf.SetTextColor(colorTextDark[0], colorTextDark[1], colorTextDark[2])
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(colorTableAlt[0], colorTableAlt[1], colorTableAlt[2])
	pdf.CellFormat(110, 7, fmt.Sprintf("%s Plan Subscription", doc.PlanName), "", 0, "L", true, 0, "")
	pdf.CellFormat(20, 7, "1", "", 0, "C", true, 0, "")
	pdf.CellFormat(40, 7, formatIDR(doc.Subtotal), "", 1, "R", true, 0, "")

	pdf.SetFont("Arial", "", 9)
	pdf.SetTextColor(colorTextMuted[0], colorTextMuted[1], colorTextMuted[2])
	if doc.PlanDescription != "" {
		pdf.CellFormat(170, 5, doc.PlanDescription, "", 1, "L", false, 0, "")
	}
	for _, feature := range doc.PlanFeatures {
		pdf.CellFormat(170, 5, "  - "+feature, "", 1, "L", false, 0, "")
	}

	// Totals
	pdf.Ln(6)
	pdf.SetDrawColor(colorGridLine[0], colorGridLine[1], colorGridLine[2])
	startX := pageWidth - 20 - 70

	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(colorTextDark[0], colorTextDark[1], colorTextDark[2])
	pdf.SetX(startX)
	pdf.CellFormat(30, 7, "Subtotal", "T", 0, "L", false, 0, "")
	pdf.CellFormat(40, 7, formatIDR(doc.Subtotal), "T", 1, "R", false, 0, "")
	pdf.SetX(startX)
	pdf.CellFormat(30, 7, "PPN 11%", "", 0, "L", false, 0, "")
	pdf.CellFormat(40, 7, formatIDR(doc.Tax), "", 1, "R", false, 0, "")
	pdf.SetX(startX)
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(30, 8, "Total", "T", 0, "L", false, 0, "")
	pdf.CellFormat(40, 8, formatIDR(doc.Total), "T", 1, "R", false, 0, "")

	// Footer
	pdf.SetY(-35)
	pdf.SetFont("Arial", "", 8)
	pdf.SetTextColor(colorTextMuted[0], colorTextMuted[1], colorTextMuted[2])
	pdf.CellFormat(0, 5, fmt.Sprintf("%s - generated electronically, no signature required.", doc.Company.Name), "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("PDF output error: %w", err)
	}

	return buf.Bytes(), nil
}

// formatIDR renders an amount as "Rp 29.000" with dot thousand separators.
func formatIDR(d decimal.Decimal) string {
	whole := d.Round(0).IntPart()
	neg := whole < 0
	if neg {
		whole = -whole
	}
	s := fmt.Sprintf("%d", whole)
	var out []byte
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, '.')
		}
		out = append(out, c)
	}
	if neg {
		return "Rp -" + string(out)
	}
	return "Rp " + string(out)
}
