package quotepdf

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/senyabanana/shipquote-service/internal/models"

	"github.com/jung-kurt/gofpdf"
)

// Document - предложение вместе с названиями портов, контейнеров и грузов для печати.
type Document struct {
	Quote           models.Quote
	OriginPort      models.Port
	DestinationPort models.Port
	ContainerNames  map[string]string
	CargoNames      map[string]string
}

// Generator формирует PDF предложения.
type Generator interface {
	Generate(doc Document) ([]byte, error)
}

// GofpdfGenerator - реализация Generator на gofpdf.
// Если задан FontDir, используется DejaVuSans из этого каталога, иначе встроенный Helvetica.
type GofpdfGenerator struct {
	FontDir string
	now     func() time.Time
}

// New создаёт новый экземпляр GofpdfGenerator.
func New(fontDir string) *GofpdfGenerator {
	return &GofpdfGenerator{FontDir: fontDir, now: time.Now}
}

const moneyFormat = "%s %s"

// Generate рисует предложение на одной странице A4.
func (g *GofpdfGenerator) Generate(doc Document) ([]byte, error) {
	q := doc.Quote

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Shipping quote %s", q.QuoteNumber), true)

	family := "Helvetica"
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	if g.FontDir != "" {
		regular := filepath.Join(g.FontDir, "DejaVuSans.ttf")
		bold := filepath.Join(g.FontDir, "DejaVuSans-Bold.ttf")
		for _, f := range []string{regular, bold} {
			if _, err := os.Stat(f); err != nil {
				return nil, fmt.Errorf("failed to load fonts: %w", err)
			}
		}
		family = "DejaVu"
		pdf.AddUTF8Font(family, "", regular)
		pdf.AddUTF8Font(family, "B", bold)
		tr = func(s string) string { return s }
	}
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("failed to load fonts: %w", err)
	}
	pdf.AddPage()

	pdf.SetFont(family, "B", 16)
	pdf.Cell(0, 10, tr("Shipping quote"))
	pdf.Ln(10)

	pdf.SetFont(family, "", 11)
	pdf.Cell(0, 6, tr(fmt.Sprintf("No. %s of %s, status %s", q.QuoteNumber, q.CreatedAt.Format(models.DateLayout), q.Status)))
	pdf.Ln(6)
	pdf.Cell(0, 6, tr(fmt.Sprintf("Customer: %s <%s>", q.CustomerName, q.CustomerEmail)))
	pdf.Ln(6)
	if q.CustomerCompany != "" {
		pdf.Cell(0, 6, tr(fmt.Sprintf("Company: %s", q.CustomerCompany)))
		pdf.Ln(6)
	}
	pdf.Cell(0, 6, tr(fmt.Sprintf("Route: %s (%s) - %s (%s)",
		doc.OriginPort.Name, doc.OriginPort.Code, doc.DestinationPort.Name, doc.DestinationPort.Code)))
	pdf.Ln(6)
	pdf.Cell(0, 6, tr(fmt.Sprintf("Valid until: %s", q.ValidUntil.Format(models.DateLayout))))
	pdf.Ln(10)

	pdf.SetFont(family, "B", 10)
	pdf.CellFormat(45, 7, tr("Container"), "B", 0, "L", false, 0, "")
	pdf.CellFormat(40, 7, tr("Cargo"), "B", 0, "L", false, 0, "")
	pdf.CellFormat(15, 7, tr("Qty"), "B", 0, "R", false, 0, "")
	pdf.CellFormat(30, 7, tr("Freight"), "B", 0, "R", false, 0, "")
	pdf.CellFormat(30, 7, tr("Fees"), "B", 0, "R", false, 0, "")
	pdf.CellFormat(30, 7, tr("Subtotal"), "B", 1, "R", false, 0, "")

	pdf.SetFont(family, "", 10)
	for _, it := range q.Items {
		fees := it.FuelSurcharge.Add(it.HandlingFee).Add(it.DocumentationFee).Add(it.InsuranceFee)
		pdf.CellFormat(45, 6, tr(trim(nameOr(doc.ContainerNames, it.ContainerTypeID), 24)), "", 0, "L", false, 0, "")
		pdf.CellFormat(40, 6, tr(trim(nameOr(doc.CargoNames, it.CargoTypeID), 22)), "", 0, "L", false, 0, "")
		pdf.CellFormat(15, 6, fmt.Sprintf("%d", it.Quantity), "", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, it.BaseRate.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, fees.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, it.Subtotal.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(4)
	if !q.DocumentationFee.IsZero() {
		pdf.Cell(0, 6, tr(fmt.Sprintf("Documentation fee: "+moneyFormat, q.DocumentationFee.StringFixed(2), q.Currency)))
		pdf.Ln(6)
	}
	pdf.SetFont(family, "B", 12)
	pdf.Cell(0, 8, tr(fmt.Sprintf("Total: "+moneyFormat, q.TotalAmount.StringFixed(2), q.Currency)))
	pdf.Ln(10)

	if q.Notes != "" {
		pdf.SetFont(family, "", 10)
		pdf.MultiCell(0, 5, tr(q.Notes), "", "L", false)
		pdf.Ln(4)
	}

	pdf.SetFont(family, "", 8)
	pdf.Cell(0, 5, tr(fmt.Sprintf("Generated: %s", g.now().UTC().Format(time.RFC3339))))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func nameOr(names map[string]string, id string) string {
	if name, ok := names[id]; ok {
		return name
	}
	return id
}

func trim(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
