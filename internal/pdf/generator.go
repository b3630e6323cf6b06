package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"

	"github.com/ddreams3d/quoter-service/internal/model"
)

type Generator struct {
	fontName string
}

func NewGenerator() *Generator {
	return &Generator{fontName: "Helvetica"}
}

func (g *Generator) Generate(doc model.QuoteDocument) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	// Core fonts are cp1252; the translator handles the Spanish accents.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	quote := doc.Quote

	pdf.SetFont(g.fontName, "B", 16)
	pdf.CellFormat(0, 10, tr("COTIZACIÓN"), "", 1, "C", false, 0, "")

	pdf.SetFont(g.fontName, "", 10)
	pdf.CellFormat(0, 5, tr(fmt.Sprintf("Fecha: %s", formatDate(quote.CreatedAt))), "", 1, "C", false, 0, "")
	if quote.ID != uuid.Nil {
		pdf.CellFormat(0, 5, tr(fmt.Sprintf("N° %s", shortID(quote.ID.String()))), "", 1, "C", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 8, tr("Cliente"), "", 1, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, tr(safeValue(quote.ClientName)), "", 1, "L", false, 0, "")
	if quote.ClientPhone != "" {
		pdf.CellFormat(0, 6, tr(fmt.Sprintf("Teléfono: %s", quote.ClientPhone)), "", 1, "L", false, 0, "")
	}
	if quote.ClientEmail != "" {
		pdf.CellFormat(0, 6, tr(fmt.Sprintf("Correo: %s", quote.ClientEmail)), "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)

	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 8, tr("Proyecto"), "", 1, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, tr(safeValue(quote.ProjectName)), "", 1, "L", false, 0, "")
	if quote.Data.Payload.Quantity > 1 {
		pdf.CellFormat(0, 6, tr(fmt.Sprintf("Cantidad: %d unidades", quote.Data.Payload.Quantity)), "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)

	if doc.ShowTechnicalDetails {
		g.addTechnicalDetails(pdf, tr, quote)
	}

	g.addPricing(pdf, tr, quote, doc.ShowTaxBreakdown)

	pdf.Ln(8)
	pdf.SetFont(g.fontName, "I", 9)
	pdf.MultiCell(0, 5, tr("Cotización válida por 15 días. Precios en soles peruanos."), "", "L", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Generator) addTechnicalDetails(pdf *gofpdf.Fpdf, tr func(string) string, quote model.Quote) {
	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 8, tr("Detalle técnico"), "", 1, "L", false, 0, "")

	headers := []string{"Máquina", "Tipo", "Tiempo (h)", "Material (g)"}
	colWidths := []float64{70, 30, 40, 40}
	g.drawTableRow(pdf, tr, headers, colWidths, true)

	for _, line := range quote.Data.Payload.MachineLines {
		row := []string{
			line.MachineName,
			machineTypeLabel(line.Type),
			fmt.Sprintf("%.1f", line.TotalDurationMinutes/60),
			fmt.Sprintf("%.0f", line.TotalWeightGrams),
		}
		g.drawTableRow(pdf, tr, row, colWidths, false)
	}

	if quote.Data.Payload.AggregateLaborMinutes > 0 {
		pdf.SetFont(g.fontName, "", 10)
		pdf.CellFormat(0, 6, tr(fmt.Sprintf("Mano de obra: %.1f h", quote.Data.Payload.AggregateLaborMinutes/60)), "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)
}

func (g *Generator) addPricing(pdf *gofpdf.Fpdf, tr func(string) string, quote model.Quote, showTaxBreakdown bool) {
	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 8, tr("Precio"), "", 1, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)

	if showTaxBreakdown {
		pdf.CellFormat(0, 6, tr(fmt.Sprintf("Subtotal: S/ %.2f", quote.NetPrice)), "", 1, "R", false, 0, "")
		pdf.CellFormat(0, 6, tr(fmt.Sprintf("IGV (18%%): S/ %.2f", quote.TaxAmount)), "", 1, "R", false, 0, "")
	}

	pdf.SetFont(g.fontName, "B", 13)
	pdf.CellFormat(0, 8, tr(fmt.Sprintf("Total: S/ %.2f", quote.TotalBilled)), "", 1, "R", false, 0, "")
}

func (g *Generator) drawTableRow(pdf *gofpdf.Fpdf, tr func(string) string, cols []string, widths []float64, header bool) {
	style := ""
	if header {
		style = "B"
	}
	pdf.SetFont(g.fontName, style, 10)
	for i, col := range cols {
		align := "L"
		if i > 1 {
			align = "R"
		}
		pdf.CellFormat(widths[i], 8, tr(col), "1", 0, align, false, 0, "")
	}
	pdf.Ln(-1)
}

func machineTypeLabel(t model.MachineType) string {
	if t == model.MachineTypeResin {
		return "Resina"
	}
	return "Filamento"
}

func shortID(id string) string {
	if len(id) >= 8 {
		return strings.ToUpper(id[:8])
	}
	return strings.ToUpper(id)
}

func safeValue(value string) string {
	if strings.TrimSpace(value) == "" {
		return "—"
	}
	return value
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return time.Now().Format("02/01/2006")
	}
	return t.Format("02/01/2006")
}
