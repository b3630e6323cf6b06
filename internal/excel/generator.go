package excel

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/ddreams3d/quoter-service/internal/model"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

func (g *Generator) Generate(quotes []model.Quote) ([]byte, error) {
	file := excelize.NewFile()

	summarySheet := "Resumen"
	file.SetSheetName("Sheet1", summarySheet)
	if err := g.writeSummary(file, summarySheet, quotes); err != nil {
		return nil, err
	}

	usedNames := map[string]struct{}{summarySheet: {}}
	for _, quote := range quotes {
		sheetName := buildSheetName(quote.ProjectName, quote.ID, usedNames)
		usedNames[sheetName] = struct{}{}

		file.NewSheet(sheetName)
		if err := g.writeDetail(file, sheetName, quote); err != nil {
			return nil, err
		}
	}

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Generator) writeSummary(file *excelize.File, sheet string, quotes []model.Quote) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	totalBilled := 0.0
	for _, quote := range quotes {
		totalBilled += quote.TotalBilled
	}

	set("A1", "Cotizaciones")
	set("B1", len(quotes))
	set("A2", "Total facturable, S/")
	set("B2", fmt.Sprintf("%.2f", totalBilled))

	tableRow := 4
	headers := []string{"Fecha", "Cliente", "Proyecto", "Estado", "Neto, S/", "IGV, S/", "Total, S/"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, tableRow)
		set(cell, header)
	}

	for i, quote := range quotes {
		row := tableRow + 1 + i
		set(fmt.Sprintf("A%d", row), formatDate(quote.CreatedAt))
		set(fmt.Sprintf("B%d", row), quote.ClientName)
		set(fmt.Sprintf("C%d", row), quote.ProjectName)
		set(fmt.Sprintf("D%d", row), statusLabel(quote.Status))
		set(fmt.Sprintf("E%d", row), fmt.Sprintf("%.2f", quote.NetPrice))
		set(fmt.Sprintf("F%d", row), fmt.Sprintf("%.2f", quote.TaxAmount))
		set(fmt.Sprintf("G%d", row), fmt.Sprintf("%.2f", quote.TotalBilled))
	}

	_ = file.SetColWidth(sheet, "A", "A", 14)
	_ = file.SetColWidth(sheet, "B", "C", 32)
	_ = file.SetColWidth(sheet, "D", "D", 12)
	_ = file.SetColWidth(sheet, "E", "G", 14)
	return nil
}

func (g *Generator) writeDetail(file *excelize.File, sheet string, quote model.Quote) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	costs := quote.Data.Costs
	pricing := quote.Data.Pricing

	set("A1", "Cliente")
	set("B1", quote.ClientName)
	set("A2", "Proyecto")
	set("B2", quote.ProjectName)
	set("A3", "Fecha")
	set("B3", formatDate(quote.CreatedAt))
	set("A4", "Estado")
	set("B4", statusLabel(quote.Status))
	set("A5", "Cantidad")
	set("B5", quote.Data.Payload.Quantity)

	tableRow := 7
	set(fmt.Sprintf("A%d", tableRow), "Concepto")
	set(fmt.Sprintf("B%d", tableRow), "Monto, S/")

	rows := []struct {
		label string
		value float64
	}{
		{"Electricidad", costs.Electricity},
		{"Depreciación", costs.Depreciation},
		{"Material", costs.Material},
		{"Extras", costs.Extra},
		{"Insumos", costs.Consumables},
		{"Puesta en marcha", costs.StartupFee},
		{"Costo directo total", costs.TotalDirect},
		{"Mano de obra", costs.LaborValue},
	}
	for i, item := range rows {
		row := tableRow + 1 + i
		set(fmt.Sprintf("A%d", row), item.label)
		set(fmt.Sprintf("B%d", row), fmt.Sprintf("%.2f", item.value))
	}

	priceRow := tableRow + len(rows) + 2
	set(fmt.Sprintf("A%d", priceRow), "Precio neto")
	set(fmt.Sprintf("B%d", priceRow), fmt.Sprintf("%.2f", pricing.NetPrice))
	set(fmt.Sprintf("A%d", priceRow+1), "IGV")
	set(fmt.Sprintf("B%d", priceRow+1), fmt.Sprintf("%.2f", pricing.TaxAmount))
	set(fmt.Sprintf("A%d", priceRow+2), "Total facturado")
	set(fmt.Sprintf("B%d", priceRow+2), fmt.Sprintf("%.2f", pricing.TotalBilled))
	set(fmt.Sprintf("A%d", priceRow+3), "Margen, %")
	set(fmt.Sprintf("B%d", priceRow+3), fmt.Sprintf("%.1f", pricing.MarginPercent))

	_ = file.SetColWidth(sheet, "A", "A", 28)
	_ = file.SetColWidth(sheet, "B", "B", 18)
	return nil
}

func buildSheetName(name string, id uuid.UUID, used map[string]struct{}) string {
	base := strings.TrimSpace(name)
	if base == "" {
		base = id.String()
	}
	base = sanitizeSheetName(base)

	if len(base) > 31 {
		base = base[:31]
	}

	nameCandidate := base
	counter := 2
	for {
		if _, exists := used[nameCandidate]; !exists {
			return nameCandidate
		}
		suffix := fmt.Sprintf("-%d", counter)
		trimmed := base
		if len(trimmed)+len(suffix) > 31 {
			trimmed = trimmed[:31-len(suffix)]
		}
		nameCandidate = trimmed + suffix
		counter++
	}
}

func sanitizeSheetName(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "Hoja"
	}

	replacer := strings.NewReplacer(
		"[", "-",
		"]", "-",
		":", "-",
		"*", "-",
		"?", "-",
		"/", "-",
		"\\", "-",
	)
	value = replacer.Replace(value)
	value = strings.TrimSpace(value)
	if value == "" {
		return "Hoja"
	}
	return value
}

func statusLabel(status model.QuoteStatus) string {
	switch status {
	case model.QuoteStatusDraft:
		return "Borrador"
	case model.QuoteStatusSent:
		return "Enviada"
	case model.QuoteStatusAccepted:
		return "Aceptada"
	case model.QuoteStatusRejected:
		return "Rechazada"
	default:
		return string(status)
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
