package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/rfarias/obras-backoffice/internal/report"
)

type Generator struct {
	fontName string
}

func NewGenerator() *Generator {
	return &Generator{fontName: "Helvetica"}
}

// Render produces the printable balance statement an employee signs when
// settling accounts.
func (g *Generator) Render(statement report.EmployeeStatement) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont(g.fontName, "B", 14)
	pdf.CellFormat(0, 10, tr("Extrato de empreitadas"), "", 1, "C", false, 0, "")

	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, tr(statement.Employee.Name), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Emitido em %s", formatDate(statement.GeneratedAt))), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 8, tr("Empreitadas"), "", 1, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 10)

	headers := []string{"Empreitada", "Valor", "Retirado", "Saldo", "Situacao"}
	colWidths := []float64{60, 35, 35, 35, 25}
	drawTableRow(pdf, g.fontName, tr, headers, colWidths, true)

	grantNames := make(map[string]string, len(statement.Grants))
	for _, grant := range statement.Grants {
		grantNames[grant.ID.String()] = grant.Description
	}

	for _, grant := range statement.Summary.Grants {
		name := grantNames[grant.GrantID.String()]
		if strings.TrimSpace(name) == "" {
			name = grant.GrantID.String()
		}
		status := "Aberta"
		if grant.Completed {
			status = "Encerrada"
		}
		row := []string{
			name,
			grant.Total.String(),
			grant.Withdrawn.String(),
			grant.Balance.String(),
			status,
		}
		drawTableRow(pdf, g.fontName, tr, row, colWidths, false)
	}

	pdf.Ln(4)
	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 8, tr("Totais"), "", 1, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)

	totals := []struct {
		label string
		value string
	}{
		{"Total ativo", statement.Summary.ActiveTotal.String()},
		{"Retirado (ativas)", statement.Summary.ActiveWithdrawn.String()},
		{"Saldo ativo", statement.Summary.ActiveBalance.String()},
		{"Debito de encerradas", statement.Summary.ClosedDebt.String()},
		{"Saldo total", statement.Summary.TotalBalance.String()},
	}
	for _, line := range totals {
		pdf.CellFormat(0, 6, tr(fmt.Sprintf("%s: %s", line.label, line.value)), "", 1, "R", false, 0, "")
	}

	if statement.Summary.TotalBalance.IsNegative() {
		pdf.SetTextColor(200, 0, 0)
		pdf.MultiCell(0, 6, tr("Atencao: as retiradas superam o valor das empreitadas."), "", "L", false)
		pdf.SetTextColor(0, 0, 0)
	}

	pdf.Ln(8)
	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Funcionario: ______________________ /%s/", statement.Employee.Name)), "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func drawTableRow(pdf *gofpdf.Fpdf, fontName string, tr func(string) string, cols []string, widths []float64, header bool) {
	style := ""
	if header {
		style = "B"
	}
	pdf.SetFont(fontName, style, 10)
	for i, col := range cols {
		align := "L"
		if i > 0 && i < len(cols)-1 {
			align = "R"
		}
		pdf.CellFormat(widths[i], 8, tr(col), "1", 0, align, false, 0, "")
	}
	pdf.Ln(-1)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("02/01/2006")
}
