package excel

import (
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/rfarias/obras-backoffice/internal/model"
	"github.com/rfarias/obras-backoffice/internal/report"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Generate renders the dashboard aggregate as a workbook with a summary
// sheet, a per-employee balance sheet and a tool inventory sheet.
func (g *Generator) Generate(summary report.Summary) ([]byte, error) {
	file := excelize.NewFile()

	summarySheet := "Resumo"
	file.SetSheetName("Sheet1", summarySheet)
	if err := g.writeSummary(file, summarySheet, summary); err != nil {
		return nil, err
	}

	employeeSheet := "Funcionarios"
	file.NewSheet(employeeSheet)
	if err := g.writeEmployees(file, employeeSheet, summary); err != nil {
		return nil, err
	}

	toolSheet := "Ferramentas"
	file.NewSheet(toolSheet)
	if err := g.writeTools(file, toolSheet, summary); err != nil {
		return nil, err
	}

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Generator) writeSummary(file *excelize.File, sheet string, summary report.Summary) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	set("A1", "Gerado em")
	set("B1", summary.GeneratedAt.Format("2006-01-02 15:04"))
	set("A2", "Funcionarios")
	set("B2", summary.EmployeeCount)
	set("A3", "Funcionarios ativos")
	set("B3", summary.ActiveEmployeeCount)
	set("A4", "Empreitadas")
	set("B4", summary.GrantCount)
	set("A5", "Empreitadas abertas")
	set("B5", summary.OpenGrantCount)
	set("A6", "Contratos")
	set("B6", summary.ContractCount)
	set("A7", "Ferramentas")
	set("B7", summary.ToolCount)

	set("A9", "Total ativo")
	set("B9", summary.ActiveTotal.String())
	set("A10", "Retirado (ativas)")
	set("B10", summary.ActiveWithdrawn.String())
	set("A11", "Saldo ativo")
	set("B11", summary.ActiveBalance.String())
	set("A12", "Debito de encerradas")
	set("B12", summary.ClosedDebt.String())
	set("A13", "Saldo total")
	set("B13", summary.TotalBalance.String())

	set("A15", "Valor contratado")
	set("B15", summary.ContractTotal.String())
	set("A16", "Recebido")
	set("B16", summary.ContractPaid.String())
	set("A17", "Pendente")
	set("B17", summary.ContractPending.String())
	set("A18", "Contratos por parcela")
	set("B18", summary.InstallmentBilled)
	set("A19", "Contratos por medicao")
	set("B19", summary.MeasurementBilled)
	set("A20", "Cobranca ambigua")
	set("B20", summary.AmbiguousBilling)
	set("A21", "Parcelas vencidas")
	set("B21", summary.OverdueInstallments)

	tableRow := 23
	set(fmt.Sprintf("A%d", tableRow), "Mes")
	set(fmt.Sprintf("B%d", tableRow), "Empreitadas")
	set(fmt.Sprintf("C%d", tableRow), "Valor")
	for i, bucket := range summary.GrantsByMonth {
		row := tableRow + 1 + i
		set(fmt.Sprintf("A%d", row), bucket.Month)
		set(fmt.Sprintf("B%d", row), bucket.Count)
		set(fmt.Sprintf("C%d", row), bucket.Total.String())
	}

	_ = file.SetColWidth(sheet, "A", "A", 28)
	_ = file.SetColWidth(sheet, "B", "C", 18)
	return nil
}

func (g *Generator) writeEmployees(file *excelize.File, sheet string, summary report.Summary) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	headers := []string{
		"Funcionario",
		"Empreitadas abertas",
		"Total ativo",
		"Retirado",
		"Saldo ativo",
		"Debito de encerradas",
		"Saldo total",
	}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		set(cell, header)
	}

	for i, row := range summary.EmployeeBalances {
		r := i + 2
		set(fmt.Sprintf("A%d", r), row.EmployeeName)
		set(fmt.Sprintf("B%d", r), row.Summary.OpenGrantCount)
		set(fmt.Sprintf("C%d", r), row.Summary.ActiveTotal.String())
		set(fmt.Sprintf("D%d", r), row.Summary.ActiveWithdrawn.String())
		set(fmt.Sprintf("E%d", r), row.Summary.ActiveBalance.String())
		set(fmt.Sprintf("F%d", r), row.Summary.ClosedDebt.String())
		set(fmt.Sprintf("G%d", r), row.Summary.TotalBalance.String())
	}

	_ = file.SetColWidth(sheet, "A", "A", 32)
	_ = file.SetColWidth(sheet, "B", "G", 18)
	return nil
}

func (g *Generator) writeTools(file *excelize.File, sheet string, summary report.Summary) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	set("A1", "Localizacao")
	set("B1", "Quantidade")
	locations := []model.ToolLocation{
		model.ToolLocationDepot,
		model.ToolLocationWithEmployee,
		model.ToolLocationMaintenance,
	}
	for i, location := range locations {
		row := i + 2
		set(fmt.Sprintf("A%d", row), locationLabel(location))
		set(fmt.Sprintf("B%d", row), summary.ToolsByLocation[location])
	}

	tableRow := len(locations) + 4
	set(fmt.Sprintf("A%d", tableRow), "Categoria")
	set(fmt.Sprintf("B%d", tableRow), "Quantidade")

	categories := make([]string, 0, len(summary.ToolsByCategory))
	for category := range summary.ToolsByCategory {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	for i, category := range categories {
		row := tableRow + 1 + i
		set(fmt.Sprintf("A%d", row), category)
		set(fmt.Sprintf("B%d", row), summary.ToolsByCategory[category])
	}

	_ = file.SetColWidth(sheet, "A", "A", 28)
	_ = file.SetColWidth(sheet, "B", "B", 14)
	return nil
}

func locationLabel(location model.ToolLocation) string {
	switch location {
	case model.ToolLocationDepot:
		return "Deposito"
	case model.ToolLocationWithEmployee:
		return "Com funcionario"
	case model.ToolLocationMaintenance:
		return "Manutencao"
	default:
		return string(location)
	}
}
