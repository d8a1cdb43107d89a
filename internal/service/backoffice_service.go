package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/rfarias/obras-backoffice/internal/config"
	"github.com/rfarias/obras-backoffice/internal/custody"
	"github.com/rfarias/obras-backoffice/internal/ledger"
	"github.com/rfarias/obras-backoffice/internal/model"
	"github.com/rfarias/obras-backoffice/internal/report"
	"github.com/rfarias/obras-backoffice/internal/repository"
)

type DashboardExporter interface {
	Generate(summary report.Summary) ([]byte, error)
}

type StatementRenderer interface {
	Render(statement report.EmployeeStatement) ([]byte, error)
}

type BackofficeService struct {
	employees *repository.EmployeeRepository
	contracts *repository.ContractRepository
	tools     *repository.ToolRepository
	excel     DashboardExporter
	pdf       StatementRenderer
	log       zerolog.Logger
	topGrants int
	now       func() time.Time
}

func NewBackofficeService(
	employees *repository.EmployeeRepository,
	contracts *repository.ContractRepository,
	tools *repository.ToolRepository,
	excel DashboardExporter,
	pdf StatementRenderer,
	cfg *config.Config,
	log zerolog.Logger,
) *BackofficeService {
	return &BackofficeService{
		employees: employees,
		contracts: contracts,
		tools:     tools,
		excel:     excel,
		pdf:       pdf,
		log:       log,
		topGrants: cfg.Report.TopGrants,
		now:       time.Now,
	}
}

// EmployeeBalance loads one employee's grant snapshot and reconciles it.
func (s *BackofficeService) EmployeeBalance(ctx context.Context, employeeID uuid.UUID) (*ledger.GrantBalanceSummary, error) {
	if employeeID == uuid.Nil {
		return nil, fmt.Errorf("%w: employee id is required", ErrInvalidInput)
	}

	employee, err := s.employees.GetEmployee(ctx, employeeID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}

	grants, err := s.employees.ListGrantsByEmployee(ctx, employee.ID)
	if err != nil {
		return nil, err
	}
	withdrawals, err := s.employees.ListWithdrawalsByGrants(ctx, grantIDs(grants))
	if err != nil {
		return nil, err
	}

	summary, err := ledger.ComputeGrantBalances(employee.ID, grants, withdrawals)
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

// ContractSettlement loads one contract's billing rows and settles them
// against today.
func (s *BackofficeService) ContractSettlement(ctx context.Context, contractID uuid.UUID) (*ledger.SettlementSummary, error) {
	if contractID == uuid.Nil {
		return nil, fmt.Errorf("%w: contract id is required", ErrInvalidInput)
	}

	contract, err := s.contracts.GetContract(ctx, contractID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}

	installments, err := s.contracts.ListInstallments(ctx, contract.ID)
	if err != nil {
		return nil, err
	}
	measurements, err := s.contracts.ListMeasurements(ctx, contract.ID)
	if err != nil {
		return nil, err
	}

	summary, err := ledger.ComputeContractSettlement(*contract, installments, measurements, s.now())
	if err != nil {
		return nil, err
	}
	if summary.AmbiguousBilling {
		s.log.Warn().
			Str("contract_id", contract.ID.String()).
			Int("installments", len(installments)).
			Int("measurements", len(measurements)).
			Msg("contract billed both by installments and measurements; paid amounts were summed")
	}
	return &summary, nil
}

type CheckoutToolInput struct {
	ToolID        uuid.UUID
	EmployeeID    uuid.UUID
	Site          *string
	CondominiumID *uuid.UUID
}

func (s *BackofficeService) CheckoutTool(ctx context.Context, input CheckoutToolInput) (*model.Tool, error) {
	if input.EmployeeID == uuid.Nil {
		return nil, fmt.Errorf("%w: employee id is required", ErrInvalidInput)
	}
	if _, err := s.employees.GetEmployee(ctx, input.EmployeeID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: employee %s", ErrNotFound, input.EmployeeID)
		}
		return nil, err
	}

	tool, err := s.getTool(ctx, input.ToolID)
	if err != nil {
		return nil, err
	}

	updated, entry, err := custody.Checkout(*tool, input.EmployeeID, input.Site, input.CondominiumID, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.tools.SaveCustody(ctx, updated, entry); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *BackofficeService) CheckinTool(ctx context.Context, toolID uuid.UUID, note *string) (*model.Tool, error) {
	tool, err := s.getTool(ctx, toolID)
	if err != nil {
		return nil, err
	}

	updated, entry, err := custody.Checkin(*tool, note, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.tools.SaveCustody(ctx, updated, entry); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *BackofficeService) SendToolToMaintenance(ctx context.Context, toolID uuid.UUID, note *string) (*model.Tool, error) {
	tool, err := s.getTool(ctx, toolID)
	if err != nil {
		return nil, err
	}

	updated, entry, err := custody.SendToMaintenance(*tool, note, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.tools.SaveCustody(ctx, updated, entry); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *BackofficeService) UpdateTool(ctx context.Context, toolID uuid.UUID, fields custody.Update) (*model.Tool, error) {
	tool, err := s.getTool(ctx, toolID)
	if err != nil {
		return nil, err
	}

	updated := custody.ApplyUpdate(*tool, fields)
	if err := s.tools.SaveDescriptive(ctx, updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *BackofficeService) ToolHistory(ctx context.Context, toolID uuid.UUID) ([]model.ToolHistoryEntry, error) {
	if _, err := s.getTool(ctx, toolID); err != nil {
		return nil, err
	}
	return s.tools.ListHistory(ctx, toolID)
}

// Dashboard assembles the full snapshot and aggregates it.
func (s *BackofficeService) Dashboard(ctx context.Context) (*report.Summary, error) {
	employees, contracts, tools, err := s.loadSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	summary, err := report.Aggregate(employees, contracts, tools, s.now(), report.Options{TopGrants: s.topGrants})
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

type ExportResult struct {
	FileName string
	Content  []byte
}

// ExportDashboard renders the aggregate as a spreadsheet. Field staff may
// consult balances but not take exports off-site.
func (s *BackofficeService) ExportDashboard(ctx context.Context, principal model.Principal) (*ExportResult, error) {
	if principal.IsField() {
		return nil, ErrPermissionDenied
	}

	summary, err := s.Dashboard(ctx)
	if err != nil {
		return nil, err
	}

	content, err := s.excel.Generate(*summary)
	if err != nil {
		return nil, err
	}
	fileName := fmt.Sprintf("dashboard-%s.xlsx", summary.GeneratedAt.Format("20060102"))
	return &ExportResult{FileName: fileName, Content: content}, nil
}

// EmployeeStatement renders a printable balance statement for one employee.
func (s *BackofficeService) EmployeeStatement(ctx context.Context, employeeID uuid.UUID, principal model.Principal) (*ExportResult, error) {
	if principal.IsField() {
		return nil, ErrPermissionDenied
	}

	employee, err := s.employees.GetEmployee(ctx, employeeID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}

	grants, err := s.employees.ListGrantsByEmployee(ctx, employee.ID)
	if err != nil {
		return nil, err
	}
	withdrawals, err := s.employees.ListWithdrawalsByGrants(ctx, grantIDs(grants))
	if err != nil {
		return nil, err
	}
	summary, err := ledger.ComputeGrantBalances(employee.ID, grants, withdrawals)
	if err != nil {
		return nil, err
	}

	statement := report.EmployeeStatement{
		Employee:    *employee,
		Summary:     summary,
		Grants:      grants,
		GeneratedAt: s.now(),
	}
	content, err := s.pdf.Render(statement)
	if err != nil {
		return nil, err
	}

	name := sanitizeFileName(employee.Name)
	if name == "" {
		name = employee.ID.String()
	}
	fileName := fmt.Sprintf("statement-%s-%s.pdf", name, statement.GeneratedAt.Format("20060102"))
	return &ExportResult{FileName: fileName, Content: content}, nil
}

func (s *BackofficeService) getTool(ctx context.Context, toolID uuid.UUID) (*model.Tool, error) {
	if toolID == uuid.Nil {
		return nil, fmt.Errorf("%w: tool id is required", ErrInvalidInput)
	}
	tool, err := s.tools.GetTool(ctx, toolID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return tool, nil
}

func (s *BackofficeService) loadSnapshot(ctx context.Context) ([]report.EmployeeSnapshot, []report.ContractSnapshot, []model.Tool, error) {
	employees, err := s.employees.ListEmployees(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	grants, err := s.employees.ListAllGrants(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	withdrawals, err := s.employees.ListWithdrawalsByGrants(ctx, grantIDs(grants))
	if err != nil {
		return nil, nil, nil, err
	}

	grantsByEmployee := make(map[uuid.UUID][]model.Grant, len(employees))
	for _, grant := range grants {
		grantsByEmployee[grant.EmployeeID] = append(grantsByEmployee[grant.EmployeeID], grant)
	}

	employeeSnapshots := make([]report.EmployeeSnapshot, 0, len(employees))
	for _, employee := range employees {
		owned := grantsByEmployee[employee.ID]
		byGrant := make(map[uuid.UUID][]model.Withdrawal, len(owned))
		for _, grant := range owned {
			if ws, ok := withdrawals[grant.ID]; ok {
				byGrant[grant.ID] = ws
			}
		}
		employeeSnapshots = append(employeeSnapshots, report.EmployeeSnapshot{
			Employee:           employee,
			Grants:             owned,
			WithdrawalsByGrant: byGrant,
		})
	}

	contracts, err := s.contracts.ListContracts(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	contractIDs := make([]uuid.UUID, 0, len(contracts))
	for _, contract := range contracts {
		contractIDs = append(contractIDs, contract.ID)
	}
	installments, err := s.contracts.ListInstallmentsByContracts(ctx, contractIDs)
	if err != nil {
		return nil, nil, nil, err
	}
	measurements, err := s.contracts.ListMeasurementsByContracts(ctx, contractIDs)
	if err != nil {
		return nil, nil, nil, err
	}

	contractSnapshots := make([]report.ContractSnapshot, 0, len(contracts))
	for _, contract := range contracts {
		contractSnapshots = append(contractSnapshots, report.ContractSnapshot{
			Contract:     contract,
			Installments: installments[contract.ID],
			Measurements: measurements[contract.ID],
		})
	}

	tools, err := s.tools.ListTools(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	return employeeSnapshots, contractSnapshots, tools, nil
}

func grantIDs(grants []model.Grant) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(grants))
	for _, grant := range grants {
		ids = append(ids, grant.ID)
	}
	return ids
}

func sanitizeFileName(input string) string {
	result := make([]rune, 0, len(input))
	for _, r := range input {
		switch {
		case r >= 'a' && r <= 'z':
			result = append(result, r)
		case r >= 'A' && r <= 'Z':
			result = append(result, r)
		case r >= '0' && r <= '9':
			result = append(result, r)
		case r == '-', r == '_':
			result = append(result, r)
		default:
			result = append(result, '-')
		}
	}
	return strings.Trim(string(result), "-")
}
