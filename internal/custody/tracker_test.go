package custody

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/rfarias/obras-backoffice/internal/model"
)

var at = time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)

func depotTool() model.Tool {
	return model.Tool{
		ID:       uuid.New(),
		Code:     "FUR-042",
		Name:     "Furadeira de impacto",
		Category: "eletrica",
		Location: model.ToolLocationDepot,
	}
}

func TestCheckout(t *testing.T) {
	tool := depotTool()
	employeeID := uuid.New()
	site := "Obra Bloco B"
	condoID := uuid.New()

	updated, entry, err := Checkout(tool, employeeID, &site, &condoID, at)
	require.NoError(t, err)

	require.Equal(t, model.ToolLocationWithEmployee, updated.Location)
	require.NotNil(t, updated.CurrentEmployeeID)
	require.Equal(t, employeeID, *updated.CurrentEmployeeID)
	require.Equal(t, &condoID, updated.CurrentCondominiumID)
	require.Equal(t, model.HistoryTypeLoan, entry.Type)
	require.Contains(t, entry.Detail, tool.Code)
	require.Contains(t, entry.Detail, site)
	require.Equal(t, at, entry.OccurredAt)

	// The input snapshot is untouched.
	require.Equal(t, model.ToolLocationDepot, tool.Location)
	require.Nil(t, tool.CurrentEmployeeID)
}

func TestCheckoutRequiresEmployee(t *testing.T) {
	_, _, err := Checkout(depotTool(), uuid.Nil, nil, nil, at)
	require.ErrorIs(t, err, ErrInvalidState)
}

func TestCheckinClearsCustody(t *testing.T) {
	tool := depotTool()
	employeeID := uuid.New()
	site := "Obra Bloco B"
	condoID := uuid.New()

	out, _, err := Checkout(tool, employeeID, &site, &condoID, at)
	require.NoError(t, err)

	returned, entry, err := Checkin(out, nil, at.Add(48*time.Hour))
	require.NoError(t, err)
	require.Equal(t, model.ToolLocationDepot, returned.Location)
	require.Nil(t, returned.CurrentEmployeeID)
	require.Nil(t, returned.CurrentSite)
	require.Nil(t, returned.CurrentCondominiumID)
	require.Equal(t, model.HistoryTypeReturn, entry.Type)
}

func TestSendToMaintenanceClearsCustody(t *testing.T) {
	tool := depotTool()
	out, _, err := Checkout(tool, uuid.New(), nil, nil, at)
	require.NoError(t, err)

	note := "motor queimado"
	repaired, entry, err := SendToMaintenance(out, &note, at.Add(time.Hour))
	require.NoError(t, err)
	require.Equal(t, model.ToolLocationMaintenance, repaired.Location)
	require.Nil(t, repaired.CurrentEmployeeID)
	require.Nil(t, repaired.CurrentSite)
	require.Nil(t, repaired.CurrentCondominiumID)
	require.Equal(t, model.HistoryTypeMaintenance, entry.Type)
	require.Equal(t, note, entry.Detail)
}

func TestHistoryGrowsByOnePerTransition(t *testing.T) {
	tool := depotTool()
	employeeID := uuid.New()

	var err error
	transitions := 0
	for i := 0; i < 4; i++ {
		tool, _, err = Checkout(tool, employeeID, nil, nil, at)
		require.NoError(t, err)
		transitions++
		require.Len(t, tool.History, transitions)

		tool, _, err = Checkin(tool, nil, at)
		require.NoError(t, err)
		transitions++
		require.Len(t, tool.History, transitions)
	}
	require.Len(t, tool.History, 8)
}

func TestApplyUpdateTouchesDescriptiveFieldsOnly(t *testing.T) {
	tool := depotTool()
	employeeID := uuid.New()
	out, _, err := Checkout(tool, employeeID, nil, nil, at)
	require.NoError(t, err)

	name := "Furadeira Bosch GSB"
	brand := "Bosch"
	note := "prateleira 3"
	updated := ApplyUpdate(out, Update{Name: &name, Brand: &brand, LocationNote: &note})

	require.Equal(t, name, updated.Name)
	require.Equal(t, brand, updated.Brand)
	require.Equal(t, note, updated.LocationNote)
	// Custody bindings and history are untouched.
	require.Equal(t, model.ToolLocationWithEmployee, updated.Location)
	require.Equal(t, employeeID, *updated.CurrentEmployeeID)
	require.Len(t, updated.History, len(out.History))

	// Nil fields leave values alone.
	unchanged := ApplyUpdate(updated, Update{})
	require.Equal(t, updated, unchanged)
}
