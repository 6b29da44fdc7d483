package filter

import (
	"testing"

	"github.com/zuhairmahd/AutopilotLogViewer/internal/model"
)

func rec(level, module, message string) model.Record {
	return model.Record{Level: level, Module: module, Message: message}
}

func levelSelection(m *Model) map[string]bool {
	out := make(map[string]bool)
	for _, o := range m.Levels() {
		out[o.Name] = o.Selected
	}
	return out
}

func TestFirstLoadSelectsEverything(t *testing.T) {
	m := NewModel()
	m.Load([]model.Record{
		rec("Error", "Enrollment", "a"),
		rec("Warning", "Setup", "b"),
	})

	if !m.AllLevelsSelected() || !m.AllModulesSelected() {
		t.Error("expected every option selected on first load")
	}
	if got := len(m.Visible()); got != 2 {
		t.Errorf("expected 2 visible records, got %d", got)
	}
}

func TestLevelReloadAllSelectedAdmitsNewLevel(t *testing.T) {
	m := NewModel()
	m.Load([]model.Record{rec("Error", "A", "x"), rec("Warning", "A", "y")})

	// Prior state: all selected. A new level must come in selected.
	m.Load([]model.Record{
		rec("Error", "A", "x"),
		rec("Warning", "A", "y"),
		rec("Information", "A", "z"),
	})

	sel := levelSelection(m)
	if !sel["Information"] {
		t.Error("expected Information selected after all-selected reload")
	}
	if got := len(m.Visible()); got != 3 {
		t.Errorf("expected 3 visible records, got %d", got)
	}
}

func TestLevelReloadPartialLeavesNewLevelUnselected(t *testing.T) {
	m := NewModel()
	m.Load([]model.Record{rec("Error", "A", "x"), rec("Warning", "A", "y")})
	m.SetLevelSelected("Warning", false)

	// Prior state: strict subset selected. Debug is a new name with no
	// previously-selected match, so it stays unselected.
	m.Load([]model.Record{
		rec("Error", "A", "x"),
		rec("Warning", "A", "y"),
		rec("Debug", "A", "z"),
	})

	sel := levelSelection(m)
	if sel["Debug"] {
		t.Error("expected Debug unselected after partial-selection reload")
	}
	if !sel["Error"] {
		t.Error("existing Error selection must be untouched")
	}
	if sel["Warning"] {
		t.Error("existing Warning deselection must be untouched")
	}

	visible := m.Visible()
	if len(visible) != 1 || visible[0].Level != "Error" {
		t.Errorf("expected only the Error record visible, got %d records", len(visible))
	}
}

func TestLevelReloadNoneSelected(t *testing.T) {
	m := NewModel()
	m.Load([]model.Record{rec("Error", "A", "x")})
	m.SetAllLevels(false)

	m.Load([]model.Record{rec("Error", "A", "x"), rec("Warning", "A", "y")})

	if levelSelection(m)["Warning"] {
		t.Error("expected Warning unselected when nothing was selected before")
	}
}

func TestLevelsAreAdditiveAcrossReloads(t *testing.T) {
	m := NewModel()
	m.Load([]model.Record{rec("Error", "A", "x"), rec("Debug", "A", "y")})
	m.Load([]model.Record{rec("Error", "A", "x")})

	if len(m.Levels()) != 2 {
		t.Errorf("level options must never shrink: got %d", len(m.Levels()))
	}
}

func TestModulesRebuiltOnReload(t *testing.T) {
	m := NewModel()
	m.Load([]model.Record{rec("Error", "Enrollment", "x"), rec("Error", "Setup", "y")})
	m.SetModuleSelected("Setup", false)

	// Setup disappears, Network appears. Prior state is partial, and
	// Network matches no previously-selected name.
	m.Load([]model.Record{rec("Error", "Enrollment", "x"), rec("Error", "Network", "z")})

	mods := m.Modules()
	if len(mods) != 2 {
		t.Fatalf("expected the module set rebuilt to 2 options, got %d", len(mods))
	}
	byName := make(map[string]bool)
	for _, o := range mods {
		byName[o.Name] = o.Selected
	}
	if _, exists := byName["Setup"]; exists {
		t.Error("Setup should be gone after the rebuild")
	}
	if !byName["Enrollment"] {
		t.Error("Enrollment selection must carry over")
	}
	if byName["Network"] {
		t.Error("Network must come in unselected against a partial prior state")
	}
}

func TestModulePartialReloadMatchesSelectedName(t *testing.T) {
	m := NewModel()
	m.Load([]model.Record{rec("Error", "Enrollment", "x"), rec("Error", "Setup", "y")})
	m.SetModuleSelected("Setup", false)

	// Enrollment survives the rebuild: its prior selection carries over
	// even though the aggregate state was partial.
	m.Load([]model.Record{rec("Error", "Enrollment", "x2")})

	mods := m.Modules()
	if len(mods) != 1 || mods[0].Name != "Enrollment" || !mods[0].Selected {
		t.Errorf("expected Enrollment to keep its selection, got %+v", mods)
	}
}

func TestEmptySelectionShowsNothing(t *testing.T) {
	m := NewModel()
	m.Load([]model.Record{
		rec("Error", "Enrollment", "x"),
		rec("Warning", "Setup", "y"),
	})

	m.SetAllModules(false)

	if got := len(m.Visible()); got != 0 {
		t.Errorf("deselecting every module must show nothing, got %d records", got)
	}
}

func TestSearchIsCaseInsensitiveAcrossFields(t *testing.T) {
	m := NewModel()
	records := []model.Record{
		{Level: "Error", Module: "Enrollment", Message: "Device TIMEOUT reached", Context: ""},
		{Level: "Error", Module: "TimeoutWatcher", Message: "ok", Context: ""},
		{Level: "Error", Module: "Setup", Message: "ok", Context: "timeout handler"},
		{Level: "Error", Module: "Setup", Message: "unrelated", Context: ""},
	}
	m.Load(records)

	m.SetSearch("timeout")

	if got := len(m.Visible()); got != 3 {
		t.Errorf("expected 3 matches across message, module, and context, got %d", got)
	}
}

func TestSelectAllIsDerived(t *testing.T) {
	m := NewModel()
	m.Load([]model.Record{rec("Error", "A", "x"), rec("Warning", "A", "y")})

	if !m.AllLevelsSelected() {
		t.Error("expected all-selected initially")
	}
	m.SetLevelSelected("Warning", false)
	if m.AllLevelsSelected() {
		t.Error("all-selected must read false once any option is off")
	}
	m.SetLevelSelected("Warning", true)
	if !m.AllLevelsSelected() {
		t.Error("all-selected must read true again")
	}

	// Empty dimension reads as all-selected.
	if !NewModel().AllLevelsSelected() {
		t.Error("empty dimension must read as all-selected")
	}
}

func TestFilterOrderLevelModuleSearch(t *testing.T) {
	m := NewModel()
	m.Load([]model.Record{
		rec("Error", "Enrollment", "alpha"),
		rec("Warning", "Enrollment", "alpha"),
		rec("Error", "Setup", "alpha"),
		rec("Error", "Enrollment", "beta"),
	})

	m.SetLevelSelected("Warning", false)
	m.SetModuleSelected("Setup", false)
	m.SetSearch("ALPHA")

	visible := m.Visible()
	if len(visible) != 1 {
		t.Fatalf("expected exactly 1 record to pass all three dimensions, got %d", len(visible))
	}
	got := visible[0]
	if got.Level != "Error" || got.Module != "Enrollment" || got.Message != "alpha" {
		t.Errorf("wrong record survived: %+v", got)
	}
}

func TestUnknownOptionReported(t *testing.T) {
	m := NewModel()
	m.Load([]model.Record{rec("Error", "A", "x")})

	if m.SetLevelSelected("Nope", true) {
		t.Error("expected false for an unknown level name")
	}
	if m.SetModuleSelected("Nope", true) {
		t.Error("expected false for an unknown module name")
	}
}
