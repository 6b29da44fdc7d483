package filter

import (
	"strings"

	"github.com/zuhairmahd/AutopilotLogViewer/internal/model"
)

// Option is one selectable value in a filter dimension.
type Option struct {
	Name     string `json:"name"`
	Selected bool   `json:"selected"`
}

// Model holds the full record set plus three orthogonal filter dimensions
// (levels, modules, free-text search) and recomputes the visible subset
// whenever a dimension or the underlying data changes. It assumes
// sequential invocation from one consumer.
type Model struct {
	records []model.Record

	levels  []*Option // union of every level ever seen; additive, never shrinks
	modules []*Option // rebuilt wholesale on every load

	search string

	visible []model.Record
	dirty   bool
}

func NewModel() *Model {
	return &Model{}
}

// Load replaces the record set with a freshly parsed file, preserving
// per-dimension selection intent across the reload.
//
// Levels are additive: options already known keep their selection; each
// newly observed level decides its initial selection from the prior
// aggregate state (all selected → selected, none selected → unselected,
// partial → selected only on an exact name match with a previously
// selected option). Modules are rebuilt from the new records, applying the
// same rule against the module set being discarded.
func (m *Model) Load(records []model.Record) {
	m.records = records

	priorLevels := snapshot(m.levels)
	for _, name := range distinct(records, func(r model.Record) string { return r.Level }) {
		if findOption(m.levels, name) != nil {
			continue
		}
		m.levels = append(m.levels, &Option{Name: name, Selected: inheritSelection(name, priorLevels)})
	}

	priorModules := snapshot(m.modules)
	var rebuilt []*Option
	for _, name := range distinct(records, func(r model.Record) string { return r.Module }) {
		selected := inheritSelection(name, priorModules)
		if prev := findOption(m.modules, name); prev != nil {
			selected = prev.Selected
		}
		rebuilt = append(rebuilt, &Option{Name: name, Selected: selected})
	}
	m.modules = rebuilt

	m.dirty = true
}

// Records returns the full ordered record set of the current load.
func (m *Model) Records() []model.Record {
	return m.records
}

// Visible returns the current visible subset, recomputing it at most once
// per batch of mutations.
func (m *Model) Visible() []model.Record {
	if m.dirty {
		m.visible = m.compute()
		m.dirty = false
	}
	return m.visible
}

// compute applies the dimensions in fixed order: levels, then modules, then
// search. An empty selection in a non-empty dimension yields nothing —
// "nothing shown", not "everything shown".
func (m *Model) compute() []model.Record {
	out := m.records

	if len(m.levels) > 0 && !allSelected(m.levels) {
		out = keep(out, func(r model.Record) bool {
			o := findOption(m.levels, r.Level)
			return o != nil && o.Selected
		})
	}
	if len(m.modules) > 0 && !allSelected(m.modules) {
		out = keep(out, func(r model.Record) bool {
			o := findOption(m.modules, r.Module)
			return o != nil && o.Selected
		})
	}
	if text := strings.TrimSpace(m.search); text != "" {
		needle := strings.ToLower(text)
		out = keep(out, func(r model.Record) bool {
			return strings.Contains(strings.ToLower(r.Message), needle) ||
				strings.Contains(strings.ToLower(r.Module), needle) ||
				strings.Contains(strings.ToLower(r.Context), needle)
		})
	}
	return out
}

// Levels returns a copy of the level options in discovery order.
func (m *Model) Levels() []Option { return copyOptions(m.levels) }

// Modules returns a copy of the module options in discovery order.
func (m *Model) Modules() []Option { return copyOptions(m.modules) }

// Search returns the current free-text filter.
func (m *Model) Search() string { return m.search }

// SetSearch replaces the free-text filter. Matching is case-insensitive
// across message, module, and context.
func (m *Model) SetSearch(text string) {
	if m.search == text {
		return
	}
	m.search = text
	m.dirty = true
}

// SetLevelSelected toggles one level option; reports whether it existed.
func (m *Model) SetLevelSelected(name string, selected bool) bool {
	return m.setSelected(m.levels, name, selected)
}

// SetModuleSelected toggles one module option; reports whether it existed.
func (m *Model) SetModuleSelected(name string, selected bool) bool {
	return m.setSelected(m.modules, name, selected)
}

// AllLevelsSelected reads true exactly when every level option is selected
// or the dimension is empty. It is derived, never stored.
func (m *Model) AllLevelsSelected() bool { return allSelected(m.levels) }

// AllModulesSelected is the module-dimension analogue of AllLevelsSelected.
func (m *Model) AllModulesSelected() bool { return allSelected(m.modules) }

// SetAllLevels forces every level option to the given state in one batch,
// recomputing the visible subset once.
func (m *Model) SetAllLevels(selected bool) { m.setAll(m.levels, selected) }

// SetAllModules forces every module option to the given state in one batch.
func (m *Model) SetAllModules(selected bool) { m.setAll(m.modules, selected) }

func (m *Model) setSelected(opts []*Option, name string, selected bool) bool {
	o := findOption(opts, name)
	if o == nil {
		return false
	}
	if o.Selected != selected {
		o.Selected = selected
		m.dirty = true
	}
	return true
}

func (m *Model) setAll(opts []*Option, selected bool) {
	for _, o := range opts {
		if o.Selected != selected {
			o.Selected = selected
			m.dirty = true
		}
	}
}

// inheritSelection decides the initial selection of a newly discovered
// value from the prior state of its dimension.
func inheritSelection(name string, prior []Option) bool {
	if len(prior) == 0 {
		return true
	}
	all, none := true, true
	for _, o := range prior {
		if o.Selected {
			none = false
		} else {
			all = false
		}
	}
	switch {
	case all:
		return true
	case none:
		return false
	default:
		for _, o := range prior {
			if o.Selected && o.Name == name {
				return true
			}
		}
		return false
	}
}

func distinct(records []model.Record, key func(model.Record) string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range records {
		k := key(r)
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	return out
}

func findOption(opts []*Option, name string) *Option {
	for _, o := range opts {
		if o.Name == name {
			return o
		}
	}
	return nil
}

func allSelected(opts []*Option) bool {
	for _, o := range opts {
		if !o.Selected {
			return false
		}
	}
	return true
}

func snapshot(opts []*Option) []Option {
	out := make([]Option, len(opts))
	for i, o := range opts {
		out[i] = *o
	}
	return out
}

func copyOptions(opts []*Option) []Option {
	return snapshot(opts)
}

func keep(records []model.Record, pred func(model.Record) bool) []model.Record {
	var out []model.Record
	for _, r := range records {
		if pred(r) {
			out = append(out, r)
		}
	}
	return out
}
