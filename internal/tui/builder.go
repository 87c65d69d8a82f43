// Package tui is the interactive cron expression builder behind
// "datacron cron build".
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/liliang-cn/datacron/pkg/cronexpr"
)

var styles = struct {
	title    lipgloss.Style
	cursor   lipgloss.Style
	valid    lipgloss.Style
	invalid  lipgloss.Style
	dim      lipgloss.Style
	editing  lipgloss.Style
	describe lipgloss.Style
}{
	title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")),
	cursor:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86")),
	valid:    lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
	invalid:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	dim:      lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	editing:  lipgloss.NewStyle().Underline(true),
	describe: lipgloss.NewStyle().Foreground(lipgloss.Color("38")),
}

type editTarget int

const (
	editNone editTarget = iota
	editField
	editExpression
)

// Model edits one cronexpr.Config. Up/down select a field, left/right
// cycle the picker options, enter types a value, e pastes a whole
// expression, q accepts and ctrl+c aborts.
type Model struct {
	catalog *cronexpr.Catalog
	config  *cronexpr.Config
	fields  []cronexpr.FieldName
	options map[cronexpr.FieldName][]cronexpr.Option

	cursor  int
	editing editTarget
	input   string
	status  string

	done      bool
	cancelled bool
}

// New starts a builder from expr, or from the default expression when
// expr is empty or too short to decompose.
func New(catalog *cronexpr.Catalog, expr string) Model {
	if catalog == nil {
		catalog = cronexpr.DefaultCatalog()
	}
	cfg := cronexpr.NewConfig()
	if expr != "" {
		cfg.SetExpression(expr)
	}

	options := make(map[cronexpr.FieldName][]cronexpr.Option)
	for _, name := range cronexpr.FieldNames() {
		opts, _ := catalog.Options(name)
		options[name] = opts
	}

	return Model{
		catalog: catalog,
		config:  cfg,
		fields:  cronexpr.FieldNames(),
		options: options,
	}
}

// Expression is the current canonical expression.
func (m Model) Expression() string { return m.config.Expression }

// Cancelled reports whether the user aborted with ctrl+c.
func (m Model) Cancelled() bool { return m.cancelled }

// Valid reports whether every field passes validation.
func (m Model) Valid() bool { return len(m.config.Invalid()) == 0 }

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if key.String() == "ctrl+c" {
		m.cancelled = true
		m.done = true
		return m, tea.Quit
	}
	if m.editing != editNone {
		return m.updateEditing(key), nil
	}

	switch key.String() {
	case "q", "esc":
		m.done = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j", "tab":
		if m.cursor < len(m.fields)-1 {
			m.cursor++
		}
	case "left", "h":
		m.cycle(-1)
	case "right", "l":
		m.cycle(1)
	case "enter":
		m.editing = editField
		m.input = m.config.Field(m.current())
		m.status = ""
	case "e":
		m.editing = editExpression
		m.input = m.config.Expression
		m.status = ""
	case "r":
		m.config = cronexpr.NewConfig()
		m.status = ""
	}
	return m, nil
}

func (m Model) updateEditing(key tea.KeyMsg) Model {
	switch key.Type {
	case tea.KeyEnter:
		if m.editing == editExpression {
			m.status = m.commitExpression(m.input)
		} else {
			m.status = m.commitField(m.current(), strings.TrimSpace(m.input))
		}
		m.editing = editNone
		m.input = ""
	case tea.KeyEsc:
		m.editing = editNone
		m.input = ""
	case tea.KeyBackspace:
		if r := []rune(m.input); len(r) > 0 {
			m.input = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		m.input += " "
	case tea.KeyRunes:
		m.input += string(key.Runes)
	}
	return m
}

func (m Model) current() cronexpr.FieldName { return m.fields[m.cursor] }

// commitField stores value unless it fails validation, in which case the
// field keeps its previous value and the returned status says why.
func (m Model) commitField(name cronexpr.FieldName, value string) string {
	if !m.catalog.ValidateField(value, name) {
		spec, _ := m.catalog.Spec(name)
		return fmt.Sprintf("%q is not a valid %s value (%d-%d), kept %q",
			value, name, spec.Range.Min, spec.Range.Max, m.config.Field(name))
	}
	_ = m.config.SetField(name, value)
	return ""
}

// commitExpression replaces every field at once, or none of them when the
// expression is short or any field is invalid.
func (m Model) commitExpression(expr string) string {
	f, ok := cronexpr.Decompose(expr)
	if !ok {
		return "expression needs at least 6 fields"
	}
	if bad := f.Invalid(); len(bad) > 0 {
		names := make([]string, len(bad))
		for i, name := range bad {
			names[i] = string(name)
		}
		return "invalid " + strings.Join(names, ", ") + ", expression kept"
	}
	m.config.SetExpression(expr)
	return ""
}

// cycle moves the current field to the next picker option. A value that is
// not in the list starts from the first option.
func (m *Model) cycle(delta int) {
	name := m.current()
	opts := m.options[name]
	if len(opts) == 0 {
		return
	}
	idx := -1
	for i, o := range opts {
		if o.Value == m.config.Field(name) {
			idx = i
			break
		}
	}
	switch {
	case idx < 0:
		idx = 0
	default:
		idx = (idx + delta + len(opts)) % len(opts)
	}
	_ = m.config.SetField(name, opts[idx].Value)
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(styles.title.Render("Cron expression builder"))
	b.WriteString("\n\n")

	for i, name := range m.fields {
		spec, _ := m.catalog.Spec(name)
		value := m.config.Field(name)

		pointer := "  "
		if i == m.cursor {
			pointer = styles.cursor.Render("> ")
		}
		if i == m.cursor && m.editing == editField {
			value = styles.editing.Render(m.input + "_")
		}

		mark := styles.valid.Render("ok")
		if !cronexpr.ValidateField(m.config.Field(name), name) {
			mark = styles.invalid.Render("invalid")
		}

		fmt.Fprintf(&b, "%s%-8s %-6s %-14s %s %s\n",
			pointer, name, spec.Label, value, mark,
			styles.dim.Render(fmt.Sprintf("[%d-%d]", spec.Range.Min, spec.Range.Max)))
	}

	b.WriteString("\n")
	if m.editing == editExpression {
		fmt.Fprintf(&b, "expression: %s\n", styles.editing.Render(m.input+"_"))
	} else {
		fmt.Fprintf(&b, "expression: %s\n", m.config.Expression)
	}
	fmt.Fprintf(&b, "description: %s\n", styles.describe.Render(m.catalog.Describe(m.config.Expression)))
	if m.status != "" {
		b.WriteString(styles.invalid.Render(m.status) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.dim.Render("↑/↓ field  ←/→ option  enter type value  e paste expression  r reset  q done  ctrl+c abort"))
	b.WriteString("\n")
	return b.String()
}

// Run blocks until the user finishes and returns the final model.
func Run(catalog *cronexpr.Catalog, expr string, opts ...tea.ProgramOption) (Model, error) {
	final, err := tea.NewProgram(New(catalog, expr), opts...).Run()
	if err != nil {
		return Model{}, fmt.Errorf("builder failed: %w", err)
	}
	return final.(Model), nil
}
