package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/liliang-cn/datacron/pkg/cronexpr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func press(t *testing.T, m Model, keys ...tea.KeyMsg) Model {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(k)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

var (
	down      = tea.KeyMsg{Type: tea.KeyDown}
	right     = tea.KeyMsg{Type: tea.KeyRight}
	left      = tea.KeyMsg{Type: tea.KeyLeft}
	enter     = tea.KeyMsg{Type: tea.KeyEnter}
	backspace = tea.KeyMsg{Type: tea.KeyBackspace}
	space     = tea.KeyMsg{Type: tea.KeySpace}
)

func TestNewDefaults(t *testing.T) {
	m := New(nil, "")
	assert.Equal(t, cronexpr.DefaultExpression, m.Expression())
	assert.True(t, m.Valid())
	assert.Contains(t, m.View(), "0 0 0 * * ?")
}

func TestNewFromExpression(t *testing.T) {
	m := New(nil, "0 30 8 ? * 1-5")
	assert.Equal(t, "0 30 8 ? * 1-5", m.Expression())

	m = New(nil, "0 30")
	assert.Equal(t, cronexpr.DefaultExpression, m.Expression())
}

func TestTypeFieldValue(t *testing.T) {
	m := New(nil, "")
	// second -> minute -> hour
	m = press(t, m, down, down, enter, backspace, runes("9"), enter)
	assert.Equal(t, "0 0 9 * * ?", m.Expression())

	m = press(t, m, down, down, down, enter, backspace, runes("1-5"), enter)
	assert.Equal(t, "0 0 9 * * 1-5", m.Expression())
	assert.Contains(t, m.View(), "09:00 工作日")
}

func TestInvalidValueIsRejected(t *testing.T) {
	m := New(nil, "")
	m = press(t, m, down, down, enter, backspace, runes("9"), enter)
	require.Equal(t, "0 0 9 * * ?", m.Expression())

	m = press(t, m, enter, backspace, runes("24"), enter)
	assert.Equal(t, "0 0 9 * * ?", m.Expression())
	assert.True(t, m.Valid())
	assert.Contains(t, m.View(), `"24" is not a valid hour value (0-23), kept "9"`)

	// the next accepted edit clears the message
	m = press(t, m, enter, backspace, runes("8"), enter)
	assert.Equal(t, "0 0 8 * * ?", m.Expression())
	assert.NotContains(t, m.View(), "not a valid")
}

func TestInvalidExpressionIsRejected(t *testing.T) {
	m := New(nil, "0 15 10 ? * 6")
	m = press(t, m, runes("e"))
	for range []rune("0 15 10 ? * 6") {
		m = press(t, m, backspace)
	}
	m = press(t, m, runes("0"), space, runes("60"), space, runes("10"), space, runes("?"), space, runes("*"), space, runes("6"), enter)
	assert.Equal(t, "0 15 10 ? * 6", m.Expression())
	assert.Contains(t, m.View(), "invalid minute, expression kept")
}

func TestInvalidStartingExpressionIsMarked(t *testing.T) {
	m := New(nil, "0 0 24 * * ?")
	assert.False(t, m.Valid())
	assert.Contains(t, m.View(), "invalid")
}

func TestCycleOptions(t *testing.T) {
	m := New(nil, "")
	m = press(t, m, down, down, down, down, down) // weekday, currently "?"
	m = press(t, m, right)
	assert.Equal(t, "0 0 0 * * 0", m.Expression())

	m = press(t, m, left, left)
	assert.Equal(t, "0 0 0 * * *", m.Expression())
}

func TestPasteExpression(t *testing.T) {
	m := New(nil, "")
	m = press(t, m, runes("e"))
	for range []rune(cronexpr.DefaultExpression) {
		m = press(t, m, backspace)
	}
	m = press(t, m, runes("0"), space, runes("15"), space, runes("10"), space, runes("?"), space, runes("*"), space, runes("6"), enter)
	assert.Equal(t, "0 15 10 ? * 6", m.Expression())

	m = press(t, m, runes("e"), backspace, backspace, backspace, backspace, backspace, backspace, backspace, backspace, backspace, backspace, backspace, backspace, backspace, enter)
	assert.Equal(t, "0 15 10 ? * 6", m.Expression())
	assert.Contains(t, m.View(), "at least 6 fields")
}

func TestQuitAndCancel(t *testing.T) {
	m := New(nil, "")
	next, cmd := m.Update(runes("q"))
	assert.NotNil(t, cmd)
	assert.False(t, next.(Model).Cancelled())

	next, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.NotNil(t, cmd)
	assert.True(t, next.(Model).Cancelled())
}

func TestReset(t *testing.T) {
	m := New(nil, "0 15 10 ? * 6")
	m = press(t, m, runes("r"))
	assert.Equal(t, cronexpr.DefaultExpression, m.Expression())
}
