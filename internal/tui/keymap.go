package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/Veraticus/bon-scanner/internal/workflow"
)

// KeyMap defines all keyboard shortcuts.
type KeyMap struct {
	// Navigation
	Up   key.Binding
	Down key.Binding
	Back key.Binding

	// Home
	Import key.Binding
	Hide   key.Binding

	// Import
	Confirm key.Binding

	// Ocr
	MarkDate   key.Binding
	MarkSum    key.Binding
	DeleteLine key.Binding
	Blacklist  key.Binding
	Convert    key.Binding

	// Draft
	EditName     key.Binding
	EditPrice    key.Binding
	EditTotal    key.Binding
	PickCategory key.Binding
	DeleteItem   key.Binding
	Commit       key.Binding

	// Category
	Choose      key.Binding
	NewCategory key.Binding

	// Text input
	Submit key.Binding
	Cancel key.Binding

	// Application
	Quit      key.Binding
	ForceQuit key.Binding
	Help      key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("↓/j", "down"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("Esc", "back"),
		),

		Import: key.NewBinding(
			key.WithKeys("i", "enter"),
			key.WithHelp("i", "import receipt"),
		),
		Hide: key.NewBinding(
			key.WithKeys("x", "delete"),
			key.WithHelp("x", "hide receipt"),
		),

		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "scan file"),
		),

		MarkDate: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "mark date"),
		),
		MarkSum: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "mark sum"),
		),
		DeleteLine: key.NewBinding(
			key.WithKeys("x", "delete"),
			key.WithHelp("x", "delete line"),
		),
		Blacklist: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "blacklist"),
		),
		Convert: key.NewBinding(
			key.WithKeys("c", "enter"),
			key.WithHelp("c", "convert"),
		),

		EditName: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "edit name"),
		),
		EditPrice: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "edit price"),
		),
		EditTotal: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "edit total"),
		),
		PickCategory: key.NewBinding(
			key.WithKeys("c", "enter"),
			key.WithHelp("c", "category"),
		),
		DeleteItem: key.NewBinding(
			key.WithKeys("x", "delete"),
			key.WithHelp("x", "delete item"),
		),
		Commit: key.NewBinding(
			key.WithKeys("w", "ctrl+s"),
			key.WithHelp("w", "save receipt"),
		),

		Choose: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "choose"),
		),
		NewCategory: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new category"),
		),

		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "save"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("Esc", "cancel"),
		),

		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("Ctrl+C", "force quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
	}
}

// stateHelp adapts the bindings of one workflow state to help.KeyMap.
type stateHelp struct {
	bindings []key.Binding
	keys     KeyMap
}

func (k KeyMap) forState(state workflow.State) stateHelp {
	var bindings []key.Binding
	switch state {
	case workflow.StateHome:
		bindings = []key.Binding{k.Import, k.Hide, k.Up, k.Down, k.Quit}
	case workflow.StateImport:
		bindings = []key.Binding{k.Confirm, k.Up, k.Down, k.Back}
	case workflow.StateOcr:
		bindings = []key.Binding{k.MarkDate, k.MarkSum, k.DeleteLine, k.Blacklist, k.Convert, k.Back}
	case workflow.StateConvertBon:
		bindings = []key.Binding{k.EditName, k.EditPrice, k.EditTotal, k.PickCategory, k.DeleteItem, k.Commit, k.Back}
	case workflow.StateCategory:
		bindings = []key.Binding{k.Choose, k.NewCategory, k.Up, k.Down, k.Back}
	default:
		bindings = []key.Binding{k.Submit, k.Cancel}
	}
	return stateHelp{bindings: bindings, keys: k}
}

// ShortHelp returns key bindings for the short help view.
func (h stateHelp) ShortHelp() []key.Binding {
	return append(append([]key.Binding(nil), h.bindings...), h.keys.Help)
}

// FullHelp returns all key bindings for the full help view.
func (h stateHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		h.bindings,
		{h.keys.Up, h.keys.Down, h.keys.Help, h.keys.ForceQuit},
	}
}
