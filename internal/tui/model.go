// Package tui is the interactive terminal front end of the receipt workflow.
package tui

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/bon-scanner/internal/ocr"
	"github.com/Veraticus/bon-scanner/internal/tui/themes"
	"github.com/Veraticus/bon-scanner/internal/workflow"
)

// Model holds the main TUI state. All workflow state lives in the session;
// the model only translates keys into triggers and renders snapshots.
type Model struct {
	ctx      context.Context
	session  *workflow.Session
	ocr      ocr.Engine
	lastErr  error
	theme    themes.Theme
	status   string
	input    textinput.Model
	spinner  spinner.Model
	help     help.Model
	keymap   KeyMap
	width    int
	height   int
	quitting bool
}

// bindingTrigger maps a key binding to the trigger it fires in one state.
type bindingTrigger struct {
	binding key.Binding
	trigger workflow.Trigger
}

// New creates the TUI model and its workflow session.
func New(ctx context.Context, opts ...Option) (Model, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.Storage == nil {
		return Model{}, errors.New("storage is required")
	}
	if cfg.Imports == nil {
		return Model{}, errors.New("import source is required")
	}
	if cfg.OCR == nil {
		return Model{}, errors.New("ocr engine is required")
	}

	sessionOpts := []workflow.Option{workflow.WithOcrTimeout(cfg.OcrTimeout)}
	if cfg.Engine != nil {
		sessionOpts = append(sessionOpts, workflow.WithEngine(cfg.Engine))
	}
	session, err := workflow.New(ctx, cfg.Storage, cfg.Imports, sessionOpts...)
	if err != nil {
		return Model{}, err
	}

	input := textinput.New()
	input.Prompt = "> "
	input.CharLimit = 120

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = cfg.Theme.StatusInfo

	return Model{
		ctx:     ctx,
		session: session,
		ocr:     cfg.OCR,
		theme:   cfg.Theme,
		input:   input,
		spinner: spin,
		help:    help.New(),
		keymap:  DefaultKeyMap(),
		width:   cfg.Width,
		height:  cfg.Height,
	}, nil
}

// Session exposes the workflow session, mainly for tests.
func (m Model) Session() *workflow.Session {
	return m.session
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.SetWindowTitle("bon")
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.input.Width = max(10, msg.Width-10)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case ocrCompletedMsg:
		m.session.CompleteOcr(msg.id, msg.text, msg.err)
		if msg.err == nil && m.session.State() == workflow.StateOcr {
			m.status = "Scan complete"
		}
		return m, nil

	case spinner.TickMsg:
		if !m.session.OcrPending() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keymap.ForceQuit) {
		return m.quit()
	}

	state := m.session.State()
	if state.IsEdit() {
		return m.handleEditKey(msg, state)
	}

	switch {
	case key.Matches(msg, m.keymap.Quit):
		return m.quit()
	case key.Matches(msg, m.keymap.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keymap.Up):
		return m.fire(workflow.PreviousItem)
	case key.Matches(msg, m.keymap.Down):
		return m.fire(workflow.NextItem)
	}

	for _, bt := range m.bindings(state) {
		if key.Matches(msg, bt.binding) {
			return m.fire(bt.trigger)
		}
	}
	return m, nil
}

func (m Model) handleEditKey(msg tea.KeyMsg, state workflow.State) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Submit):
		m.session.SetBuffer(m.input.Value())
		if state == workflow.StateBlacklist {
			return m.fire(workflow.CommitBlacklistEntry)
		}
		return m.fire(workflow.CommitEdit)
	case key.Matches(msg, m.keymap.Cancel):
		return m.fire(workflow.Cancel)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.session.SetBuffer(m.input.Value())
	return m, cmd
}

// bindings lists the state specific keys in priority order.
func (m Model) bindings(state workflow.State) []bindingTrigger {
	k := m.keymap
	switch state {
	case workflow.StateHome:
		return []bindingTrigger{
			{k.Import, workflow.SelectImportTarget},
			{k.Hide, workflow.HideReceipt},
		}
	case workflow.StateImport:
		return []bindingTrigger{
			{k.Confirm, workflow.ConfirmFile},
			{k.Back, workflow.Back},
		}
	case workflow.StateOcr:
		return []bindingTrigger{
			{k.MarkDate, workflow.MarkAsDate},
			{k.MarkSum, workflow.MarkAsSum},
			{k.DeleteLine, workflow.DeleteLine},
			{k.Blacklist, workflow.RequestBlacklist},
			{k.Convert, workflow.ConvertToDraft},
			{k.Back, workflow.Back},
		}
	case workflow.StateConvertBon:
		return []bindingTrigger{
			{k.EditName, workflow.RequestEditName},
			{k.EditPrice, workflow.RequestEditPrice},
			{k.EditTotal, workflow.RequestEditBonPrice},
			{k.PickCategory, workflow.RequestCategoryPick},
			{k.DeleteItem, workflow.DeleteItem},
			{k.Commit, workflow.CommitBon},
			{k.Back, workflow.Back},
		}
	case workflow.StateCategory:
		return []bindingTrigger{
			{k.Choose, workflow.PickCategory},
			{k.NewCategory, workflow.RequestNewCategory},
			{k.Back, workflow.Back},
		}
	default:
		return nil
	}
}

// fire applies trigger and starts any recognition it requested.
func (m Model) fire(trigger workflow.Trigger) (tea.Model, tea.Cmd) {
	before := m.session.State()
	req, err := m.session.Fire(m.ctx, trigger)
	m.lastErr = err
	m.status = ""

	after := m.session.State()
	if after.IsEdit() && !before.IsEdit() {
		m.input.SetValue(m.session.Buffer())
		m.input.CursorEnd()
		m.input.Focus()
	} else if !after.IsEdit() {
		m.input.Blur()
		m.input.Reset()
	}

	if err == nil && trigger == workflow.CommitBon {
		m.status = "Receipt saved"
	}

	if req != nil {
		return m, tea.Batch(recognize(m.ocr, req), m.spinner.Tick)
	}
	return m, nil
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.session.Close()
	m.quitting = true
	return m, tea.Quit
}

// Err returns the error that should be shown to the user, if any.
func (m Model) Err() error {
	if m.lastErr != nil {
		return m.lastErr
	}
	return m.session.LastError()
}
