package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/bon-scanner/internal/model"
	"github.com/Veraticus/bon-scanner/internal/workflow"
)

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var body string
	switch m.session.State() {
	case workflow.StateHome:
		body = m.renderHome()
	case workflow.StateImport:
		body = m.renderImport()
	case workflow.StateOcr:
		body = m.renderOcr()
	case workflow.StateBlacklist:
		body = lipgloss.JoinVertical(lipgloss.Left, m.renderOcr(), m.renderInput("Blacklist text"))
	case workflow.StateConvertBon:
		body = m.renderDraft()
	case workflow.StateEditName:
		body = lipgloss.JoinVertical(lipgloss.Left, m.renderDraft(), m.renderInput("Product name"))
	case workflow.StateEditPrice:
		body = lipgloss.JoinVertical(lipgloss.Left, m.renderDraft(), m.renderInput("Item price"))
	case workflow.StateEditBonPrice:
		body = lipgloss.JoinVertical(lipgloss.Left, m.renderDraft(), m.renderInput("Receipt total"))
	case workflow.StateCategory:
		body = m.renderCategories()
	case workflow.StateEditCategory:
		body = lipgloss.JoinVertical(lipgloss.Left, m.renderCategories(), m.renderInput("New category"))
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		body,
		m.renderStatusBar(),
		m.help.View(m.keymap.forState(m.session.State())),
	)
}

func (m Model) renderHome() string {
	receipts := m.session.Receipts()
	cursor := m.session.ReceiptCursor()

	rows := make([]string, 0, len(receipts))
	for i, r := range receipts {
		line := fmt.Sprintf("%-10s  %8s  %2d items", r.Date, r.Price.StringFixed(2), len(r.Entries))
		rows = append(rows, m.renderRow(line, i == cursor))
	}
	if len(rows) == 0 {
		rows = append(rows, m.theme.Faint.Render("No receipts yet. Press i to import one."))
	}

	list := m.theme.Box.Render(lipgloss.JoinVertical(lipgloss.Left,
		m.theme.Title.Render("Receipts"),
		strings.Join(rows, "\n"),
	))

	summary := m.renderSummary(m.session.Summary())
	if summary == "" {
		return list
	}
	if m.width < 80 {
		return lipgloss.JoinVertical(lipgloss.Left, list, summary)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, list, " ", summary)
}

func (m Model) renderSummary(summary []model.CategorySummary) string {
	if len(summary) == 0 {
		return ""
	}

	rows := make([]string, 0, len(summary))
	for _, s := range summary {
		line := fmt.Sprintf("%-18s %8s", s.Category, s.Total.StringFixed(2))
		if s.Category == model.SummaryTotalLabel {
			rows = append(rows, m.theme.Subtitle.Render(line))
			continue
		}
		rows = append(rows, m.theme.Normal.Render(line))
	}

	return m.theme.Box.Render(lipgloss.JoinVertical(lipgloss.Left,
		m.theme.Title.Render("By category"),
		strings.Join(rows, "\n"),
	))
}

func (m Model) renderImport() string {
	files := m.session.ImportFiles()
	cursor := m.session.ImportCursor()

	rows := make([]string, 0, len(files))
	for i, name := range files {
		rows = append(rows, m.renderRow(name, i == cursor))
	}
	if len(rows) == 0 {
		rows = append(rows, m.theme.Faint.Render("No new images in the import folder."))
	}

	return m.theme.Box.Render(lipgloss.JoinVertical(lipgloss.Left,
		m.theme.Title.Render("Import"),
		strings.Join(rows, "\n"),
	))
}

func (m Model) renderOcr() string {
	title := m.theme.Title.Render("Scan: " + filepath.Base(m.session.OcrFile()))

	if m.session.OcrPending() {
		return m.theme.Box.Render(lipgloss.JoinVertical(lipgloss.Left,
			title,
			m.spinner.View()+" Recognizing text...",
		))
	}

	lines := m.session.OcrLines()
	cursor := m.session.OcrCursor()
	rows := make([]string, 0, len(lines))
	for i, line := range lines {
		rows = append(rows, m.renderRow(m.tagLabel(line.Tag)+" "+line.Text, i == cursor))
	}
	if len(rows) == 0 {
		rows = append(rows, m.theme.Faint.Render("No usable lines."))
	}

	return m.theme.Box.Render(lipgloss.JoinVertical(lipgloss.Left,
		title,
		strings.Join(rows, "\n"),
	))
}

func (m Model) tagLabel(tag model.LineTag) string {
	switch tag {
	case model.TagDate:
		return m.theme.DateTag.Render("[date]")
	case model.TagSum:
		return m.theme.SumTag.Render("[sum] ")
	default:
		return "      "
	}
}

func (m Model) renderDraft() string {
	draft := m.session.Draft()
	cursor := m.session.ItemCursor()

	rows := make([]string, 0, len(draft.Items))
	for i, item := range draft.Items {
		category := item.Category
		if category == "" {
			category = "-"
		}
		line := fmt.Sprintf("%-24s %-16s %8s", item.Product, category, item.Price.StringFixed(2))
		rows = append(rows, m.renderRow(line, i == cursor))
	}
	if len(rows) == 0 {
		rows = append(rows, m.theme.Faint.Render("No items recognized."))
	}

	totals := fmt.Sprintf("Date %s   Total %s   Items %s",
		valueOr(draft.Date, "-"),
		draft.PriceReported.StringFixed(2),
		draft.PriceComputed.StringFixed(2))
	if draft.Reconciled {
		totals += "  " + m.theme.Reconciled.Render("✓")
	} else {
		totals += "  " + m.theme.Mismatch.Render("✗ totals differ")
	}

	return m.theme.Box.Render(lipgloss.JoinVertical(lipgloss.Left,
		m.theme.Title.Render("Receipt"),
		strings.Join(rows, "\n"),
		"",
		totals,
	))
}

func (m Model) renderCategories() string {
	categories := m.session.Categories()
	cursor := m.session.CategoryCursor()

	rows := make([]string, 0, len(categories))
	for i, c := range categories {
		rows = append(rows, m.renderRow(c.Name, i == cursor))
	}
	if len(rows) == 0 {
		rows = append(rows, m.theme.Faint.Render("No categories. Press n to create one."))
	}

	return m.theme.Box.Render(lipgloss.JoinVertical(lipgloss.Left,
		m.theme.Title.Render("Category"),
		strings.Join(rows, "\n"),
	))
}

func (m Model) renderInput(label string) string {
	return m.theme.Input.Render(lipgloss.JoinVertical(lipgloss.Left,
		m.theme.Subtitle.Render(label),
		m.input.View(),
	))
}

func (m Model) renderRow(text string, selected bool) string {
	if selected {
		return m.theme.Selected.Render("> " + text)
	}
	return m.theme.Normal.Render("  " + text)
}

// renderStatusBar shows the last error, or the last confirmation.
func (m Model) renderStatusBar() string {
	if err := m.Err(); err != nil {
		return m.theme.StatusError.Render("Error: " + err.Error())
	}
	if m.status != "" {
		return m.theme.StatusInfo.Render(m.status)
	}
	return ""
}

func valueOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
