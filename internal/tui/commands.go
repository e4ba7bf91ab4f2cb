package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/bon-scanner/internal/ocr"
	"github.com/Veraticus/bon-scanner/internal/workflow"
)

// recognize runs req off the event loop and reports an ocrCompletedMsg.
func recognize(engine ocr.Engine, req *workflow.OcrRequest) tea.Cmd {
	return func() tea.Msg {
		text, err := engine.Recognize(req.Context(), req.Path)
		return ocrCompletedMsg{id: req.ID, text: text, err: err}
	}
}
