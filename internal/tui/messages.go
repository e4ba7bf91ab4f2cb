package tui

// ocrCompletedMsg carries the outcome of one recognition back into the loop.
type ocrCompletedMsg struct {
	err  error
	text string
	id   uint64
}
