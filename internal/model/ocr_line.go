// Package model defines the core domain models used throughout the application.
package model

// LineTag marks what a recognized line contributes to a receipt draft.
type LineTag int

// Line tags.
const (
	TagUnclassified LineTag = iota
	TagDate
	TagEntry
	TagSum
)

// String returns a short label for the tag.
func (t LineTag) String() string {
	switch t {
	case TagDate:
		return "date"
	case TagEntry:
		return "entry"
	case TagSum:
		return "sum"
	default:
		return "unclassified"
	}
}

// OcrLine is one filtered line of recognized text.
type OcrLine struct {
	Text string
	Tag  LineTag
}
