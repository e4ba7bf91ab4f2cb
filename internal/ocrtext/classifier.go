// Package ocrtext turns raw OCR output into receipt lines and pulls typed fields out of them.
package ocrtext

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/Veraticus/bon-scanner/internal/model"
)

var (
	trailingSingleRune = regexp.MustCompile(` [\p{L}\p{N}_]$`)
	digit              = regexp.MustCompile(`\d`)
	delimiter          = regexp.MustCompile(`[,.:-]`)
)

// Classify splits raw OCR text into candidate receipt lines. Lines that cannot
// carry a date, a price or a sum are dropped and the survivors are tagged as entries.
// Order is preserved.
func Classify(raw string, blacklist []string) []model.OcrLine {
	var lines []model.OcrLine

	for _, line := range strings.Split(raw, "\n") {
		text, ok := normalize(line)
		if !ok || blacklisted(text, blacklist) {
			continue
		}
		lines = append(lines, model.OcrLine{Text: text, Tag: model.TagEntry})
	}

	return lines
}

// Refilter drops lines containing a blacklisted substring and keeps the tags of the rest.
func Refilter(lines []model.OcrLine, blacklist []string) []model.OcrLine {
	kept := make([]model.OcrLine, 0, len(lines))
	for _, line := range lines {
		if blacklisted(line.Text, blacklist) {
			continue
		}
		kept = append(kept, line)
	}
	return kept
}

func normalize(line string) (string, bool) {
	line = strings.TrimSpace(line)
	if utf8.RuneCountInString(line) <= 1 {
		return "", false
	}

	// OCR noise often leaves a lone tax class letter at the end of a line.
	if loc := trailingSingleRune.FindStringIndex(line); loc != nil {
		line = line[:loc[0]]
	}

	tokens := strings.Split(line, " ")
	if !digit.MatchString(tokens[len(tokens)-1]) {
		return "", false
	}

	if !delimiter.MatchString(line) {
		return "", false
	}

	return line, true
}

func blacklisted(line string, blacklist []string) bool {
	for _, entry := range blacklist {
		if entry != "" && strings.Contains(line, entry) {
			return true
		}
	}
	return false
}
