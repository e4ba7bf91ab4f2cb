package ocrtext

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/bon-scanner/internal/model"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		blacklist []string
		want      []string
	}{
		{
			name: "keeps entry lines",
			raw:  "Milch 2,49\nBrot 3,10",
			want: []string{"Milch 2,49", "Brot 3,10"},
		},
		{
			name: "trims whitespace and drops short lines",
			raw:  "   Milch 2,49   \nA\n\n ",
			want: []string{"Milch 2,49"},
		},
		{
			name: "strips trailing tax class letter",
			raw:  "Butter 1,99 A",
			want: []string{"Butter 1,99"},
		},
		{
			name: "last token must contain a digit",
			raw:  "Vielen Dank\nDanke 1,00 fuer Ihren Einkauf",
			want: nil,
		},
		{
			name: "requires a delimiter",
			raw:  "Filiale 1234",
			want: nil,
		},
		{
			name: "date line survives",
			raw:  "24.12.2024 Kassenbon 12:31",
			want: []string{"24.12.2024 Kassenbon 12:31"},
		},
		{
			name:      "blacklist is case sensitive substring",
			raw:       "Pfand 0,25\npfand 0,25\nMilch 2,49",
			blacklist: []string{"Pfand"},
			want:      []string{"pfand 0,25", "Milch 2,49"},
		},
		{
			name:      "empty blacklist entries are ignored",
			raw:       "Milch 2,49",
			blacklist: []string{""},
			want:      []string{"Milch 2,49"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := Classify(tt.raw, tt.blacklist)

			var texts []string
			for _, line := range lines {
				assert.Equal(t, model.TagEntry, line.Tag)
				texts = append(texts, line.Text)
			}
			assert.Equal(t, tt.want, texts)
		})
	}
}

func TestClassifyInvariants(t *testing.T) {
	raw := strings.Join([]string{
		"REWE Markt GmbH",
		"Milch 2,49 B",
		"Brot 3,10",
		"SUMME 5,59",
		"x",
		"Pfand 0,25",
		"24.12.2024 Kassenbon",
		"Steuer-Nr 12/345",
	}, "\n")
	blacklist := []string{"Pfand"}

	lines := Classify(raw, blacklist)
	require.NotEmpty(t, lines)

	for _, line := range lines {
		assert.Greater(t, utf8.RuneCountInString(line.Text), 1)
		tokens := strings.Split(line.Text, " ")
		assert.Regexp(t, `\d`, tokens[len(tokens)-1])
		assert.Regexp(t, `[,.:-]`, line.Text)
		for _, entry := range blacklist {
			assert.NotContains(t, line.Text, entry)
		}
	}
}

func TestRefilterPreservesTags(t *testing.T) {
	lines := []model.OcrLine{
		{Text: "24.12.2024 Kassenbon", Tag: model.TagDate},
		{Text: "Pfand 0,25", Tag: model.TagEntry},
		{Text: "SUMME 5,59", Tag: model.TagSum},
	}

	got := Refilter(lines, []string{"Pfand"})

	assert.Equal(t, []model.OcrLine{
		{Text: "24.12.2024 Kassenbon", Tag: model.TagDate},
		{Text: "SUMME 5,59", Tag: model.TagSum},
	}, got)
}
