package ocrtext

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	datePattern  = regexp.MustCompile(`\d{2}[.,]\d{2}[.,]\d{4}`)
	pricePattern = regexp.MustCompile(`\d+[.,]\d+`)
)

// ExtractDate returns the first DD.MM.YYYY-like substring of line exactly as written.
func ExtractDate(line string) (string, bool) {
	date := datePattern.FindString(line)
	return date, date != ""
}

// ExtractName returns everything before the last space of line.
func ExtractName(line string) (string, bool) {
	idx := strings.LastIndex(line, " ")
	if idx < 0 {
		return "", false
	}
	return line[:idx], true
}

// ExtractPrice returns the first decimal number of line. Both comma and dot
// are accepted as decimal separator.
func ExtractPrice(line string) (decimal.Decimal, bool) {
	match := pricePattern.FindString(line)
	if match == "" {
		return decimal.Zero, false
	}

	price, err := decimal.NewFromString(strings.Replace(match, ",", ".", 1))
	if err != nil {
		return decimal.Zero, false
	}
	return price, true
}

// NormalizeDate converts a DD.MM.YYYY date into YYYY-MM-DD. Commas are read as
// dots. Anything that does not split into three parts is returned unchanged.
func NormalizeDate(date string) string {
	parts := strings.Split(strings.ReplaceAll(date, ",", "."), ".")
	if len(parts) != 3 {
		return date
	}
	return parts[2] + "-" + parts[1] + "-" + parts[0]
}
