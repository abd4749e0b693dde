package ocr

import "regexp"

// OCR tends to glue "de" and the month in "15 denov de 2024".
var reGluedNov = regexp.MustCompile(`(?i)denov`)

// Normalize applies the one known repair and leaves everything else intact.
func Normalize(s string) string {
	return reGluedNov.ReplaceAllString(s, "de nov")
}
