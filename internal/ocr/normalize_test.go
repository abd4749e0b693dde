package ocr

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"15 denov de 2024 14:30:00", "15 de nov de 2024 14:30:00"},
		{"15 DENOV de 2024", "15 de nov de 2024"},
		{"15 de nov de 2024", "15 de nov de 2024"},
		{"  spaces\r\nkept\t", "  spaces\r\nkept\t"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
