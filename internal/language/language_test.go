package language

import "testing"

func TestToISO2(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"en", "en"},
		{"EN", "en"},
		{"zho", "zh"},
		{"chi", "zh"},
		{"chs", "zh"},
		{"jpn", "ja"},
		{"fre", "fr"},
		{"xy", "xy"},
		{"xyz", ""},
		{"", ""},
		{" ", ""},
	}
	for _, tt := range tests {
		if got := ToISO2(tt.input); got != tt.expected {
			t.Errorf("ToISO2(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestToISO3(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"zh", "zho"},
		{"chi", "zho"},
		{"ja", "jpn"},
		{"xyz", "xyz"},
		{"xy", "und"},
		{"", "und"},
	}
	for _, tt := range tests {
		if got := ToISO3(tt.input); got != tt.expected {
			t.Errorf("ToISO3(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestToMatroska(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"zh", "chi"},
		{"zho", "chi"},
		{"chi", "chi"},
		{"de", "ger"},
		{"ja", "jpn"},
		{"eng", "eng"},
		{"qaa", "qaa"},
		{"", "und"},
		{"toolong", "und"},
	}
	for _, tt := range tests {
		if got := ToMatroska(tt.input); got != tt.expected {
			t.Errorf("ToMatroska(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestDisplayName(t *testing.T) {
	if got := DisplayName("chs"); got != "Chinese" {
		t.Fatalf("DisplayName(chs) = %q", got)
	}
	if got := DisplayName(""); got != "Unknown" {
		t.Fatalf("DisplayName(\"\") = %q", got)
	}
	if got := DisplayName("xx"); got != "XX" {
		t.Fatalf("DisplayName(xx) = %q", got)
	}
}

func TestFromFileName(t *testing.T) {
	tests := []struct {
		name     string
		stem     string
		expected string
	}{
		{"ep01.chs.ass", "ep01", "chi"},
		{"EP01.jp.ass", "ep01", "jpn"},
		{"ep01.ass", "ep01", ""},
		{"ep01.signs.ass", "ep01", ""},
		{"ep01.signs.eng.ass", "ep01", "eng"},
		{"other.chs.ass", "ep01", ""},
	}
	for _, tt := range tests {
		if got := FromFileName(tt.name, tt.stem); got != tt.expected {
			t.Errorf("FromFileName(%q, %q) = %q, want %q", tt.name, tt.stem, got, tt.expected)
		}
	}
}
