package util

import (
	"reflect"
	"testing"
)

func TestParseCommaSeparated(t *testing.T) {
	tests := []struct {
		in   []string
		want []string
	}{
		{nil, nil},
		{[]string{""}, nil},
		{[]string{" , ,"}, nil},
		{[]string{"pending"}, []string{"pending"}},
		{[]string{"pending, resolved"}, []string{"pending", "resolved"}},
		{[]string{"pending", "in_progress,resolved"}, []string{"pending", "in_progress", "resolved"}},
	}

	for _, tt := range tests {
		got := ParseCommaSeparated(tt.in)
		if !reflect.DeepEqual(got, tt.want) {
			t.Fatalf("ParseCommaSeparated(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSanitizePart(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  Ana  ", "ana"},
		{"Ana Maria", "ana_maria"},
		{"A-B_C", "a-b_c"},
		{"Hello!@#$%^&*()World", "helloworld"},
		{"", "unknown"},
		{"   ", "unknown"},
	}

	for _, tt := range tests {
		if got := SanitizePart(tt.in); got != tt.want {
			t.Fatalf("SanitizePart(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExtFromFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"foto.JPG", ".jpg"},
		{"retrato.final.png", ".png"},
		{"C:\\fotos\\ana.jpeg", ".jpeg"},
		{"semextensao", ""},
		{"trailing.", ""},
		{"weird.p$g", ""},
	}

	for _, tt := range tests {
		if got := ExtFromFilename(tt.in); got != tt.want {
			t.Fatalf("ExtFromFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExtFromFilenameOrMime_FallsBackToMime(t *testing.T) {
	if got := ExtFromFilenameOrMime("blob", "image/png"); got != ".png" {
		t.Fatalf("got %q want .png", got)
	}
	if got := ExtFromFilenameOrMime("blob", "application/octet-stream"); got != "" {
		t.Fatalf("got %q want empty", got)
	}
}

func TestClampText(t *testing.T) {
	if got := ClampText("  ábcdef  ", 3); got != "ábc" {
		t.Fatalf("got %q want ábc", got)
	}
	if got := ClampText("ok", 10); got != "ok" {
		t.Fatalf("got %q want ok", got)
	}
}
