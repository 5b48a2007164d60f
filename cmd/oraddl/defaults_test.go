package main

import (
	"strings"
	"testing"
)

func TestMaskDatabaseURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"password", "oracle://app:secret@db:1521/ORCL", "oracle://app:xxxxx@db:1521/ORCL"},
		{"no password", "oracle://app@db:1521/ORCL", "oracle://app@db:1521/ORCL"},
		{"not a url", "db:1521/ORCL", "db:1521/ORCL"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MaskDatabaseURL(tt.in); got != tt.want {
				t.Errorf("MaskDatabaseURL(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}

	long := "oracle://app:secret@" + strings.Repeat("h", 80) + ":1521/ORCL"
	got := MaskDatabaseURL(long)
	if strings.Contains(got, "secret") {
		t.Errorf("password leaked: %q", got)
	}
	if len(got) != DBURLMaskLength+3 || !strings.HasSuffix(got, "...") {
		t.Errorf("MaskDatabaseURL(long) = %q, want truncated", got)
	}
}
