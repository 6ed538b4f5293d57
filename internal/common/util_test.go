package common

import "testing"

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"Bearer   ", "", false},
		{"Basic abc", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := BearerToken(tt.header)
		if got != tt.want || ok != tt.ok {
			t.Fatalf("BearerToken(%q) = %q,%v want %q,%v", tt.header, got, ok, tt.want, tt.ok)
		}
	}
}

func TestLocalPart(t *testing.T) {
	if got := LocalPart("jane.doe@example.com"); got != "jane.doe" {
		t.Fatalf("got %q", got)
	}
	if got := LocalPart("nobody"); got != "nobody" {
		t.Fatalf("got %q", got)
	}
}
