// SPDX-License-Identifier: MIT
package validate

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidator_ListenAddr(t *testing.T) {
	tests := []struct {
		name    string
		addr    string
		wantErr bool
	}{
		{"port only", ":8080", false},
		{"host and port", "127.0.0.1:9000", false},
		{"ipv6", "[::1]:8080", false},
		{"ephemeral", ":0", false},
		{"empty", "", true},
		{"missing port", "localhost", true},
		{"bad port", ":http-alt", true},
		{"port too large", ":70000", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New()
			v.ListenAddr("listen", tt.addr)

			if tt.wantErr && v.IsValid() {
				t.Errorf("expected error, got none")
			}
			if !tt.wantErr && !v.IsValid() {
				t.Errorf("unexpected error: %v", v.Err())
			}
		})
	}
}

func TestValidator_Range(t *testing.T) {
	tests := []struct {
		name    string
		value   int
		min     int
		max     int
		wantErr bool
	}{
		{"within range", 5, 1, 10, false},
		{"at min", 1, 1, 10, false},
		{"at max", 10, 1, 10, false},
		{"below min", 0, 1, 10, true},
		{"above max", 11, 1, 10, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New()
			v.Range("testRange", tt.value, tt.min, tt.max)

			if tt.wantErr && v.IsValid() {
				t.Errorf("expected error, got none")
			}
			if !tt.wantErr && !v.IsValid() {
				t.Errorf("unexpected error: %v", v.Err())
			}
		})
	}
}

func TestValidator_FloatRange(t *testing.T) {
	v := New()
	v.FloatRange("rate", 0, 0, 1)
	v.FloatRange("rate", 1, 0, 1)
	v.FloatRange("rate", 0.25, 0, 1)
	if !v.IsValid() {
		t.Fatalf("unexpected error: %v", v.Err())
	}

	v.FloatRange("rate", 1.5, 0, 1)
	v.FloatRange("rate", -0.1, 0, 1)
	if got := len(v.Errors()); got != 2 {
		t.Fatalf("expected 2 errors, got %d", got)
	}
}

func TestValidator_NotEmpty(t *testing.T) {
	v := New()
	v.NotEmpty("name", "value")
	if !v.IsValid() {
		t.Fatalf("unexpected error: %v", v.Err())
	}
	v.NotEmpty("name", "   ")
	if v.IsValid() {
		t.Fatal("expected whitespace-only value to fail")
	}
}

func TestValidator_OneOf(t *testing.T) {
	allowed := []string{"grpc", "http"}

	v := New()
	v.OneOf("exporter", "grpc", allowed)
	if !v.IsValid() {
		t.Fatalf("unexpected error: %v", v.Err())
	}

	v.OneOf("exporter", "zipkin", allowed)
	if v.IsValid() {
		t.Fatal("expected error for value outside allowed set")
	}
	if !strings.Contains(v.Err().Error(), `"zipkin"`) {
		t.Errorf("error should quote the rejected value: %v", v.Err())
	}
}

func TestValidator_Positive(t *testing.T) {
	v := New()
	v.Positive("requests", 1)
	if !v.IsValid() {
		t.Fatalf("unexpected error: %v", v.Err())
	}
	v.Positive("requests", 0)
	v.Positive("requests", -3)
	if got := len(v.Errors()); got != 2 {
		t.Fatalf("expected 2 errors, got %d", got)
	}
}

func TestValidator_DataFile(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "data.json")
	if err := os.WriteFile(existing, []byte("[]"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"existing file", existing, false},
		{"missing file", filepath.Join(dir, "new.json"), false},
		{"empty path", "", true},
		{"directory", dir, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New()
			v.DataFile("dataFile", tt.path)

			if tt.wantErr && v.IsValid() {
				t.Errorf("expected error, got none")
			}
			if !tt.wantErr && !v.IsValid() {
				t.Errorf("unexpected error: %v", v.Err())
			}
		})
	}
}

func TestValidator_Directory(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f")
	if err := os.WriteFile(file, nil, 0o600); err != nil {
		t.Fatal(err)
	}

	v := New()
	v.Directory("templatesDir", "")
	v.Directory("templatesDir", dir)
	if !v.IsValid() {
		t.Fatalf("unexpected error: %v", v.Err())
	}

	v.Directory("templatesDir", filepath.Join(dir, "missing"))
	v.Directory("templatesDir", file)
	if got := len(v.Errors()); got != 2 {
		t.Fatalf("expected 2 errors, got %d", got)
	}
}

func TestValidationError_Aggregates(t *testing.T) {
	v := New()
	if v.Err() != nil {
		t.Fatal("expected nil error for valid validator")
	}

	v.AddError("a", "first", 1)
	v.AddError("b", "second", 2)

	err := v.Err()
	var verr ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if len(verr.Errors()) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(verr.Errors()))
	}
	want := "validation failed for a: first; validation failed for b: second"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestParseLogLevel(t *testing.T) {
	for _, s := range []string{"debug", "info", "warn", "error"} {
		if _, err := ParseLogLevel(s); err != nil {
			t.Errorf("ParseLogLevel(%q) unexpected error: %v", s, err)
		}
	}
	if _, err := ParseLogLevel("verbose"); err == nil {
		t.Error("expected error for unknown level")
	}
}
