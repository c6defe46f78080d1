package logtail

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestRead(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "gamelog.txt")

	var content strings.Builder
	var expectedAll []string
	for i := 1; i <= 10; i++ {
		line := fmt.Sprintf("Line %d", i)
		content.WriteString(line + "\r\n")
		expectedAll = append(expectedAll, line)
	}

	if err := os.WriteFile(logPath, []byte(content.String()), 0644); err != nil {
		t.Fatalf("failed to create test log file: %v", err)
	}

	tests := []struct {
		name     string
		maxLines int
		expected []string
	}{
		{name: "none (0)", maxLines: 0, expected: nil},
		{name: "none (negative)", maxLines: -1, expected: nil},
		{name: "read partial (5)", maxLines: 5, expected: expectedAll[5:]},
		{name: "read exactly all (10)", maxLines: 10, expected: expectedAll},
		{name: "read more than exists (20)", maxLines: 20, expected: expectedAll},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(logPath, tt.maxLines, nil)
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Read() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRead_MissingFile(t *testing.T) {
	got, err := Read(filepath.Join(t.TempDir(), "missing.txt"), 10, nil)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if got != nil {
		t.Fatalf("Read() = %v, want nil", got)
	}
}

func TestDecoder(t *testing.T) {
	dec, err := NewDecoder("cp437")
	if err != nil {
		t.Fatalf("NewDecoder: %v", err)
	}
	// 0x82 is é and 0x9C is £ in code page 437.
	if got := dec.Line([]byte{'c', 'a', 'f', 0x82, ' ', 0x9C, '\r'}); got != "café £" {
		t.Fatalf("Line() = %q", got)
	}

	utf, err := NewDecoder("")
	if err != nil || utf != nil {
		t.Fatalf("NewDecoder(\"\") = %v, %v; want nil, nil", utf, err)
	}
	if got := utf.Line([]byte("plain\r")); got != "plain" {
		t.Fatalf("nil decoder Line() = %q", got)
	}
	if utf.Name() != "utf-8" {
		t.Fatalf("Name() = %q", utf.Name())
	}

	if _, err := NewDecoder("ebcdic"); err == nil {
		t.Fatal("NewDecoder(ebcdic) returned nil error")
	}
}
