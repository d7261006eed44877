package attachment

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "test.png")
	payload := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		t.Fatal(err)
	}

	att, err := FromFile(path)
	if err != nil {
		t.Fatalf("FromFile failed: %v", err)
	}
	if att.MIMEType != "image/png" {
		t.Errorf("MIMEType = %s, want image/png", att.MIMEType)
	}
	if !bytes.Equal(att.Data, payload) {
		t.Error("payload not preserved")
	}
}

func TestFromFile_UnsupportedType(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "notes.txt")
	if err := os.WriteFile(path, []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := FromFile(path); err == nil {
		t.Error("expected error for unsupported type")
	}
}

func TestFromFile_NotFound(t *testing.T) {
	if _, err := FromFile(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestDataURL_RoundTrip(t *testing.T) {
	original := &Attachment{
		MIMEType: "image/jpeg",
		Data:     []byte{0xff, 0xd8, 0xff, 0xe0, 0x00, 0x10},
	}

	encoded := original.DataURL()
	if !strings.HasPrefix(encoded, "data:image/jpeg;base64,") {
		t.Errorf("unexpected encoding prefix: %s", encoded)
	}

	decoded, err := ParseDataURL(encoded)
	if err != nil {
		t.Fatalf("ParseDataURL failed: %v", err)
	}
	if decoded.MIMEType != original.MIMEType {
		t.Errorf("MIMEType = %s, want %s", decoded.MIMEType, original.MIMEType)
	}
	if !bytes.Equal(decoded.Data, original.Data) {
		t.Error("payload not recovered")
	}
}

func TestParseDataURL_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not a data URL", "https://example.com/image.png"},
		{"missing payload", "data:image/png;base64"},
		{"missing media type", "data:;base64,aGk="},
		{"bad base64", "data:image/png;base64,!!!not-base64!!!"},
		{"no base64 marker", "data:text/plain,hello"},
		{"wrong encoding marker", "data:image/png;charset=utf-8,aGk="},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseDataURL(tt.input); err == nil {
				t.Errorf("ParseDataURL(%q) succeeded, want error", tt.input)
			}
		})
	}
}
