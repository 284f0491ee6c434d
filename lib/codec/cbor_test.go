// Copyright 2026 The Omnipack Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// sampleRecord uses cbor struct tags, the convention for state that is
// never printed as JSON.
type sampleRecord struct {
	Path  string `cbor:"path"`
	Size  uint64 `cbor:"size"`
	Note  string `cbor:"note,omitempty"`
	Bytes []byte `cbor:"bytes,omitempty"`
}

// sampleDualRecord uses json struct tags, relying on fxamacker's
// fallback.
type sampleDualRecord struct {
	Version int    `json:"version"`
	Name    string `json:"name"`
}

func TestMarshalUnmarshalRoundtrip(t *testing.T) {
	original := sampleRecord{Path: "omnipack/example-101.jar", Size: 4096}

	data, err := Marshal(original)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("Marshal produced empty output")
	}

	var decoded sampleRecord
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded.Path != original.Path || decoded.Size != original.Size {
		t.Errorf("roundtrip mismatch: got %+v, want %+v", decoded, original)
	}
}

func TestMarshalDeterministic(t *testing.T) {
	value := map[string]any{"zeta": 1, "alpha": 2, "mid": []string{"a", "b"}}

	first, err := Marshal(value)
	if err != nil {
		t.Fatalf("first Marshal: %v", err)
	}
	second, err := Marshal(value)
	if err != nil {
		t.Fatalf("second Marshal: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Errorf("deterministic encoding violated: %x != %x", first, second)
	}
}

func TestJSONTagFallback(t *testing.T) {
	original := sampleDualRecord{Version: 3, Name: "state"}

	data, err := Marshal(original)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var decoded sampleDualRecord
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded != original {
		t.Errorf("json-tag roundtrip mismatch: got %+v, want %+v", decoded, original)
	}
}

func TestUnmarshalIntoAnyUsesStringKeys(t *testing.T) {
	data, err := Marshal(map[string]any{"path": "a.jar"})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var decoded any
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if _, ok := decoded.(map[string]any); !ok {
		t.Errorf("decoded %T, want map[string]any", decoded)
	}
}

func TestUnmarshalInvalidCBOR(t *testing.T) {
	var record sampleRecord
	if err := Unmarshal([]byte{0xFF, 0xFE, 0xFD}, &record); err == nil {
		t.Error("Unmarshal should reject invalid CBOR")
	}
}

func TestWriteFileReadFile(t *testing.T) {
	directory := t.TempDir()
	path := filepath.Join(directory, "state.cbor")

	original := sampleRecord{Path: "a.jar", Size: 12, Bytes: []byte{0, 1, 2}}
	if err := WriteFile(path, original, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	replacement := sampleRecord{Path: "b.jar", Size: 34}
	if err := WriteFile(path, replacement, 0o644); err != nil {
		t.Fatalf("WriteFile (replace): %v", err)
	}

	var decoded sampleRecord
	if err := ReadFile(path, &decoded); err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if decoded.Path != "b.jar" || decoded.Size != 34 || decoded.Bytes != nil {
		t.Errorf("ReadFile = %+v, want the replacement", decoded)
	}

	entries, err := os.ReadDir(directory)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		var names []string
		for _, entry := range entries {
			names = append(names, entry.Name())
		}
		t.Errorf("directory holds %v, want only state.cbor", names)
	}
}

func TestReadFileMissing(t *testing.T) {
	var decoded sampleRecord
	err := ReadFile(filepath.Join(t.TempDir(), "absent.cbor"), &decoded)
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error = %v, want os.ErrNotExist", err)
	}
}

func TestWriteFileMissingDirectory(t *testing.T) {
	err := WriteFile(filepath.Join(t.TempDir(), "absent", "state.cbor"), sampleRecord{}, 0o644)
	if err == nil {
		t.Error("WriteFile into a missing directory should fail")
	}
}

func BenchmarkMarshal(b *testing.B) {
	record := sampleRecord{Path: "omnipack/example-101.jar", Size: 4096}

	b.ReportAllocs()
	for b.Loop() {
		Marshal(record)
	}
}
