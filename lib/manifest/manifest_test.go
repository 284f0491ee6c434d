// Copyright 2026 The Omnipack Authors
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func sampleManifest() *Manifest {
	m := New()
	m.Add(Fragment{Path: "omnipack/example-11.jar", Versions: []string{"1.20.1", "1.20.2"}, Loaders: []string{"fabric"}, IsPrimary: true})
	m.Add(Fragment{Path: "omnipack/example-10.jar", Versions: []string{"1.20.1"}, Loaders: []string{"fabric"}, IsPrimary: true})
	m.Add(Fragment{Path: "omnipack/lib.jar", Versions: []string{"1.20.2"}, Loaders: []string{"fabric"}})
	return m
}

func TestEncodeDecodePreservesOrderAndFields(t *testing.T) {
	original := sampleManifest()
	var buffer bytes.Buffer
	if err := Encode(&buffer, original); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	decoded, err := Decode(&buffer)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if decoded.SchemaVersion != SupportedSchemaVersion {
		t.Errorf("schema version = %d, want %d", decoded.SchemaVersion, SupportedSchemaVersion)
	}
	if len(decoded.Fragments) != len(original.Fragments) {
		t.Fatalf("decoded %d fragments, want %d", len(decoded.Fragments), len(original.Fragments))
	}
	for i := range original.Fragments {
		want, got := original.Fragments[i], decoded.Fragments[i]
		if got.Path != want.Path || got.IsPrimary != want.IsPrimary ||
			strings.Join(got.Versions, ",") != strings.Join(want.Versions, ",") ||
			strings.Join(got.Loaders, ",") != strings.Join(want.Loaders, ",") {
			t.Errorf("fragment %d = %+v, want %+v", i, got, want)
		}
	}
}

func TestMarshalFieldNames(t *testing.T) {
	data, err := Marshal(&Manifest{Fragments: []Fragment{{Path: "a.jar"}}})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	for _, want := range []string{`"schemaVersion": 0`, `"jars": [`, `"path": "a.jar"`, `"versions": []`, `"loaders": []`, `"isPrimary": false`} {
		if !bytes.Contains(data, []byte(want)) {
			t.Errorf("marshaled manifest missing %s:\n%s", want, data)
		}
	}
	if !bytes.HasSuffix(data, []byte("\n")) {
		t.Error("marshaled manifest should end with a newline")
	}
}

func TestMarshalDeterministic(t *testing.T) {
	first, err := Marshal(sampleManifest())
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	second, err := Marshal(sampleManifest())
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Error("marshaling the same manifest twice produced different bytes")
	}
}

func TestUnmarshal(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantErr     error
		wantErrText string
		fragments   int
	}{
		{
			name:      "current schema",
			input:     `{"schemaVersion":0,"jars":[{"path":"a.jar","versions":["1"],"loaders":["fabric"],"isPrimary":true}]}`,
			fragments: 1,
		},
		{
			name:      "empty fragment list",
			input:     `{"schemaVersion":0,"jars":[]}`,
			fragments: 0,
		},
		{
			name:      "jars absent",
			input:     `{"schemaVersion":0}`,
			fragments: 0,
		},
		{
			name:    "newer schema",
			input:   `{"schemaVersion":1,"jars":[]}`,
			wantErr: ErrUnsupportedSchema,
		},
		{
			name:    "newer schema with a different shape",
			input:   `{"schemaVersion":7,"jars":{"layers":"changed"}}`,
			wantErr: ErrUnsupportedSchema,
		},
		{
			name:        "missing schema version",
			input:       `{"jars":[]}`,
			wantErrText: "schemaVersion is required",
		},
		{
			name:        "not json",
			input:       `schemaVersion: 0`,
			wantErrText: "parsing manifest",
		},
		{
			name:        "duplicate path",
			input:       `{"schemaVersion":0,"jars":[{"path":"a.jar","versions":["1"],"loaders":["fabric"]},{"path":"a.jar","versions":["2"],"loaders":["fabric"]}]}`,
			wantErrText: "duplicate path",
		},
		{
			name:        "fragment without loaders",
			input:       `{"schemaVersion":0,"jars":[{"path":"a.jar","versions":["1"]}]}`,
			wantErrText: "loader is required",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			m, err := Unmarshal([]byte(test.input))
			switch {
			case test.wantErr != nil:
				if !errors.Is(err, test.wantErr) {
					t.Fatalf("error = %v, want %v", err, test.wantErr)
				}
			case test.wantErrText != "":
				if err == nil || !strings.Contains(err.Error(), test.wantErrText) {
					t.Fatalf("error = %v, want containing %q", err, test.wantErrText)
				}
			default:
				if err != nil {
					t.Fatalf("Unmarshal: %v", err)
				}
				if len(m.Fragments) != test.fragments {
					t.Errorf("fragments = %d, want %d", len(m.Fragments), test.fragments)
				}
			}
		})
	}
}

func TestUnsupportedSchemaIsNotAParseError(t *testing.T) {
	_, err := Unmarshal([]byte(`{"schemaVersion":1,"jars":[]}`))
	if err == nil {
		t.Fatal("expected an error")
	}
	if strings.Contains(err.Error(), "parsing manifest") {
		t.Errorf("schema rejection reported as a parse error: %v", err)
	}
}

func TestLookupAndPrimary(t *testing.T) {
	m := sampleManifest()
	if fragment, ok := m.Lookup("omnipack/lib.jar"); !ok || fragment.IsPrimary {
		t.Errorf("Lookup(lib.jar) = %+v, %v", fragment, ok)
	}
	if _, ok := m.Lookup("missing.jar"); ok {
		t.Error("Lookup of a missing path succeeded")
	}
	primary := m.Primary()
	if len(primary) != 2 || primary[0].Path != "omnipack/example-11.jar" || primary[1].Path != "omnipack/example-10.jar" {
		t.Errorf("Primary() = %+v", primary)
	}
}
