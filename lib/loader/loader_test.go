// Copyright 2026 The Omnipack Authors
// SPDX-License-Identifier: Apache-2.0

package loader

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/omnipack/omnipack/lib/build"
	"github.com/omnipack/omnipack/lib/composite"
	"github.com/omnipack/omnipack/lib/extract"
	"github.com/omnipack/omnipack/lib/manifest"
	"github.com/omnipack/omnipack/lib/modmeta"
	"github.com/omnipack/omnipack/lib/testutil"
)

// buildComposite builds a two-variant composite for modID into
// modsDir. Variant "1.20.1" also embeds a nested library that is its
// own mod.
func buildComposite(t *testing.T, modsDir, modID string) string {
	t.Helper()
	inputs := t.TempDir()
	library := string(testutil.ArchiveBytes(t,
		testutil.Entry{Name: "fabric.mod.json", Content: `{"id": "` + modID + `-lib", "version": "2.0.0"}`},
		testutil.Entry{Name: "lib/Lib.class", Content: "library"},
	))
	testutil.WriteArchive(t, filepath.Join(inputs, "a.jar"),
		testutil.Entry{Name: "fabric.mod.json", Content: `{"id": "` + modID + `", "version": "1.0.0",
			"depends": {"minecraft": "1.20.1"}, "jars": [{"file": "META-INF/jars/lib.jar"}]}`},
		testutil.Entry{Name: "META-INF/jars/lib.jar", Content: library},
		testutil.Entry{Name: "shared.class", Content: "shared"},
	)
	testutil.WriteArchive(t, filepath.Join(inputs, "b.jar"),
		testutil.Entry{Name: "fabric.mod.json", Content: `{"id": "` + modID + `", "version": "1.0.0", "depends": {"minecraft": "1.20.2"}}`},
		testutil.Entry{Name: "shared.class", Content: "shared"},
	)

	result, err := build.Run(context.Background(), build.Options{InputsDir: inputs, OutputDir: modsDir})
	if err != nil {
		t.Fatalf("building %s: %v", modID, err)
	}
	return result.Output
}

func newLoader(t *testing.T, host Host, gameVersion string) *Loader {
	t.Helper()
	return &Loader{
		Target:    manifest.Target{Version: gameVersion, Loader: "fabric"},
		Extractor: &extract.Extractor{Root: t.TempDir()},
		Host:      host,
	}
}

func TestLoadRegistersPrimaryAndNestedUnits(t *testing.T) {
	path := buildComposite(t, t.TempDir(), "example")
	recorder := &Recorder{}

	report := newLoader(t, recorder, "1.20.1").Load([]Mod{{ID: "example-container", Path: path}})

	if failed := report.Failed(); len(failed) != 0 {
		t.Fatalf("failed outcomes: %+v", failed)
	}
	outcome := report.Outcomes[0]
	wantSelected := []string{"omnipack/example-10.jar", "omnipack/example-11.jar", "omnipack/lib.jar"}
	if !slices.Equal(outcome.Selected, wantSelected) {
		t.Errorf("selected = %v, want %v", outcome.Selected, wantSelected)
	}

	registrations := recorder.Registrations()
	if len(registrations) != 2 {
		t.Fatalf("registrations = %+v, want the mod and its library", registrations)
	}
	if registrations[0].ModID != "example" || len(registrations[0].Paths) != 2 {
		t.Errorf("primary registration = %+v, want example over both primary fragments", registrations[0])
	}
	if registrations[1].ModID != "example-lib" || len(registrations[1].Paths) != 1 {
		t.Errorf("nested registration = %+v", registrations[1])
	}

	if !slices.Equal(recorder.Classpath(), outcome.Plan.Classpath()) {
		t.Errorf("classpath = %v, want %v", recorder.Classpath(), outcome.Plan.Classpath())
	}
	for _, file := range recorder.Classpath() {
		if _, err := os.Stat(file); err != nil {
			t.Errorf("classpath entry %s: %v", file, err)
		}
	}
}

func TestLoadSelectsByGameVersion(t *testing.T) {
	path := buildComposite(t, t.TempDir(), "example")
	recorder := &Recorder{}

	report := newLoader(t, recorder, "1.20.2").Load([]Mod{{ID: "example-container", Path: path}})

	outcome := report.Outcomes[0]
	if outcome.Err() != nil {
		t.Fatalf("Load: %v", outcome.Err())
	}
	want := []string{"omnipack/example-11.jar", "omnipack/example-01.jar"}
	if !slices.Equal(outcome.Selected, want) {
		t.Errorf("selected = %v, want %v", outcome.Selected, want)
	}
	if got := recorder.Registrations(); len(got) != 1 || got[0].ModID != "example" {
		t.Errorf("registrations = %+v", got)
	}
}

func TestLoadIsolatesUnsupportedSchema(t *testing.T) {
	modsDir := t.TempDir()
	good := buildComposite(t, modsDir, "example")
	future := testutil.WriteArchive(t, filepath.Join(modsDir, "future.jar"),
		testutil.Entry{Name: composite.ManifestPath, Content: `{"schemaVersion": 1, "jars": []}`},
	)

	logger, logs := testutil.CaptureLogger()
	loader := newLoader(t, &Recorder{}, "1.20.1")
	loader.Logger = logger
	report := loader.Load([]Mod{
		{ID: "future-container", Path: future},
		{ID: "example-container", Path: good},
	})

	if len(report.Outcomes) != 2 {
		t.Fatalf("outcomes = %d, want 2", len(report.Outcomes))
	}
	if err := report.Outcomes[0].Err(); !errors.Is(err, manifest.ErrUnsupportedSchema) {
		t.Errorf("future mod error = %v, want ErrUnsupportedSchema", err)
	}
	if err := report.Outcomes[1].Err(); err != nil {
		t.Errorf("independent mod failed: %v", err)
	}
	if failed := report.Failed(); len(failed) != 1 || failed[0].Mod.ID != "future-container" {
		t.Errorf("failed = %+v", failed)
	}
	if !logs.Contains("loading mod failed") || !logs.Contains(`"mod":"future-container"`) {
		t.Errorf("failure not logged:\n%s", logs.String())
	}
}

func TestLoadDuplicateRegistrationFailsOnlyThatMod(t *testing.T) {
	first := buildComposite(t, t.TempDir(), "example")
	second := buildComposite(t, t.TempDir(), "example")

	report := newLoader(t, &Recorder{}, "1.20.2").Load([]Mod{
		{ID: "first", Path: first},
		{ID: "second", Path: second},
	})

	if err := report.Outcomes[0].Err(); err != nil {
		t.Errorf("first mod: %v", err)
	}
	if err := report.Outcomes[1].Err(); !errors.Is(err, ErrDuplicateMod) {
		t.Errorf("second mod error = %v, want ErrDuplicateMod", err)
	}
}

type panickingHost struct{ Recorder }

func (*panickingHost) AppendToClasspath(string) error {
	panic("host exploded")
}

func TestLoadRecoversFromHostPanic(t *testing.T) {
	path := buildComposite(t, t.TempDir(), "example")

	report := newLoader(t, &panickingHost{}, "1.20.1").Load([]Mod{{ID: "example-container", Path: path}})

	err := report.Outcomes[0].Err()
	if err == nil || !strings.Contains(err.Error(), "host exploded") {
		t.Errorf("error = %v, want the recovered panic", err)
	}
	if report.Outcomes[0].Error == "" {
		t.Error("outcome error text not set")
	}
}

func TestLoadRequiresHost(t *testing.T) {
	loader := &Loader{Target: manifest.Target{Version: "1.20.1", Loader: "fabric"}}
	report := loader.Load([]Mod{{ID: "x", Path: "missing.jar"}})
	if report.Outcomes[0].Err() == nil {
		t.Error("Load without a host succeeded")
	}
}

type countingParser struct {
	calls int
}

func (p *countingParser) Parse(reader io.Reader) (*modmeta.Descriptor, error) {
	p.calls++
	return modmeta.Parse(reader)
}

func TestLoadUsesConfiguredParser(t *testing.T) {
	path := buildComposite(t, t.TempDir(), "example")
	parser := &countingParser{}
	loader := newLoader(t, &Recorder{}, "1.20.1")
	loader.Parser = parser

	report := loader.Load([]Mod{{ID: "example-container", Path: path}})
	if err := report.Outcomes[0].Err(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	// One descriptor for the primary unit, one for the nested library.
	if parser.calls != 2 {
		t.Errorf("parser calls = %d, want 2", parser.calls)
	}
}

func TestRecorderRejectsDuplicates(t *testing.T) {
	recorder := &Recorder{}
	if _, err := recorder.Register([]string{"a.jar"}, &modmeta.Descriptor{ID: "a"}); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	if _, err := recorder.Register([]string{"b.jar"}, &modmeta.Descriptor{ID: "a"}); !errors.Is(err, ErrDuplicateMod) {
		t.Errorf("error = %v, want ErrDuplicateMod", err)
	}
}

func TestDiscover(t *testing.T) {
	modsDir := t.TempDir()
	buildComposite(t, modsDir, "example")
	testutil.WriteArchive(t, filepath.Join(modsDir, "plain.jar"), testutil.Entry{Name: "fabric.mod.json", Content: `{"id":"plain"}`})
	testutil.WriteArchive(t, filepath.Join(modsDir, "anonymous.jar"),
		testutil.Entry{Name: composite.ManifestPath, Content: `{"schemaVersion": 0, "jars": []}`},
	)
	if err := os.WriteFile(filepath.Join(modsDir, "broken.jar"), []byte("not a zip"), 0o644); err != nil {
		t.Fatalf("writing broken archive: %v", err)
	}
	if err := os.WriteFile(filepath.Join(modsDir, "readme.txt"), []byte("ignored"), 0o644); err != nil {
		t.Fatalf("writing readme: %v", err)
	}

	logger, logs := testutil.CaptureLogger()
	mods, err := Discover(modsDir, "", logger)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}

	want := []Mod{
		{ID: "anonymous", Path: filepath.Join(modsDir, "anonymous.jar")},
		{ID: "example-container", Path: filepath.Join(modsDir, "example.jar")},
	}
	if !slices.Equal(mods, want) {
		t.Errorf("mods = %+v, want %+v", mods, want)
	}
	if !logs.Contains("skipping unreadable archive") {
		t.Error("broken archive not logged")
	}
}
