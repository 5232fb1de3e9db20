package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestEmbeddedMatchesDefault(t *testing.T) {
	sc, err := ParseScenario(DefaultScenarioYAML())
	if err != nil {
		t.Fatalf("embedded scenario does not parse: %v", err)
	}
	if !reflect.DeepEqual(sc, DefaultScenario()) {
		t.Errorf("embedded scenario = %+v\nexpected %+v", sc, DefaultScenario())
	}
}

func TestParseScenarioErrors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantMsg string
	}{
		{"zero dt", "name: x\ndt: 0\nrobots: []\n", "dt must be positive"},
		{"negative steps", "name: x\ndt: 0.1\nsteps: -1\n", "steps must not be negative"},
		{"missing kind", "name: x\ndt: 0.1\nrobots:\n  - params: {x: 1}\n", "robots[0]: kind is required"},
		{"unknown key", "name: x\ndt: 0.1\nspeed: 3\n", "field speed not found"},
		{"not yaml", "dt: [", "config:"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tc.yaml))
			if err == nil || !strings.Contains(err.Error(), tc.wantMsg) {
				t.Errorf("ParseScenario() error = %v, expected it to contain %q", err, tc.wantMsg)
			}
		})
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	sc := Scenario{Name: "bad", DT: -1, Steps: -2}
	err := sc.Validate()
	if err == nil {
		t.Fatal("Validate() should fail")
	}
	for _, want := range []string{"dt must be positive", "steps must not be negative"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Validate() error %q should mention %q", err, want)
		}
	}
}

func TestOutputPath(t *testing.T) {
	if p := (Scenario{}).OutputPath(); p != DefaultOutput {
		t.Errorf("OutputPath() = %q, expected %q", p, DefaultOutput)
	}
	if p := (Scenario{Output: "x.json"}).OutputPath(); p != "x.json" {
		t.Errorf("OutputPath() = %q, expected x.json", p)
	}
}

func TestViewHasWindow(t *testing.T) {
	if (ViewConfig{}).HasWindow() {
		t.Error("zero view should have no window")
	}
	if !(ViewConfig{MinX: -1, MaxX: 1, MinY: 0, MaxY: 2}).HasWindow() {
		t.Error("view with extent should have a window")
	}
}

func TestLoadScenarioCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	doc := "name: custom\ndt: 0.5\nsteps: 4\nrobots:\n  - kind: point\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	sc, raw, src, err := LoadScenario(path)
	if err != nil {
		t.Fatalf("LoadScenario() failed: %v", err)
	}
	if src != SourceCustom || sc.Name != "custom" || sc.DT != 0.5 || len(sc.Robots) != 1 {
		t.Errorf("LoadScenario() = %+v from %s", sc, src)
	}
	if string(raw) != doc {
		t.Errorf("raw = %q, expected the file contents", raw)
	}

	if _, _, _, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadScenario() with a missing custom path should fail")
	}
}

func TestLoadScenarioSearchOrder(t *testing.T) {
	home := t.TempDir()
	work := t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(work)

	// Nothing on disk: embedded default
	sc, _, src, err := LoadScenario("")
	if err != nil {
		t.Fatalf("LoadScenario() failed: %v", err)
	}
	if src != SourceEmbedded || sc.Name != "demo" {
		t.Errorf("expected embedded demo, got %q from %s", sc.Name, src)
	}

	// Local file wins over embedded
	writeFile(t, filepath.Join(work, LocalScenarioPath), "name: local\ndt: 0.1\n")
	sc, _, src, _ = LoadScenario("")
	if src != SourceLocal || sc.Name != "local" {
		t.Errorf("expected local, got %q from %s", sc.Name, src)
	}

	// Invalid user file is skipped
	userPath := filepath.Join(home, ".robotsim", "scenarios", "default.yaml")
	writeFile(t, userPath, "dt: -1\n")
	sc, _, src, _ = LoadScenario("")
	if src != SourceLocal {
		t.Errorf("invalid user scenario should be skipped, got %q from %s", sc.Name, src)
	}

	// Valid user file wins over local
	writeFile(t, userPath, "name: user\ndt: 0.2\n")
	sc, _, src, _ = LoadScenario("")
	if src != SourceUser || sc.Name != "user" {
		t.Errorf("expected user, got %q from %s", sc.Name, src)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestMarshalScenarioRoundTrip(t *testing.T) {
	data, err := MarshalScenario(DefaultScenario())
	if err != nil {
		t.Fatalf("MarshalScenario() failed: %v", err)
	}
	sc, err := ParseScenario(data)
	if err != nil {
		t.Fatalf("ParseScenario() failed: %v", err)
	}
	if !reflect.DeepEqual(sc, DefaultScenario()) {
		t.Errorf("round trip = %+v", sc)
	}
}

func TestLoadSettings(t *testing.T) {
	t.Setenv("ROBOTSIM_DB", "")
	os.Unsetenv("ROBOTSIM_DB")
	t.Setenv("ROBOTSIM_LOG_LEVEL", "debug")
	t.Setenv("ROBOTSIM_SCENARIO", "/tmp/s.yaml")

	s, err := LoadSettings()
	if err != nil {
		t.Fatalf("LoadSettings() failed: %v", err)
	}
	if s.DBPath != "~/.robotsim/runs.db" {
		t.Errorf("DBPath = %q, expected default", s.DBPath)
	}
	if s.LogLevel != "debug" || s.Scenario != "/tmp/s.yaml" {
		t.Errorf("LoadSettings() = %+v", s)
	}
}
