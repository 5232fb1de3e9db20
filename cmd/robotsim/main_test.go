package main

import (
	"testing"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/robotsim/internal/config"
)

func TestApplyStepFlags(t *testing.T) {
	cmd := &cobra.Command{}
	addStepFlags(cmd)
	if err := cmd.Flags().Set("dt", "0.5"); err != nil {
		t.Fatal(err)
	}
	if err := cmd.Flags().Set("output", "out.json"); err != nil {
		t.Fatal(err)
	}

	sc := config.DefaultScenario()
	if err := applyStepFlags(cmd, &sc); err != nil {
		t.Fatalf("applyStepFlags() failed: %v", err)
	}
	if sc.DT != 0.5 {
		t.Errorf("DT = %v, expected 0.5", sc.DT)
	}
	if sc.Steps != config.DefaultScenario().Steps {
		t.Errorf("Steps = %d, expected the scenario value when --steps is unset", sc.Steps)
	}
	if sc.OutputPath() != "out.json" {
		t.Errorf("OutputPath() = %q, expected out.json", sc.OutputPath())
	}
}

func TestApplyStepFlagsRejectsInvalidDT(t *testing.T) {
	cmd := &cobra.Command{}
	addStepFlags(cmd)
	if err := cmd.Flags().Set("dt", "-1"); err != nil {
		t.Fatal(err)
	}

	sc := config.DefaultScenario()
	if err := applyStepFlags(cmd, &sc); err == nil {
		t.Error("expected an error for a negative dt")
	}
}

func TestShortID(t *testing.T) {
	tests := []struct {
		id, expected string
	}{
		{"3f2a9c1e-0000-4000-8000-000000000000", "3f2a9c1e"},
		{"abc", "abc"},
		{"", ""},
	}
	for _, tc := range tests {
		if got := shortID(tc.id); got != tc.expected {
			t.Errorf("shortID(%q) = %q, expected %q", tc.id, got, tc.expected)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("demo", 16); got != "demo" {
		t.Errorf("truncate() = %q, expected demo", got)
	}
	if got := truncate("a-very-long-scenario-name", 8); got != "a-very-…" {
		t.Errorf("truncate() = %q, expected a-very-…", got)
	}
}
