package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/starford/pacofilter/internal/testutil"
)

func TestCommand_FiltersToFile(t *testing.T) {
	in := testutil.WriteFile(t, "full.json", testutil.SwitchConfig)
	out := filepath.Join(t.TempDir(), "base.json")

	args := []string{"pacofilter", "-i", in, "-o", out, "-p", "provisioning"}
	if err := newCommand().Run(context.Background(), args); err != nil {
		t.Fatalf("Run: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "ethernet-1/2") {
		t.Errorf("provisioning profile should drop ethernet interfaces:\n%s", data)
	}
}

func TestCommand_ConfigFileOverridesProfile(t *testing.T) {
	in := testutil.WriteFile(t, "full.json", testutil.SwitchConfig)
	out := filepath.Join(t.TempDir(), "base.json")
	cfgPath := testutil.WriteFile(t, "config.yaml", "app:\n  log_level: error\nfilter:\n  keep_network_instances:\n    - customer\n")

	args := []string{"pacofilter", "--input", in, "--output", out, "--config", cfgPath}
	if err := newCommand().Run(context.Background(), args); err != nil {
		t.Fatalf("Run: %v", err)
	}

	doc := testutil.Decode(t, readFile(t, out))
	got := testutil.Section(t, doc, "network-instance")
	if !strings.Contains(got, "customer-a") || strings.Contains(got, "default") {
		t.Errorf("network-instance = %s, want only customer-a", got)
	}
}

func TestCommand_UnknownProfile(t *testing.T) {
	in := testutil.WriteFile(t, "full.json", testutil.SwitchConfig)
	args := []string{"pacofilter", "-i", in, "-p", "edge"}
	if err := newCommand().Run(context.Background(), args); err == nil {
		t.Error("unknown profile should fail")
	}
}

func TestCommand_MissingInput(t *testing.T) {
	args := []string{"pacofilter", "-i", filepath.Join(t.TempDir(), "missing.json")}
	if err := newCommand().Run(context.Background(), args); err == nil {
		t.Error("missing input file should fail")
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}
