package internal

import (
	"strings"
	"testing"

	"github.com/starford/pacofilter/internal/filter"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should pass: %v", err)
	}
	if cfg.Filter.Consolidation != string(filter.ByName) {
		t.Errorf("consolidation = %q, want %q", cfg.Filter.Consolidation, filter.ByName)
	}
}

func TestProfiles_Valid(t *testing.T) {
	for _, name := range ProfileNames() {
		fc, err := Profile(name)
		if err != nil {
			t.Fatalf("Profile(%q): %v", name, err)
		}
		if err := fc.Validate(); err != nil {
			t.Errorf("profile %q invalid: %v", name, err)
		}
	}
}

func TestProfile_Unknown(t *testing.T) {
	_, err := Profile("edge")
	if err == nil {
		t.Fatal("unknown profile should fail")
	}
	if !strings.Contains(err.Error(), ProfileProvisioning) {
		t.Errorf("error should list available profiles: %v", err)
	}
}

func TestProfile_ReturnsCopy(t *testing.T) {
	fc, _ := Profile(ProfileProvisioning)
	fc.KeepNetworkInstances[0] = "mutated"

	again, _ := Profile(ProfileProvisioning)
	if again.KeepNetworkInstances[0] != "provisioning" {
		t.Errorf("profile was mutated through a returned copy: %v", again.KeepNetworkInstances)
	}
}

func TestFilterConfig_EmptyKeepList(t *testing.T) {
	fc := FilterConfig{Consolidation: string(filter.PerReference)}
	if err := fc.Validate(); err == nil {
		t.Fatal("empty keep_network_instances should fail")
	}
}

func TestFilterConfig_EmptyItem(t *testing.T) {
	fc := FilterConfig{
		KeepNetworkInstances: []string{"default", ""},
		Consolidation:        string(filter.PerReference),
	}
	if err := fc.Validate(); err == nil {
		t.Fatal("empty substring would match every instance and should fail")
	}
}

func TestFilterConfig_InvalidConsolidation(t *testing.T) {
	fc := FilterConfig{
		KeepNetworkInstances: []string{"default"},
		Consolidation:        "merge",
	}
	if err := fc.Validate(); err == nil {
		t.Fatal("invalid consolidation should fail")
	}
}

func TestFilterConfig_Policy(t *testing.T) {
	fc, _ := Profile(ProfileProvisioning)
	p := fc.Policy()
	if p.Consolidation != filter.PerReference {
		t.Errorf("consolidation = %q", p.Consolidation)
	}
	if p.UsageFilter == nil || !p.UsageFilter("irb0") || p.UsageFilter("ethernet-1/1") {
		t.Error("usage filter should select irb interfaces only")
	}
	if p.KeepWhole != nil {
		t.Error("provisioning profile should not keep whole interfaces")
	}

	fc, _ = Profile(ProfileInfrastructure)
	p = fc.Policy()
	if p.UsageFilter != nil {
		t.Error("infrastructure profile should accept every reference")
	}
	if p.KeepWhole == nil || !p.KeepWhole("ethernet-1/49") {
		t.Error("infrastructure profile should keep ethernet interfaces whole")
	}
}

func TestFullConfig_FilterValidationCalled(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Filter.Consolidation = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("full config validate should catch filter error")
	}
}
