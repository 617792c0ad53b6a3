package internal

import (
	"fmt"
	"log/slog"
	"slices"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/pacofilter/internal/filter"
)

// Built-in filter profiles.
const (
	ProfileProvisioning   = "provisioning"
	ProfileInfrastructure = "infrastructure"
)

var profiles = map[string]FilterConfig{
	// Provisioning keeps the provisioning VRFs and only their IRB units,
	// one interface record per referenced unit.
	ProfileProvisioning: {
		KeepNetworkInstances: []string{"provisioning", "infrastructure", "default"},
		UsageMarkers:         []string{"irb"},
		Consolidation:        string(filter.PerReference),
	},
	// Infrastructure keeps every referenced unit and all ethernet ports,
	// one record per interface name.
	ProfileInfrastructure: {
		KeepNetworkInstances: []string{"infrastructure", "default"},
		Consolidation:        string(filter.ByName),
		KeepWholeMarkers:     []string{"ethernet"},
	},
}

// Profile returns a copy of the named built-in filter settings.
func Profile(name string) (FilterConfig, error) {
	p, ok := profiles[name]
	if !ok {
		return FilterConfig{}, fmt.Errorf("unknown profile %q (available: %v)", name, ProfileNames())
	}
	return FilterConfig{
		KeepNetworkInstances: slices.Clone(p.KeepNetworkInstances),
		UsageMarkers:         slices.Clone(p.UsageMarkers),
		Consolidation:        p.Consolidation,
		KeepWholeMarkers:     slices.Clone(p.KeepWholeMarkers),
	}, nil
}

// ProfileNames lists the built-in profiles in sorted order.
func ProfileNames() []string {
	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Config represents the application configuration.
type Config struct {
	App    ApplicationConfig `yaml:"app"`
	Filter FilterConfig      `yaml:"filter"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	return c.Filter.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.LogLevel, validation.In(slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError)),
	)
}

// FilterConfig selects what survives filtering.
//
// KeepWholeMarkers only matter with by-name consolidation; per-reference
// output never includes unreferenced interfaces.
type FilterConfig struct {
	KeepNetworkInstances []string `yaml:"keep_network_instances"`
	UsageMarkers         []string `yaml:"usage_markers"`
	Consolidation        string   `yaml:"consolidation"`
	KeepWholeMarkers     []string `yaml:"keep_whole_markers"`
}

// Validate validates the filter configuration.
func (c *FilterConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.KeepNetworkInstances, validation.Required, validation.Each(validation.Required)),
		validation.Field(&c.UsageMarkers, validation.Each(validation.Required)),
		validation.Field(&c.Consolidation, validation.Required,
			validation.In(string(filter.PerReference), string(filter.ByName))),
		validation.Field(&c.KeepWholeMarkers, validation.Each(validation.Required)),
	)
}

// Policy converts the configuration into a filter.Policy.
func (c *FilterConfig) Policy() filter.Policy {
	return filter.Policy{
		KeepInstances: slices.Clone(c.KeepNetworkInstances),
		UsageFilter:   filter.ContainsAny(c.UsageMarkers...),
		Consolidation: filter.Consolidation(c.Consolidation),
		KeepWhole:     filter.ContainsAny(c.KeepWholeMarkers...),
	}
}

// NewDefaultConfig returns a new Config using the infrastructure profile.
func NewDefaultConfig() *Config {
	fc, _ := Profile(ProfileInfrastructure)
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
		},
		Filter: fc,
	}
}
