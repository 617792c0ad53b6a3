// Package testutil provides shared fixtures for pipeline and CLI tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/pacofilter/internal/document"
)

// SwitchConfig is a trimmed full switch configuration exercising every
// section the filter touches plus keys it must leave alone.
const SwitchConfig = `{
  "system": {
    "name": {
      "host-name": "leaf1"
    },
    "mtu": 9000,
    "banner": "<authorized use only>"
  },
  "interface": [
    {
      "name": "ethernet-1/1",
      "admin-state": "enable",
      "subinterface": [
        {"index": 0, "type": "routed"},
        {"index": 10, "type": "bridged"}
      ]
    },
    {
      "name": "ethernet-1/2",
      "subinterface": [
        {"index": 0}
      ]
    },
    {
      "name": "irb0",
      "subinterface": [
        {"index": 100, "ipv4": {"address": [{"ip-prefix": "10.0.0.1/24"}]}},
        {"index": 200},
        {"index": 300}
      ]
    },
    {
      "name": "lag1",
      "subinterface": [
        {"index": 5}
      ]
    },
    {
      "name": "mgmt0",
      "subinterface": [
        {"index": 0}
      ]
    }
  ],
  "network-instance": [
    {"name": "provisioning-1", "type": "ip-vrf", "interface": [{"name": "irb0.300"}]},
    {"name": "infrastructure", "interface": [{"name": "irb0.100"}, {"name": "ethernet-1/1.10"}]},
    {"name": "default", "interface": [{"name": "irb0.200"}, {"name": "ethernet-1/1.0"}, {"name": "irb0.100"}]},
    {"name": "customer-a", "interface": [{"name": "lag1.5"}]},
    {"name": "mgmt", "interface": [{"name": "mgmt0.0"}]}
  ],
  "bfd": {
    "subinterface": [
      {"id": "irb0.100", "admin-state": "enable"},
      {"id": "irb0.300"},
      {"id": "lag1.5"},
      {"id": "ethernet-1/1.10"},
      {"id": "irb0.200"}
    ]
  },
  "routing-policy": {
    "policy": [
      {"name": "all", "default-action": {"policy-result": "accept"}}
    ]
  }
}`

// WriteFile writes content to name inside a per-test temp dir and returns
// the full path.
func WriteFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// Decode parses raw or fails the test.
func Decode(t *testing.T, raw string) *document.Object {
	t.Helper()
	doc, err := document.Decode([]byte(raw))
	if err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	return doc
}

// Encode serializes doc or fails the test.
func Encode(t *testing.T, doc *document.Object) string {
	t.Helper()
	out, err := document.Encode(doc)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	return string(out)
}

// Section encodes the value at path, for comparing untouched subtrees.
func Section(t *testing.T, doc *document.Object, path ...string) string {
	t.Helper()
	val, err := document.Lookup(doc, path...)
	if err != nil {
		t.Fatalf("lookup %v: %v", path, err)
	}
	out, err := val.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal %v: %v", path, err)
	}
	return string(out)
}
