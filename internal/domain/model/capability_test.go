package model

import (
	"strings"
	"testing"
)

func TestCapabilityRegistryIsTotal(t *testing.T) {
	caps := AllCapabilities()
	if len(caps) != 12 {
		t.Fatalf("expected 12 capabilities, got %d", len(caps))
	}

	seen := make(map[Capability]bool, len(caps))
	for _, c := range caps {
		if seen[c] {
			t.Errorf("capability %q listed twice", c)
		}
		seen[c] = true

		spec, ok := LookupCapability(c)
		if !ok {
			t.Errorf("capability %q has no spec", c)
			continue
		}
		if spec.Mode == "" || spec.DisplayName == "" {
			t.Errorf("capability %q has incomplete spec: %+v", c, spec)
		}
		if !strings.Contains(spec.Template, "## ") {
			t.Errorf("capability %q template has no sections", c)
		}
	}
}

func TestLookupCapabilityUnknown(t *testing.T) {
	if _, ok := LookupCapability("time-machine"); ok {
		t.Error("unknown capability must not resolve")
	}
	if _, ok := LookupCapability(""); ok {
		t.Error("empty capability must not resolve")
	}
}

func TestAllCapabilitiesOrderIsStable(t *testing.T) {
	a := AllCapabilities()
	b := AllCapabilities()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("capability order unstable at %d: %q vs %q", i, a[i], b[i])
		}
	}
	if a[0] != CapabilityAppGenerator {
		t.Errorf("expected app-generator first, got %q", a[0])
	}
}
