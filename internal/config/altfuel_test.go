package config

import (
  "os"
  "path/filepath"
  "testing"
)

func TestResolveDefaults(t *testing.T) {
  m, err := LoadAltFuelMap("")
  if err != nil {
    t.Fatalf("LoadAltFuelMap: %v", err)
  }

  cases := []struct {
    name  string
    label string
    want  string
    ok    bool
  }{
    {name: "canonical", label: "2W", want: "2W", ok: true},
    {name: "lowercase", label: "cv", want: "CV", ok: true},
    {name: "alias", label: "Two Wheeler", want: "2W", ok: true},
    {name: "punctuation", label: "two-wheeler", want: "2W", ok: true},
    {name: "plural alias", label: "Passenger Vehicles", want: "PV", ok: true},
    {name: "extra spacing", label: "  3 Wheeler ", want: "3W", ok: true},
    {name: "unknown", label: "Bulldozer", ok: false},
  }
  for _, tc := range cases {
    t.Run(tc.name, func(t *testing.T) {
      got, ok := m.Resolve(tc.label)
      if ok != tc.ok {
        t.Fatalf("Resolve(%q) ok = %v, want %v", tc.label, ok, tc.ok)
      }
      if ok && got != tc.want {
        t.Fatalf("Resolve(%q) = %q, want %q", tc.label, got, tc.want)
      }
    })
  }
}

func TestLoadAltFuelMapFileOverride(t *testing.T) {
  path := filepath.Join(t.TempDir(), "altfuel.yaml")
  content := "categories:\n  CV:\n    - lorry\n    - lorries\n"
  if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
    t.Fatalf("write file: %v", err)
  }

  m, err := LoadAltFuelMap(path)
  if err != nil {
    t.Fatalf("LoadAltFuelMap: %v", err)
  }
  if got, ok := m.Resolve("Lorry"); !ok || got != "CV" {
    t.Fatalf("Resolve(Lorry) = %q, %v", got, ok)
  }
  // Built-in aliases survive the merge.
  if got, ok := m.Resolve("commercial vehicle"); !ok || got != "CV" {
    t.Fatalf("Resolve(commercial vehicle) = %q, %v", got, ok)
  }
}

func TestLoadAltFuelMapRejectsUnknownCategory(t *testing.T) {
  path := filepath.Join(t.TempDir(), "altfuel.yaml")
  if err := os.WriteFile(path, []byte("categories:\n  Submarine:\n    - sub\n"), 0o600); err != nil {
    t.Fatalf("write file: %v", err)
  }
  if _, err := LoadAltFuelMap(path); err == nil {
    t.Fatal("expected error for unknown category")
  }
}
