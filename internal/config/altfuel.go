package config

import (
  "fmt"
  "os"
  "regexp"
  "strings"
  "gopkg.in/yaml.v3"
)

// Canonical alt-fuel vehicle categories. Free-text labels from uploads are
// remapped onto this set; unrecognized labels are dropped.
var CanonicalAltFuelCategories = []string{"2W", "3W", "PV", "Tractor", "CV"}

type altFuelFile struct {
  Categories map[string][]string `yaml:"categories"`
}

// AltFuelMap resolves free-text category labels to canonical names via
// case/punctuation-insensitive matching.
type AltFuelMap struct {
  aliases map[string]string
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

func normalizeAlias(s string) string {
  return nonAlnum.ReplaceAllString(strings.ToLower(s), "")
}

func defaultAliases() map[string][]string {
  return map[string][]string{
    "2W":      {"2w", "two wheeler", "two-wheeler", "2 wheeler"},
    "3W":      {"3w", "three wheeler", "three-wheeler", "3 wheeler"},
    "PV":      {"pv", "passenger vehicle", "passenger vehicles", "car", "cars"},
    "Tractor": {"tractor", "tractors"},
    "CV":      {"cv", "commercial vehicle", "commercial vehicles"},
  }
}

func newAltFuelMap(aliasesByCategory map[string][]string) (*AltFuelMap, error) {
  canonical := map[string]bool{}
  for _, c := range CanonicalAltFuelCategories {
    canonical[c] = true
  }
  aliases := map[string]string{}
  for category, names := range aliasesByCategory {
    if !canonical[category] {
      return nil, fmt.Errorf("unknown alt-fuel category %q", category)
    }
    aliases[normalizeAlias(category)] = category
    for _, name := range names {
      aliases[normalizeAlias(name)] = category
    }
  }
  for _, c := range CanonicalAltFuelCategories {
    aliases[normalizeAlias(c)] = c
  }
  return &AltFuelMap{aliases: aliases}, nil
}

// LoadAltFuelMap builds the category map from the built-in aliases, merged
// with the optional YAML file named by ALT_FUEL_MAP_FILE.
func LoadAltFuelMap(path string) (*AltFuelMap, error) {
  aliasesByCategory := defaultAliases()
  if path != "" {
    raw, err := os.ReadFile(path)
    if err != nil {
      return nil, fmt.Errorf("read alt-fuel map file: %w", err)
    }
    var file altFuelFile
    if err := yaml.Unmarshal(raw, &file); err != nil {
      return nil, fmt.Errorf("parse alt-fuel map file: %w", err)
    }
    for category, names := range file.Categories {
      aliasesByCategory[category] = append(aliasesByCategory[category], names...)
    }
  }
  return newAltFuelMap(aliasesByCategory)
}

// Resolve maps a free-text label to its canonical category. ok is false for
// unrecognized labels, which callers drop silently.
func (m *AltFuelMap) Resolve(label string) (string, bool) {
  category, ok := m.aliases[normalizeAlias(label)]
  return category, ok
}
