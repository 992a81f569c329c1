package prompt

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultRules(t *testing.T) {
	rules := DefaultRules()
	if rules.Version == "" {
		t.Fatal("default rule set must carry a version")
	}
	if len(rules.Heuristics) == 0 {
		t.Fatal("default rule set must carry heuristics")
	}
	if len(rules.Departments) == 0 {
		t.Fatal("default rule set must carry a department vocabulary")
	}
}

func TestLoadRulesEmptyPathFallsBack(t *testing.T) {
	rules, err := LoadRules("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rules.Version != DefaultRules().Version {
		t.Fatalf("expected default version, got %q", rules.Version)
	}
}

func TestLoadRulesFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	content := `version: "v3-test"
heuristics:
  - "Glasgow Coma Scale below 9 indicates High Risk."
departments:
  - "Emergency Medicine"
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write rules file: %v", err)
	}

	rules, err := LoadRules(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rules.Version != "v3-test" {
		t.Fatalf("expected version v3-test, got %q", rules.Version)
	}
	if len(rules.Heuristics) != 1 || len(rules.Departments) != 1 {
		t.Fatalf("unexpected rule set: %+v", rules)
	}
}

func TestLoadRulesRejectsMissingVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	content := `heuristics:
  - "Anything."
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write rules file: %v", err)
	}

	if _, err := LoadRules(path); err == nil {
		t.Fatal("expected error for rule set without version")
	}
}
