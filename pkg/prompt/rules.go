package prompt

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// RuleSet is the versioned clinical decision heuristics embedded in every
// prompt. The rules are instructions to the external reasoner, not executable
// logic, so changing them never requires a code change.
type RuleSet struct {
	Version     string   `yaml:"version" json:"version"`
	Heuristics  []string `yaml:"heuristics" json:"heuristics"`
	Departments []string `yaml:"departments" json:"departments"`
}

func LoadRules(path string) (RuleSet, error) {
	if path == "" {
		return DefaultRules(), nil
	}
	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return DefaultRules(), err
	}

	var rs RuleSet
	if err := yaml.Unmarshal(content, &rs); err != nil {
		return RuleSet{}, err
	}

	if rs.Version == "" {
		return RuleSet{}, errors.New("triage rule set missing version")
	}
	if len(rs.Heuristics) == 0 {
		return RuleSet{}, errors.New("no triage heuristics configured")
	}
	if len(rs.Departments) == 0 {
		rs.Departments = DefaultRules().Departments
	}

	return rs, nil
}

func DefaultRules() RuleSet {
	return RuleSet{
		Version: "v2",
		Heuristics: []string{
			"SpO2 below 90% indicates High Risk.",
			"Systolic blood pressure below 90 mmHg indicates High Risk.",
			"Heart rate above 130 bpm or below 40 bpm indicates High Risk.",
			"Temperature above 39 degrees Celsius indicates Medium to High Risk.",
			"Chest pain combined with a history of heart disease indicates High Risk.",
			"Confusion combined with abnormal vital signs indicates High Risk.",
			"Respiratory rate above 30 or below 8 breaths per minute indicates High Risk.",
		},
		Departments: []string{
			"Emergency Medicine",
			"Cardiology",
			"Neurology",
			"Pulmonology",
			"General Medicine",
			"Orthopedics",
			"Gastroenterology",
			"Nephrology",
			"Endocrinology",
			"Infectious Disease",
			"ICU",
		},
	}
}
