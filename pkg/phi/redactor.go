package phi

import "regexp"

type compiledRule struct {
	rule Rule
	re   *regexp.Regexp
}

// Redactor masks identifiers in free-text EHR excerpts before the text is
// handed to the external reasoning service.
type Redactor struct {
	rules []compiledRule
}

func NewRedactor(cfg RulesConfig) (*Redactor, error) {
	var compiled []compiledRule
	for _, rule := range cfg.Rules {
		if !rule.Enabled {
			continue
		}
		re, err := regexp.Compile(rule.Pattern)
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, compiledRule{rule: rule, re: re})
	}
	return &Redactor{rules: compiled}, nil
}

// Redact replaces every match of an enabled rule with its mask. The clinical
// content of the text is left untouched.
func (r *Redactor) Redact(text string) string {
	if r == nil {
		return text
	}
	masked := text
	for _, rule := range r.rules {
		masked = rule.re.ReplaceAllString(masked, rule.rule.Mask)
	}
	return masked
}

// Detect reports which identifier types are present in the text.
func (r *Redactor) Detect(text string) []string {
	if r == nil {
		return nil
	}
	var types []string
	for _, rule := range r.rules {
		if rule.re.MatchString(text) {
			types = append(types, rule.rule.Type)
		}
	}
	return types
}
