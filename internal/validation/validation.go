package validation

import "strings"

type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Basic validators
func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = "required"
	}
}

func Email(field, value string, v Violations) {
	s := strings.TrimSpace(value)
	at := strings.Index(s, "@")
	if at < 1 || at == len(s)-1 || !strings.Contains(s[at:], ".") {
		v[field] = "invalid_email"
	}
}

func NonNegativeFloat(field string, val float64, v Violations) {
	if val < 0 {
		v[field] = "must_be_non_negative"
	}
}

func OneOf(field, value string, choices []string, v Violations) {
	for _, c := range choices {
		if value == c {
			return
		}
	}
	v[field] = "invalid_value"
}
