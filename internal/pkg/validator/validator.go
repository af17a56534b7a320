package validator

import (
	"strings"
)

type ValidationError struct {
	Field   string
	Message string
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var msgs []string
	for _, err := range v {
		msgs = append(msgs, err.Field+": "+err.Message)
	}
	return strings.Join(msgs, "; ")
}

func (v ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string)
	for _, err := range v {
		result[err.Field] = err.Message
	}
	return result
}

// IsEmpty checks if a string is empty after trimming whitespace.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Month validation
func IsValidMonth(month int) bool {
	return month >= 1 && month <= 12
}

// Year validation, bounded to something a payroll system could plausibly hold
func IsValidYear(year int) bool {
	return year >= 2000 && year <= 2200
}

// Cutoff day validation
func IsValidCutoffDay(day int) bool {
	return day >= 1 && day <= 31
}
