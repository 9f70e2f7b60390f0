package filtering

import (
	"strings"

	"github.com/harrison/plumb/internal/models"
)

const (
	flagPrefix = "--"
	escapeChar = `\`
)

// Serialize flattens filtering into tokens: for each non-empty field in
// canonical order, its flag followed by its values. Values that could be
// mistaken for a flag are escaped with a leading backslash.
func Serialize(filtering models.FileFiltering) []string {
	tokens := []string{}
	for _, field := range AllFields() {
		values := field.Values(filtering)
		if len(values) == 0 {
			continue
		}
		tokens = append(tokens, field.Flag())
		for _, v := range values {
			tokens = append(tokens, escape(v))
		}
	}
	return tokens
}

// Deserialize rebuilds a predicate from tokens. Each recognised flag selects
// the field that following values are appended to. Unknown flags, and values
// that follow them, are ignored.
func Deserialize(tokens []string) models.FileFiltering {
	var filtering models.FileFiltering
	var current *[]string
	for _, token := range tokens {
		if strings.HasPrefix(token, flagPrefix) {
			current = nil
			if field, ok := fieldForFlag(token); ok {
				current = fieldSpecs[field].values(&filtering)
			}
			continue
		}
		if current == nil {
			continue
		}
		*current = append(*current, unescape(token))
	}
	return filtering
}

func escape(value string) string {
	if strings.HasPrefix(value, flagPrefix) || strings.HasPrefix(value, escapeChar) {
		return escapeChar + value
	}
	return value
}

func unescape(token string) string {
	return strings.TrimPrefix(token, escapeChar)
}
