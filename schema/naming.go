package schema

import (
	"strings"
	"unicode"

	pluralizer "github.com/gertd/go-pluralize"
)

// pluralizeClient is a singleton instance for consistent pluralization behavior.
var pluralizeClient = pluralizer.NewClient()

// NamingStrategy derives physical names for members that declare no mapping.
//
// The default strategy is Verbatim: a property without a declared column maps
// to its own Go field name, and a struct without TableNamer maps to its type
// name. This fallback is cached like any declared mapping.
type NamingStrategy interface {
	ColumnName(fieldName string) string
	TableName(structName string) string
}

type verbatimStrategy struct{}

func (verbatimStrategy) ColumnName(fieldName string) string { return fieldName }
func (verbatimStrategy) TableName(structName string) string { return structName }

// Verbatim maps members to their identifiers unchanged.
func Verbatim() NamingStrategy { return verbatimStrategy{} }

type snakeStrategy struct {
	plural bool
}

func (s snakeStrategy) ColumnName(fieldName string) string { return toSnakeCase(fieldName) }

func (s snakeStrategy) TableName(structName string) string {
	name := toSnakeCase(structName)
	if s.plural {
		return pluralize(name)
	}
	return name
}

// SnakeCase maps FirstName to first_name and BlogPost to blog_post.
func SnakeCase() NamingStrategy { return snakeStrategy{} }

// SnakeCasePlural is SnakeCase with pluralized table names (blog_posts).
func SnakeCasePlural() NamingStrategy { return snakeStrategy{plural: true} }

type pluralStrategy struct{}

func (pluralStrategy) ColumnName(fieldName string) string { return fieldName }
func (pluralStrategy) TableName(structName string) string { return pluralize(structName) }

// Plural keeps identifiers verbatim but pluralizes table names (User -> Users).
func Plural() NamingStrategy { return pluralStrategy{} }

// toSnakeCase converts any naming convention to snake_case.
// Handles acronyms: HTTPServer -> http_server, UserID -> user_id.
func toSnakeCase(name string) string {
	if name == "" {
		return ""
	}
	if strings.Contains(name, "_") && !hasUpperCase(name) {
		return name
	}

	var result strings.Builder
	result.Grow(len(name) + 4)

	runes := []rune(name)
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			if unicode.IsLower(prev) || unicode.IsDigit(prev) {
				result.WriteByte('_')
			} else if unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1]) {
				result.WriteByte('_')
			}
		}
		result.WriteRune(unicode.ToLower(r))
	}
	return result.String()
}

// pluralize converts singular nouns to their plural forms.
func pluralize(name string) string {
	if name == "" {
		return ""
	}
	// Only the last word of a snake_case name is pluralized.
	if idx := strings.LastIndexByte(name, '_'); idx != -1 && idx < len(name)-1 {
		return name[:idx+1] + pluralize(name[idx+1:])
	}
	plural := pluralizeClient.Pluralize(name, 2, false)
	return preserveCase(name, plural)
}

func hasUpperCase(s string) bool {
	for _, r := range s {
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}

// preserveCase preserves the case pattern of the original string in the result.
func preserveCase(original, result string) string {
	if original == "" || result == "" {
		return result
	}
	if strings.ToLower(original) == original {
		return strings.ToLower(result)
	}
	if strings.ToUpper(original) == original {
		return strings.ToUpper(result)
	}
	if unicode.IsUpper(rune(original[0])) {
		return strings.ToUpper(result[:1]) + result[1:]
	}
	return result
}
