package schema

import (
	"fmt"
	"reflect"
	"strings"
)

// DefaultTagName is the struct tag read by the TagParser.
const DefaultTagName = "db"

// ParsedTag is the mapping declared on a struct field.
type ParsedTag struct {
	// ColumnName is the explicitly declared column, "" when the field relies
	// on the naming convention.
	ColumnName string
	Skip       bool
	Primary    bool
	Identity   bool
	// Type overrides the inferred database type (e.g. "varchar", "uuid").
	Type string
	// Generator names an id generator ("uuid", "ulid") used on insert.
	Generator string
	// Converter names a converter registered with RegisterConverter.
	Converter string
}

// TagParser parses minorm struct tags.
//
// Supported tag syntax:
//
//	`db:"column_name"`                  // Basic column mapping
//	`db:"column:custom_name"`           // Explicit column name
//	`db:"primary;identity"`             // Key flags
//	`db:"primary;generator:uuid"`       // Generated primary key
//	`db:"type:varchar;convert:json"`    // Database type and converter
//	`db:"-"`                            // Skip field entirely
type TagParser struct {
	tagName string
}

// NewTagParser creates a parser reading tagName ("db" when empty).
func NewTagParser(tagName string) *TagParser {
	if tagName == "" {
		tagName = DefaultTagName
	}
	return &TagParser{tagName: tagName}
}

// ParseTag parses the tag of a struct field.
func (p *TagParser) ParseTag(fieldName string, tag reflect.StructTag) (*ParsedTag, error) {
	value, ok := tag.Lookup(p.tagName)
	if !ok || value == "" {
		return &ParsedTag{}, nil
	}
	if value == "-" {
		return &ParsedTag{Skip: true}, nil
	}

	parsed := &ParsedTag{}
	if !strings.ContainsAny(value, ";:") && !isFlag(value) {
		parsed.ColumnName = strings.TrimSpace(value)
		return parsed, nil
	}

	for _, option := range strings.Split(value, ";") {
		option = strings.TrimSpace(option)
		if option == "" {
			continue
		}
		if err := parseOption(parsed, option); err != nil {
			return nil, fmt.Errorf("field %s: %w", fieldName, err)
		}
	}
	return parsed, nil
}

func isFlag(option string) bool {
	switch option {
	case "primary", "primary_key", "pk", "identity", "auto_increment":
		return true
	}
	return false
}

func parseOption(tag *ParsedTag, option string) error {
	if idx := strings.IndexByte(option, ':'); idx != -1 {
		key := strings.TrimSpace(option[:idx])
		value := strings.TrimSpace(option[idx+1:])
		if value == "" {
			return fmt.Errorf("tag option %q has an empty value", key)
		}
		switch key {
		case "column", "name":
			tag.ColumnName = value
		case "type":
			tag.Type = value
		case "generator", "gen":
			tag.Generator = value
		case "convert", "converter":
			tag.Converter = value
		default:
			// Unknown options are ignored for forward compatibility.
		}
		return nil
	}

	switch option {
	case "primary", "primary_key", "pk":
		tag.Primary = true
	case "identity", "auto_increment":
		tag.Identity = true
	default:
		// A bare word that is not a flag is the column name.
		if tag.ColumnName == "" {
			tag.ColumnName = option
		}
	}
	return nil
}
