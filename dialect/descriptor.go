package dialect

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Konsultn-Engineering/minorm/ormerr"
)

// Descriptor is the declarative form of a dialect, loadable from YAML:
//
//	name: warehouse
//	supports_hints: true
//	empty_in_policy: constant
//	identifier_quoting: bracket
//	parameter_prefix: "@"
//	placeholder_style: named
//	paging: top
//	identity: output
type Descriptor struct {
	Name          string `json:"name" yaml:"name"`
	SupportsHints bool   `json:"supports_hints" yaml:"supports_hints"`
	// EmptyInPolicy is "reject" (default) or "constant".
	EmptyInPolicy string `json:"empty_in_policy" yaml:"empty_in_policy"`
	// IdentifierQuoting is "double" (default), "backtick" or "bracket".
	IdentifierQuoting string `json:"identifier_quoting" yaml:"identifier_quoting"`
	ParameterPrefix   string `json:"parameter_prefix" yaml:"parameter_prefix"`
	// PlaceholderStyle is "named" (default), "ordinal" or "anonymous".
	PlaceholderStyle string `json:"placeholder_style" yaml:"placeholder_style"`
	// Paging is "limit" (default) or "top".
	Paging string `json:"paging,omitempty" yaml:"paging,omitempty"`
	// Identity is "last_insert_id" (default), "returning" or "output".
	Identity string `json:"identity,omitempty" yaml:"identity,omitempty"`
}

// ParseDescriptor reads a YAML descriptor.
func ParseDescriptor(data []byte) (Descriptor, error) {
	var d Descriptor
	if err := yaml.Unmarshal(data, &d); err != nil {
		return Descriptor{}, fmt.Errorf("failed to parse dialect descriptor: %w", err)
	}
	if err := d.Validate(); err != nil {
		return Descriptor{}, err
	}
	return d, nil
}

// LoadDescriptor reads a YAML descriptor file.
func LoadDescriptor(path string) (Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Descriptor{}, fmt.Errorf("failed to read dialect descriptor: %w", err)
	}
	return ParseDescriptor(data)
}

// IsZero reports whether the descriptor is unset.
func (d Descriptor) IsZero() bool { return d == Descriptor{} }

// Validate checks every enumerated field.
func (d Descriptor) Validate() error {
	const op = "dialect.Descriptor"
	if d.Name == "" {
		return ormerr.InvalidArgument(op, "name is required")
	}
	if _, err := d.emptyIn(); err != nil {
		return err
	}
	if _, err := d.style(); err != nil {
		return err
	}
	switch d.IdentifierQuoting {
	case "", "double", "backtick", "bracket":
	default:
		return ormerr.InvalidArgument(op, "unknown identifier_quoting %q", d.IdentifierQuoting)
	}
	switch d.Paging {
	case "", "limit", "top":
	default:
		return ormerr.InvalidArgument(op, "unknown paging %q", d.Paging)
	}
	if _, err := d.identity(); err != nil {
		return err
	}
	return nil
}

func (d Descriptor) emptyIn() (EmptyInPolicy, error) {
	switch strings.ToLower(d.EmptyInPolicy) {
	case "", "reject":
		return EmptyInReject, nil
	case "constant":
		return EmptyInConstant, nil
	}
	return 0, ormerr.InvalidArgument("dialect.Descriptor", "unknown empty_in_policy %q", d.EmptyInPolicy)
}

func (d Descriptor) style() (BindStyle, error) {
	switch strings.ToLower(d.PlaceholderStyle) {
	case "", "named":
		return BindNamed, nil
	case "ordinal":
		return BindOrdinal, nil
	case "anonymous":
		return BindAnonymous, nil
	}
	return 0, ormerr.InvalidArgument("dialect.Descriptor", "unknown placeholder_style %q", d.PlaceholderStyle)
}

func (d Descriptor) identity() (IdentityStrategy, error) {
	switch strings.ToLower(d.Identity) {
	case "", "last_insert_id":
		return IdentityLastInsertID, nil
	case "returning":
		return IdentityReturning, nil
	case "output":
		return IdentityOutput, nil
	}
	return 0, ormerr.InvalidArgument("dialect.Descriptor", "unknown identity %q", d.Identity)
}

// Generic is a dialect driven entirely by a Descriptor. The built-in
// dialects embed it and override what their database does differently.
type Generic struct {
	desc     Descriptor
	style    BindStyle
	emptyIn  EmptyInPolicy
	identity IdentityStrategy
}

// FromDescriptor builds a dialect from d.
func FromDescriptor(d Descriptor) (*Generic, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return newGeneric(d), nil
}

// newGeneric assumes d is valid.
func newGeneric(d Descriptor) *Generic {
	g := &Generic{desc: d}
	g.style, _ = d.style()
	g.emptyIn, _ = d.emptyIn()
	g.identity, _ = d.identity()
	if d.ParameterPrefix == "" {
		switch g.style {
		case BindNamed:
			g.desc.ParameterPrefix = "@"
		case BindOrdinal:
			g.desc.ParameterPrefix = "$"
		case BindAnonymous:
			g.desc.ParameterPrefix = "?"
		}
	}
	return g
}

// Descriptor returns the declarative form of the dialect.
func (g *Generic) Descriptor() Descriptor { return g.desc }

func (g *Generic) Name() string { return g.desc.Name }

func (g *Generic) QuoteIdentifier(name string) string {
	switch g.desc.IdentifierQuoting {
	case "backtick":
		return "`" + strings.ReplaceAll(name, "`", "``") + "`"
	case "bracket":
		return "[" + strings.ReplaceAll(name, "]", "]]") + "]"
	default:
		return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
	}
}

func (g *Generic) Placeholder(name string, ordinal int) string {
	switch g.style {
	case BindOrdinal:
		return g.desc.ParameterPrefix + strconv.Itoa(ordinal)
	case BindAnonymous:
		return g.desc.ParameterPrefix
	default:
		return g.desc.ParameterPrefix + name
	}
}

func (g *Generic) BindStyle() BindStyle               { return g.style }
func (g *Generic) SupportsHints() bool                { return g.desc.SupportsHints }
func (g *Generic) EmptyInPolicy() EmptyInPolicy       { return g.emptyIn }
func (g *Generic) IdentityStrategy() IdentityStrategy { return g.identity }

func (g *Generic) ApplyHints(table, hints string) (string, error) {
	hints = strings.TrimSpace(hints)
	if hints == "" {
		return table, nil
	}
	if !g.desc.SupportsHints {
		return "", ormerr.UnsupportedOption("dialect.ApplyHints", "the %s dialect does not support table hints", g.desc.Name)
	}
	if strings.HasPrefix(strings.ToUpper(hints), "WITH") {
		return table + " " + hints, nil
	}
	return table + " WITH (" + hints + ")", nil
}

func (g *Generic) Top(n int) (prefix, suffix string) {
	if n <= 0 {
		return "", ""
	}
	if g.desc.Paging == "top" {
		return "TOP (" + strconv.Itoa(n) + ") ", ""
	}
	return "", " LIMIT " + strconv.Itoa(n)
}

func (g *Generic) RenderValue(v any) string {
	return renderValue(v, hexBlob)
}
