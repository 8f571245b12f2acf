// Package dialect describes the SQL surface of each supported database:
// identifier quoting, placeholders, hint support and small syntax variations.
package dialect

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/Konsultn-Engineering/minorm/utils"
)

// BindStyle is how a dialect spells parameter placeholders.
type BindStyle int

const (
	// BindNamed placeholders carry the parameter name (@Id, :Id).
	BindNamed BindStyle = iota
	// BindOrdinal placeholders carry the 1-based position ($1).
	BindOrdinal
	// BindAnonymous placeholders are all the same token (?).
	BindAnonymous
)

// EmptyInPolicy decides how an In/NotIn over an empty set is translated.
type EmptyInPolicy int

const (
	// EmptyInReject fails translation with an invalid-argument error.
	EmptyInReject EmptyInPolicy = iota
	// EmptyInConstant emits 1 = 0 for In and 1 = 1 for NotIn.
	EmptyInConstant
)

// IdentityStrategy is how an insert reports the generated identity value.
type IdentityStrategy int

const (
	IdentityLastInsertID IdentityStrategy = iota
	// IdentityReturning appends RETURNING col.
	IdentityReturning
	// IdentityOutput inserts OUTPUT INSERTED.col before VALUES.
	IdentityOutput
)

// Dialect is the per-database SQL surface used by the translator and the
// statement builder.
type Dialect interface {
	Name() string
	QuoteIdentifier(name string) string
	// Placeholder renders the placeholder of a parameter with the given name
	// at the given 1-based ordinal.
	Placeholder(name string, ordinal int) string
	BindStyle() BindStyle
	SupportsHints() bool
	EmptyInPolicy() EmptyInPolicy
	// ApplyHints decorates a quoted table reference with table hints.
	// An empty hint string returns the reference unchanged.
	ApplyHints(table, hints string) (string, error)
	// Top renders a row limit as a prefix (after SELECT) and a suffix.
	Top(n int) (prefix, suffix string)
	IdentityStrategy() IdentityStrategy
	// RenderValue renders v as an inline literal, for logs and debugging only.
	RenderValue(v any) string
}

// QuoteQualified quotes each dot-separated part of name ("sales.orders").
func QuoteQualified(d Dialect, name string) string {
	if !strings.Contains(name, ".") {
		return d.QuoteIdentifier(name)
	}
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = d.QuoteIdentifier(p)
	}
	return strings.Join(parts, ".")
}

var (
	registryMu sync.RWMutex
	registry   = map[string]func() Dialect{}
)

// Register makes a dialect available to Lookup under name and its aliases.
func Register(factory func() Dialect, names ...string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	for _, n := range names {
		registry[strings.ToLower(n)] = factory
	}
}

// Lookup returns a new instance of the dialect registered under name.
func Lookup(name string) (Dialect, error) {
	registryMu.RLock()
	factory, ok := registry[strings.ToLower(name)]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown dialect: %s (known: %s)", name, strings.Join(Names(), ", "))
	}
	return factory(), nil
}

// Names lists the registered dialect names.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]string, 0, len(registry))
	for n := range registry {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func init() {
	Register(NewPostgresDialect, "postgres", "postgresql", "pgx")
	Register(NewMySQLDialect, "mysql")
	Register(NewTiDBDialect, "tidb")
	Register(NewSQLiteDialect, "sqlite", "sqlite3")
	Register(NewSQLServerDialect, "sqlserver", "mssql")
}

// Fingerprint identifies the observable behavior of d. Two dialects that
// share a name but quote, bind, page or accept hints differently get
// different fingerprints.
func Fingerprint(d Dialect) uint64 {
	h := utils.NewHasher()
	h.WriteString(fmt.Sprintf("%T", d))
	h.WriteString(d.Name())
	h.WriteString(strconv.FormatBool(d.SupportsHints()))
	h.WriteUint64(uint64(d.EmptyInPolicy()))
	h.WriteUint64(uint64(d.BindStyle()))
	h.WriteUint64(uint64(d.IdentityStrategy()))
	h.WriteString(d.QuoteIdentifier("x"))
	h.WriteString(d.Placeholder("p", 1))
	prefix, suffix := d.Top(1)
	h.WriteString(prefix)
	h.WriteString(suffix)
	if desc, ok := d.(interface{ Descriptor() Descriptor }); ok {
		dd := desc.Descriptor()
		for _, s := range []string{dd.EmptyInPolicy, dd.IdentifierQuoting, dd.ParameterPrefix, dd.PlaceholderStyle, dd.Paging, dd.Identity} {
			h.WriteString(s)
		}
	}
	return h.Sum64()
}
