package cache

import (
	"github.com/Konsultn-Engineering/minorm/ormerr"
	"github.com/Konsultn-Engineering/minorm/utils"
)

// MemberKind distinguishes the reflected members that can be keyed.
type MemberKind uint8

const (
	MemberProperty MemberKind = iota + 1
	MemberClass
)

func (k MemberKind) String() string {
	switch k {
	case MemberProperty:
		return "property"
	case MemberClass:
		return "class"
	default:
		return "unknown"
	}
}

// Member is anything with a structural identity: a registered struct type or
// one of its fields. Implementations must be safe to call on a nil receiver
// and report an empty DeclaringType in that case.
type Member interface {
	MemberKind() MemberKind
	// DeclaringType is the fully qualified identifier of the declaring type
	// (package path + type name).
	DeclaringType() string
	MemberName() string
}

// Key is the structural identity of a Member.
type Key uint64

// GenerateKey hashes (kind, declaring type, name).
//
// Layout fed to FNV-1a:
//
//	[0]      kind
//	[1..n]   declaring type, 0x00
//	[n+1..]  member name, 0x00
func GenerateKey(kind MemberKind, declaringType, name string) Key {
	h := utils.NewHasher()
	_ = h.WriteByte(byte(kind))
	h.WriteString(declaringType)
	h.WriteString(name)
	return Key(h.Sum64())
}

// KeyOf returns the structural key of m.
func KeyOf(m Member) (Key, error) {
	if m == nil {
		return 0, ormerr.InvalidArgument("cache.KeyOf", "member cannot be nil")
	}
	declaring := m.DeclaringType()
	if declaring == "" {
		return 0, ormerr.InvalidArgument("cache.KeyOf", "member has no declaring type")
	}
	return GenerateKey(m.MemberKind(), declaring, m.MemberName()), nil
}
