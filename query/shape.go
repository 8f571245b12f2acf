package query

import (
	"github.com/Konsultn-Engineering/minorm/utils"
)

// Shape fingerprints the structure of n: fields, operations, grouping, the
// arity of set operands and which scalar operands are null. Values are
// excluded, so two trees with the same shape translate to the same command
// text and bind Arguments in the same order.
func Shape(n Node) uint64 {
	h := utils.NewHasher()
	writeShape(&h, n)
	return h.Sum64()
}

func writeShape(h *utils.Hasher, n Node) {
	switch v := n.(type) {
	case nil:
		h.WriteString("nil")
	case *Condition:
		h.WriteString("c")
		h.WriteString(v.Field.Name)
		h.WriteString(v.Field.Column())
		h.WriteUint64(uint64(v.Operation))
		switch v.Operation {
		case OpIsNull, OpIsNotNull:
		case OpIn, OpNotIn, OpBetween, OpNotBetween:
			vs, ok := Values(v.Value)
			if !ok {
				h.WriteString("scalar")
			}
			h.WriteUint64(uint64(len(vs)))
		default:
			// nil is IS NULL for equality and an error elsewhere
			if IsNullValue(v.Value) {
				h.WriteString("null")
			}
		}
	case *Group:
		h.WriteString("g")
		h.WriteUint64(uint64(v.Op))
		if v.Not {
			h.WriteString("not")
		}
		h.WriteUint64(uint64(len(v.Children)))
		for _, c := range v.Children {
			writeShape(h, c)
		}
	default:
		h.WriteString("unknown")
	}
}

// Arguments lists the parameter values of n in the order a translation
// binds them: depth first, left to right, Between as low then high.
func Arguments(n Node) []any {
	var out []any
	appendArguments(&out, n)
	return out
}

func appendArguments(out *[]any, n Node) {
	switch v := n.(type) {
	case *Condition:
		switch v.Operation {
		case OpIsNull, OpIsNotNull:
		case OpIn, OpNotIn, OpBetween, OpNotBetween:
			vs, _ := Values(v.Value)
			*out = append(*out, vs...)
		default:
			if !IsNullValue(v.Value) {
				*out = append(*out, v.Value)
			}
		}
	case *Group:
		for _, c := range v.Children {
			appendArguments(out, c)
		}
	}
}
