package utils

import "hash/fnv"

const (
	fnvOffset64 = 14695981039346656037
	fnvPrime64  = 1099511628211
)

func U64(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}

func U64ToBytes(u uint64) []byte {
	return []byte{
		byte(u >> 56), byte(u >> 48), byte(u >> 40), byte(u >> 32),
		byte(u >> 24), byte(u >> 16), byte(u >> 8), byte(u),
	}
}

// Mix64 combines two hashes. The order of a and b matters.
func Mix64(a, b uint64) uint64 {
	h := fnv.New64a()
	h.Write(U64ToBytes(a))
	h.Write(U64ToBytes(b))
	return h.Sum64()
}

// Hasher is an allocation-free FNV-1a accumulator. Parts written with
// WriteString are separated by a zero byte so ("ab","c") and ("a","bc")
// hash differently.
type Hasher struct {
	sum uint64
}

func NewHasher() Hasher {
	return Hasher{sum: fnvOffset64}
}

func (h *Hasher) WriteByte(b byte) error {
	h.sum ^= uint64(b)
	h.sum *= fnvPrime64
	return nil
}

func (h *Hasher) WriteString(s string) {
	for i := 0; i < len(s); i++ {
		h.sum ^= uint64(s[i])
		h.sum *= fnvPrime64
	}
	_ = h.WriteByte(0)
}

func (h *Hasher) WriteUint64(u uint64) {
	for shift := 56; shift >= 0; shift -= 8 {
		_ = h.WriteByte(byte(u >> uint(shift)))
	}
}

func (h *Hasher) Sum64() uint64 {
	return h.sum
}
