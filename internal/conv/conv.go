// Package conv provides checked integer conversions for arena indices.
//
// Node and group indices are stored narrow inside compiled programs. Overflow
// here means the compiler produced more nodes than the program format can
// address, which is a programming error, so these helpers panic.
package conv

import "math"

// IntToUint32 converts n to uint32.
// Panics if n < 0 or n > math.MaxUint32.
//
//go:inline
func IntToUint32(n int) uint32 {
	if n < 0 || uint(n) > math.MaxUint32 {
		panic("integer overflow: int value out of uint32 range")
	}
	return uint32(n)
}

// IntToUint8 converts n to uint8.
// Panics if n < 0 or n > math.MaxUint8.
//
//go:inline
func IntToUint8(n int) uint8 {
	if n < 0 || n > math.MaxUint8 {
		panic("integer overflow: int value out of uint8 range")
	}
	return uint8(n)
}
