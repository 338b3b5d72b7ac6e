// Package helpers provides safe numeric conversions.
//
// DNS section counts and RDATA lengths are uint16 on the wire but are
// naturally computed as int in Go. These helpers clamp instead of
// truncating so an oversized value can never wrap around into a small
// one.
package helpers

import "math"

// ClampInt restricts v to the range [lowerLimit, upperLimit].
func ClampInt(v, lowerLimit, upperLimit int) int {
	if v < lowerLimit {
		return lowerLimit
	}
	if v > upperLimit {
		return upperLimit
	}
	return v
}

// ClampIntToUint16 converts v to uint16, clamping to [0, 65535].
func ClampIntToUint16(v int) uint16 {
	return uint16(ClampInt(v, 0, math.MaxUint16)) //nolint:gosec // clamped to valid range
}

// ClampIntToUint32 converts v to uint32, clamping to [0, 4294967295].
// Used for TTL arithmetic.
func ClampIntToUint32(v int) uint32 {
	if v < 0 {
		return 0
	}
	if v > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(v) //nolint:gosec // clamped to valid range
}
