// Copyright (c) 2025 CNR Reserve developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package pow validates a candidate proof-of-work hash against a target
// difficulty. It consumes a hash produced elsewhere (the CryptoNight
// family of primitives this chain uses is out of scope here); this
// package only does the 256x64-bit multiply-with-carry that decides
// whether that hash clears the bar.
package pow

import (
	"math/bits"

	"github.com/cnreserve/cnrd/consensus/types"
)

// CheckHash reports whether hash clears difficulty d: interpreting hash
// as a little-endian 256-bit integer (hash[0] is the global
// least-significant byte), the result is true iff hash <= 2^256/d --
// equivalently, the 320-bit product hash*d does not exceed 2^256. The
// one boundary value where the product equals exactly 2^256 (the top
// word of the 320-bit result is 1 and every lower word is 0) is also
// accepted: "hash <= 2^256/d" holds with equality there even though the
// product itself needs one more bit than 256 to represent. See
// DESIGN.md for this boundary-case decision.
//
// hash is split into four little-endian 64-bit limbs and multiplied by
// d with carry propagated across limbs. The highest limb is checked
// first so that a product which overflows well past the boundary is
// rejected immediately, the same early-out the source takes since most
// random hashes fail at the top limb.
func CheckHash(hash types.Hash256, d types.Difficulty) bool {
	if d == 0 {
		return false
	}
	dd := uint64(d)

	var limb [4]uint64
	for i := 0; i < 4; i++ {
		limb[i] = leUint64(hash[i*8 : i*8+8])
	}

	// If limb[3]*d alone already contributes 2 or more to the word above
	// 256 bits, the final result exceeds the boundary regardless of the
	// lower limbs' carries, so most random hashes fail here immediately.
	hi3, _ := bits.Mul64(limb[3], dd)
	if hi3 >= 2 {
		return false
	}

	// Walk every limb low-to-high, carrying each product's high word into
	// the next limb's low word, exactly mirroring long multiplication of
	// a 4-limb number by a scalar, and keep the low-256-bit result words
	// this time -- they are needed to recognise the exact-2^256 boundary.
	var result [4]uint64
	var carry uint64
	for i := 0; i < 4; i++ {
		hi, lo := bits.Mul64(limb[i], dd)
		sum, c := bits.Add64(lo, carry, 0)
		result[i] = sum
		carry = hi + c
	}

	switch carry {
	case 0:
		return true
	case 1:
		return result[0] == 0 && result[1] == 0 && result[2] == 0 && result[3] == 0
	default:
		return false
	}
}

func leUint64(b []byte) uint64 {
	return uint64(b[0]) | uint64(b[1])<<8 | uint64(b[2])<<16 | uint64(b[3])<<24 |
		uint64(b[4])<<32 | uint64(b[5])<<40 | uint64(b[6])<<48 | uint64(b[7])<<56
}
