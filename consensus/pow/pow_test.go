// Copyright (c) 2025 CNR Reserve developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pow

import (
	"math/rand"
	"testing"

	"github.com/cnreserve/cnrd/consensus/types"
	"github.com/stretchr/testify/require"
)

func leHash(lowByte byte) types.Hash256 {
	var h types.Hash256
	h[0] = lowByte
	return h
}

// topHash builds a hash whose most-significant byte (h[31], the top of
// limb[3]) is topByte. spec.md's seed scenarios write hashes in
// big-endian-first hex notation ("80…00" means the TOP byte is 0x80),
// even though the value is stored and interpreted as little-endian
// limbs -- so "80…00" is 2^255, not 128.
func topHash(topByte byte) types.Hash256 {
	var h types.Hash256
	h[31] = topByte
	return h
}

func allOnesHash() types.Hash256 {
	var h types.Hash256
	for i := range h {
		h[i] = 0xff
	}
	return h
}

func TestCheckHashSeedScenarios(t *testing.T) {
	require.True(t, CheckHash(leHash(0x01), 1))
	require.False(t, CheckHash(allOnesHash(), 2))
	// hash = 2^255, d = 2: the product is exactly 2^256, the boundary
	// value "hash <= 2^256/d" accepts with equality.
	require.True(t, CheckHash(topHash(0x80), 2))
}

func TestCheckHashZeroDifficultyRejected(t *testing.T) {
	require.False(t, CheckHash(leHash(0x01), 0))
}

func TestCheckHashAcceptsLowLimbHashes(t *testing.T) {
	// A hash confined to its low 64 bits (limb[0] only), times a
	// difficulty that also fits in 64 bits, produces a product under
	// 2^128 -- nowhere near the 2^256 boundary CheckHash tests for -- so
	// CheckHash must always accept here. This samples random values in
	// that domain rather than any branching in the result, since the
	// domain never reaches the boundary.
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 200; i++ {
		var h types.Hash256
		v := rng.Uint64()
		h[0] = byte(v)
		h[1] = byte(v >> 8)
		h[2] = byte(v >> 16)
		h[3] = byte(v >> 24)
		h[4] = byte(v >> 32)
		h[5] = byte(v >> 40)
		h[6] = byte(v >> 48)
		h[7] = byte(v >> 56)

		d := types.Difficulty(rng.Uint64()%1_000_000 + 1)

		require.True(t, CheckHash(h, d), "v=%d d=%d", v, d)
	}
}

func TestCheckHashTopLimbEarlyOut(t *testing.T) {
	var h types.Hash256
	h[31] = 0xff // top limb maximal
	// d=2 leaves 1 in the word above 256 bits, so the full limb walk
	// rejects it on the nonzero low words.
	require.False(t, CheckHash(h, 2))
	// d=4 makes limb[3] alone contribute 3 there, so the early-out
	// rejects it.
	require.False(t, CheckHash(h, 4))
}
