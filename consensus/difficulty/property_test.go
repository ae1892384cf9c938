// Copyright (c) 2025 CNR Reserve developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package difficulty

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"pgregory.net/rapid"

	"github.com/cnreserve/cnrd/consensus/types"
)

// TestNextNeverReturnsZeroForMonotonicWindow is a property test over
// arbitrary strictly increasing cumulative-difficulty windows with
// strictly increasing timestamps: no variant may hand back a zero
// difficulty for a non-empty, non-degenerate window, since that would
// stall a chain forever. V4 is exempt -- it documents 0 as a genuine
// overflow sentinel, reachable from a generator with wide enough range.
func TestNextNeverReturnsZeroForMonotonicWindow(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(2, 64).Draw(rt, "n")
		target := rapid.Int64Range(30, 240).Draw(rt, "target")
		slope := rapid.Uint64Range(1, 1_000_000).Draw(rt, "slope")

		ts := make([]int64, n)
		cd := make([]uint64, n)
		for i := 0; i < n; i++ {
			ts[i] = int64(i) * target
			cd[i] = uint64(i) * slope
		}

		for _, algo := range []Algorithm{AlgoV1, AlgoV2, AlgoV3} {
			got := dispatch(algo, ts, cd, target)
			if got == 0 {
				rt.Fatalf("algorithm %v returned 0 for monotonic window:\n%s",
					algo, spew.Sdump(ts, cd))
			}
		}
	})
}

// dispatch is a small test-only indirection so the property above can
// iterate variants without hand-duplicating the three call shapes.
func dispatch(algo Algorithm, ts []int64, cd []uint64, target int64) types.Difficulty {
	switch algo {
	case AlgoV1:
		return V1(ts, cd, target)
	case AlgoV2:
		return V2(ts, cd, target)
	case AlgoV3:
		return V3(ts, cd, target)
	default:
		return V4(ts, cd, target)
	}
}
