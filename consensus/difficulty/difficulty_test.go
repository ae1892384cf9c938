// Copyright (c) 2025 CNR Reserve developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package difficulty

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSelectBoundaries(t *testing.T) {
	require.Equal(t, AlgoV1, Select(1))
	require.Equal(t, AlgoV1, Select(6))
	require.Equal(t, AlgoV2, Select(7))
	require.Equal(t, AlgoV2, Select(9))
	require.Equal(t, AlgoV3, Select(10))
	require.Equal(t, AlgoV3, Select(13))
	require.Equal(t, AlgoV4, Select(14))
	require.Equal(t, AlgoV4, Select(23))
}

func TestTargetSeconds(t *testing.T) {
	require.EqualValues(t, 60, TargetSeconds(1))
	require.EqualValues(t, 120, TargetSeconds(7))
	require.EqualValues(t, 120, TargetSeconds(13))
	require.EqualValues(t, 60, TargetSeconds(14))
}

func TestV1ShortWindowReturnsOne(t *testing.T) {
	require.EqualValues(t, 1, V1([]int64{100}, []uint64{5}, 60))
	require.EqualValues(t, 1, V1(nil, nil, 60))
}

func buildLinearWindow(n int, target int64, slope uint64) ([]int64, []uint64) {
	ts := make([]int64, n)
	cd := make([]uint64, n)
	for i := 0; i < n; i++ {
		ts[i] = int64(i) * target
		cd[i] = uint64(i) * slope
	}
	return ts, cd
}

func TestV1OnTargetWindow(t *testing.T) {
	ts, cd := buildLinearWindow(100, 60, 1000)
	d := V1(ts, cd, 60)
	require.InDelta(t, 1000, uint64(d), 1)
}

func TestV2OverflowSentinel(t *testing.T) {
	// A single-entry window is the documented "length <= 1" edge case,
	// which returns the same 1 as the overflow guard.
	require.EqualValues(t, 1, V2([]int64{1}, []uint64{1}, 60))

	// 2^63 work over a one-second span at a 60s target needs a quotient
	// of 30*2^64, which does not fit in 64 bits: the overflow guard
	// returns 1.
	require.EqualValues(t, 1, V2([]int64{0, 1}, []uint64{0, 1 << 63}, 60))
}

// TestV3LinearWindowWithinOneOfSlope is the seed scenario: 71 identical
// timestamps spaced exactly T apart with linearly increasing cumulative
// difficulty of slope D per block must return a value within 1 of D.
func TestV3LinearWindowWithinOneOfSlope(t *testing.T) {
	const target = 120
	const slope = 100
	ts, cd := buildLinearWindow(71, target, slope)

	got := V3(ts, cd, target)
	require.InDelta(t, slope, uint64(got), 1)
}

func TestV3ClampsToHistoricalBand(t *testing.T) {
	// A wildly slow window (huge solve times, tiny difficulty growth)
	// must still clamp to the documented floor.
	ts := []int64{0, 100_000_000, 200_000_000}
	cd := []uint64{0, 1, 2}
	got := V3(ts, cd, 120)
	require.GreaterOrEqual(t, uint64(got), uint64(lwmaFloor))
	require.LessOrEqual(t, uint64(got), uint64(lwmaCeil))
}

func TestV4ShortWindowReturnsOne(t *testing.T) {
	require.EqualValues(t, 1, V4([]int64{100}, []uint64{5}, 60))
}

func TestV4OnTargetWindow(t *testing.T) {
	// v4's result is scaled by the documented 99/100 factor relative to
	// the raw per-block slope, so an on-target window lands close to,
	// not exactly at, the slope.
	ts, cd := buildLinearWindow(61, 60, 1000)
	d := V4(ts, cd, 60)
	require.InDelta(t, 990, uint64(d), 1)
}

func TestAllVariantsReturnAtLeastOneForNonEmptyInput(t *testing.T) {
	ts, cd := buildLinearWindow(10, 60, 1)
	require.GreaterOrEqual(t, uint64(V1(ts, cd, 60)), uint64(1))
	require.GreaterOrEqual(t, uint64(V2(ts, cd, 60)), uint64(1))
	require.GreaterOrEqual(t, uint64(V3(ts, cd, 60)), uint64(1))
	require.GreaterOrEqual(t, uint64(V4(ts, cd, 60)), uint64(1))
}
