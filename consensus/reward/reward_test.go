// Copyright (c) 2025 CNR Reserve developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package reward

import (
	"testing"

	"github.com/cnreserve/cnrd/consensus/cerr"
	"github.com/cnreserve/cnrd/consensus/types"
	"github.com/stretchr/testify/require"
)

func TestGenesisRewardIsFixedRegardlessOfOtherInputs(t *testing.T) {
	in := Inputs{MedianSize: 999, CurrentSize: 12345, AlreadyGenerated: 777, Version: 23, Height: 1}
	got, err := GetBlockReward(types.Main, in)
	require.NoError(t, err)
	require.EqualValues(t, 1_260_000_000_000, got)
}

func TestV20AirdropRewardIsFixedRegardlessOfOtherInputs(t *testing.T) {
	in := Inputs{MedianSize: 1, CurrentSize: 1, AlreadyGenerated: 0, Version: 1, Height: 1_132_597}
	got, err := GetBlockReward(types.Main, in)
	require.NoError(t, err)
	require.EqualValues(t, 3_333_333_333_310_301_990, got)
}

func TestCommunityAirdropHeightsShareOneValue(t *testing.T) {
	a, err := GetBlockReward(types.Main, Inputs{Version: 7, Height: 307003})
	require.NoError(t, err)
	b, err := GetBlockReward(types.Main, Inputs{Version: 10, Height: 310790})
	require.NoError(t, err)
	require.Equal(t, a, b)
}

// TestVersion7RewardMatchesShiftFormula is the seed scenario: the reward
// at height 307100 (past the genesis/airdrop heights, version 7) must
// equal (MONEY_SUPPLY - already_generated) >> 21, rounded down to a
// multiple of 10. Rounding applies at version 7 itself, not just above
// it -- see DESIGN.md for the resolution of this scenario against the
// ">7" condition a literal reading of step 5 would otherwise suggest.
func TestVersion7RewardMatchesShiftFormula(t *testing.T) {
	in := Inputs{MedianSize: 60_000, CurrentSize: 60_000, AlreadyGenerated: 0, Version: 7, Height: 307100}
	got, err := GetBlockReward(types.Main, in)
	require.NoError(t, err)

	want := moneySupply >> 21
	want -= want % 10
	require.EqualValues(t, want, got)
}

func TestRewardCapNeverExceedsBaseReward(t *testing.T) {
	in := Inputs{MedianSize: 60_000, AlreadyGenerated: 0, Version: 16, Height: 600_000}

	in.CurrentSize = in.MedianSize
	base, err := GetBlockReward(types.Main, in)
	require.NoError(t, err)

	for _, current := range []uint64{10_000, 60_000, 90_000, 120_000} {
		in.CurrentSize = current
		got, err := GetBlockReward(types.Main, in)
		if current > 2*in.MedianSize {
			require.Error(t, err)
			require.True(t, cerr.Is(err, cerr.ErrBlockTooLarge))
			continue
		}
		require.NoError(t, err)
		require.LessOrEqual(t, got, base)
		if current <= in.MedianSize {
			require.Equal(t, base, got)
		}
	}
}

func TestBlockTooLargeBeyondTwiceTheZone(t *testing.T) {
	// Version 16's full reward zone is 300_000 bytes, above the 60_000
	// median, so the limit is twice the zone: 600_000.
	in := Inputs{MedianSize: 60_000, CurrentSize: 600_001, AlreadyGenerated: 0, Version: 16, Height: 600_000}
	_, err := GetBlockReward(types.Main, in)
	require.Error(t, err)
	require.True(t, cerr.Is(err, cerr.ErrBlockTooLarge))
}

func TestTailEmissionAppliesOnceSupplyExhausted(t *testing.T) {
	// Version 1 always uses the plain emission-speed-factor shift (the
	// post-v7 polynomial branch requires version > 7), so a fully
	// exhausted supply drives base_reward to exactly zero and triggers
	// the tail-emission floor.
	in := Inputs{
		MedianSize:       60_000,
		CurrentSize:      60_000,
		AlreadyGenerated: moneySupplyETN,
		Version:          1,
		Height:           600_000,
	}
	got, err := GetBlockReward(types.Main, in)
	require.NoError(t, err)
	require.EqualValues(t, finalSubsidyPerMinute, got)
}

func TestRoundedToMultipleOfTenPostV7(t *testing.T) {
	in := Inputs{MedianSize: 300_000, CurrentSize: 300_000, AlreadyGenerated: 1, Version: 16, Height: 600_000}
	got, err := GetBlockReward(types.Main, in)
	require.NoError(t, err)
	require.Zero(t, got%10)
}
