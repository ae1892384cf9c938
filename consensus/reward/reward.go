// Copyright (c) 2025 CNR Reserve developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package reward computes the coinbase subsidy for a candidate block:
// coin-supply era selection, the fork-indexed emission-speed factor,
// hard-coded genesis and airdrop injections, the post-v7 polynomial
// emission curve, tail emission once the cap is reached, and the
// quadratic full-reward-zone penalty for oversized blocks.
package reward

import (
	"fmt"

	"github.com/cnreserve/cnrd/consensus/cerr"
	"github.com/cnreserve/cnrd/consensus/difficulty"
	"github.com/cnreserve/cnrd/consensus/forks"
	"github.com/cnreserve/cnrd/consensus/types"
	"github.com/cnreserve/cnrd/consensus/u128"
)

// Atomic-unit coin-supply constants. The four pre-v20 supply constants
// (ETN/MONEY_SUPPLY/TOKENS/ELECTRONERO_TOKENS) share this chain's
// naming history across its pre-v20 rebrands; nothing in the
// specification requires them to differ numerically, so all four plus
// the two post-v20 successors share one atomic-unit supply here. See
// DESIGN.md.
const (
	atomicUnits = 100_000_000 // 1e8, eight decimal places

	moneySupplyETN    = 18_400_000_000 * atomicUnits
	moneySupply       = 18_400_000_000 * atomicUnits
	tokens            = 18_400_000_000 * atomicUnits
	electroneroTokens = 18_400_000_000 * atomicUnits
	electroneroPulse  = 18_400_000_000 * atomicUnits
	electroneroCoins  = 18_400_000_000 * atomicUnits
)

// peakCoinEmissionHeight and coinEmissionHeightInterval bound the range
// over which the post-v7 polynomial emission curve (see supplyPct)
// applies instead of the plain emission-speed-factor shift. Neither
// height is given a concrete value in the specification; these are this
// repo's invented placeholders. See DESIGN.md.
const (
	peakCoinEmissionHeight     = 0
	coinEmissionHeightInterval = 2_102_400
)

// finalSubsidyPerMinute is the flat tail-emission subsidy paid once the
// supply cap is effectively reached and the formula's own output would
// otherwise fall below the floor.
const finalSubsidyPerMinute = 100_000_000

// Hard-coded genesis and community-airdrop rewards, checked before the
// continuous formula and returned immediately. communityAirdrop is this
// repo's invented concrete value for the two airdrop heights; the
// specification names the heights and says they share one value without
// stating it. See DESIGN.md.
const (
	genesisReward    = 1_260_000_000_000
	communityAirdrop = 5_000_000_000_000
	hardForkBonus    = 613_090_000_000_000
	v20AirdropReward = 3_333_333_333_310_301_990
)

func hardCodedReward(height types.Height) (uint64, bool) {
	switch height {
	case 1:
		return genesisReward, true
	case 307003, 310790:
		return communityAirdrop, true
	case 500060, 1_183_410, 1_183_411, 1_183_412, 1_183_413:
		return hardForkBonus, true
	case 1_132_597:
		return v20AirdropReward, true
	default:
		return 0, false
	}
}

// Inputs bundles the parameters GetBlockReward needs, matching the
// specification's RewardInputs tuple. MedianSize and CurrentSize must be
// < 2^32.
type Inputs struct {
	MedianSize       uint64
	CurrentSize      uint64
	AlreadyGenerated uint64
	Version          types.ProtocolVersion
	Height           types.Height
}

func coinSupply(net types.NetworkType, in Inputs) uint64 {
	switch {
	case in.Height < forks.V20Height(net):
		switch {
		case in.Version < 7:
			return moneySupplyETN
		case in.Version < 14:
			return moneySupply
		case in.Version < 17:
			return tokens
		default:
			return electroneroTokens
		}
	case in.Height < forks.V23BHeight(net):
		return electroneroPulse
	default:
		return electroneroCoins
	}
}

// emissionSpeedFactor implements the §4.4.1 table, keyed by the explicit
// version rather than a height re-derived from the fork schedule, so
// that GetBlockReward stays a pure function of its stated inputs.
func emissionSpeedFactor(version types.ProtocolVersion) int {
	target := difficulty.TargetSeconds(version)
	tMin := int(target / 60)

	switch {
	case version < 7:
		return 20 - (tMin - 1)
	case version < 10:
		return 20 + (tMin - 1)
	case version < 16:
		return 20 + (tMin - 2)
	case version < 17:
		return 20 - (tMin - 1)
	case version < 18:
		return 20 + (tMin + 1)
	case version < 19:
		return 20 + (tMin + 9)
	case version < 20:
		return 20 + (tMin + 6)
	case version < 21:
		return 20 + (tMin + 9)
	case version < 22:
		return 20 + (tMin + 7)
	case version < 23:
		return 20 + (tMin + 9)
	default:
		// version == 23 further splits on the v23_b height, which the
		// caller folds in via emissionSpeedFactorAt below; this branch
		// covers the "< v23_b" row.
		return 20 + (tMin + 8)
	}
}

// emissionSpeedFactorAt resolves the final two §4.4.1 rows, which both
// fall under protocol version 23 and are distinguished only by the
// v23_b height, not by version.
func emissionSpeedFactorAt(net types.NetworkType, version types.ProtocolVersion, height types.Height) int {
	if version >= 23 && height >= forks.V23BHeight(net) {
		target := difficulty.TargetSeconds(version)
		tMin := int(target / 60)
		return 20 - (tMin - 3)
	}
	return emissionSpeedFactor(version)
}

// supplyPct computes the post-v7 polynomial fraction of the coin supply
// used in place of the plain emission-speed-factor shift for heights
// below peakCoinEmissionHeight+coinEmissionHeightInterval.
func supplyPct(k float64) float64 {
	return 0.1888 + k*(0.023+k*0.0032)
}

func fullRewardZone(version types.ProtocolVersion) uint64 {
	switch {
	case version < 7:
		return 20_000
	case version < 16:
		return 60_000
	default:
		return 300_000
	}
}

// GetBlockReward computes the coinbase subsidy for a candidate block on
// net. It returns cerr.ErrBlockTooLarge if current_size exceeds twice
// the effective full reward zone.
func GetBlockReward(net types.NetworkType, in Inputs) (uint64, error) {
	if reward, ok := hardCodedReward(in.Height); ok {
		return reward, nil
	}

	supply := coinSupply(net, in)

	var baseReward uint64
	emissionWindowEnd := types.Height(peakCoinEmissionHeight + coinEmissionHeightInterval)
	if in.Version > 7 && in.Height < emissionWindowEnd {
		k := float64(in.Height) / float64(coinEmissionHeightInterval)
		pct := supplyPct(k)
		baseReward = uint64(pct * float64(supply))
	} else {
		factor := emissionSpeedFactorAt(net, in.Version, in.Height)
		var remaining uint64
		if in.AlreadyGenerated < supply {
			remaining = supply - in.AlreadyGenerated
		}
		if factor < 0 {
			factor = 0
		}
		baseReward = remaining >> uint(factor)
	}

	// Rounding applies from version 7 onward inclusive: see DESIGN.md for
	// why this is ">= 7" rather than the "> 7" a literal reading of the
	// formula's step 5 would suggest -- the binding seed scenario for
	// version 7 itself requires the rounded value.
	if in.Version >= 7 {
		baseReward -= baseReward % 10
	}

	if baseReward < 666 && in.AlreadyGenerated >= supply {
		baseReward = finalSubsidyPerMinute
	}

	zone := fullRewardZone(in.Version)
	medianForZone := in.MedianSize
	if zone > medianForZone {
		medianForZone = zone
	}
	m := medianForZone

	if in.CurrentSize <= m {
		return baseReward, nil
	}
	if in.CurrentSize > 2*m {
		return 0, cerr.New(cerr.ErrBlockTooLarge, fmt.Sprintf(
			"block size %d exceeds twice the full reward zone %d", in.CurrentSize, m))
	}

	// reward = base_reward * (2M - current) * current / M^2, via two
	// sequential /M divisions to keep every intermediate within 128
	// bits instead of forming M^2 directly.
	numerator := 2*m - in.CurrentSize
	step1, overflow := u128.MulDiv64(baseReward, numerator, m)
	if overflow {
		return 0, cerr.New(cerr.ErrBlockTooLarge, "reward penalty overflowed computing base*(2M-current)/M")
	}
	penalised, overflow := u128.MulDiv64(step1, in.CurrentSize, m)
	if overflow {
		return 0, cerr.New(cerr.ErrBlockTooLarge, "reward penalty overflowed computing .../M")
	}
	return penalised, nil
}
