// Copyright (c) 2025 CNR Reserve developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package rpcshim defines the JSON-RPC command and result structs that
// expose the consensus core to external callers, in the same
// jsonrpcusage-tagged struct style the teacher's btcjson package uses
// for its own command set. This package only carries the wire structs:
// the actual JSON-RPC transport and dispatch server are out of scope.
package rpcshim

import "github.com/btcsuite/btcd/btcutil"

// GetDifficultyCmd defines the getdifficulty JSON-RPC command: the next
// required difficulty for a given network at its current tip.
type GetDifficultyCmd struct {
	Request *GetDifficultyRequest `jsonrpcusage:"{}"`
}

// GetDifficultyRequest is the request body for GetDifficultyCmd.
type GetDifficultyRequest struct {
	Network string `json:"network"` // "mainnet", "testnet", or "stagenet"
}

// GetDifficultyResult is the result of getdifficulty.
type GetDifficultyResult struct {
	Difficulty uint64 `json:"difficulty"`
	Algorithm  string `json:"algorithm"` // "v1", "v2", "v3", or "v4"
	Target     int64  `json:"target_seconds"`
}

// PreviewBlockRewardCmd defines the previewblockreward JSON-RPC command:
// evaluates the reward formula for a hypothetical candidate block
// without requiring it to exist on any chain.
type PreviewBlockRewardCmd struct {
	MedianSize       uint64 `json:"median_size"`
	CurrentSize      uint64 `json:"current_size"`
	AlreadyGenerated uint64 `json:"already_generated"`
	Version          uint8  `json:"version"`
	Height           uint64 `json:"height"`
	Network          string `json:"network"`
}

// PreviewBlockRewardResult is the result of previewblockreward. Display
// formats the atomic-unit reward with btcutil.Amount.String, whose
// 1e8-units-per-coin scale matches this chain's own atomic-unit scale;
// the string is the shortest decimal form followed by btcutil's " BTC"
// unit label ("1 BTC" for 100_000_000 units).
type PreviewBlockRewardResult struct {
	Reward  uint64 `json:"reward"`
	Display string `json:"display"`
}

// NewPreviewBlockRewardResult builds a PreviewBlockRewardResult from an
// atomic-unit reward amount.
func NewPreviewBlockRewardResult(atomicUnits uint64) PreviewBlockRewardResult {
	return PreviewBlockRewardResult{
		Reward:  atomicUnits,
		Display: btcutil.Amount(atomicUnits).String(),
	}
}

// CheckpointQueryCmd defines the querycheckpoint JSON-RPC command: asks
// whether a height is checkpointed and, if so, what hash is pinned.
type CheckpointQueryCmd struct {
	Height  uint64 `json:"height"`
	Network string `json:"network"`
}

// CheckpointQueryResult is the result of querycheckpoint.
type CheckpointQueryResult struct {
	Pinned bool   `json:"pinned"`
	Hash   string `json:"hash,omitempty"`
}

// IsAlternativeAllowedCmd defines the isalternativeallowed JSON-RPC
// command: the reorg-depth guard exposed for peer ban-scoring and
// chain-selection callers.
type IsAlternativeAllowedCmd struct {
	ChainTip        uint64 `json:"chain_tip"`
	CandidateHeight uint64 `json:"candidate_height"`
	Network         string `json:"network"`
}

// IsAlternativeAllowedResult is the result of isalternativeallowed.
type IsAlternativeAllowedResult struct {
	Allowed bool `json:"allowed"`
}

// CheckHashCmd defines the checkhash JSON-RPC command: a direct PoW
// validity check for a supplied hash and difficulty, primarily useful
// to miners testing their own output before submission.
type CheckHashCmd struct {
	Hash       string `json:"hash"` // 64-hex, little-endian as consumed by pow.CheckHash
	Difficulty uint64 `json:"difficulty"`
}

// CheckHashResult is the result of checkhash.
type CheckHashResult struct {
	Valid bool `json:"valid"`
}
