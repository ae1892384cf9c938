// Package types defines the primitive data shared by every consensus
// package: network identity, chain height, the 32-byte block hash, and
// the raw inputs the reward formula consumes.
package types

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// NetworkType identifies which of the three declared networks (plus the
// Fake test harness) a consensus call is being evaluated against.
type NetworkType uint8

const (
	// Main is the production network.
	Main NetworkType = iota
	// Test is the public test network.
	Test
	// Stage is the staging network used ahead of mainnet activation.
	Stage
	// Fake is a test-harness-only network with no registered checkpoints
	// or fork schedule; it exists so unit tests never need mainnet data.
	Fake
)

// String returns the network's human-readable name.
func (n NetworkType) String() string {
	switch n {
	case Main:
		return "mainnet"
	case Test:
		return "testnet"
	case Stage:
		return "stagenet"
	case Fake:
		return "fakenet"
	default:
		return "unknown"
	}
}

// Height is a block height, strictly monotonic per chain.
type Height uint64

// Hash256 is an opaque 32-byte block hash, compared byte-exact. It is a
// plain alias of chainhash.Hash so callers get hex parsing and
// stringification for free without pulling consensus code into the hash
// package's orbit.
type Hash256 = chainhash.Hash

// Difficulty is the unsigned work target a candidate hash must satisfy.
// Zero is reserved as an error sentinel; valid difficulties are >= 1.
type Difficulty uint64

// ProtocolVersion labels a consensus-rule era, 1..23.
type ProtocolVersion uint8

// EmissionState is the portion of chain state the reward formula reads.
// It is maintained by the blockchain store; the consensus core only
// reads it.
type EmissionState struct {
	AlreadyGenerated uint64
}

// TimestampEntry is one observation in the recent-window view the
// difficulty engine consumes: the block's timestamp, the chain's
// cumulative difficulty through that block, and the block's size for
// reward-penalty purposes.
type TimestampEntry struct {
	Timestamp            int64
	CumulativeDifficulty uint64
	Size                 uint64
}
