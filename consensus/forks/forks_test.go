// Copyright (c) 2025 CNR Reserve developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package forks

import (
	"testing"

	"github.com/cnreserve/cnrd/consensus/types"
	"github.com/stretchr/testify/require"
)

func TestVersionAtBoundaries(t *testing.T) {
	tests := []struct {
		name   string
		height types.Height
		want   types.ProtocolVersion
	}{
		{"genesis", 0, 1},
		{"just before v7", 307002, 1},
		{"exactly v7", 307003, 7},
		{"just before v10", 310789, 9},
		{"exactly v10", 310790, 10},
		{"far future", 2_000_000, 23},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := VersionAt(types.Main, tt.height)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestVersionAtContinuityAcrossForkBoundary(t *testing.T) {
	// Fork-boundary continuity: height H-1 uses v_prev, height H uses
	// v_new, for every listed activation height.
	for _, a := range mainnetTable {
		if a.height == 0 {
			continue
		}
		before := VersionAt(types.Main, a.height-1)
		at := VersionAt(types.Main, a.height)
		require.Less(t, before, at, "activation height %d", a.height)
		require.Equal(t, a.version, at)
	}
}

func TestFakeNetworkStaysAtVersionOne(t *testing.T) {
	require.Equal(t, types.ProtocolVersion(1), VersionAt(types.Fake, 10_000_000))
}

func TestNamedHeightsOrdered(t *testing.T) {
	require.Less(t, V7Height(types.Main), V10Height(types.Main))
	require.Less(t, V10Height(types.Main), V14Height(types.Main))
	require.Less(t, V14Height(types.Main), V16Height(types.Main))
	require.Less(t, V16Height(types.Main), V20Height(types.Main))
	require.Less(t, V20Height(types.Main), V20BHeight(types.Main))
	require.Less(t, V20BHeight(types.Main), V23BHeight(types.Main))
}

func TestTestnetScalesDown(t *testing.T) {
	require.Equal(t, V7Height(types.Main)/10, V7Height(types.Test))
}
