// Copyright (c) 2025 CNR Reserve developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpcshim

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewPreviewBlockRewardResultFormatsDisplayAmount(t *testing.T) {
	got := NewPreviewBlockRewardResult(100_000_000)
	require.EqualValues(t, 100_000_000, got.Reward)
	require.Equal(t, "1 BTC", got.Display)
}

func TestCommandsRoundTripJSON(t *testing.T) {
	cmd := CheckpointQueryCmd{Height: 1234, Network: "mainnet"}
	data, err := json.Marshal(cmd)
	require.NoError(t, err)

	var got CheckpointQueryCmd
	require.NoError(t, json.Unmarshal(data, &got))
	require.Equal(t, cmd, got)
}
