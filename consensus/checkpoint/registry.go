// Copyright (c) 2025 CNR Reserve developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package checkpoint implements the checkpoint registry: an ordered,
// append-only map from block height to the expected block hash at that
// height, populated from hard-coded defaults, an optional JSON file, and
// optional DNS TXT records. It is the consensus core's only mutable
// state, and is safe for concurrent readers once loading completes.
package checkpoint

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/btcsuite/btclog"
	"github.com/decred/dcrd/lru"

	"github.com/cnreserve/cnrd/consensus/cerr"
	"github.com/cnreserve/cnrd/consensus/types"
)

// log is the package-scoped subsystem logger, following the teacher's
// btclog convention: silent until the host process calls UseLogger.
var log = btclog.Disabled

// UseLogger sets the subsystem logger used by this package.
func UseLogger(logger btclog.Logger) {
	log = logger
}

// Verdict is the successful outcome of CheckBlock.
type Verdict int

const (
	// Matched means the height is pinned and the candidate hash equals
	// the pinned hash.
	Matched Verdict = iota
	// NotPinned means the height has no checkpoint.
	NotPinned
)

// dnsSources is the fixed, per-network list of TXT record hosts queried
// by LoadFromDNS. Real hostnames are an operational detail the excerpted
// core does not own; these are placeholders fixed at compile time (config
// can turn DNS loading off but cannot change these hosts), matching the
// teacher's DNSSeed pattern in chaincfg.
var dnsSources = map[types.NetworkType][]string{
	types.Main:  {"checkpoints.main.cnreserve.org"},
	types.Test:  {"checkpoints.test.cnreserve.org"},
	types.Stage: {"checkpoints.stage.cnreserve.org"},
}

// Registry is an ordered, append-only height-to-hash map. The zero value
// is not usable; construct one with New.
type Registry struct {
	mu       sync.RWMutex
	byHeight map[types.Height]types.Hash256
	heights  []types.Height // kept sorted ascending

	// seen short-circuits redundant Add calls during a bulk load (JSON
	// immediately followed by several DNS sources, all of which may
	// repeat the same pinned heights) without taking the write lock for
	// entries this process already pinned.
	seen *lru.Cache
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		byHeight: make(map[types.Height]types.Hash256),
		seen:     lru.New(4096),
	}
}

func seenKey(height types.Height, hash types.Hash256) string {
	return strconv.FormatUint(uint64(height), 10) + ":" + hash.String()
}

// Add inserts a checkpoint. It returns nil if the height was unpinned or
// already pinned to the same hash (idempotent), and a cerr.RuleError
// with code ErrConflictingCheckpoint if the height is already pinned to
// a different hash.
func (r *Registry) Add(height types.Height, hash types.Hash256) error {
	key := seenKey(height, hash)
	if r.seen.Contains(key) {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.byHeight[height]
	if ok {
		if existing == hash {
			r.seen.Add(key)
			return nil
		}
		return cerr.New(cerr.ErrConflictingCheckpoint, fmt.Sprintf(
			"checkpoint conflict at height %d: have %s, got %s",
			height, existing, hash))
	}

	r.byHeight[height] = hash
	idx := sort.Search(len(r.heights), func(i int) bool { return r.heights[i] >= height })
	r.heights = append(r.heights, 0)
	copy(r.heights[idx+1:], r.heights[idx:])
	r.heights[idx] = height
	r.seen.Add(key)

	log.Debugf("Added checkpoint at height %d: %s", height, hash)
	return nil
}

// IsPinned reports whether height has a checkpoint.
func (r *Registry) IsPinned(height types.Height) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byHeight[height]
	return ok
}

// CheckBlock reports whether hash is consistent with any checkpoint
// pinned at height.
func (r *Registry) CheckBlock(height types.Height, hash types.Hash256) (Verdict, error) {
	r.mu.RLock()
	expected, ok := r.byHeight[height]
	r.mu.RUnlock()

	if !ok {
		return NotPinned, nil
	}
	if expected != hash {
		return Verdict(0), cerr.New(cerr.ErrCheckpointMismatch, fmt.Sprintf(
			"checkpoint mismatch at height %d: expected %s, got %s",
			height, expected, hash))
	}
	return Matched, nil
}

// MaxPinnedHeight returns the highest pinned height, or 0 if the
// registry is empty.
func (r *Registry) MaxPinnedHeight() types.Height {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.heights) == 0 {
		return 0
	}
	return r.heights[len(r.heights)-1]
}

// IsAlternativeAllowed reports whether an alternative chain may diverge
// from the main chain below chainTip to build a block at
// candidateHeight. A zero candidateHeight is never allowed. Otherwise
// the answer is true iff no checkpoint at or below chainTip exists, or
// the highest such checkpoint's height is less than candidateHeight:
// once a checkpoint is buried, the chain below it is frozen.
func (r *Registry) IsAlternativeAllowed(chainTip, candidateHeight types.Height) bool {
	if candidateHeight == 0 {
		return false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	// Find the highest pinned height <= chainTip.
	idx := sort.Search(len(r.heights), func(i int) bool { return r.heights[i] > chainTip })
	if idx == 0 {
		return true
	}
	highest := r.heights[idx-1]
	return highest < candidateHeight
}

// CheckForConflicts compares this registry against other over the
// intersection of their pinned heights, returning a ConflictingCheckpoint
// error on the first disagreement found.
func (r *Registry) CheckForConflicts(other *Registry) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	other.mu.RLock()
	defer other.mu.RUnlock()

	for height, hash := range r.byHeight {
		if otherHash, ok := other.byHeight[height]; ok && otherHash != hash {
			return cerr.New(cerr.ErrConflictingCheckpoint, fmt.Sprintf(
				"checkpoint conflict at height %d: %s vs %s",
				height, hash, otherHash))
		}
	}
	return nil
}

// InitDefault seeds the built-in checkpoint table for net. It panics if
// the hard-coded table itself conflicts, since that indicates a bug in
// this binary rather than bad external data — the same posture the
// teacher's chaincfg.mustRegister takes toward hard-coded registration
// data.
func (r *Registry) InitDefault(net types.NetworkType) {
	for _, cp := range defaultCheckpoints(net) {
		if err := r.Add(cp.Height, cp.Hash); err != nil {
			panic("checkpoint: corrupt built-in table: " + err.Error())
		}
	}
}

// jsonCheckpoint is the wire shape of one entry in the checkpoint JSON
// file.
type jsonCheckpoint struct {
	Height types.Height `json:"height"`
	Hash   string       `json:"hash"`
}

type jsonDocument struct {
	Checkpoints []jsonCheckpoint `json:"checkpoints"`
}

// LoadFromJSON reads checkpoints from a JSON file at path. A missing
// file is not an error: it returns nil with no additions, since the
// file is advisory and the defaults are authoritative. Entries at
// heights already pinned are silently ignored; only genuinely new
// entries are added (an entry that conflicts with an existing pin never
// reaches Add, so it is dropped without an ErrConflictingCheckpoint;
// LoadFromDNS, by contrast, calls Add directly and logs that error for
// a record that conflicts with an existing pin).
func (r *Registry) LoadFromJSON(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var doc jsonDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}

	for _, entry := range doc.Checkpoints {
		if r.IsPinned(entry.Height) {
			continue
		}
		hash, err := parseHexHash(entry.Hash)
		if err != nil {
			log.Warnf("Skipping malformed checkpoint JSON entry at height %d: %v",
				entry.Height, err)
			continue
		}
		if err := r.Add(entry.Height, hash); err != nil {
			log.Warnf("Skipping conflicting checkpoint JSON entry at height %d: %v",
				entry.Height, err)
		}
	}
	return nil
}

// LoadFromDNS queries the fixed per-network list of TXT record sources
// and adds every well-formed "<height>:<hex-hash>" record found. DNS is
// advisory: a lookup failure on any source is swallowed and the
// registry keeps its prior contents; a malformed record within a
// successful lookup is skipped without affecting the rest of the
// response.
func (r *Registry) LoadFromDNS(net types.NetworkType) error {
	sources := dnsSources[net]
	if len(sources) == 0 {
		return nil
	}

	resolver := net_Resolver()
	for _, host := range sources {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		records, err := resolver.LookupTXT(ctx, host)
		cancel()
		if err != nil {
			log.Debugf("Checkpoint DNS lookup of %s failed, ignoring: %v", host, err)
			continue
		}

		for _, record := range records {
			height, hash, err := parseDNSRecord(record)
			if err != nil {
				log.Debugf("Skipping malformed checkpoint DNS record from %s: %v", host, err)
				continue
			}
			if err := r.Add(height, hash); err != nil {
				log.Warnf("Skipping conflicting checkpoint DNS record from %s: %v", host, err)
			}
		}
	}
	return nil
}

// net_Resolver exists purely to keep the net.Resolver construction in
// one place; a future version might swap in a custom resolver for
// testing without touching LoadFromDNS itself.
func net_Resolver() *net.Resolver {
	return net.DefaultResolver
}

func parseHexHash(s string) (types.Hash256, error) {
	b, err := hex.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return types.Hash256{}, cerr.New(cerr.ErrInvalidHexHash, "invalid hex: "+err.Error())
	}
	if len(b) != 32 {
		return types.Hash256{}, cerr.New(cerr.ErrInvalidHexHash,
			fmt.Sprintf("expected 32 bytes, got %d", len(b)))
	}
	var h types.Hash256
	copy(h[:], b)
	return h, nil
}

// parseDNSRecord parses a "<decimal-height>:<64-hex-hash>" TXT record.
func parseDNSRecord(record string) (types.Height, types.Hash256, error) {
	parts := strings.SplitN(record, ":", 2)
	if len(parts) != 2 {
		return 0, types.Hash256{}, cerr.New(cerr.ErrInvalidDNSRecord, "missing ':' separator")
	}

	height, err := strconv.ParseUint(parts[0], 10, 64)
	if err != nil {
		return 0, types.Hash256{}, cerr.New(cerr.ErrInvalidDNSRecord, "bad height: "+err.Error())
	}

	hash, err := parseHexHash(parts[1])
	if err != nil {
		return 0, types.Hash256{}, cerr.New(cerr.ErrInvalidDNSRecord, "bad hash: "+err.Error())
	}

	return types.Height(height), hash, nil
}
