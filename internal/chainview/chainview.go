// Copyright (c) 2025 CNR Reserve developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package chainview defines the narrow read-only interface the
// consensus packages need from the blockchain store -- recent
// timestamps, cumulative difficulties, and block sizes for a height
// range, plus the running already-generated-coins counter -- without
// depending on the store's on-disk format. Two implementations are
// provided: an in-memory view for tests and a goleveldb-backed view for
// a real node.
package chainview

import (
	"encoding/binary"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/cnreserve/cnrd/consensus/types"
)

// ChainView is the blockchain-store collaborator the difficulty and
// reward engines read through; it performs no consensus judgement
// itself.
type ChainView interface {
	// RecentEntries returns up to count of the most recent entries at or
	// below tip, oldest first.
	RecentEntries(tip types.Height, count int) ([]types.TimestampEntry, error)

	// AlreadyGenerated returns the running coin-emission counter through
	// tip.
	AlreadyGenerated(tip types.Height) (uint64, error)
}

// MemoryView is a ChainView backed by an in-process slice, indexed by
// height starting at zero. It is intended for tests and for a freshly
// initialised chain before any persistent store is attached.
type MemoryView struct {
	entries  []types.TimestampEntry
	generated []uint64
}

// NewMemoryView constructs an empty MemoryView.
func NewMemoryView() *MemoryView {
	return &MemoryView{}
}

// Append adds the next block's entry and running generated-coin total.
func (v *MemoryView) Append(entry types.TimestampEntry, generated uint64) {
	v.entries = append(v.entries, entry)
	v.generated = append(v.generated, generated)
}

// RecentEntries implements ChainView.
func (v *MemoryView) RecentEntries(tip types.Height, count int) ([]types.TimestampEntry, error) {
	if int(tip) >= len(v.entries) {
		return nil, fmt.Errorf("chainview: tip %d beyond known height %d", tip, len(v.entries)-1)
	}
	start := int(tip) + 1 - count
	if start < 0 {
		start = 0
	}
	out := make([]types.TimestampEntry, int(tip)+1-start)
	copy(out, v.entries[start:int(tip)+1])
	return out, nil
}

// AlreadyGenerated implements ChainView.
func (v *MemoryView) AlreadyGenerated(tip types.Height) (uint64, error) {
	if int(tip) >= len(v.generated) {
		return 0, fmt.Errorf("chainview: tip %d beyond known height %d", tip, len(v.generated)-1)
	}
	return v.generated[tip], nil
}

// LevelDBView is a ChainView backed by a syndtr/goleveldb database,
// keyed by big-endian height so range scans stay ordered.
type LevelDBView struct {
	db *leveldb.DB
}

// OpenLevelDBView opens (or creates) the LevelDB database at dir.
func OpenLevelDBView(dir string) (*LevelDBView, error) {
	db, err := leveldb.OpenFile(dir, nil)
	if err != nil {
		return nil, fmt.Errorf("chainview: failed to open leveldb at %s: %w", dir, err)
	}
	return &LevelDBView{db: db}, nil
}

// Close releases the underlying database handle.
func (v *LevelDBView) Close() error {
	return v.db.Close()
}

func heightKey(prefix byte, height types.Height) []byte {
	key := make([]byte, 9)
	key[0] = prefix
	binary.BigEndian.PutUint64(key[1:], uint64(height))
	return key
}

const (
	prefixEntry     byte = 0x01
	prefixGenerated byte = 0x02
)

// PutEntry stores one block's timestamp/difficulty/size entry and its
// running generated-coin total, keyed by height.
func (v *LevelDBView) PutEntry(height types.Height, entry types.TimestampEntry, generated uint64) error {
	batch := new(leveldb.Batch)

	entryBuf := make([]byte, 24)
	binary.BigEndian.PutUint64(entryBuf[0:8], uint64(entry.Timestamp))
	binary.BigEndian.PutUint64(entryBuf[8:16], entry.CumulativeDifficulty)
	binary.BigEndian.PutUint64(entryBuf[16:24], entry.Size)
	batch.Put(heightKey(prefixEntry, height), entryBuf)

	genBuf := make([]byte, 8)
	binary.BigEndian.PutUint64(genBuf, generated)
	batch.Put(heightKey(prefixGenerated, height), genBuf)

	return v.db.Write(batch, nil)
}

// RecentEntries implements ChainView via a forward range scan over
// [tip-count+1, tip], yielding entries oldest first.
func (v *LevelDBView) RecentEntries(tip types.Height, count int) ([]types.TimestampEntry, error) {
	start := int64(tip) - int64(count) + 1
	if start < 0 {
		start = 0
	}

	rng := &util.Range{
		Start: heightKey(prefixEntry, types.Height(start)),
		Limit: append(heightKey(prefixEntry, tip), 0x00),
	}

	iter := v.db.NewIterator(rng, nil)
	defer iter.Release()

	var out []types.TimestampEntry
	for iter.Next() {
		val := iter.Value()
		if len(val) != 24 {
			return nil, fmt.Errorf("chainview: corrupt entry record (len %d)", len(val))
		}
		out = append(out, types.TimestampEntry{
			Timestamp:            int64(binary.BigEndian.Uint64(val[0:8])),
			CumulativeDifficulty: binary.BigEndian.Uint64(val[8:16]),
			Size:                 binary.BigEndian.Uint64(val[16:24]),
		})
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("chainview: iterator error: %w", err)
	}
	return out, nil
}

// AlreadyGenerated implements ChainView.
func (v *LevelDBView) AlreadyGenerated(tip types.Height) (uint64, error) {
	val, err := v.db.Get(heightKey(prefixGenerated, tip), nil)
	if err != nil {
		if err == leveldb.ErrNotFound {
			return 0, fmt.Errorf("chainview: no generated-coins record at height %d", tip)
		}
		return 0, err
	}
	if len(val) != 8 {
		return 0, fmt.Errorf("chainview: corrupt generated-coins record (len %d)", len(val))
	}
	return binary.BigEndian.Uint64(val), nil
}
