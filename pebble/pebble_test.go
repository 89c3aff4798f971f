// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pebble

import (
	"crypto/rand"
	"fmt"
	"io"
	"testing"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/stretchr/testify/require"
)

const batchSize = 10_000

func randBytes() []byte {
	b := make([]byte, 32)
	_, err := rand.Read(b)
	if err != nil {
		panic(err)
	}
	return b
}

func newTestDB(t *testing.T) *Database {
	cfg := NewDefaultConfig()
	cfg.Sync = false
	db, _, err := New(t.TempDir(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestGetPutDelete(t *testing.T) {
	require := require.New(t)
	db := newTestDB(t)

	_, err := db.Get([]byte("alice"))
	require.ErrorIs(err, database.ErrNotFound)
	has, err := db.Has([]byte("alice"))
	require.NoError(err)
	require.False(has)

	require.NoError(db.Put([]byte("alice"), []byte{1, 2, 3}))
	v, err := db.Get([]byte("alice"))
	require.NoError(err)
	require.Equal([]byte{1, 2, 3}, v)
	has, err = db.Has([]byte("alice"))
	require.NoError(err)
	require.True(has)

	require.NoError(db.Delete([]byte("alice")))
	_, err = db.Get([]byte("alice"))
	require.ErrorIs(err, database.ErrNotFound)
}

func TestBatch(t *testing.T) {
	require := require.New(t)
	db := newTestDB(t)
	require.NoError(db.Put([]byte("gone"), []byte{0}))

	b := db.NewBatch()
	require.NoError(b.Put([]byte("alice"), []byte{1}))
	require.NoError(b.Put([]byte("bob"), []byte{2}))
	require.NoError(b.Delete([]byte("gone")))
	require.Equal(len("alice")+1+len("bob")+1+len("gone"), b.Size())

	// nothing is visible before write
	_, err := db.Get([]byte("alice"))
	require.ErrorIs(err, database.ErrNotFound)

	require.NoError(b.Write())
	v, err := db.Get([]byte("bob"))
	require.NoError(err)
	require.Equal([]byte{2}, v)
	_, err = db.Get([]byte("gone"))
	require.ErrorIs(err, database.ErrNotFound)

	// replaying the batch reproduces it elsewhere
	mem := memdb.New()
	require.NoError(b.Replay(mem))
	v, err = mem.Get([]byte("alice"))
	require.NoError(err)
	require.Equal([]byte{1}, v)

	b.Reset()
	require.Zero(b.Size())
}

func TestReopen(t *testing.T) {
	require := require.New(t)
	dir := t.TempDir()

	db, _, err := New(dir, NewDefaultConfig())
	require.NoError(err)
	require.NoError(db.Put([]byte("alice"), []byte{9}))
	require.NoError(db.Close())
	require.ErrorIs(db.Close(), database.ErrClosed)

	db, _, err = New(dir, NewDefaultConfig())
	require.NoError(err)
	v, err := db.Get([]byte("alice"))
	require.NoError(err)
	require.Equal([]byte{9}, v)
	require.NoError(db.Close())
}

func BenchmarkBatchInsertion(b *testing.B) {
	for _, sync := range []bool{false, true} {
		b.Run(fmt.Sprintf("sync=%t", sync), func(b *testing.B) {
			b.StopTimer()
			cfg := NewDefaultConfig()
			cfg.Sync = sync
			db, _, err := New(b.TempDir(), cfg)
			if err != nil {
				b.Fatal(err)
			}

			keys := make([][]byte, batchSize)
			for i := 0; i < batchSize; i++ {
				keys[i] = randBytes()
			}

			b.StartTimer()
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				batch := db.NewBatch()
				for j := 0; j < batchSize; j++ {
					if err := batch.Put(keys[j], randBytes()); err != nil {
						b.Fatal(err)
					}
				}
				if err := batch.Write(); err != nil {
					b.Fatal(err)
				}
			}
			b.StopTimer()

			if err := db.Close(); err != nil {
				b.Fatal(err)
			}
		})
	}
}

func TestBatchMetrics(t *testing.T) {
	require := require.New(t)

	cfg := NewDefaultConfig()
	cfg.Sync = false
	db, registry, err := New(t.TempDir(), cfg)
	require.NoError(err)
	defer db.Close()

	b := db.NewBatch()
	require.NoError(b.Put([]byte("alice"), []byte{1}))
	require.NoError(b.Write())

	families, err := registry.Gather()
	require.NoError(err)
	values := map[string]float64{}
	for _, f := range families {
		if m := f.GetMetric(); len(m) == 1 && m[0].GetCounter() != nil {
			values[f.GetName()] = m[0].GetCounter().GetValue()
		}
	}
	require.Equal(float64(1), values["ledger_db_batch_commits"])
	require.Equal(float64(len("alice")+1), values["ledger_db_batch_commit_bytes"])
}

func TestBatchRelease(t *testing.T) {
	require := require.New(t)
	db := newTestDB(t)

	b := db.NewBatch()
	require.Equal(int64(1), db.OpenBatches())
	require.NoError(b.Put([]byte("alice"), []byte{1}))
	require.NoError(b.Write())
	require.Zero(db.OpenBatches())

	// Closing a written batch is a no-op.
	closer, ok := b.(io.Closer)
	require.True(ok)
	require.NoError(closer.Close())
	require.Zero(db.OpenBatches())

	b.Reset()
	require.Equal(int64(1), db.OpenBatches())
	require.NoError(b.Put([]byte("bob"), []byte{2}))
	require.NoError(b.Write())
	require.Zero(db.OpenBatches())

	// Abandoned batches are released without committing.
	b = db.NewBatch()
	require.NoError(b.Put([]byte("carol"), []byte{3}))
	require.NoError(b.(io.Closer).Close())
	require.Zero(db.OpenBatches())

	has, err := db.Has([]byte("bob"))
	require.NoError(err)
	require.True(has)
	has, err = db.Has([]byte("carol"))
	require.NoError(err)
	require.False(has)
}
