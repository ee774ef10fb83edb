package badger

import (
	"context"
	"encoding/binary"
	"math"
	"slices"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/agentspace/core"
	"github.com/poiesic/agentspace/storage"
)

// VectorStore implements storage.VectorStore for BadgerDB.
//
// Each agent owns one collection. Records are stored under composite keys
// ordered by record ID, with a secondary index from file name to record ID
// so that removing a document removes every vector it produced. Vectors are
// normalized to unit length on write, which makes the dot product in Nearest
// equal to cosine similarity.
type VectorStore struct {
	backend *Backend
}

var _ storage.VectorStore = (*VectorStore)(nil)

// NewVectorStore creates a new VectorStore.
func NewVectorStore(backend *Backend) (*VectorStore, error) {
	return &VectorStore{
		backend: backend,
	}, nil
}

// Close releases resources. VectorStore has no resources to release.
func (s *VectorStore) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (s *VectorStore) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.backend.WithTransaction(ctx, fn)
}

// EnsureCollection creates the collection for the given agent if it does not exist.
func (s *VectorStore) EnsureCollection(ctx context.Context, key core.AgentID) error {
	return s.backend.WithTx(func(tx *badger.Txn) error {
		metaKey := makeCollectionMetaKey(key)
		_, err := tx.Get(metaKey)
		if err == nil {
			return nil
		}
		if err != badger.ErrKeyNotFound {
			return err
		}
		if err := tx.Set(metaKey, marshalDimension(0)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// Upsert writes records into the agent's collection, keyed by record ID.
// All vectors in a collection must share a dimensionality; the first write
// pins it. A mismatch fails with storage.ErrDimensionMismatch before any
// record is written.
func (s *VectorStore) Upsert(ctx context.Context, key core.AgentID, records ...*core.VectorRecord) error {
	if len(records) == 0 {
		return nil
	}

	return s.backend.WithTx(func(tx *badger.Txn) error {
		dim, _, err := readDimension(tx, key)
		if err != nil {
			return err
		}

		// Validate every record before writing anything
		for _, record := range records {
			if len(record.Vector) == 0 {
				return storage.ErrDimensionMismatch
			}
			if dim == 0 {
				dim = len(record.Vector)
			} else if len(record.Vector) != dim {
				return storage.ErrDimensionMismatch
			}
		}

		if err := tx.Set(makeCollectionMetaKey(key), marshalDimension(dim)); err != nil {
			return err
		}

		for _, record := range records {
			stored := *record
			stored.Vector = normalize(record.Vector)

			recordKey := makeVectorRecordKey(key, record.Id)
			if err := tx.Set(recordKey, storage.MarshalVectorRecord(&stored)); err != nil {
				return err
			}

			fileKey := makeVectorFileKey(key, record.FileName, record.Id)
			if err := tx.Set(fileKey, storage.MarshalID(record.Id)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// Nearest returns up to topK records ranked by descending cosine similarity
// to the query vector. Score ties are broken by ascending record ID, so
// equal inputs always produce equal rankings. A missing collection yields
// no results.
func (s *VectorStore) Nearest(ctx context.Context, key core.AgentID, queryVector []float32, topK int) ([]*core.SearchResult, error) {
	var results []*core.SearchResult

	err := s.backend.WithTx(func(tx *badger.Txn) error {
		dim, exists, err := readDimension(tx, key)
		if err != nil {
			return err
		}
		if !exists || dim == 0 {
			return nil
		}
		if len(queryVector) != dim {
			return storage.ErrDimensionMismatch
		}

		query := normalize(queryVector)

		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeVectorScanPrefix(key)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			item := iter.Item()

			var record *core.VectorRecord
			err := item.Value(func(val []byte) error {
				var err error
				record, err = storage.UnmarshalVectorRecord(val)
				return err
			})
			if err != nil {
				return err
			}
			if record == nil || len(record.Vector) == 0 {
				continue
			}

			// Stored vectors are normalized, so this is cosine similarity
			score := dotProduct(query, record.Vector)
			results = append(results, &core.SearchResult{
				Record: record,
				Score:  score,
			})
		}
		return nil
	}, false)

	if err != nil {
		return nil, err
	}

	// Sort by similarity descending, ties by record ID ascending
	slices.SortFunc(results, func(a, b *core.SearchResult) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		if a.Record.Id < b.Record.Id {
			return -1
		}
		if a.Record.Id > b.Record.Id {
			return 1
		}
		return 0
	})

	if topK >= 0 && len(results) > topK {
		results = results[:topK]
	}

	return results, nil
}

// ListRecords returns every record in the agent's collection in ID order.
func (s *VectorStore) ListRecords(ctx context.Context, key core.AgentID) ([]*core.VectorRecord, error) {
	var results []*core.VectorRecord

	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeVectorScanPrefix(key)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var record *core.VectorRecord
			err := iter.Item().Value(func(val []byte) error {
				var err error
				record, err = storage.UnmarshalVectorRecord(val)
				return err
			})
			if err != nil {
				return err
			}
			if record != nil {
				results = append(results, record)
			}
		}
		return nil
	}, false)

	return results, err
}

// ListCollections returns the keys of all existing collections.
func (s *VectorStore) ListCollections(ctx context.Context) ([]core.AgentID, error) {
	var keys []core.AgentID

	err := s.backend.WithTx(func(tx *badger.Txn) error {
		prefix := []byte(collectionMetaPrefix + ":")

		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			key := iter.Item().Key()
			keys = append(keys, core.AgentID(strings.TrimPrefix(string(key), string(prefix))))
		}
		return nil
	}, false)

	return keys, err
}

// DeleteByFile removes every record sourced from the named document.
func (s *VectorStore) DeleteByFile(ctx context.Context, key core.AgentID, fileName string) error {
	return s.backend.WithTx(func(tx *badger.Txn) error {
		ids, err := collectKeys(tx, makeVectorFileScanPrefix(key, fileName))
		if err != nil {
			return err
		}

		for _, indexKey := range ids {
			recordKey := makeVectorRecordKey(key, recordIDFromKey(indexKey))
			if err := tx.Delete(recordKey); err != nil {
				return err
			}
			if err := tx.Delete(indexKey); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// DeleteCollection removes the collection and all of its records.
func (s *VectorStore) DeleteCollection(ctx context.Context, key core.AgentID) error {
	return s.backend.WithTx(func(tx *badger.Txn) error {
		recordKeys, err := collectKeys(tx, makeVectorScanPrefix(key))
		if err != nil {
			return err
		}
		indexKeys, err := collectKeys(tx, makeVectorFileCollectionPrefix(key))
		if err != nil {
			return err
		}

		for _, k := range recordKeys {
			if err := tx.Delete(k); err != nil {
				return err
			}
		}
		for _, k := range indexKeys {
			if err := tx.Delete(k); err != nil {
				return err
			}
		}
		if err := tx.Delete(makeCollectionMetaKey(key)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// Helper methods

// collectKeys gathers copies of every key under a prefix.
func collectKeys(tx *badger.Txn, prefix []byte) ([][]byte, error) {
	var keys [][]byte

	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	opts.PrefetchValues = false
	iter := tx.NewIterator(opts)
	defer iter.Close()

	for iter.Rewind(); iter.Valid(); iter.Next() {
		keys = append(keys, iter.Item().KeyCopy(nil))
	}
	return keys, nil
}

// readDimension reads a collection's pinned dimensionality.
// Returns (0, false, nil) when the collection does not exist.
func readDimension(tx *badger.Txn, key core.AgentID) (int, bool, error) {
	item, err := tx.Get(makeCollectionMetaKey(key))
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return 0, false, nil
		}
		return 0, false, err
	}

	var dim int
	err = item.Value(func(val []byte) error {
		if len(val) < 4 {
			return storage.ErrTruncatedData
		}
		dim = int(binary.BigEndian.Uint32(val))
		return nil
	})
	return dim, true, err
}

// marshalDimension encodes a collection's dimensionality.
func marshalDimension(dim int) []byte {
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, uint32(dim))
	return buf
}

// normalize returns a unit-length copy of the vector.
// A zero vector is returned unchanged.
func normalize(v []float32) []float32 {
	var sum float64
	for _, f := range v {
		sum += float64(f) * float64(f)
	}
	out := make([]float32, len(v))
	if sum == 0 {
		copy(out, v)
		return out
	}
	norm := float32(math.Sqrt(sum))
	for i, f := range v {
		out[i] = f / norm
	}
	return out
}

// dotProduct calculates the dot product of two vectors.
func dotProduct(a, b []float32) float32 {
	var sum float32
	minLen := len(a)
	if len(b) < minLen {
		minLen = len(b)
	}
	for i := 0; i < minLen; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
