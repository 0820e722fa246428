package badger

import (
	"context"
	"encoding/binary"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/searchwerk/katalog/core"
	"github.com/searchwerk/katalog/storage"
)

// writeChunkSize bounds the number of entries per write transaction so large
// catalogs don't hit badger's transaction size limit.
const writeChunkSize = 256

// IndexStore implements storage.IndexStore for BadgerDB.
//
// Documents and vectors are stored positionally under a generation number.
// Replace writes the new pair under a fresh generation, flips the meta key to
// point at it, then drops the superseded generation. Readers resolve the meta
// key and their generation inside a single snapshot-isolated transaction, so
// they see either the complete old index or the complete new one.
type IndexStore struct {
	backend *Backend
	mu      sync.Mutex // serializes rebuilds
}

var _ storage.IndexStore = (*IndexStore)(nil)

// NewIndexStore creates an index store on the given backend.
func NewIndexStore(backend *Backend) storage.IndexStore {
	return &IndexStore{backend: backend}
}

// Replace atomically swaps the entire stored index for the given pair.
func (s *IndexStore) Replace(ctx context.Context, documents []*core.Document, vectors [][]float32) error {
	if len(documents) != len(vectors) {
		return storage.ErrIndexMisaligned
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, _, err := s.readMeta()
	if err != nil {
		return err
	}
	next := current + 1

	// Stage the new generation. It is invisible to readers until the meta
	// key flips.
	for start := 0; start < len(documents); start += writeChunkSize {
		if err := ctx.Err(); err != nil {
			return err
		}

		end := min(start+writeChunkSize, len(documents))
		err := s.backend.WithTx(func(tx *badger.Txn) error {
			for i := start; i < end; i++ {
				docKey := makeIndexKey(indexDocPrefix, next, i)
				if err := tx.Set(docKey, storage.MarshalDocument(documents[i])); err != nil {
					return err
				}
				vecKey := makeIndexKey(indexVecPrefix, next, i)
				if err := tx.Set(vecKey, storage.MarshalVector(vectors[i])); err != nil {
					return err
				}
			}
			return tx.Commit()
		}, true)
		if err != nil {
			return err
		}
	}

	// Flip readers over to the new generation.
	err = s.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set([]byte(indexMetaKey), encodeMeta(next, len(documents))); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return err
	}

	// Reclaim the superseded generation. The swap already happened; a
	// failure here leaves garbage, not corruption.
	if current > 0 {
		if err := s.backend.DropPrefix(
			makeGenerationPrefix(indexDocPrefix, current),
			makeGenerationPrefix(indexVecPrefix, current),
		); err != nil {
			s.backend.logger.Warn("failed to drop superseded index generation",
				"generation", current, "err", err)
		}
	}

	return nil
}

// Load reads the current index generation into an immutable Snapshot.
func (s *IndexStore) Load(ctx context.Context) (*storage.Snapshot, error) {
	snapshot := &storage.Snapshot{}

	err := s.backend.WithTx(func(tx *badger.Txn) error {
		generation, count, err := readMetaTx(tx)
		if err != nil {
			return err
		}
		if generation == 0 {
			// No index has been built yet.
			return nil
		}

		documents := make([]*core.Document, 0, count)
		err = iterateGeneration(tx, indexDocPrefix, generation, func(val []byte) error {
			doc, err := storage.UnmarshalDocument(val)
			if err != nil {
				return err
			}
			documents = append(documents, doc)
			return nil
		})
		if err != nil {
			return err
		}

		vectors := make([][]float32, 0, count)
		err = iterateGeneration(tx, indexVecPrefix, generation, func(val []byte) error {
			vector, err := storage.UnmarshalVector(val)
			if err != nil {
				return err
			}
			vectors = append(vectors, vector)
			return nil
		})
		if err != nil {
			return err
		}

		if len(documents) != len(vectors) {
			return storage.ErrIndexMisaligned
		}

		snapshot.Documents = documents
		snapshot.Vectors = vectors
		return nil
	}, false)

	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

// Count returns the number of documents in the current generation.
func (s *IndexStore) Count(ctx context.Context) (int, error) {
	_, count, err := s.readMeta()
	return count, err
}

// Close releases resources held by the store. The underlying backend is
// owned and closed by the caller that opened it.
func (s *IndexStore) Close() error {
	return nil
}

// readMeta reads the current generation and document count.
func (s *IndexStore) readMeta() (generation uint64, count int, err error) {
	err = s.backend.WithTx(func(tx *badger.Txn) error {
		generation, count, err = readMetaTx(tx)
		return err
	}, false)
	return
}

func readMetaTx(tx *badger.Txn) (generation uint64, count int, err error) {
	item, err := tx.Get([]byte(indexMetaKey))
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return 0, 0, nil
		}
		return 0, 0, err
	}
	err = item.Value(func(val []byte) error {
		if len(val) != 16 {
			return storage.ErrTruncatedData
		}
		generation = binary.BigEndian.Uint64(val[:8])
		count = int(binary.BigEndian.Uint64(val[8:]))
		return nil
	})
	return
}

func encodeMeta(generation uint64, count int) []byte {
	buf := make([]byte, 16)
	binary.BigEndian.PutUint64(buf[:8], generation)
	binary.BigEndian.PutUint64(buf[8:], uint64(count))
	return buf
}

// iterateGeneration visits the values of one artifact's generation in
// positional order.
func iterateGeneration(tx *badger.Txn, prefix string, generation uint64, fn func(val []byte) error) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = makeGenerationPrefix(prefix, generation)
	iter := tx.NewIterator(opts)
	defer iter.Close()

	for iter.Rewind(); iter.Valid(); iter.Next() {
		if err := iter.Item().Value(fn); err != nil {
			return err
		}
	}
	return nil
}
