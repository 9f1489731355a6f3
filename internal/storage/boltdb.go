package storage

import (
	"encoding/binary"
	"iter"
	"math"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
	"go.uber.org/zap"

	"github.com/berrythewa/clipman-history/internal/types"
	"github.com/pkg/errors"
)

var (
	itemsBucket        = []byte("items")
	fingerprintsBucket = []byte("fingerprints")
	recencyBucket      = []byte("recency")
	pinnedBucket       = []byte("pinned")
	metaBucket         = []byte("meta")

	metaClock  = []byte("clock")
	metaCount  = []byte("count")
	metaPinned = []byte("pinned")
)

const (
	defaultOpenTimeout = 1 * time.Second
	defaultOpenRetries = 3
)

// BoltStorage is the durable content store. Entries, the fingerprint index and
// the recency index live in one bbolt file and are only ever mutated together
// inside a single read-write transaction.
type BoltStorage struct {
	db                *bbolt.DB
	path              string
	compressThreshold int
	logger            *zap.Logger
}

// StorageConfig holds configuration for BoltStorage initialization
type StorageConfig struct {
	DBPath            string
	CompressThreshold int
	OpenTimeout       time.Duration
	OpenRetries       int
	Logger            *zap.Logger
}

// NewBoltStorage opens (creating if needed) the history database. A database
// locked by another process is retried OpenRetries times before giving up.
func NewBoltStorage(config StorageConfig) (*BoltStorage, error) {
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := config.OpenTimeout
	if timeout <= 0 {
		timeout = defaultOpenTimeout
	}
	retries := config.OpenRetries
	if retries <= 0 {
		retries = defaultOpenRetries
	}

	if dir := filepath.Dir(config.DBPath); dir != "" {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, types.Wrapf(types.ErrStoreUnavailable, "failed to create %s: %v", dir, err)
		}
	}

	var db *bbolt.DB
	var err error
	for attempt := 1; attempt <= retries; attempt++ {
		db, err = bbolt.Open(config.DBPath, 0600, &bbolt.Options{Timeout: timeout})
		if err == nil {
			break
		}
		if !errors.Is(err, bbolt.ErrTimeout) {
			return nil, types.Wrapf(types.ErrStoreUnavailable, "failed to open bolt database: %v", err)
		}
		logger.Warn("History database is locked, retrying",
			zap.String("db_path", config.DBPath),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", retries))
	}
	if err != nil {
		return nil, types.Wrapf(types.ErrStoreUnavailable, "database %s still locked after %d attempts", config.DBPath, retries)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{itemsBucket, fingerprintsBucket, recencyBucket, pinnedBucket, metaBucket} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return errors.Wrapf(err, "failed to create bucket %s", name)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, types.Wrapf(types.ErrStoreUnavailable, "%v", err)
	}

	s := &BoltStorage{
		db:                db,
		path:              config.DBPath,
		compressThreshold: config.CompressThreshold,
		logger:            logger,
	}

	logger.Debug("BoltStorage initialized",
		zap.String("db_path", config.DBPath),
		zap.Int("compress_threshold", config.CompressThreshold))

	return s, nil
}

// Update runs fn in a read-write transaction. bbolt admits a single writer at a
// time so this is also the global writer lock. Commits are fsynced before
// Update returns.
func (s *BoltStorage) Update(fn func(tx *Tx) error) error {
	var fnErr error
	err := s.db.Update(func(btx *bbolt.Tx) error {
		fnErr = fn(s.wrap(btx))
		return fnErr
	})
	if err != nil && fnErr == nil {
		return types.Wrapf(types.ErrStoreUnavailable, "commit failed: %v", err)
	}
	return err
}

// View runs fn against a consistent read-only snapshot
func (s *BoltStorage) View(fn func(tx *Tx) error) error {
	var fnErr error
	err := s.db.View(func(btx *bbolt.Tx) error {
		fnErr = fn(s.wrap(btx))
		return fnErr
	})
	if err != nil && fnErr == nil {
		return types.Wrapf(types.ErrStoreUnavailable, "read failed: %v", err)
	}
	return err
}

func (s *BoltStorage) wrap(btx *bbolt.Tx) *Tx {
	return &Tx{
		tx:                btx,
		items:             btx.Bucket(itemsBucket),
		fingerprints:      btx.Bucket(fingerprintsBucket),
		recency:           btx.Bucket(recencyBucket),
		pinned:            btx.Bucket(pinnedBucket),
		meta:              btx.Bucket(metaBucket),
		compressThreshold: s.compressThreshold,
		logger:            s.logger,
	}
}

// Get returns the entry with the given id. Unknown ids report ok=false.
func (s *BoltStorage) Get(id int64) (entry *Entry, ok bool, err error) {
	err = s.View(func(tx *Tx) error {
		entry, ok, err = tx.Get(id)
		return err
	})
	return entry, ok, err
}

// Delete removes an entry and its index records
func (s *BoltStorage) Delete(id int64) error {
	return s.Update(func(tx *Tx) error {
		return tx.Delete(id)
	})
}

// SetPinned changes the pin state of an entry
func (s *BoltStorage) SetPinned(id int64, pinned bool) error {
	return s.Update(func(tx *Tx) error {
		return tx.SetPinned(id, pinned)
	})
}

// IterateByRecency yields every entry most-recent-first. Each range over the
// returned sequence reads its own snapshot, so the sequence is restartable.
// The consumer must not write to the store while iterating.
func (s *BoltStorage) IterateByRecency() iter.Seq2[*Entry, error] {
	return func(yield func(*Entry, error) bool) {
		err := s.View(func(tx *Tx) error {
			return tx.Scan(math.MinInt64, math.MaxInt64, func(e *Entry) bool {
				return yield(e, nil)
			})
		})
		if err != nil {
			yield(nil, err)
		}
	}
}

// Stats summarizes the store contents
func (s *BoltStorage) Stats() (*types.Stats, error) {
	stats := &types.Stats{ByFormat: make(map[types.Format]int64)}
	err := s.View(func(tx *Tx) error {
		stats.Total = tx.Count()
		stats.Pinned = tx.counter(metaPinned)
		stats.LastID = int64(tx.items.Sequence())
		stats.SizeOnDisk = tx.tx.Size()

		c := tx.recency.Cursor()
		if k, _ := c.First(); k != nil {
			stats.Oldest, _ = splitRecencyKey(k)
		}
		if k, _ := c.Last(); k != nil {
			stats.Newest, _ = splitRecencyKey(k)
		}

		return tx.items.ForEach(func(k, v []byte) error {
			e, err := tx.decode(v)
			if err != nil {
				return err
			}
			stats.ByFormat[e.Format]++
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// Path returns the database file path
func (s *BoltStorage) Path() string {
	return s.path
}

// Close releases the database file
func (s *BoltStorage) Close() error {
	if err := s.db.Close(); err != nil {
		return errors.Wrap(err, "failed to close bolt database")
	}
	return nil
}

func idKey(id int64) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, uint64(id))
	return k
}

func keyID(k []byte) int64 {
	return int64(binary.BigEndian.Uint64(k))
}

// recencyKey orders entries by createdAt, then id. A reverse cursor walk gives
// most-recent-first with ties broken by id descending.
func recencyKey(createdAt, id int64) []byte {
	k := make([]byte, 16)
	binary.BigEndian.PutUint64(k[:8], uint64(createdAt)^(1<<63))
	binary.BigEndian.PutUint64(k[8:], uint64(id))
	return k
}

func splitRecencyKey(k []byte) (createdAt, id int64) {
	createdAt = int64(binary.BigEndian.Uint64(k[:8]) ^ (1 << 63))
	id = int64(binary.BigEndian.Uint64(k[8:16]))
	return createdAt, id
}
