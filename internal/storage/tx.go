package storage

import (
	"bytes"
	"encoding/binary"
	"math"

	"go.etcd.io/bbolt"
	"go.uber.org/zap"

	"github.com/berrythewa/clipman-history/internal/fingerprint"
	"github.com/berrythewa/clipman-history/internal/types"
)

// Tx is a view of the store inside one bbolt transaction. Every mutation of an
// entry, its fingerprint mapping and its recency key happens through the same
// Tx, so readers never observe one without the others.
type Tx struct {
	tx           *bbolt.Tx
	items        *bbolt.Bucket
	fingerprints *bbolt.Bucket
	recency      *bbolt.Bucket
	pinned       *bbolt.Bucket
	meta         *bbolt.Bucket

	compressThreshold int
	logger            *zap.Logger
}

func storeErr(err error, op string) error {
	if err == nil {
		return nil
	}
	return types.Wrapf(types.ErrStoreUnavailable, "%s: %v", op, err)
}

func inconsistent(format string, args ...interface{}) error {
	return types.Wrapf(types.ErrIndexInconsistent, format, args...)
}

// Lookup resolves a fingerprint to the id of its active entry
func (t *Tx) Lookup(fp fingerprint.Fingerprint) (int64, bool, error) {
	v := t.fingerprints.Get(fp)
	if v == nil {
		return 0, false, nil
	}
	id := keyID(v)
	if t.items.Get(idKey(id)) == nil {
		return 0, false, inconsistent("fingerprint %s maps to missing entry %d", fp, id)
	}
	return id, true, nil
}

// Upsert points a fingerprint at an entry id
func (t *Tx) Upsert(fp fingerprint.Fingerprint, id int64) error {
	return storeErr(t.fingerprints.Put(fp, idKey(id)), "upsert fingerprint")
}

// RemoveFingerprint drops a fingerprint mapping
func (t *Tx) RemoveFingerprint(fp fingerprint.Fingerprint) error {
	return storeErr(t.fingerprints.Delete(fp), "remove fingerprint")
}

// Insert stores a new entry under a freshly allocated id and indexes it.
// createdAt is clamped so it never runs behind an earlier write.
func (t *Tx) Insert(item *types.NewItem, fp fingerprint.Fingerprint) (int64, error) {
	if existing := t.fingerprints.Get(fp); existing != nil {
		return 0, inconsistent("fingerprint %s already maps to entry %d", fp, keyID(existing))
	}

	seq, err := t.items.NextSequence()
	if err != nil {
		return 0, storeErr(err, "allocate id")
	}
	id := int64(seq)

	createdAt, err := t.advanceClock(item.CreatedAt, false)
	if err != nil {
		return 0, err
	}
	e := newEntry(id, item, fp, createdAt)
	if err := t.put(e); err != nil {
		return 0, err
	}
	if err := t.recency.Put(recencyKey(createdAt, id), []byte{}); err != nil {
		return 0, storeErr(err, "index recency")
	}
	if err := t.Upsert(fp, id); err != nil {
		return 0, err
	}
	if err := t.addCounter(metaCount, 1); err != nil {
		return 0, err
	}

	t.logger.Debug("Inserted entry",
		zap.Int64("id", id),
		zap.String("format", string(item.Format)),
		zap.String("fingerprint", fp.String()),
		zap.Int64("created_at", createdAt))
	return id, nil
}

// Bump moves an existing entry to the front of recency order. The id is
// unchanged. The recorded createdAt, which is returned, is strictly later than
// any other entry's so the bumped entry cannot lose a tie on id.
func (t *Tx) Bump(id, createdAt int64) (int64, error) {
	e, ok, err := t.Get(id)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, types.Wrapf(types.ErrNotFound, "bump %d", id)
	}
	if mapped := t.fingerprints.Get(e.Fingerprint); mapped == nil || keyID(mapped) != id {
		return 0, inconsistent("entry %d is not indexed under its fingerprint", id)
	}

	if err := t.recency.Delete(recencyKey(e.CreatedAt, id)); err != nil {
		return 0, storeErr(err, "unindex recency")
	}
	if e.CreatedAt, err = t.advanceClock(createdAt, true); err != nil {
		return 0, err
	}
	if err := t.put(e); err != nil {
		return 0, err
	}
	if err := t.recency.Put(recencyKey(e.CreatedAt, id), []byte{}); err != nil {
		return 0, storeErr(err, "index recency")
	}

	t.logger.Debug("Bumped entry", zap.Int64("id", id), zap.Int64("created_at", e.CreatedAt))
	return e.CreatedAt, nil
}

// Get returns the entry with the given id; unknown ids report ok=false
func (t *Tx) Get(id int64) (*Entry, bool, error) {
	v := t.items.Get(idKey(id))
	if v == nil {
		return nil, false, nil
	}
	e, err := t.decode(v)
	if err != nil {
		return nil, false, err
	}
	return e, true, nil
}

// Delete removes an entry together with its fingerprint and recency records
func (t *Tx) Delete(id int64) error {
	e, ok, err := t.Get(id)
	if err != nil {
		return err
	}
	if !ok {
		return types.Wrapf(types.ErrNotFound, "delete %d", id)
	}

	if mapped := t.fingerprints.Get(e.Fingerprint); mapped != nil {
		if keyID(mapped) != id {
			return inconsistent("fingerprint of entry %d maps to entry %d", id, keyID(mapped))
		}
		if err := t.RemoveFingerprint(e.Fingerprint); err != nil {
			return err
		}
	}
	if err := t.items.Delete(idKey(id)); err != nil {
		return storeErr(err, "delete entry")
	}
	if err := t.recency.Delete(recencyKey(e.CreatedAt, id)); err != nil {
		return storeErr(err, "unindex recency")
	}
	if e.Pinned {
		if err := t.pinned.Delete(idKey(id)); err != nil {
			return storeErr(err, "unpin")
		}
		if err := t.addCounter(metaPinned, -1); err != nil {
			return err
		}
	}
	if err := t.addCounter(metaCount, -1); err != nil {
		return err
	}

	t.logger.Debug("Deleted entry", zap.Int64("id", id))
	return nil
}

// SetPinned changes whether an entry is protected from eviction
func (t *Tx) SetPinned(id int64, pinned bool) error {
	e, ok, err := t.Get(id)
	if err != nil {
		return err
	}
	if !ok {
		return types.Wrapf(types.ErrNotFound, "pin %d", id)
	}
	if e.Pinned == pinned {
		return nil
	}

	e.Pinned = pinned
	if err := t.put(e); err != nil {
		return err
	}
	if pinned {
		if err := t.pinned.Put(idKey(id), []byte{}); err != nil {
			return storeErr(err, "pin")
		}
		return t.addCounter(metaPinned, 1)
	}
	if err := t.pinned.Delete(idKey(id)); err != nil {
		return storeErr(err, "unpin")
	}
	return t.addCounter(metaPinned, -1)
}

// IsPinned reports whether id is pinned without decoding the entry
func (t *Tx) IsPinned(id int64) bool {
	return t.pinned.Get(idKey(id)) != nil
}

// Count returns the number of active entries
func (t *Tx) Count() int64 {
	return t.counter(metaCount)
}

// CountUnpinned returns the number of active entries eligible for eviction
func (t *Tx) CountUnpinned() int64 {
	return t.counter(metaCount) - t.counter(metaPinned)
}

// OldestUnpinned returns the id of the least recent entry that is not pinned
func (t *Tx) OldestUnpinned() (int64, bool) {
	c := t.recency.Cursor()
	for k, _ := c.First(); k != nil; k, _ = c.Next() {
		_, id := splitRecencyKey(k)
		if !t.IsPinned(id) {
			return id, true
		}
	}
	return 0, false
}

// Scan walks entries with createdAt in [start, end] most-recent-first, ties
// broken by id descending, until fn returns false.
func (t *Tx) Scan(start, end int64, fn func(*Entry) bool) error {
	if start > end {
		return nil
	}
	c := t.recency.Cursor()
	upper := recencyKey(end, math.MaxInt64)

	k, _ := c.Seek(upper)
	if k == nil {
		k, _ = c.Last()
	} else if bytes.Compare(k, upper) > 0 {
		k, _ = c.Prev()
	}

	for ; k != nil; k, _ = c.Prev() {
		createdAt, id := splitRecencyKey(k)
		if createdAt < start {
			break
		}
		e, ok, err := t.Get(id)
		if err != nil {
			return err
		}
		if !ok {
			return inconsistent("recency index references missing entry %d", id)
		}
		if !fn(e) {
			break
		}
	}
	return nil
}

func (t *Tx) put(e *Entry) error {
	v, err := encodeEntry(e, t.compressThreshold)
	if err != nil {
		return err
	}
	return storeErr(t.items.Put(idKey(e.ID), v), "write entry")
}

func (t *Tx) decode(v []byte) (*Entry, error) {
	e, err := decodeEntry(v)
	if err != nil {
		return nil, storeErr(err, "read entry")
	}
	return e, nil
}

// advanceClock returns max(createdAt, last recorded createdAt) and records it.
// With strict set the result is always past the last recorded value. A zero
// createdAt means now.
func (t *Tx) advanceClock(createdAt int64, strict bool) (int64, error) {
	if createdAt <= 0 {
		createdAt = types.NowMillis()
	}
	last := t.counter(metaClock)
	switch {
	case strict && createdAt <= last:
		createdAt = last + 1
	case createdAt < last:
		createdAt = last
	}
	return createdAt, t.setCounter(metaClock, createdAt)
}

func (t *Tx) counter(key []byte) int64 {
	v := t.meta.Get(key)
	if len(v) != 8 {
		return 0
	}
	return int64(binary.BigEndian.Uint64(v))
}

func (t *Tx) setCounter(key []byte, n int64) error {
	v := make([]byte, 8)
	binary.BigEndian.PutUint64(v, uint64(n))
	return storeErr(t.meta.Put(key, v), "write counter")
}

func (t *Tx) addCounter(key []byte, delta int64) error {
	return t.setCounter(key, t.counter(key)+delta)
}
