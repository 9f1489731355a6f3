package clipboard

import (
	"go.uber.org/zap"

	"github.com/berrythewa/clipman-history/internal/fingerprint"
	"github.com/berrythewa/clipman-history/internal/metrics"
	"github.com/berrythewa/clipman-history/internal/retention"
	"github.com/berrythewa/clipman-history/internal/storage"
	"github.com/berrythewa/clipman-history/internal/types"
)

// Result describes what recording one capture did to the store
type Result struct {
	ID        int64
	CreatedAt int64
	Bumped    bool
	Evicted   []int64
}

// Recorder is the write path of the history: fingerprint, then insert or
// bump, then enforce retention, all in one store transaction.
type Recorder struct {
	store     *storage.BoltStorage
	retention *retention.Manager
	policy    fingerprint.Policy
	onEvict   func(ids []int64)
	logger    *zap.Logger
}

func NewRecorder(store *storage.BoltStorage, rm *retention.Manager, policy fingerprint.Policy, logger *zap.Logger) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{store: store, retention: rm, policy: policy, logger: logger}
}

// OnEvict registers a callback run after a commit that evicted entries
func (r *Recorder) OnEvict(fn func(ids []int64)) {
	r.onEvict = fn
}

// Record stores a capture. A capture whose fingerprint is already indexed
// refreshes the existing entry instead of adding a new one. Items that break
// the classification rules are rejected before anything is written.
func (r *Recorder) Record(item *types.NewItem) (*Result, error) {
	if err := Validate(item); err != nil {
		return nil, err
	}
	fp, err := r.policy.Compute(item)
	if err != nil {
		return nil, types.Wrapf(types.ErrInvalidArgument, "fingerprint: %v", err)
	}

	res := &Result{}
	err = r.store.Update(func(tx *storage.Tx) error {
		id, ok, err := tx.Lookup(fp)
		if err != nil {
			return err
		}
		if ok {
			res.ID, res.Bumped = id, true
			res.CreatedAt, err = tx.Bump(id, item.CreatedAt)
			return err
		}

		if res.ID, err = tx.Insert(item, fp); err != nil {
			return err
		}
		stored, _, err := tx.Get(res.ID)
		if err != nil {
			return err
		}
		res.CreatedAt = stored.CreatedAt
		res.Evicted, err = r.retention.Enforce(tx)
		return err
	})
	if err != nil {
		r.logger.Error("Failed to record capture",
			zap.String("format", string(item.Format)),
			zap.String("fingerprint", fp.String()),
			zap.Error(err))
		return nil, err
	}

	if res.Bumped {
		metrics.EntriesBumped.Inc()
	} else {
		metrics.EntriesInserted.Inc()
	}
	if len(res.Evicted) > 0 {
		metrics.EntriesEvicted.Add(float64(len(res.Evicted)))
		if r.onEvict != nil {
			r.onEvict(res.Evicted)
		}
	}

	r.logger.Info("Recorded clipboard capture",
		zap.Int64("id", res.ID),
		zap.Bool("bumped", res.Bumped),
		zap.String("format", string(item.Format)),
		zap.String("category", string(item.Category)),
		zap.Int("evicted", len(res.Evicted)))
	return res, nil
}
