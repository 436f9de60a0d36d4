package migrate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/kilianp07/fleetdb/core/logger"
)

var (
	// ErrBrokenChain means the revision set has no single root-to-head
	// path: a missing link, a gap or a cycle.
	ErrBrokenChain = errors.New("broken revision chain")
	// ErrAmbiguousChain means more than one root or head exists, so the
	// upgrade order cannot be determined.
	ErrAmbiguousChain = errors.New("ambiguous revision chain")
	// ErrUnknownRevision means a requested or stamped revision is not part
	// of the chain.
	ErrUnknownRevision = errors.New("unknown revision")
)

// Base is the stamp value of a database that has no revision applied.
const Base = ""

// Revision is one step of the schema's history. Apply moves the schema
// forward from the parent revision, Revert moves it back.
type Revision struct {
	// ID is a short unique hex identifier.
	ID string
	// Parent is the ID of the preceding revision, or Base for the first.
	Parent string
	// Label is the human-readable release this revision belongs to.
	Label string

	Apply  func(tx *gorm.DB) error
	Revert func(tx *gorm.DB) error
}

// Observer is notified after each revision step. The metrics adapter
// implements it.
type Observer interface {
	RevisionApplied(id, direction string, took time.Duration)
}

type nopObserver struct{}

func (nopObserver) RevisionApplied(string, string, time.Duration) {}

// Runner applies and reverts an ordered revision chain against one database,
// keeping the stamp table in step.
type Runner struct {
	db    *gorm.DB
	chain []Revision
	index map[string]int
	log   logger.Logger
	obs   Observer
}

// Option configures a Runner.
type Option func(*Runner)

func WithLogger(l logger.Logger) Option {
	return func(r *Runner) { r.log = l }
}

func WithObserver(o Observer) Option {
	return func(r *Runner) { r.obs = o }
}

// NewRunner validates the revision set and orders it from root to head. The
// schema is not touched; a bad chain fails here, before any DDL can run.
func NewRunner(db *gorm.DB, revisions []Revision, opts ...Option) (*Runner, error) {
	chain, err := orderChain(revisions)
	if err != nil {
		return nil, err
	}
	r := &Runner{
		db:    db,
		chain: chain,
		index: make(map[string]int, len(chain)),
		log:   logger.NopLogger{},
		obs:   nopObserver{},
	}
	for i, rev := range chain {
		r.index[rev.ID] = i
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// orderChain links the revisions into a single root-to-head path.
func orderChain(revisions []Revision) ([]Revision, error) {
	if len(revisions) == 0 {
		return nil, fmt.Errorf("%w: no revisions", ErrBrokenChain)
	}
	byID := make(map[string]Revision, len(revisions))
	childOf := make(map[string]string, len(revisions))
	var root *Revision
	for i := range revisions {
		rev := revisions[i]
		if rev.ID == Base {
			return nil, fmt.Errorf("%w: revision with empty id", ErrBrokenChain)
		}
		if _, dup := byID[rev.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate revision %s", ErrAmbiguousChain, rev.ID)
		}
		byID[rev.ID] = rev
		if rev.Parent == Base {
			if root != nil {
				return nil, fmt.Errorf("%w: multiple roots (%s, %s)", ErrAmbiguousChain, root.ID, rev.ID)
			}
			root = &revisions[i]
			continue
		}
		if prev, dup := childOf[rev.Parent]; dup {
			return nil, fmt.Errorf("%w: %s has children %s and %s", ErrAmbiguousChain, rev.Parent, prev, rev.ID)
		}
		childOf[rev.Parent] = rev.ID
	}
	if root == nil {
		return nil, fmt.Errorf("%w: no root revision", ErrBrokenChain)
	}
	chain := make([]Revision, 0, len(revisions))
	chain = append(chain, *root)
	for {
		next, ok := childOf[chain[len(chain)-1].ID]
		if !ok {
			break
		}
		chain = append(chain, byID[next])
	}
	if len(chain) != len(revisions) {
		return nil, fmt.Errorf("%w: %d of %d revisions reachable from root %s",
			ErrBrokenChain, len(chain), len(revisions), root.ID)
	}
	return chain, nil
}

// Head returns the newest revision of the chain.
func (r *Runner) Head() Revision {
	return r.chain[len(r.chain)-1]
}

// Chain returns the revisions ordered from root to head.
func (r *Runner) Chain() []Revision {
	out := make([]Revision, len(r.chain))
	copy(out, r.chain)
	return out
}

// stampRow is the single row of the schema_version table. The row is created
// on the first upgrade and only ever updated afterwards; a revision of Base
// means the schema is back at its empty state.
type stampRow struct {
	Revision  string    `gorm:"not null"`
	Label     string    `gorm:"not null"`
	StampedAt time.Time `gorm:"not null"`
}

func (stampRow) TableName() string { return "schema_version" }

func (r *Runner) ensureStamp(db *gorm.DB) error {
	if db.Migrator().HasTable(&stampRow{}) {
		return nil
	}
	if err := db.Migrator().CreateTable(&stampRow{}); err != nil {
		return fmt.Errorf("creating schema_version: %w", err)
	}
	return db.Create(&stampRow{Revision: Base, StampedAt: time.Now().UTC()}).Error
}

func (r *Runner) setStamp(tx *gorm.DB, revision, label string) error {
	return tx.Model(&stampRow{}).Where("1 = 1").Updates(map[string]any{
		"revision":   revision,
		"label":      label,
		"stamped_at": time.Now().UTC(),
	}).Error
}

// Current returns the stamped revision, or Base when nothing was ever
// applied. The stamp table is created on demand.
func (r *Runner) Current(ctx context.Context) (Revision, error) {
	db := r.db.WithContext(ctx)
	if !db.Migrator().HasTable(&stampRow{}) {
		return Revision{}, nil
	}
	var row stampRow
	if err := db.Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Revision{}, nil
		}
		return Revision{}, fmt.Errorf("reading schema_version: %w", err)
	}
	if row.Revision == Base {
		return Revision{}, nil
	}
	i, ok := r.index[row.Revision]
	if !ok {
		return Revision{}, fmt.Errorf("%w: database is stamped at %s", ErrUnknownRevision, row.Revision)
	}
	return r.chain[i], nil
}

// position returns the chain index of the current stamp, or -1 at Base.
func (r *Runner) position(ctx context.Context) (int, error) {
	cur, err := r.Current(ctx)
	if err != nil {
		return 0, err
	}
	if cur.ID == Base {
		return -1, nil
	}
	return r.index[cur.ID], nil
}

// UpgradeToHead applies every pending revision.
func (r *Runner) UpgradeToHead(ctx context.Context) error {
	return r.UpgradeTo(ctx, r.Head().ID)
}

// UpgradeTo applies revisions forward until target is the stamped revision.
// Each revision runs in its own transaction together with its stamp update.
func (r *Runner) UpgradeTo(ctx context.Context, target string) error {
	ti, ok := r.index[target]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownRevision, target)
	}
	db := r.db.WithContext(ctx)
	if err := r.ensureStamp(db); err != nil {
		return err
	}
	pos, err := r.position(ctx)
	if err != nil {
		return err
	}
	if ti < pos {
		return fmt.Errorf("%w: %s is older than the current revision", ErrUnknownRevision, target)
	}
	for i := pos + 1; i <= ti; i++ {
		rev := r.chain[i]
		start := time.Now()
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := rev.Apply(tx); err != nil {
				return fmt.Errorf("applying %s: %w", rev.ID, err)
			}
			return r.setStamp(tx, rev.ID, rev.Label)
		})
		if err != nil {
			return err
		}
		r.log.Infof("applied revision %s (%s)", rev.ID, rev.Label)
		r.obs.RevisionApplied(rev.ID, "upgrade", time.Since(start))
	}
	return nil
}

// DowngradeTo reverts revisions until target is the stamped revision. A
// target of Base reverts everything; the stamp row itself stays behind.
func (r *Runner) DowngradeTo(ctx context.Context, target string) error {
	ti := -1
	if target != Base {
		i, ok := r.index[target]
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownRevision, target)
		}
		ti = i
	}
	db := r.db.WithContext(ctx)
	if err := r.ensureStamp(db); err != nil {
		return err
	}
	pos, err := r.position(ctx)
	if err != nil {
		return err
	}
	if ti > pos {
		return fmt.Errorf("%w: %s is newer than the current revision", ErrUnknownRevision, target)
	}
	for i := pos; i > ti; i-- {
		rev := r.chain[i]
		start := time.Now()
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := rev.Revert(tx); err != nil {
				return fmt.Errorf("reverting %s: %w", rev.ID, err)
			}
			stamp, label := Base, ""
			if i > 0 {
				stamp, label = r.chain[i-1].ID, r.chain[i-1].Label
			}
			return r.setStamp(tx, stamp, label)
		})
		if err != nil {
			return err
		}
		r.log.Infof("reverted revision %s (%s)", rev.ID, rev.Label)
		r.obs.RevisionApplied(rev.ID, "downgrade", time.Since(start))
	}
	return nil
}

// RevisionStatus pairs a revision with whether it is applied.
type RevisionStatus struct {
	Revision Revision
	Applied  bool
}

// Status reports the whole chain in order with the applied flag set for
// every revision at or below the current stamp.
func (r *Runner) Status(ctx context.Context) ([]RevisionStatus, error) {
	pos, err := r.position(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]RevisionStatus, len(r.chain))
	for i, rev := range r.chain {
		out[i] = RevisionStatus{Revision: rev, Applied: i <= pos}
	}
	return out, nil
}
