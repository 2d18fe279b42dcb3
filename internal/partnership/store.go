package partnership

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"partnerplane/internal/partner"
	"partnerplane/internal/watcher"
	"partnerplane/pkg/logging"
)

const subsystem = "PartnershipStore"

// Origin identifies what triggered a reload.
type Origin string

const (
	OriginInit    Origin = "init"
	OriginManual  Origin = "manual"
	OriginWatcher Origin = "watcher"
)

// Config configures a Store.
type Config struct {
	// Filename is the partnership file. Required.
	Filename string

	// Interval is the watcher poll interval. Zero disables watching.
	Interval time.Duration

	// Debounce is passed to the watcher; zero uses the watcher default.
	Debounce time.Duration

	// DisableNotify makes the watcher rely on polling alone.
	DisableNotify bool

	// Registerer receives the store metrics. Nil uses a private registry.
	Registerer prometheus.Registerer
}

// Store holds the published partnership configuration and keeps it in sync
// with its backing file.
//
// Readers call Current and never block. Refresh, Save and the mutation
// methods are serialized by a single reload mutex and replace the published
// snapshot wholesale.
type Store struct {
	reloadMu sync.Mutex
	current  atomic.Pointer[Snapshot]
	metrics  *Metrics

	mu            sync.Mutex
	filename      string
	interval      time.Duration
	debounce      time.Duration
	disableNotify bool
	watcher       *watcher.Watcher
	closed        bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a store with an empty configuration. Call Init to load the
// file and start watching.
func New(cfg Config) (*Store, error) {
	if cfg.Filename == "" {
		return nil, errors.New("partnership filename is required")
	}
	if cfg.Interval < 0 {
		return nil, errors.New("partnership interval cannot be negative")
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Store{
		metrics:       NewMetrics(cfg.Registerer),
		filename:      cfg.Filename,
		interval:      cfg.Interval,
		debounce:      cfg.Debounce,
		disableNotify: cfg.DisableNotify,
		ctx:           ctx,
		cancel:        cancel,
	}
	s.current.Store(EmptySnapshot())
	return s, nil
}

// Current returns the published snapshot. It is never nil.
func (s *Store) Current() *Snapshot {
	return s.current.Load()
}

// Filename returns the configured partnership file.
func (s *Store) Filename() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filename
}

// SetFilename changes the partnership file. It takes effect on the next
// refresh or save, which also moves the watcher to the new file.
func (s *Store) SetFilename(filename string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filename = filename
}

// Interval returns the configured watcher poll interval.
func (s *Store) Interval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interval
}

// SetInterval changes the watcher poll interval; zero disables watching.
// It takes effect on the next refresh.
func (s *Store) SetInterval(interval time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.interval = interval
}

// WatchedPath returns the file the active watcher observes, or "" when no
// watcher runs.
func (s *Store) WatchedPath() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.watcher == nil {
		return ""
	}
	return s.watcher.Path()
}

// Metrics returns the store metrics.
func (s *Store) Metrics() *Metrics {
	return s.metrics
}

// Init performs the first load. A failure here is fatal for server start.
func (s *Store) Init(ctx context.Context) error {
	if err := s.refresh(ctx, OriginInit, nil); err != nil {
		return fmt.Errorf("initial partnership load: %w", err)
	}
	return nil
}

// Refresh reloads the partnership file and publishes it on success. On
// failure the current configuration stays active.
func (s *Store) Refresh(ctx context.Context) error {
	return s.refresh(ctx, OriginManual, nil)
}

// refresh loads and publishes under the reload mutex. src is the watcher
// that requested the reload; a request from a replaced watcher is ignored.
func (s *Store) refresh(ctx context.Context, origin Origin, src *watcher.Watcher) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	s.mu.Lock()
	closed := s.closed
	stale := src != nil && s.watcher != src
	path := s.filename
	s.mu.Unlock()

	if closed {
		return ErrClosed
	}
	if stale {
		logging.Debug(subsystem, "Ignoring change event from replaced watcher")
		return nil
	}

	start := time.Now()
	snap, err := LoadFile(path)
	s.metrics.ObserveLoad(time.Since(start))
	if err != nil {
		s.metrics.IncrementReload(string(origin), "failed")
		return err
	}

	cur := s.current.Load()
	if origin == OriginWatcher && cur.Source == snap.Source && snap.SourceModTime.Before(cur.SourceModTime) {
		logging.Warn(subsystem, "Discarding reload of %s: modification time %s is older than published %s",
			path, snap.SourceModTime.Format(time.RFC3339Nano), cur.SourceModTime.Format(time.RFC3339Nano))
		s.metrics.IncrementReload(string(origin), "discarded")
		s.ensureWatcher()
		return nil
	}

	s.publish(snap)
	s.metrics.IncrementReload(string(origin), "published")
	logging.Info(subsystem, "Loaded %d partners and %d partnerships from %s (%s)",
		snap.Partners.Len(), snap.Partnerships.Len(), path, origin)

	s.ensureWatcher()
	return nil
}

// LoadFile reads and parses path. The returned snapshot records the file's
// modification time.
func LoadFile(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ioError(path, "failed to open partnership file", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, ioError(path, "failed to stat partnership file", err)
	}

	snap, err := Load(f)
	if err != nil {
		return nil, withPath(err, path)
	}
	snap.Source = path
	snap.SourceModTime = info.ModTime()
	return snap, nil
}

func (s *Store) publish(snap *Snapshot) {
	s.current.Store(snap)
	s.metrics.SetPublished(snap)
}

// ensureWatcher reconciles the watcher with the configured file and
// interval. Must be called with reloadMu held.
func (s *Store) ensureWatcher() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	path := filepath.Clean(s.filename)
	recreate := s.watcher == nil && s.interval > 0
	if s.watcher != nil {
		recreate = s.watcher.Path() != path || s.watcher.Interval() != s.interval
	}
	if !recreate {
		return
	}

	if s.watcher != nil {
		if err := s.watcher.Stop(); err != nil {
			logging.Error(subsystem, err, "Failed to stop watcher for %s", s.watcher.Path())
		}
		s.watcher = nil
	}
	if s.interval <= 0 {
		return
	}

	w, err := watcher.New(watcher.Config{
		Path:          path,
		Interval:      s.interval,
		Debounce:      s.debounce,
		DisableNotify: s.disableNotify,
	})
	if err != nil {
		logging.Error(subsystem, err, "Failed to create watcher for %s", path)
		return
	}
	events, err := w.Start(s.ctx)
	if err != nil {
		logging.Error(subsystem, err, "Failed to start watcher for %s", path)
		return
	}

	s.watcher = w
	s.wg.Add(1)
	go s.consume(w, events)
}

// consume refreshes for every change event until the watcher stops.
// Failures are logged, never propagated.
func (s *Store) consume(w *watcher.Watcher, events <-chan watcher.ChangeEvent) {
	defer s.wg.Done()

	for ev := range events {
		if ev.Operation == watcher.OperationRemoved {
			logging.Warn(subsystem, "Partnership file %s was removed, keeping current configuration", ev.Path)
			continue
		}
		if err := s.refresh(s.ctx, OriginWatcher, w); err != nil {
			if errors.Is(err, ErrClosed) || errors.Is(err, context.Canceled) {
				return
			}
			logging.Error(subsystem, err, "Failed to reload partnerships after change of %s", ev.Path)
			continue
		}
		logging.Debug(subsystem, "Partnerships reloaded after %s change", ev.Source)
	}
}

// Save writes the current configuration to the partnership file after
// moving the existing file to the next free backup name.
func (s *Store) Save(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	if s.isClosed() {
		return ErrClosed
	}

	path := s.Filename()
	snap := s.current.Load()

	backup, err := writeSnapshot(path, snap)
	if backup != "" {
		logging.Info(subsystem, "Backed up %s to %s", path, filepath.Base(backup))
	}
	if err != nil {
		s.metrics.IncrementSave("failed")
		return err
	}

	s.metrics.IncrementSave("ok")
	logging.Info(subsystem, "Stored %d partners and %d partnerships to %s",
		snap.Partners.Len(), snap.Partnerships.Len(), path)

	s.ensureWatcher()
	return nil
}

// Close stops the watcher and its consumer. No refresh is triggered by the
// watcher after Close returns. Close is idempotent.
func (s *Store) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	w := s.watcher
	s.watcher = nil
	s.mu.Unlock()

	s.cancel()
	var err error
	if w != nil {
		err = w.Stop()
	}
	s.wg.Wait()

	logging.Debug(subsystem, "Partnership store closed")
	return err
}

func (s *Store) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// mutate applies fn to a copy of the current snapshot and publishes the
// copy when fn succeeds.
func (s *Store) mutate(fn func(*Snapshot) error) error {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	if s.isClosed() {
		return ErrClosed
	}

	next := s.current.Load().derive()
	if err := fn(next); err != nil {
		return err
	}
	s.publish(next)
	return nil
}

// AddPartner adds a partner with the given identity attributes. Attribute
// keys are lowercased; a "name" entry in attrs is ignored.
func (s *Store) AddPartner(name string, attrs partner.Attributes) error {
	if name == "" {
		return errors.New("partner name cannot be empty")
	}

	var bag partner.Attributes
	bag.Set(partner.AttrName, name)
	for _, a := range attrs.Entries() {
		key := strings.ToLower(a.Key)
		if key == partner.AttrName {
			continue
		}
		if !IsValidAttributeName(key) {
			return fmt.Errorf("invalid partner attribute name %q", a.Key)
		}
		bag.Set(key, a.Value)
	}

	err := s.mutate(func(snap *Snapshot) error {
		if _, exists := snap.Partners.Get(name); exists {
			return fmt.Errorf("partner %q: %w", name, ErrExists)
		}
		snap.Partners.Add(partner.NewPartner(bag))
		return nil
	})
	if err == nil {
		logging.Info(subsystem, "Added partner %s", name)
	}
	return err
}

// DeletePartner removes a partner that no partnership references.
func (s *Store) DeletePartner(name string) error {
	err := s.mutate(func(snap *Snapshot) error {
		if _, ok := snap.Partners.Get(name); !ok {
			return fmt.Errorf("partner %q: %w", name, ErrNotFound)
		}
		if refs := snap.Partnerships.ReferencingPartner(name); len(refs) > 0 {
			return fmt.Errorf("partner %q is used by partnership %s: %w", name, strings.Join(refs, ", "), ErrInUse)
		}
		snap.Partners.Remove(name)
		return nil
	})
	if err == nil {
		logging.Info(subsystem, "Deleted partner %s", name)
	}
	return err
}

// AddPartnership adds a partnership between two existing partners. The
// sender and receiver bags are resolved from the partners' attributes.
func (s *Store) AddPartnership(name, sender, receiver string, attrs partner.Attributes) error {
	if name == "" {
		return errors.New("partnership name cannot be empty")
	}

	err := s.mutate(func(snap *Snapshot) error {
		if _, exists := snap.Partnerships.Get(name); exists {
			return fmt.Errorf("partnership %q: %w", name, ErrExists)
		}
		from, ok := snap.Partners.Get(sender)
		if !ok {
			return fmt.Errorf("Partnership '%s' has an undefined sender: '%s': %w", name, sender, ErrNotFound)
		}
		to, ok := snap.Partners.Get(receiver)
		if !ok {
			return fmt.Errorf("Partnership '%s' has an undefined receiver: '%s': %w", name, receiver, ErrNotFound)
		}

		ps := partner.NewPartnership(name)
		ps.SenderIDs = from.Attributes.Clone()
		ps.ReceiverIDs = to.Attributes.Clone()
		ps.Attributes = attrs.Clone()
		return snap.Partnerships.Add(ps)
	})
	if err == nil {
		logging.Info(subsystem, "Added partnership %s (%s -> %s)", name, sender, receiver)
	}
	return err
}

// DeletePartnership removes a partnership.
func (s *Store) DeletePartnership(name string) error {
	err := s.mutate(func(snap *Snapshot) error {
		if !snap.Partnerships.Remove(name) {
			return fmt.Errorf("partnership %q: %w", name, ErrNotFound)
		}
		return nil
	})
	if err == nil {
		logging.Info(subsystem, "Deleted partnership %s", name)
	}
	return err
}
