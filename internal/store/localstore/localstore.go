package localstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"imobi/server/internal/models"
	"imobi/server/internal/notify"
	"imobi/server/internal/store"
)

// Options tune the simulated network behavior of the local store. Tests
// set every field to zero to run synchronously.
type Options struct {
	// PollInterval is how often the partition file is re-read and
	// republished to all subscribers. Zero disables polling; writes made
	// through this process are still pushed immediately.
	PollInterval time.Duration

	// InitialDelay is how long the first delivery after Subscribe waits,
	// simulating asynchronous fetch latency.
	InitialDelay time.Duration

	// CreateLatency and WriteLatency delay mutations before the write
	// completes. Create is slower than the other operations.
	CreateLatency time.Duration
	WriteLatency  time.Duration
}

// DefaultOptions mirrors the latencies of the original mock service.
func DefaultOptions() Options {
	return Options{
		PollInterval:  time.Second,
		InitialDelay:  100 * time.Millisecond,
		CreateLatency: 500 * time.Millisecond,
		WriteLatency:  300 * time.Millisecond,
	}
}

// Store is the local persistent backend. One partition, one JSON file;
// the partition key is injected at construction, never read ambiently.
type Store struct {
	path   string
	opts   Options
	hub    *notify.Hub
	logger *logrus.Logger

	mu            sync.Mutex // serializes partition file access
	pollMu        sync.Mutex
	stop          chan struct{}
	wg            sync.WaitGroup
	pollerRunning bool
	closed        bool
}

var _ store.Backend = (*Store)(nil)

// New opens (or creates) the partition for the given key under dir.
func New(dir, partitionKey string, opts Options, logger *logrus.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	s := &Store{
		path:   filepath.Join(dir, partitionKey+".json"),
		opts:   opts,
		hub:    notify.NewHub(logger),
		logger: logger,
		stop:   make(chan struct{}),
	}

	// Initialize an empty partition so the first subscriber sees a list.
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		if err := s.writeList(store.DefaultSeed()); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Subscribe registers the handler, delivers the current list once after
// the initial delay and keeps delivering on every change. The poll loop
// starts with the first subscriber and also catches writes made by other
// processes to the same partition file.
func (s *Store) Subscribe(handler store.Handler) (store.Unsubscribe, error) {
	s.pollMu.Lock()
	if s.closed {
		s.pollMu.Unlock()
		return func() {}, store.ErrClosed
	}
	s.startPollerLocked()
	s.pollMu.Unlock()

	cancel := s.hub.Subscribe(handler)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if s.opts.InitialDelay > 0 {
			t := time.NewTimer(s.opts.InitialDelay)
			defer t.Stop()
			select {
			case <-t.C:
			case <-s.stop:
				return
			}
		}
		handler(s.snapshot())
	}()

	return cancel, nil
}

// startPollerLocked starts the poll loop at most once per store. Caller
// holds pollMu.
func (s *Store) startPollerLocked() {
	if s.opts.PollInterval <= 0 || s.pollerRunning {
		return
	}
	s.pollerRunning = true
	s.wg.Add(1)
	go s.pollLoop()
}

// pollLoop re-reads the partition once per interval and republishes to
// every subscriber, whether or not anything changed.
func (s *Store) pollLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.hub.Publish(s.snapshot())
		}
	}
}

// Create persists a new record with a fresh id, stamped LastUpdated and
// filled defaults, then pushes the new snapshot.
func (s *Store) Create(ctx context.Context, p models.Property) error {
	if err := s.wait(ctx, s.opts.CreateLatency); err != nil {
		return err
	}

	p.ID = uuid.NewString()
	p.LastUpdated = models.NowMillis()
	p.ApplyDefaults()

	s.mu.Lock()
	list := s.readList()
	list = append([]models.Property{p}, list...)
	err := s.writeList(list)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.hub.Publish(list)
	return nil
}

// Update merges the patch into the record and re-stamps LastUpdated.
// Returns store.ErrNotFound when the id does not exist.
func (s *Store) Update(ctx context.Context, id string, patch models.Patch) error {
	if err := s.wait(ctx, s.opts.WriteLatency); err != nil {
		return err
	}

	s.mu.Lock()
	list := s.readList()
	found := false
	for i := range list {
		if list[i].ID == id {
			list[i].Merge(patch)
			list[i].LastUpdated = models.NowMillis()
			found = true
			break
		}
	}
	if !found {
		s.mu.Unlock()
		return fmt.Errorf("updating property %s: %w", id, store.ErrNotFound)
	}
	err := s.writeList(list)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.hub.Publish(list)
	return nil
}

// Remove deletes the record. Removing an unknown id is a no-op.
func (s *Store) Remove(ctx context.Context, id string) error {
	if err := s.wait(ctx, s.opts.WriteLatency); err != nil {
		return err
	}

	s.mu.Lock()
	list := s.readList()
	kept := list[:0]
	for _, p := range list {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	err := s.writeList(kept)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.hub.Publish(kept)
	return nil
}

// Clear empties the partition.
func (s *Store) Clear(ctx context.Context) error {
	return s.replace(ctx, []models.Property{})
}

// RestoreDefaults replaces the partition with the fixed seed set.
func (s *Store) RestoreDefaults(ctx context.Context) error {
	return s.replace(ctx, store.DefaultSeed())
}

func (s *Store) replace(ctx context.Context, list []models.Property) error {
	if err := s.wait(ctx, s.opts.WriteLatency); err != nil {
		return err
	}

	s.mu.Lock()
	err := s.writeList(list)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.hub.Publish(list)
	return nil
}

// Close stops the poll loop and drops all subscribers. In-flight
// mutations are not cancelled.
func (s *Store) Close() {
	s.pollMu.Lock()
	if s.closed {
		s.pollMu.Unlock()
		return
	}
	s.closed = true
	close(s.stop)
	s.pollMu.Unlock()

	s.wg.Wait()
	s.hub.Close()
}

// snapshot reads the partition outside a mutation.
func (s *Store) snapshot() []models.Property {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readList()
}

// readList parses the partition file. A missing file is an empty
// partition; unparsable contents are treated as an empty list rather than
// crashing the notification loop.
func (s *Store) readList() []models.Property {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return []models.Property{}
	}

	var list []models.Property
	if err := json.Unmarshal(data, &list); err != nil {
		s.logger.WithError(err).WithField("path", s.path).
			Warn("Partition contents unparsable, treating as empty list")
		return []models.Property{}
	}
	if list == nil {
		list = []models.Property{}
	}
	return list
}

func (s *Store) writeList(list []models.Property) error {
	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("failed to marshal partition: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write partition file: %w", err)
	}
	return nil
}

// wait simulates network latency, honoring context cancellation.
func (s *Store) wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
