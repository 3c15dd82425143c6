package docstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"imobi/server/internal/models"
	"imobi/server/internal/notify"
	"imobi/server/internal/store"
)

// Store is the hosted document-collection backend. Documents are ordered
// by LastUpdated descending and changes are pushed to subscribers after
// every successful write.
//
// Clear and RestoreDefaults are intentionally unimplemented here: bulk
// destruction of a shared production collection is not offered. This is a
// deliberate safety asymmetry with the local store, not an oversight.
type Store struct {
	db     *gorm.DB
	hub    *notify.Hub
	logger *logrus.Logger
	mu     sync.Mutex // serializes writes to the collection
}

var _ store.Backend = (*Store)(nil)

// Open connects to the document collection at dbPath and migrates the
// schema.
func Open(dbPath string, logger *logrus.Logger) (*Store, error) {
	sqlDB, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := sqlDB.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	db, err := gorm.Open(sqlite.Dialector{Conn: sqlDB}, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("initializing orm: %w", err)
	}

	if err := db.AutoMigrate(&models.Property{}); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return &Store{
		db:     db,
		hub:    notify.NewHub(logger),
		logger: logger,
	}, nil
}

// NewUnconfigured returns a store without a backing collection. Every
// operation fails fast with store.ErrNotConfigured; Subscribe degrades to
// a no-op subscription because it has no failure path to report through.
func NewUnconfigured(logger *logrus.Logger) *Store {
	return &Store{
		hub:    notify.NewHub(logger),
		logger: logger,
	}
}

// Subscribe registers a push listener on the ordered collection and
// delivers the current contents once immediately.
func (s *Store) Subscribe(handler store.Handler) (store.Unsubscribe, error) {
	if s.db == nil {
		s.logger.Error("Document store not configured, returning no-op subscription")
		return func() {}, nil
	}

	cancel := s.hub.Subscribe(handler)
	go handler(s.snapshot())
	return cancel, nil
}

// Create persists a new document with a generated id, stamped LastUpdated
// and filled defaults.
func (s *Store) Create(ctx context.Context, p models.Property) error {
	if s.db == nil {
		return store.ErrNotConfigured
	}

	p.ID = uuid.NewString()
	p.LastUpdated = models.NowMillis()
	p.ApplyDefaults()

	s.mu.Lock()
	err := s.db.WithContext(ctx).Create(&p).Error
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("creating property: %w", err)
	}

	s.hub.Publish(s.snapshot())
	return nil
}

// Update merges the patch into the stored document inside a transaction
// and re-stamps LastUpdated. Returns store.ErrNotFound for unknown ids.
func (s *Store) Update(ctx context.Context, id string, patch models.Patch) error {
	if s.db == nil {
		return store.ErrNotConfigured
	}

	s.mu.Lock()
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p models.Property
		if err := tx.First(&p, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("updating property %s: %w", id, store.ErrNotFound)
			}
			return fmt.Errorf("loading property %s: %w", id, err)
		}

		p.Merge(patch)
		p.LastUpdated = models.NowMillis()
		if err := tx.Save(&p).Error; err != nil {
			return fmt.Errorf("saving property %s: %w", id, err)
		}
		return nil
	})
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.hub.Publish(s.snapshot())
	return nil
}

// Remove deletes the document. Removing an unknown id succeeds.
func (s *Store) Remove(ctx context.Context, id string) error {
	if s.db == nil {
		return store.ErrNotConfigured
	}

	s.mu.Lock()
	err := s.db.WithContext(ctx).Delete(&models.Property{}, "id = ?", id).Error
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("removing property %s: %w", id, err)
	}

	s.hub.Publish(s.snapshot())
	return nil
}

// Clear is not implemented for the shared collection.
func (s *Store) Clear(ctx context.Context) error {
	if s.db == nil {
		return store.ErrNotConfigured
	}
	s.logger.Warn("Clear not implemented for the document store to prevent accidental data loss")
	return nil
}

// RestoreDefaults is not implemented for the shared collection.
func (s *Store) RestoreDefaults(ctx context.Context) error {
	if s.db == nil {
		return store.ErrNotConfigured
	}
	s.logger.Warn("RestoreDefaults not implemented for the document store")
	return nil
}

// Close releases the database connection and drops all subscribers.
func (s *Store) Close() error {
	s.hub.Close()
	if s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// snapshot reads the collection ordered by last update, newest first.
// Read failures are logged and surfaced as an empty list so the
// notification path never crashes.
func (s *Store) snapshot() []models.Property {
	var list []models.Property
	if err := s.db.Order("last_updated DESC").Find(&list).Error; err != nil {
		s.logger.WithError(err).Error("Failed to read property collection")
		return []models.Property{}
	}
	if list == nil {
		list = []models.Property{}
	}
	return list
}
