// Package store persists uploaded datasets between the initial inference and
// later directive requests.
//
// A Dataset always holds the raw text table as read from the upload, never a
// converted one, so every directive request starts from the original text.
// Backends register themselves by name from an init function; import them for
// side effects, e.g. _ "github.com/JonMunkholm/dataprocess/internal/store/sqlite".
package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/dataprocess/internal/infer"
)

var (
	ErrNotFound       = errors.New("dataset not found")
	ErrUnknownBackend = errors.New("unknown store backend")
)

// Dataset is one stored upload.
type Dataset struct {
	ID        uuid.UUID
	FileName  string
	CreatedAt time.Time
	Table     *infer.Table
}

// Store saves and loads datasets.
type Store interface {
	// Save inserts the dataset, replacing any existing one with the same ID.
	Save(ctx context.Context, ds *Dataset) error

	// Load returns the dataset with the given ID or ErrNotFound.
	Load(ctx context.Context, id uuid.UUID) (*Dataset, error)

	// Latest returns the most recently created dataset or ErrNotFound.
	Latest(ctx context.Context) (*Dataset, error)

	Close() error
}

// Config selects and configures a backend.
type Config struct {
	Backend  string
	DSN      string
	MaxConns int32
}

// Factory opens a backend.
type Factory func(ctx context.Context, cfg Config) (Store, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register makes a backend available to Open. It panics on an empty name, a
// nil factory or a duplicate registration.
func Register(name string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if name == "" {
		panic("store: Register called with empty name")
	}
	if f == nil {
		panic("store: Register called with nil factory")
	}
	if _, exists := factories[name]; exists {
		panic(fmt.Sprintf("store: backend already registered for name=%q", name))
	}
	factories[name] = f
}

// Backends returns the registered backend names, sorted.
func Backends() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open constructs the configured backend.
func Open(ctx context.Context, cfg Config) (Store, error) {
	mu.RLock()
	f := factories[cfg.Backend]
	mu.RUnlock()

	if f == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
	return f(ctx, cfg)
}

// NewDataset wraps a freshly read table with a new ID and timestamp.
func NewDataset(fileName string, table *infer.Table) *Dataset {
	return &Dataset{
		ID:        uuid.New(),
		FileName:  fileName,
		CreatedAt: time.Now().UTC(),
		Table:     table,
	}
}
