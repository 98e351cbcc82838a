package repository

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/compozy/releaseprep/internal/domain"
	"github.com/gofrs/flock"
	"github.com/spf13/afero"
)

const (
	// JournalSchemaVersion defines the current schema version for journal files
	JournalSchemaVersion = "1.0.0"
	// JournalFilePermissions defines the permissions for journal files
	JournalFilePermissions = 0600
	// JournalDirPermissions defines the permissions for the journal directory
	JournalDirPermissions = 0700
	// LockTimeout defines the maximum time to wait for a lock
	LockTimeout = 10 * time.Second
	// LockRetryInterval defines the interval between lock retry attempts
	LockRetryInterval = 50 * time.Millisecond
)

// JournalRepository persists the record of release runs.
type JournalRepository interface {
	Save(ctx context.Context, journal *domain.RunJournal) error
	Load(ctx context.Context, sessionID string) (*domain.RunJournal, error)
	LoadLatest(ctx context.Context) (*domain.RunJournal, error)
}

// JournalMetadata contains metadata about the journal file
type JournalMetadata struct {
	SchemaVersion string    `json:"schema_version"`
	Checksum      string    `json:"checksum"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type journalFile struct {
	Metadata JournalMetadata    `json:"metadata"`
	Journal  *domain.RunJournal `json:"journal"`
}

// JSONJournalRepository implements JournalRepository using one JSON file per run.
// Locks are taken on the real filesystem next to the journal files.
type JSONJournalRepository struct {
	fs  afero.Fs
	dir string
	mu  sync.RWMutex
}

// NewJSONJournalRepository creates a new JSON-based journal repository
func NewJSONJournalRepository(fs afero.Fs, dir string) *JSONJournalRepository {
	if dir == "" {
		dir = filepath.Join(".git", "release-prep")
	}
	return &JSONJournalRepository{fs: fs, dir: dir}
}

// Save writes the journal atomically under an exclusive lock.
func (r *JSONJournalRepository) Save(ctx context.Context, journal *domain.RunJournal) error {
	if err := r.fs.MkdirAll(r.dir, JournalDirPermissions); err != nil {
		return fmt.Errorf("failed to ensure journal directory: %w", err)
	}
	filename := r.journalFilename(journal.SessionID)
	unlock, err := r.lock(ctx, journal.SessionID, false)
	if err != nil {
		return err
	}
	defer unlock()
	body, err := json.Marshal(journal)
	if err != nil {
		return fmt.Errorf("failed to marshal journal: %w", err)
	}
	data, err := json.MarshalIndent(journalFile{
		Metadata: JournalMetadata{
			SchemaVersion: JournalSchemaVersion,
			Checksum:      checksum(body),
			CreatedAt:     journal.StartedAt,
			UpdatedAt:     time.Now(),
		},
		Journal: journal,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal journal file: %w", err)
	}
	tempFile := filename + ".tmp"
	if err := afero.WriteFile(r.fs, tempFile, data, JournalFilePermissions); err != nil {
		return fmt.Errorf("failed to write temp journal file: %w", err)
	}
	if err := r.fs.Rename(tempFile, filename); err != nil {
		_ = r.fs.Remove(tempFile)
		return fmt.Errorf("failed to rename journal file: %w", err)
	}
	return r.updateLatest(journal.SessionID)
}

// Load reads and verifies the journal of a session.
func (r *JSONJournalRepository) Load(ctx context.Context, sessionID string) (*domain.RunJournal, error) {
	unlock, err := r.lock(ctx, sessionID, true)
	if err != nil {
		return nil, err
	}
	defer unlock()
	data, err := afero.ReadFile(r.fs, r.journalFilename(sessionID))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("journal for session %s: %w", sessionID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read journal file: %w", err)
	}
	var file journalFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to unmarshal journal file: %w", err)
	}
	if file.Metadata.SchemaVersion != JournalSchemaVersion {
		return nil, fmt.Errorf("incompatible schema version: expected %s, got %s",
			JournalSchemaVersion, file.Metadata.SchemaVersion)
	}
	if file.Journal == nil {
		return nil, fmt.Errorf("journal file for session %s is empty", sessionID)
	}
	body, err := json.Marshal(file.Journal)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal journal for checksum validation: %w", err)
	}
	if file.Metadata.Checksum != checksum(body) {
		return nil, fmt.Errorf("journal checksum mismatch: data may be corrupted")
	}
	return file.Journal, nil
}

// LoadLatest returns the journal of the most recently saved run.
func (r *JSONJournalRepository) LoadLatest(ctx context.Context) (*domain.RunJournal, error) {
	r.mu.RLock()
	data, err := afero.ReadFile(r.fs, r.latestFilename())
	r.mu.RUnlock()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("latest journal: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read latest pointer: %w", err)
	}
	sessionID := strings.TrimSpace(string(data))
	if sessionID == "" || strings.ContainsAny(sessionID, `/\`) {
		return nil, fmt.Errorf("invalid latest pointer: %q", sessionID)
	}
	return r.Load(ctx, sessionID)
}

// lock acquires the per-session lock file, polling until ctx or LockTimeout expires.
func (r *JSONJournalRepository) lock(ctx context.Context, sessionID string, shared bool) (func(), error) {
	if err := os.MkdirAll(r.dir, JournalDirPermissions); err != nil {
		return nil, fmt.Errorf("failed to ensure lock directory: %w", err)
	}
	fl := flock.New(filepath.Join(r.dir, fmt.Sprintf(".journal-%s.lock", sessionID)))
	ctx, cancel := context.WithTimeout(ctx, LockTimeout)
	defer cancel()
	try := fl.TryLock
	if shared {
		try = fl.TryRLock
	}
	ticker := time.NewTicker(LockRetryInterval)
	defer ticker.Stop()
	for {
		locked, err := try()
		if err != nil {
			return nil, fmt.Errorf("failed to acquire lock: %w", err)
		}
		if locked {
			return func() { _ = fl.Unlock() }, nil
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("could not acquire lock: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}

func (r *JSONJournalRepository) updateLatest(sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	link := r.latestFilename()
	tempLink := link + ".tmp"
	if err := afero.WriteFile(r.fs, tempLink, []byte(sessionID), JournalFilePermissions); err != nil {
		return fmt.Errorf("failed to write latest pointer: %w", err)
	}
	if err := r.fs.Rename(tempLink, link); err != nil {
		_ = r.fs.Remove(tempLink)
		return fmt.Errorf("failed to update latest pointer: %w", err)
	}
	return nil
}

func (r *JSONJournalRepository) journalFilename(sessionID string) string {
	return filepath.Join(r.dir, fmt.Sprintf("journal-%s.json", sessionID))
}

func (r *JSONJournalRepository) latestFilename() string {
	return filepath.Join(r.dir, "latest")
}

func checksum(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
