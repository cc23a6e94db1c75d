package token

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// credentialFile is the on-disk layout of a FileSlot.
type credentialFile struct {
	AccessToken string    `json:"access_token"`
	SavedAt     time.Time `json:"saved_at"`
}

// FileSlot stores the credential as JSON in <dir>/<key>.json with owner-only
// permissions. It survives restarts and is removed on logout.
type FileSlot struct {
	mu   sync.Mutex
	path string
}

// NewFileSlot creates a slot under dir using the default key.
func NewFileSlot(dir string) *FileSlot {
	return NewFileSlotWithKey(dir, DefaultKey)
}

// NewFileSlotWithKey creates a slot under dir for key.
func NewFileSlotWithKey(dir, key string) *FileSlot {
	return &FileSlot{path: filepath.Join(dir, key+".json")}
}

// Path returns the backing file path.
func (f *FileSlot) Path() string {
	return f.path
}

// Load implements Slot.
func (f *FileSlot) Load(ctx context.Context) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read %s: %w", f.path, err)
	}

	var rec credentialFile
	if err := json.Unmarshal(data, &rec); err != nil {
		return "", false, fmt.Errorf("%w: %s: %v", ErrCorruptSlot, f.path, err)
	}
	if rec.AccessToken == "" {
		return "", false, nil
	}
	return rec.AccessToken, true, nil
}

// Store implements Slot. The file is replaced atomically.
func (f *FileSlot) Store(ctx context.Context, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(credentialFile{AccessToken: value, SavedAt: time.Now().UTC()}, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".credentials-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, f.path)
}

// Delete implements Slot.
func (f *FileSlot) Delete(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove %s: %w", f.path, err)
	}
	return nil
}

var _ Slot = (*FileSlot)(nil)
