package archive

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// DiskArchive stores documents under a local directory.
type DiskArchive struct {
	basePath string
	mu       sync.RWMutex
}

func NewDiskArchive(basePath string) (*DiskArchive, error) {
	// Create base directory if it doesn't exist
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}

	return &DiskArchive{
		basePath: basePath,
	}, nil
}

func (d *DiskArchive) path(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if clean == "." || filepath.IsAbs(clean) || strings.HasPrefix(clean, "..") {
		return "", fmt.Errorf("archive: invalid key %q", key)
	}
	return filepath.Join(d.basePath, clean), nil
}

func (d *DiskArchive) Locate(ctx context.Context, key, _ string) (Location, error) {
	select {
	case <-ctx.Done():
		return Location{}, ctx.Err()
	default:
		d.mu.RLock()
		defer d.mu.RUnlock()

		p, err := d.path(key)
		if err != nil {
			return Location{}, err
		}
		info, err := os.Stat(p)
		if os.IsNotExist(err) {
			return Location{}, ErrNotFound
		}
		if err != nil {
			return Location{}, fmt.Errorf("failed to stat document: %w", err)
		}
		if info.IsDir() {
			return Location{}, ErrNotFound
		}
		return Location{Path: p}, nil
	}
}

// Store writes to a temporary file and renames it into place so readers
// never see a partial document.
func (d *DiskArchive) Store(ctx context.Context, key string, body io.Reader, _ int64, _ string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		d.mu.Lock()
		defer d.mu.Unlock()

		p, err := d.path(key)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			return fmt.Errorf("failed to create document directory: %w", err)
		}

		tmp, err := os.CreateTemp(filepath.Dir(p), ".partial-*")
		if err != nil {
			return fmt.Errorf("failed to create document file: %w", err)
		}
		if _, err := io.Copy(tmp, body); err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
			return fmt.Errorf("failed to write document file: %w", err)
		}
		if err := tmp.Close(); err != nil {
			os.Remove(tmp.Name())
			return fmt.Errorf("failed to write document file: %w", err)
		}
		if err := os.Rename(tmp.Name(), p); err != nil {
			os.Remove(tmp.Name())
			return fmt.Errorf("failed to move document file: %w", err)
		}
		return nil
	}
}
