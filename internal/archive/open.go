package archive

import (
	"context"
	"fmt"

	"github.com/lajketz/site/internal/config"
)

// Open builds the document mirror for the configured backend. It returns a
// nil mirror when archiving is switched off.
func Open(ctx context.Context, cfg *config.Config) (*Mirror, error) {
	var backend Archive
	switch cfg.ArchiveBackend {
	case config.ArchiveOff:
		return nil, nil
	case config.ArchiveR2:
		r2, err := NewR2Archive(ctx, R2Config{
			Endpoint:   cfg.R2EndpointURL(),
			AccessKey:  cfg.R2AccessKey,
			SecretKey:  cfg.R2SecretKey,
			Bucket:     cfg.R2Bucket,
			PresignTTL: cfg.R2PresignTTL,
		})
		if err != nil {
			return nil, err
		}
		backend = r2
	case config.ArchiveDisk, "":
		disk, err := NewDiskArchive(cfg.ArchivePath)
		if err != nil {
			return nil, err
		}
		backend = disk
	default:
		return nil, fmt.Errorf("archive: unknown backend %q", cfg.ArchiveBackend)
	}

	return NewMirror(backend, MirrorConfig{
		MaxFileSize: cfg.MaxFileSize,
		Timeout:     cfg.HTTPTimeout,
		Retries:     cfg.SanityRetries,
	}), nil
}
