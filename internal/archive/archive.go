// Package archive keeps copies of the documents attached to articles so
// downloads survive CDN hiccups and can be served from our own storage.
package archive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/lajketz/site/internal/logger"
	"github.com/lajketz/site/internal/models"
	"github.com/lajketz/site/internal/utils"
)

var (
	ErrNotFound = errors.New("archive: document not found")
	ErrTooLarge = errors.New("archive: document exceeds size limit")
)

// Location tells the caller how to serve an archived document: from a local
// file or by redirecting to a URL.
type Location struct {
	Path string
	URL  string
}

// Archive is a document backend.
type Archive interface {
	// Locate returns ErrNotFound when key has not been stored.
	Locate(ctx context.Context, key, filename string) (Location, error)
	Store(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
}

// Key derives a stable object key from the document's source URL.
func Key(doc models.DocumentFile) string {
	ext := strings.ToLower(path.Ext(doc.OriginalFilename))
	if ext == "" {
		ext = strings.ToLower(path.Ext(strings.SplitN(doc.URL, "?", 2)[0]))
	}
	return "documents/" + utils.Fingerprint(doc.URL) + ext
}

// Filename is the download name offered to the browser.
func Filename(doc models.DocumentFile) string {
	if name := path.Base(strings.TrimSpace(doc.OriginalFilename)); name != "." && name != "/" {
		return name
	}
	return path.Base(Key(doc))
}

type MirrorConfig struct {
	MaxFileSize int64
	Timeout     time.Duration
	Retries     int
}

// Retry pacing for source downloads.
const (
	retryWait    = 500 * time.Millisecond
	maxRetryWait = 3 * time.Second
)

// Mirror copies documents from the content store's CDN into an archive on
// first request.
type Mirror struct {
	archive Archive
	client  *resty.Client
	maxSize int64
	retries int
	wait    time.Duration
}

// NewMirror builds a mirror over a. Downloads stream their bodies, so retries
// happen in get where each discarded body can be closed.
func NewMirror(a Archive, cfg MirrorConfig) *Mirror {
	client := resty.New().SetTimeout(cfg.Timeout)
	return &Mirror{
		archive: a,
		client:  client,
		maxSize: cfg.MaxFileSize,
		retries: max(cfg.Retries, 0),
		wait:    retryWait,
	}
}

// Resolve returns where doc can be served from, copying it into the archive
// when it is not there yet.
func (m *Mirror) Resolve(ctx context.Context, doc models.DocumentFile) (Location, error) {
	key := Key(doc)
	filename := Filename(doc)

	loc, err := m.archive.Locate(ctx, key, filename)
	if err == nil {
		return loc, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Location{}, err
	}

	if err := m.copy(ctx, doc, key, filename); err != nil {
		return Location{}, err
	}
	return m.archive.Locate(ctx, key, filename)
}

func (m *Mirror) copy(ctx context.Context, doc models.DocumentFile, key, filename string) error {
	start := time.Now()
	tmp, err := os.CreateTemp("", "lajketz-doc-*")
	if err != nil {
		return fmt.Errorf("archive: temp file: %w", err)
	}
	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	resp, err := m.get(ctx, doc.URL)
	if err != nil {
		return fmt.Errorf("archive: download %s: %w", doc.URL, err)
	}
	body := resp.RawBody()
	defer body.Close()

	if resp.StatusCode() == http.StatusNotFound {
		return fmt.Errorf("archive: source %s: %w", doc.URL, ErrNotFound)
	}
	if resp.StatusCode() >= 300 {
		return fmt.Errorf("archive: download %s: status %d", doc.URL, resp.StatusCode())
	}

	size, err := io.Copy(tmp, io.LimitReader(body, m.maxSize+1))
	if err != nil {
		return fmt.Errorf("archive: download %s: %w", doc.URL, err)
	}
	if size > m.maxSize {
		return fmt.Errorf("archive: %s: %w", doc.URL, ErrTooLarge)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("archive: rewind: %w", err)
	}

	contentType := resp.Header().Get("Content-Type")
	if contentType == "" || strings.HasPrefix(contentType, "application/octet-stream") {
		if byExt := mime.TypeByExtension(path.Ext(filename)); byExt != "" {
			contentType = byExt
		}
	}

	if err := m.archive.Store(ctx, key, tmp, size, contentType); err != nil {
		return err
	}

	logger.Get().Info().
		Str("key", key).
		Int64("size", size).
		Dur("duration", time.Since(start)).
		Msg("Archived document")
	return nil
}

// get streams url, retrying transport failures and 5xx answers with
// backoff. The body of every discarded attempt is closed before the next.
func (m *Mirror) get(ctx context.Context, url string) (*resty.Response, error) {
	wait := m.wait
	for attempt := 0; ; attempt++ {
		resp, err := m.client.R().
			SetContext(ctx).
			SetDoNotParseResponse(true).
			Get(url)
		retry := err != nil || resp.StatusCode() >= http.StatusInternalServerError
		if !retry || attempt >= m.retries {
			return resp, err
		}
		if err == nil {
			resp.RawBody().Close()
		}

		logger.Get().Debug().
			Err(err).
			Str("url", url).
			Int("attempt", attempt+1).
			Msg("Retrying document download")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
		wait = min(wait*2, maxRetryWait)
	}
}
