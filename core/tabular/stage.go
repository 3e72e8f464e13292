package tabular

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"permit-sync/core/dataset"
	"permit-sync/core/storage"

	"github.com/minio/minio-go/v7"
)

// Staged is a source file available on local disk.
type Staged struct {
	// Path is the local file to read.
	Path string
	// Source is the location the file was staged from.
	Source string

	temp bool
}

// Cleanup removes the file if it was downloaded.
func (s *Staged) Cleanup() error {
	if s == nil || !s.temp {
		return nil
	}
	if err := os.Remove(s.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Stager copies remote sources to local disk and publishes outputs.
type Stager struct {
	// Store serves s3:// locations. Nil disables them.
	Store storage.Client
	// Bucket is the default bucket for s3:/// locations.
	Bucket string
	// HTTP serves http(s) locations.
	HTTP *http.Client
	// Dir holds downloaded files. Empty uses the OS temp directory.
	Dir string
}

// NewStager builds a Stager from the source configuration.
func NewStager(cfg Config, store storage.Client, bucket string) *Stager {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Stager{
		Store:  store,
		Bucket: bucket,
		HTTP:   &http.Client{Timeout: timeout},
	}
}

// Stage makes source readable from local disk. Local paths are checked and
// returned as is; remote ones are downloaded to a temporary file.
func (s *Stager) Stage(ctx context.Context, source string) (*Staged, error) {
	switch {
	case storage.IsObjectURL(source):
		return s.stageObject(ctx, source)
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		return s.stageHTTP(ctx, source)
	default:
		path := strings.TrimPrefix(source, "file://")
		info, err := os.Stat(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
			}
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}
		if info.IsDir() {
			return nil, fmt.Errorf("%w: %s is a directory", ErrFileNotFound, path)
		}
		return &Staged{Path: path, Source: source}, nil
	}
}

func (s *Stager) stageObject(ctx context.Context, source string) (*Staged, error) {
	if s.Store == nil {
		return nil, fmt.Errorf("object storage is not configured for %s", source)
	}
	bucket, key, err := storage.ParseObjectURL(source, s.Bucket)
	if err != nil {
		return nil, err
	}
	body, err := s.Store.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		if storage.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, source)
		}
		return nil, fmt.Errorf("get %s: %w", source, err)
	}
	defer body.Close()

	return s.download(source, body)
}

func (s *Stager) stageHTTP(ctx context.Context, source string) (*Staged, error) {
	client := s.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", source, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", source, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, source)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("download %s: unexpected status %s", source, resp.Status)
	}
	return s.download(source, resp.Body)
}

func (s *Stager) download(source string, r io.Reader) (*Staged, error) {
	f, err := os.CreateTemp(s.Dir, "permit-sync-source-*.csv")
	if err != nil {
		return nil, fmt.Errorf("stage %s: %w", source, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return nil, fmt.Errorf("stage %s: %w", source, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return nil, fmt.Errorf("stage %s: %w", source, err)
	}
	return &Staged{Path: f.Name(), Source: source, temp: true}, nil
}

// Save writes ds to dest, which may be a local path or an s3:// location.
// It returns a local copy of what was written; the caller cleans it up.
func (s *Stager) Save(ctx context.Context, dest string, ds *dataset.Dataset, opts Options) (*Staged, error) {
	if !storage.IsObjectURL(dest) {
		if err := Write(dest, ds, opts); err != nil {
			return nil, err
		}
		return &Staged{Path: dest, Source: dest}, nil
	}

	if s.Store == nil {
		return nil, fmt.Errorf("object storage is not configured for %s", dest)
	}
	bucket, key, err := storage.ParseObjectURL(dest, s.Bucket)
	if err != nil {
		return nil, err
	}

	staged, err := s.WriteTemp(ds, opts)
	if err != nil {
		return nil, fmt.Errorf("save %s: %w", dest, err)
	}
	staged.Source = dest

	if err := s.put(ctx, bucket, key, staged.Path); err != nil {
		_ = staged.Cleanup()
		return nil, fmt.Errorf("upload %s: %w", dest, err)
	}
	return staged, nil
}

// WriteTemp writes ds to a new temporary file that Cleanup removes.
func (s *Stager) WriteTemp(ds *dataset.Dataset, opts Options) (*Staged, error) {
	f, err := os.CreateTemp(s.Dir, "permit-sync-*.csv")
	if err != nil {
		return nil, err
	}
	staged := &Staged{Path: f.Name(), Source: f.Name(), temp: true}
	_ = f.Close()

	if err := Write(staged.Path, ds, opts); err != nil {
		_ = staged.Cleanup()
		return nil, err
	}
	return staged, nil
}

func (s *Stager) put(ctx context.Context, bucket, key, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	_, err = s.Store.PutObject(ctx, bucket, key, f, info.Size(), minio.PutObjectOptions{ContentType: "text/csv"})
	return err
}
