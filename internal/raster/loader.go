package raster

import (
	"bytes"
	"context"
	"image"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/xerrors"

	"terrain-differ/internal/retry"
	"terrain-differ/internal/storage"
)

// Loader reads heightmap inputs from local paths, http(s) URLs or s3://
// storage URLs and decodes them through the registered image codecs.
type Loader struct {
	client  *http.Client
	storage storage.Storage
}

func NewLoader() *Loader {
	return &Loader{
		client: &http.Client{
			Transport: &retry.Transport{
				RetryStrategy: retry.NewExponentialBackOff(100*time.Millisecond, 10*time.Second, 3, nil),
				RetryOn:       retry.NewDefaultRetryOn(),
			},
			Timeout: 60 * time.Second,
		},
	}
}

// NewLoaderWithStorage additionally resolves s3:// refs through the
// given backend, so an artifact from an earlier run can feed a new
// comparison.
func NewLoaderWithStorage(s storage.Storage) *Loader {
	l := NewLoader()
	l.storage = s
	return l
}

// Load fetches and decodes every ref concurrently, preserving argument
// order in the result. Every image after the first must match the first's
// dimensions exactly; a mismatch fails before any diffing work happens.
func (l *Loader) Load(ctx context.Context, refs ...string) ([]*Heightmap, error) {
	if len(refs) == 0 {
		return nil, nil
	}

	maps := make([]*Heightmap, len(refs))

	eg, ctx := errgroup.WithContext(ctx)
	for i, ref := range refs {
		i, ref := i, ref
		eg.Go(func() error {
			data, err := l.fetch(ctx, ref)
			if err != nil {
				return xerrors.Errorf("failed to read %s: %w", ref, err)
			}

			img, _, err := image.Decode(bytes.NewReader(data))
			if err != nil {
				return xerrors.Errorf("failed to decode %s: %w", ref, err)
			}

			m, err := FromImage(img)
			if err != nil {
				return xerrors.Errorf("%s: %w", ref, err)
			}
			maps[i] = m
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	first := maps[0]
	for i, m := range maps[1:] {
		if m.Width != first.Width || m.Height != first.Height {
			return nil, xerrors.Errorf("%s is %dx%d but %s is %dx%d: %w",
				refs[0], first.Width, first.Height, refs[i+1], m.Width, m.Height, ErrDimensionMismatch)
		}
	}

	return maps, nil
}

func (l *Loader) fetch(ctx context.Context, ref string) ([]byte, error) {
	if strings.HasPrefix(ref, "s3://") {
		if l.storage == nil {
			return nil, xerrors.New("no storage backend configured for s3:// refs")
		}
		return l.storage.Get(ctx, ref)
	}

	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		request, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
		if err != nil {
			return nil, err
		}

		response, err := l.client.Do(request)
		if err != nil {
			return nil, err
		}
		defer response.Body.Close()

		if response.StatusCode != http.StatusOK {
			return nil, xerrors.Errorf("unexpected status %s", response.Status)
		}

		return io.ReadAll(response.Body)
	}

	return os.ReadFile(ref)
}
