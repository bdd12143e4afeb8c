package main

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/json"
	"flag"
	"fmt"
	_ "image/jpeg"
	"image/png"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"
	"golang.org/x/xerrors"

	"terrain-differ/internal/config"
	"terrain-differ/internal/diff/heightmap"
	"terrain-differ/internal/raster"
	"terrain-differ/internal/report"
	"terrain-differ/internal/retry"
	"terrain-differ/internal/storage"
)

type WorkerOutput struct {
	DiffURL      string `json:"diffURL"`
	StatsURL     string `json:"statsURL"`
	RaisedCount  int64  `json:"raisedCount"`
	LoweredCount int64  `json:"loweredCount"`
	TotalPixels  int64  `json:"totalPixels"`
}

type Worker struct {
	Loader  *raster.Loader
	Storage storage.Storage
	Raised  raster.RGB
	Lowered raster.RGB
}

func envOrDefaultValue[T any](key string, defaultValue T) T {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}

	switch any(defaultValue).(type) {
	case string:
		return any(value).(T)
	case int:
		if intValue, err := strconv.Atoi(value); err == nil {
			return any(intValue).(T)
		}
	case int64:
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return any(intValue).(T)
		}
	case uint:
		if uintValue, err := strconv.ParseUint(value, 10, 0); err == nil {
			return any(uint(uintValue)).(T)
		}
	case uint64:
		if uintValue, err := strconv.ParseUint(value, 10, 64); err == nil {
			return any(uintValue).(T)
		}
	case float64:
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return any(floatValue).(T)
		}
	case bool:
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return any(boolValue).(T)
		}
	case time.Duration:
		if durationValue, err := time.ParseDuration(value); err == nil {
			return any(durationValue).(T)
		}
	}

	return defaultValue
}

func main() {
	_ = godotenv.Load()

	var raisedSpec string
	var loweredSpec string
	var storageBackend string
	var schedule string
	var callbackURL string
	flag.StringVar(&raisedSpec, "hi", envOrDefaultValue("HI", ""), "Raised terrain color as R,G,B (default 0,255,0)")
	flag.StringVar(&loweredSpec, "lo", envOrDefaultValue("LO", ""), "Lowered terrain color as R,G,B (default 255,0,0)")
	flag.StringVar(&storageBackend, "storage-backend", envOrDefaultValue("STORAGE_BACKEND", "file"), "Storage backend (file or s3)")
	flag.StringVar(&schedule, "schedule", envOrDefaultValue("SCHEDULE", ""), "Cron schedule; empty runs the comparison once")
	flag.StringVar(&callbackURL, "callback-url", envOrDefaultValue("CALLBACK_URL", ""), "Callback URL to send results to")

	flag.Parse()

	args := flag.Args()
	if len(args) != 2 {
		log.Fatalf("base, target not specified")
	}

	base := args[0]
	target := args[1]

	ctx := context.Background()

	raised := config.DefaultRaised
	if raisedSpec != "" {
		c, err := config.ParseColor(raisedSpec)
		if err != nil {
			log.Fatalf("invalid raised color: %v", err)
		}
		raised = c
	}

	lowered := config.DefaultLowered
	if loweredSpec != "" {
		c, err := config.ParseColor(loweredSpec)
		if err != nil {
			log.Fatalf("invalid lowered color: %v", err)
		}
		lowered = c
	}

	s, err := newStorage(ctx, storageBackend)
	if err != nil {
		log.Fatalf("failed to create storage backend: %v", err)
	}

	worker := &Worker{
		Loader:  raster.NewLoaderWithStorage(s),
		Storage: s,
		Raised:  raised,
		Lowered: lowered,
	}

	run := func() {
		result, err := worker.compare(ctx, base, target)
		if err != nil {
			log.Fatalf("failed to compare heightmaps: %v", err)
		}

		j, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			log.Fatalf("failed to marshal result: %v", err)
		}

		if callbackURL == "" {
			fmt.Println(string(j))
		} else {
			if err := callback(ctx, callbackURL, j); err != nil {
				log.Fatalf("failed to send callback: %v", err)
			}
		}
	}

	if schedule == "" {
		run()
		return
	}

	parsed, err := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow).Parse(schedule)
	if err != nil {
		log.Fatalf("failed to parse schedule: %v", err)
	}

	for {
		next := parsed.Next(time.Now())
		time.Sleep(time.Until(next))
		run()
	}
}

func newStorage(ctx context.Context, backend string) (storage.Storage, error) {
	switch backend {
	case "file":
		return storage.NewFileStorage(ctx, storage.FileConfig{
			Directory: envOrDefaultValue("DIRECTORY", "/tmp"),
		})
	case "s3":
		return storage.NewS3Storage(ctx, storage.S3Config{
			Bucket: os.Getenv("S3_BUCKET"),
		})
	default:
		return nil, xerrors.Errorf("unknown storage backend: %s", backend)
	}
}

func (w *Worker) compare(ctx context.Context, base string, target string) (*WorkerOutput, error) {
	maps, err := w.Loader.Load(ctx, base, target)
	if err != nil {
		return nil, err
	}

	result := heightmap.NewHeightDiff(w.Raised, w.Lowered).Calculate(maps[0], maps[1])
	rep := report.Build(result.Width, result.Height, result.RaisedCount, result.LoweredCount)

	var buffer bytes.Buffer
	if err := png.Encode(&buffer, result.Image()); err != nil {
		return nil, xerrors.Errorf("failed to encode diff image: %w", err)
	}

	timestamp := time.Now().Format("20060102150405")
	h := sha256.New()
	h.Write([]byte(base + target))
	hash := fmt.Sprintf("%x", h.Sum(nil))[:16]
	baseKey := fmt.Sprintf("Heightdiff/%s/%s", hash, timestamp)

	output := &WorkerOutput{
		RaisedCount:  result.RaisedCount,
		LoweredCount: result.LoweredCount,
		TotalPixels:  int64(result.Width) * int64(result.Height),
	}
	{
		eg, ctx := errgroup.WithContext(ctx)

		eg.Go(func() error {
			url, err := w.Storage.Put(ctx, baseKey+".png", buffer.Bytes())
			if err != nil {
				return xerrors.Errorf("failed to upload diff image: %w", err)
			}
			output.DiffURL = url
			return nil
		})

		eg.Go(func() error {
			url, err := w.Storage.Put(ctx, baseKey+".txt", []byte(rep.Text))
			if err != nil {
				return xerrors.Errorf("failed to upload stats: %w", err)
			}
			output.StatsURL = url
			return nil
		})

		if err := eg.Wait(); err != nil {
			return nil, err
		}
	}

	return output, nil
}

func callback(ctx context.Context, url string, body []byte) error {
	client := &http.Client{
		Transport: &retry.Transport{
			RetryStrategy: retry.NewExponentialBackOff(100*time.Millisecond, 10*time.Second, 5, nil),
			RetryOn:       retry.NewDefaultRetryOn(),
		},
		Timeout: 30 * time.Second,
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := client.Do(request)
	if err != nil {
		return err
	}
	defer response.Body.Close()

	if response.StatusCode >= 400 {
		return xerrors.Errorf("callback returned status %s", response.Status)
	}

	return nil
}
