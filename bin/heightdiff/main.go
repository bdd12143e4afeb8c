package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	_ "image/jpeg"
	"image/png"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/xerrors"

	"terrain-differ/internal/config"
	"terrain-differ/internal/diff/heightmap"
	"terrain-differ/internal/raster"
	"terrain-differ/internal/report"
	"terrain-differ/internal/storage"
)

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

	cfg, err := config.Resolve(os.Args[1:])
	if err != nil {
		if errors.Is(err, config.ErrHelp) {
			fmt.Print(config.Usage)
			os.Exit(1)
		}
		fatal(err)
	}

	ctx := context.Background()

	s, err := newStorage(ctx)
	if err != nil {
		fatal(err)
	}

	maps, err := raster.NewLoaderWithStorage(s).Load(ctx, cfg.InputA, cfg.InputB)
	if err != nil {
		fatal(err)
	}

	result := heightmap.NewHeightDiff(cfg.Raised, cfg.Lowered).Calculate(maps[0], maps[1])

	rep := report.Build(result.Width, result.Height, result.RaisedCount, result.LoweredCount)

	base := cfg.OutputBase
	if base == "" {
		base = rep.DefaultBaseName
	}

	var buffer bytes.Buffer
	if err := png.Encode(&buffer, result.Image()); err != nil {
		fatal(xerrors.Errorf("failed to encode diff image: %w", err))
	}

	if _, err := s.Put(ctx, base+".png", buffer.Bytes()); err != nil {
		fatal(err)
	}

	if cfg.SaveStats {
		if _, err := s.Put(ctx, base+".txt", []byte(rep.Text)); err != nil {
			fatal(err)
		}
	}

	fmt.Print(rep.Text)
}

func newStorage(ctx context.Context) (storage.Storage, error) {
	switch backend := envOrDefaultValue("STORAGE_BACKEND", "file"); backend {
	case "file":
		return storage.NewFileStorage(ctx, storage.FileConfig{
			Directory: envOrDefaultValue("DIRECTORY", "."),
		})
	case "s3":
		return storage.NewS3Storage(ctx, storage.S3Config{
			Bucket: os.Getenv("S3_BUCKET"),
		})
	default:
		return nil, xerrors.Errorf("unknown storage backend: %s", backend)
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
