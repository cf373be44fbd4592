package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	getter "github.com/hashicorp/go-getter"
)

// fetchTimeout bounds a directory download.
const fetchTimeout = 120 * time.Second

// FetchDirectory downloads a single directory file from src to dst. src is any
// go-getter source: a local path, an http(s) url, or a git path such as
// "github.com/org/repo//directories/juno.toml".
func FetchDirectory(ctx context.Context, src, dst string) error {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	pwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", dst, err)
	}

	client := getter.Client{
		Ctx:       ctx,
		Src:       src,
		Dst:       dst,
		Pwd:       pwd,
		Mode:      getter.ClientModeFile,
		Detectors: getter.Detectors,
		Getters:   getter.Getters,
	}
	if err := client.Get(); err != nil {
		return fmt.Errorf("failed to download directory from %s: %w", src, err)
	}
	return nil
}
