package executor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/harrison/plumb/internal/models"
)

// Load reads every list file concurrently and merges their entries in
// argument order, keeping the first entry for each path.
func Load(ctx context.Context, root string, names []string) ([]models.PathInfo, error) {
	results := make([][]models.PathInfo, len(names))

	g, gctx := errgroup.WithContext(ctx)
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			infos, err := loadListFile(resolve(root, name))
			if err != nil {
				return err
			}
			results[i] = infos
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var merged []models.PathInfo
	for _, infos := range results {
		merged = append(merged, infos...)
	}
	return models.DedupeByPath(merged), nil
}

func loadListFile(path string) ([]models.PathInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read list file: %w", err)
	}
	defer f.Close()

	infos, err := models.ParsePathList(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read list file %s: %w", path, err)
	}
	return infos, nil
}

func resolve(root, name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(root, name)
}
