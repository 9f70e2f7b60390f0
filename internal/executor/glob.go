package executor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	gitignore "github.com/denormal/go-gitignore"
	"golang.org/x/sync/errgroup"

	"github.com/harrison/plumb/internal/models"
)

// GlobOptions configures glob expansion.
type GlobOptions struct {
	RespectGitignore bool
}

// Glob expands every pattern concurrently below root and returns file
// matches (no directories) with empty tags, in pattern order then match
// order. A path matched by several patterns is kept once.
func Glob(ctx context.Context, root string, patterns []string, opts GlobOptions) ([]models.PathInfo, error) {
	results := make([][]string, len(patterns))

	g, gctx := errgroup.WithContext(ctx)
	for i, pattern := range patterns {
		i, pattern := i, pattern
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			matches, err := globOne(root, pattern)
			if err != nil {
				return err
			}
			results[i] = matches
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var ignore gitignore.GitIgnore
	if opts.RespectGitignore {
		ignore = loadIgnoreFile(filepath.Join(root, ".gitignore"), root)
	}

	seen := make(map[string]bool)
	var infos []models.PathInfo
	for _, matches := range results {
		for _, match := range matches {
			if seen[match] || isIgnored(ignore, root, match) {
				continue
			}
			seen[match] = true
			infos = append(infos, models.PathInfo{Path: match})
		}
	}
	return infos, nil
}

// globOne expands a single pattern. The static base of the pattern is
// resolved against root (or used as is when absolute) and kept verbatim on
// every match, so "./src/**/*" and "../shared/**/*" yield paths in the same
// form they were given in.
func globOne(root, pattern string) ([]string, error) {
	dir, rel, prefix := splitPattern(root, pattern)
	if !doublestar.ValidatePattern(rel) {
		return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, doublestar.ErrBadPattern)
	}

	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		if err == nil || os.IsNotExist(err) {
			// nothing to match below a missing base
			return nil, nil
		}
		return nil, fmt.Errorf("failed to expand %q: %w", pattern, err)
	}

	matches, err := doublestar.Glob(os.DirFS(dir), rel, doublestar.WithFilesOnly(), doublestar.WithFailOnIOErrors())
	if err != nil {
		return nil, fmt.Errorf("failed to expand %q: %w", pattern, err)
	}
	for i, match := range matches {
		matches[i] = prefix + match
	}
	return matches, nil
}

// splitPattern splits pattern into the directory to glob in, the pattern
// relative to it, and the prefix that turns a relative match back into the
// pattern's own form.
func splitPattern(root, pattern string) (dir, rel, prefix string) {
	pattern = filepath.ToSlash(pattern)
	base, rel := doublestar.SplitPattern(pattern)
	if base == "." && !strings.HasPrefix(pattern, "./") {
		return root, rel, ""
	}

	prefix = base
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	dir = filepath.FromSlash(base)
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(root, dir)
	}
	return dir, rel, prefix
}

// loadIgnoreFile reads an ignore file and creates a GitIgnore matcher from it.
// Returns nil when the file does not exist.
func loadIgnoreFile(filePath string, baseDir string) gitignore.GitIgnore {
	f, err := os.Open(filePath)
	if err != nil {
		return nil
	}
	defer f.Close()

	return gitignore.New(f, baseDir, nil)
}

// isIgnored checks the match and each of its parent directories, so a
// directory rule such as "build/" hides everything below it.
func isIgnored(ignore gitignore.GitIgnore, root, match string) bool {
	if ignore == nil {
		return false
	}

	relative := match
	if filepath.IsAbs(match) {
		rel, err := filepath.Rel(root, match)
		if err != nil || strings.HasPrefix(rel, "..") {
			return false
		}
		relative = rel
	}
	relative = strings.TrimPrefix(filepath.ToSlash(relative), "./")
	if relative == ".." || strings.HasPrefix(relative, "../") {
		// outside the directory the ignore file governs
		return false
	}

	parts := strings.Split(relative, "/")
	for i := 1; i < len(parts); i++ {
		if m := ignore.Relative(strings.Join(parts[:i], "/"), true); m != nil && m.Ignore() {
			return true
		}
	}
	m := ignore.Relative(relative, false)
	return m != nil && m.Ignore()
}
