// Package batch decodes every replay under a directory concurrently. A file
// that fails to decode is reported and never aborts the rest of the batch.
package batch

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"sync"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/pable/slpstats/internal/model"
	"github.com/pable/slpstats/internal/parser"
)

// Failure is one file that could not be decoded or processed.
type Failure struct {
	Path string
	Err  error
}

func (f Failure) Error() string { return fmt.Sprintf("%s: %v", f.Path, f.Err) }

func (f Failure) Unwrap() error { return f.Err }

// Result holds the decoded matches and the files that failed. Matches are in
// no particular order.
type Result struct {
	Matches  []*model.Match
	Failures []Failure
}

// Options tune a batch run.
type Options struct {
	// Workers bounds the number of files decoded at once; 0 means one per CPU.
	Workers int
	// Process runs on each decoded match inside its worker. An error moves
	// the file to the failures.
	Process func(*model.Match) error
	// Log receives per-file diagnostics. Nil logs to the standard logger.
	Log log.FieldLogger
}

// Find returns the replay files under dir in lexical order.
func Find(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && parser.IsReplay(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}
	sort.Strings(paths)
	return paths, nil
}

// DecodeDir finds and decodes every replay under dir.
func DecodeDir(ctx context.Context, dir string, opts Options) (*Result, error) {
	paths, err := Find(dir)
	if err != nil {
		return nil, err
	}
	return Decode(ctx, paths, opts)
}

// Decode decodes the given files with a bounded pool of workers. The only
// error it returns is the context's; per-file errors land in Result.Failures.
func Decode(ctx context.Context, paths []string, opts Options) (*Result, error) {
	logger := opts.Log
	if logger == nil {
		logger = log.StandardLogger()
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	var (
		mu  sync.Mutex
		res Result
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, path := range paths {
		path := path
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			m, err := decodeOne(path, opts.Process)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				logger.WithField("path", path).WithError(err).Warn("replay failed")
				res.Failures = append(res.Failures, Failure{Path: path, Err: err})
				return nil
			}
			logger.WithField("path", path).WithField("frames", m.TotalFrames).Debug("replay decoded")
			res.Matches = append(res.Matches, m)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return &res, err
	}
	if err := ctx.Err(); err != nil {
		return &res, err
	}
	return &res, nil
}

func decodeOne(path string, process func(*model.Match) error) (*model.Match, error) {
	m, err := parser.ParseFile(path)
	if err != nil {
		return nil, err
	}
	if process != nil {
		if err := process(m); err != nil {
			return nil, err
		}
	}
	return m, nil
}
