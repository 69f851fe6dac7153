package services

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/pagebridge/internal/core/domain"
	"github.com/custodia-labs/pagebridge/internal/core/ports/driven"
	"github.com/custodia-labs/pagebridge/internal/core/ports/driving"
	"github.com/custodia-labs/pagebridge/internal/logger"
)

// Ensure BatchRunner implements the interface.
var _ driving.BatchService = (*BatchRunner)(nil)

// DefaultDebounce is how long Watch waits after the last write to a file
// before transforming it.
const DefaultDebounce = 100 * time.Millisecond

// BatchRunner transforms site exports file by file.
type BatchRunner struct {
	adapters  *AdapterRegistry
	transform driving.TransformService
	debounce  time.Duration
}

// NewBatchRunner creates a runner that sends every file through transform.
func NewBatchRunner(adapters *AdapterRegistry, transform driving.TransformService) *BatchRunner {
	return &BatchRunner{
		adapters:  adapters,
		transform: transform,
		debounce:  DefaultDebounce,
	}
}

// SetDebounce changes the Watch debounce delay.
func (b *BatchRunner) SetDebounce(d time.Duration) {
	b.debounce = d
}

type batchPlan struct {
	req driving.BatchRequest
	src driven.FormatAdapter
	ext string
}

func (b *BatchRunner) plan(req driving.BatchRequest) (*batchPlan, error) {
	if req.Dir == "" || req.OutDir == "" {
		return nil, fmt.Errorf("%w: input and output directories required", domain.ErrInvalidInput)
	}
	src, err := b.adapters.Get(req.Template.Source)
	if err != nil {
		return nil, err
	}
	target := req.Template.Target
	if target == "" {
		target = req.Template.Source
	}
	dst, err := b.adapters.Get(target)
	if err != nil {
		return nil, err
	}
	exts := dst.Extensions()
	if len(exts) == 0 {
		return nil, fmt.Errorf("%w: %s has no file extension", domain.ErrUnsupportedType, dst.Framework())
	}
	if req.Jobs <= 0 {
		req.Jobs = 1
	}
	return &batchPlan{req: req, src: src, ext: exts[0]}, nil
}

// matches reports whether path is a source file outside the output tree.
func (p *batchPlan) matches(path string) bool {
	if p.inOutDir(path) {
		return false
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range p.src.Extensions() {
		if e == ext {
			return true
		}
	}
	return false
}

func (p *batchPlan) inOutDir(path string) bool {
	rel, err := filepath.Rel(p.req.OutDir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

func (p *batchPlan) outputPath(input string) (string, error) {
	rel, err := filepath.Rel(p.req.Dir, input)
	if err != nil {
		return "", err
	}
	rel = strings.TrimSuffix(rel, filepath.Ext(rel)) + p.ext
	return filepath.Join(p.req.OutDir, rel), nil
}

// Run transforms every matching file under req.Dir once.
func (b *BatchRunner) Run(ctx context.Context, req driving.BatchRequest) ([]driving.BatchResult, error) {
	p, err := b.plan(req)
	if err != nil {
		return nil, err
	}

	var files []string
	err = filepath.WalkDir(p.req.Dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != p.req.Dir && p.inOutDir(path) {
				return filepath.SkipDir
			}
			return nil
		}
		if p.matches(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", p.req.Dir, err)
	}
	logger.Info("Transforming %d files with %d jobs", len(files), p.req.Jobs)

	return b.process(ctx, p, files)
}

// process transforms files concurrently. Results keep the order of files.
func (b *BatchRunner) process(ctx context.Context, p *batchPlan, files []string) ([]driving.BatchResult, error) {
	results := make([]driving.BatchResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.req.Jobs)
	for i, file := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = b.one(gctx, p, file)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (b *BatchRunner) one(ctx context.Context, p *batchPlan, input string) driving.BatchResult {
	res := driving.BatchResult{Input: input}

	out, err := p.outputPath(input)
	if err != nil {
		res.Err = err
		return res
	}
	res.Output = out

	data, err := os.ReadFile(input)
	if err != nil {
		res.Err = fmt.Errorf("read: %w", err)
		return res
	}

	req := p.req.Template
	req.Input = input
	req.Data = data
	outcome, err := b.transform.Transform(ctx, req)
	if err != nil {
		logger.Debug("Failed %s: %v", input, err)
		res.Err = err
		return res
	}
	res.Run = &outcome.Run

	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		res.Err = fmt.Errorf("create output dir: %w", err)
		return res
	}
	if err := os.WriteFile(out, outcome.Output, 0o644); err != nil {
		res.Err = fmt.Errorf("write: %w", err)
		return res
	}
	logger.Debug("Wrote %s", out)
	return res
}

// Watch transforms source files under req.Dir as they are created or
// written, until ctx is done. Files are batched per debounce window.
func (b *BatchRunner) Watch(ctx context.Context, req driving.BatchRequest, fn func(driving.BatchResult)) error {
	p, err := b.plan(req)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := b.watchTree(watcher, p, p.req.Dir); err != nil {
		return err
	}
	logger.Info("Watching %s", p.req.Dir)

	pending := make(map[string]struct{})
	timer := time.NewTimer(b.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := b.watchTree(watcher, p, event.Name); err != nil {
						logger.Warn("Cannot watch %s: %v", event.Name, err)
					}
					// Files copied in with the directory produce no events.
					n := len(pending)
					b.queueTree(p, event.Name, pending)
					if len(pending) > n {
						timer.Reset(b.debounce)
					}
					continue
				}
			}
			if (event.Has(fsnotify.Write) || event.Has(fsnotify.Create)) && p.matches(event.Name) {
				pending[event.Name] = struct{}{}
				timer.Reset(b.debounce)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watch error: %v", err)

		case <-timer.C:
			files := make([]string, 0, len(pending))
			for f := range pending {
				files = append(files, f)
			}
			clear(pending)
			sort.Strings(files)

			results, err := b.process(ctx, p, files)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
			for _, r := range results {
				fn(r)
			}
		}
	}
}

// queueTree adds the source files under dir to pending.
func (b *BatchRunner) queueTree(p *batchPlan, dir string, pending map[string]struct{}) {
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p.inOutDir(path) {
				return filepath.SkipDir
			}
			return nil
		}
		if p.matches(path) {
			pending[path] = struct{}{}
		}
		return nil
	})
	if err != nil {
		logger.Warn("Cannot scan %s: %v", dir, err)
	}
}

// watchTree adds dir and its subdirectories, skipping the output tree.
func (b *BatchRunner) watchTree(w *fsnotify.Watcher, p *batchPlan, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p.inOutDir(path) {
			return filepath.SkipDir
		}
		if err := w.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}
