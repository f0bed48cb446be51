// Package asset loads asset files off the tick goroutine and hands the
// results back on a later tick.
package asset

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

// Result is the outcome of one load.
type Result struct {
	Path string
	Data []byte
	Err  error
}

type completion struct {
	result Result
	onDone func(Result)
}

// Loader reads files on worker goroutines. Callbacks never run on those
// goroutines: finished loads queue up until Pump is called from the tick
// goroutine, so callbacks may touch scene state freely.
type Loader struct {
	root string
	log  *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	done   chan completion

	// tick goroutine only
	pending  int
	rejected []completion
}

func NewLoader(root string, log *zap.Logger) *Loader {
	ctx, cancel := context.WithCancel(context.Background())
	return &Loader{
		root:   root,
		log:    log,
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan completion, 64),
	}
}

// Request starts loading path (relative paths resolve against the loader
// root). onDone runs during a later Pump. After Close the request fails
// and onDone still runs, with the error.
func (l *Loader) Request(path string, onDone func(Result)) {
	full := path
	if !filepath.IsAbs(full) {
		full = filepath.Join(l.root, path)
	}
	l.pending++
	if err := l.ctx.Err(); err != nil {
		l.rejected = append(l.rejected, completion{
			result: Result{Path: path, Err: fmt.Errorf("load asset %s: loader closed: %w", path, err)},
			onDone: onDone,
		})
		return
	}
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		res := Result{Path: path}
		if l.ctx.Err() != nil {
			return
		}
		data, err := os.ReadFile(full)
		if err != nil {
			res.Err = fmt.Errorf("load asset %s: %w", path, err)
		} else {
			res.Data = data
		}
		select {
		case l.done <- completion{result: res, onDone: onDone}:
		case <-l.ctx.Done():
		}
	}()
}

// Pump applies every finished load without blocking and returns how many
// callbacks ran.
func (l *Loader) Pump() int {
	n := l.applyRejected()
	for {
		select {
		case c := <-l.done:
			l.apply(c)
			n++
		default:
			return n
		}
	}
}

// Await blocks until every requested load has been applied or ctx is done.
// Meant for startup and tests; the tick loop uses Pump.
func (l *Loader) Await(ctx context.Context) error {
	l.applyRejected()
	for l.pending > 0 {
		select {
		case c := <-l.done:
			l.apply(c)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (l *Loader) applyRejected() int {
	n := len(l.rejected)
	for len(l.rejected) > 0 {
		c := l.rejected[0]
		l.rejected = l.rejected[1:]
		l.apply(c)
	}
	return n
}

func (l *Loader) apply(c completion) {
	l.pending--
	if c.result.Err != nil {
		l.log.Warn("asset load failed", zap.String("path", c.result.Path), zap.Error(c.result.Err))
	} else {
		l.log.Debug("asset loaded", zap.String("path", c.result.Path), zap.Int("bytes", len(c.result.Data)))
	}
	if c.onDone != nil {
		c.onDone(c.result)
	}
}

// Pending returns how many requested loads have not been applied yet.
func (l *Loader) Pending() int { return l.pending }

// Close abandons outstanding loads; their callbacks never run.
func (l *Loader) Close() {
	l.cancel()
	l.wg.Wait()
	for len(l.done) > 0 {
		<-l.done
	}
	l.pending = len(l.rejected)
}
