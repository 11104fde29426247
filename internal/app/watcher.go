package app

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/corey/jsgettext/internal/ports"
)

// settleInterval batches bursts of changes (a branch switch, a formatter
// run) into one re-extraction.
const settleInterval = 200 * time.Millisecond

// Watch runs once, then re-runs whenever w reports a change to a source
// file, handing every result to emit. Cached files are not re-parsed, so a
// re-run costs roughly one parse per changed file. A failed re-run is
// logged and the watch continues. Watch returns when ctx is done or emit
// fails.
func (a *App) Watch(ctx context.Context, paths []string, w ports.Watcher, emit func(*Result) error) error {
	res, err := a.Run(ctx, paths)
	if err != nil {
		return err
	}
	if err := emit(res); err != nil {
		return err
	}

	changes := make(chan string, 1)
	err = w.Watch(a.ProjectRoot, func(path string) {
		if !a.Accepts(path) {
			return
		}
		select {
		case changes <- path:
		default: // a re-run is already pending
		}
	})
	if err != nil {
		return err
	}
	defer w.Stop()

	log.Info().Str("root", a.ProjectRoot).Msg("Watching for changes")
	for {
		select {
		case <-ctx.Done():
			return nil
		case path := <-changes:
			if !a.settle(ctx, changes) {
				return nil
			}
			log.Info().Str("file", a.disc.rel(path)).Msg("Change detected")

			res, err := a.Run(ctx, paths)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				log.Error().Err(err).Msg("Extraction failed")
				continue
			}
			if err := emit(res); err != nil {
				return err
			}
		}
	}
}

// settle waits until no change has arrived for settleInterval. It returns
// false if ctx ends first.
func (a *App) settle(ctx context.Context, changes <-chan string) bool {
	timer := time.NewTimer(settleInterval)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return false
		case <-changes:
			timer.Reset(settleInterval)
		case <-timer.C:
			return true
		}
	}
}
