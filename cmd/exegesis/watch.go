package main

import (
	"context"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	"exegesis/cmd/exegesis/ui"
	"exegesis/internal/logging"
)

// Editors tend to save in bursts (truncate, write, rename).
const watchDebounce = 200 * time.Millisecond

// watchStudy re-reads path after every change and sends the result to the
// viewer. The parent directory is watched so rename-on-save is seen too.
func watchStudy(ctx context.Context, path string, send func(tea.Msg)) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return err
	}

	log := logging.Get(logging.CategoryUI)
	log.Debug("watching %s", abs)

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs || event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			pending = time.After(watchDebounce)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("watch error: %v", err)

		case <-pending:
			pending = nil
			doc, err := readStudy(abs)
			send(ui.Reload(doc, err))
		}
	}
}

func studyFeed(path string) ui.Feed {
	return func(ctx context.Context, send func(tea.Msg)) {
		if err := watchStudy(ctx, path, send); err != nil {
			logging.Get(logging.CategoryUI).Warn("live reload disabled: %v", err)
		}
	}
}
