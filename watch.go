package main

import (
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 150 * time.Millisecond

// fileWatcher reports changes to one canvas file. It watches the parent
// directory so editors that save by rename are still seen.
type fileWatcher struct {
	path     string
	watcher  *fsnotify.Watcher
	send     func(tea.Msg)
	debounce time.Duration
	logger   *slog.Logger

	done     chan struct{}
	stopOnce sync.Once
}

// watchFile starts watching path and delivers fileChangedMsg through send
// once writes settle.
func watchFile(path string, send func(tea.Msg), debounce time.Duration, logger *slog.Logger) (*fileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, err
	}
	fw := &fileWatcher{
		path:     abs,
		watcher:  w,
		send:     send,
		debounce: debounce,
		logger:   logger,
		done:     make(chan struct{}),
	}
	go fw.loop()
	return fw, nil
}

func (fw *fileWatcher) loop() {
	var (
		timer  *time.Timer
		timerC <-chan time.Time
	)
	for {
		select {
		case <-fw.done:
			if timer != nil {
				timer.Stop()
			}
			return
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != fw.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(fw.debounce)
			} else {
				timer.Reset(fw.debounce)
			}
			timerC = timer.C
		case <-timerC:
			timerC = nil
			fw.logger.Debug("canvas changed on disk", "path", fw.path)
			fw.send(fileChangedMsg{path: fw.path})
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.logger.Warn("watch failed", "path", fw.path, "error", err)
			fw.send(watchErrMsg{err: err})
		}
	}
}

// Close stops the watcher.
func (fw *fileWatcher) Close() error {
	var err error
	fw.stopOnce.Do(func() {
		close(fw.done)
		err = fw.watcher.Close()
	})
	return err
}
