package watcher

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/penwyp/go-vessel-trail/internal/core/model"
	"github.com/penwyp/go-vessel-trail/internal/util"
)

// FeedWatcher reports changes to a feed file, or to any feed below a directory.
// Bursts of events are coalesced into one after the debounce interval.
type FeedWatcher struct {
	watcher  *fsnotify.Watcher
	target   string // watched file; empty in directory mode
	debounce time.Duration
	events   chan model.FileEvent

	lastStamp util.FileStamp
	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewFeedWatcher starts watching path.
func NewFeedWatcher(path string, debounce time.Duration) (*FeedWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	fw := &FeedWatcher{
		watcher:  w,
		debounce: debounce,
		events:   make(chan model.FileEvent, 1),
		done:     make(chan struct{}),
	}

	if info.IsDir() {
		err = fw.addTree(abs)
	} else {
		// Watch the directory so that editors replacing the file by rename are seen.
		fw.target = abs
		fw.lastStamp, _ = util.StatFile(abs)
		err = w.Add(filepath.Dir(abs))
	}
	if err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", path, err)
	}

	fw.wg.Add(1)
	go fw.processEvents()
	return fw, nil
}

func (fw *FeedWatcher) addTree(root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if p != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return fw.watcher.Add(p)
		}
		return nil
	})
}

func (fw *FeedWatcher) relevant(event fsnotify.Event) bool {
	if fw.target != "" {
		return filepath.Clean(event.Name) == fw.target
	}
	switch strings.ToLower(filepath.Ext(event.Name)) {
	case ".json", ".jsonl":
		return true
	}
	return false
}

func (fw *FeedWatcher) processEvents() {
	defer fw.wg.Done()
	defer close(fw.events)

	var (
		timer   *time.Timer
		timerC  <-chan time.Time
		pending model.FileEvent
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-fw.done:
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if fw.target == "" && event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = fw.addTree(event.Name)
					continue
				}
			}
			if !fw.relevant(event) {
				continue
			}
			pending = model.FileEvent{Path: event.Name, Operation: event.Op.String()}
			if timer == nil {
				timer = time.NewTimer(fw.debounce)
			} else {
				timer.Reset(fw.debounce)
			}
			timerC = timer.C

		case <-timerC:
			timerC = nil
			if fw.unchanged() {
				util.LogDebugf("Feed event ignored, content unchanged: %s", pending.Path)
				continue
			}
			select {
			case fw.events <- pending:
			default:
				// A reload is already queued; it will pick up this change too.
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			util.LogError("Feed watcher error: " + err.Error())
		}
	}
}

// unchanged reports whether the watched file still has the stamp of the last
// delivered change. Removed files always count as changed.
func (fw *FeedWatcher) unchanged() bool {
	if fw.target == "" {
		return false
	}
	stamp, err := util.StatFile(fw.target)
	if err != nil {
		fw.lastStamp = util.FileStamp{}
		return false
	}
	if stamp == fw.lastStamp {
		return true
	}
	fw.lastStamp = stamp
	return false
}

// Events delivers coalesced changes. The channel closes after Close.
func (fw *FeedWatcher) Events() <-chan model.FileEvent {
	return fw.events
}

// Close stops watching. It is safe to call more than once.
func (fw *FeedWatcher) Close() error {
	var err error
	fw.closeOnce.Do(func() {
		close(fw.done)
		err = fw.watcher.Close()
		fw.wg.Wait()
	})
	return err
}
