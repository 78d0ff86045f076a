package parser

import (
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultSettle is how long a log must stay unchanged before it is reported.
const DefaultSettle = 2 * time.Second

// Watcher reports log files in a directory once they stop changing.
// Solvers write their logs incrementally, so a file is only emitted after
// no write has been seen for the settle interval.
type Watcher struct {
	Dir    string
	Settle time.Duration
	Logs   <-chan string // Paths of settled logs

	logs    chan string
	stop    chan struct{}
	done    chan struct{}
	watcher *fsnotify.Watcher
}

// NewWatcher creates a watcher for dir. A settle of zero uses DefaultSettle.
func NewWatcher(dir string, settle time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if settle <= 0 {
		settle = DefaultSettle
	}

	ch := make(chan string, 16)
	return &Watcher{
		Dir:     dir,
		Settle:  settle,
		Logs:    ch,
		logs:    ch,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
		watcher: fw,
	}, nil
}

// Start begins watching the directory. When the directory cannot be
// watched the watcher is closed and Stop only closes Logs.
func (w *Watcher) Start() error {
	if err := w.watcher.Add(w.Dir); err != nil {
		w.watcher.Close()
		close(w.done)
		return err
	}

	go w.loop()
	return nil
}

// Stop closes the watcher and the Logs channel. Logs still settling are
// dropped.
func (w *Watcher) Stop() {
	close(w.stop)
	w.watcher.Close()
	<-w.done
	close(w.logs)
}

func (w *Watcher) loop() {
	defer close(w.done)

	pending := make(map[string]time.Time)
	tick := w.Settle / 4
	if tick < 10*time.Millisecond {
		tick = 10 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !hasLogExtension(event.Name) {
				continue
			}
			switch {
			case event.Has(fsnotify.Write) || event.Has(fsnotify.Create):
				pending[event.Name] = time.Now()
			case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
				delete(pending, event.Name)
			}

		case <-ticker.C:
			now := time.Now()
			for file, last := range pending {
				if now.Sub(last) < w.Settle {
					continue
				}
				delete(pending, file)
				if info, err := os.Stat(file); err != nil || info.Size() == 0 {
					continue
				}
				select {
				case w.logs <- file:
				case <-w.stop:
					return
				}
			}

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// Watch errors are non-fatal.
		}
	}
}
