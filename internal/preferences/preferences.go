// Package preferences exposes live configuration values and notifies
// listeners when one of them changes.
package preferences

import (
	"fmt"
	"path/filepath"
	"reflect"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"vsxregistry/internal/config"
	"vsxregistry/internal/event"
)

// Change describes one modified preference.
type Change struct {
	PreferenceName string
	NewValue       any
	OldValue       any
}

type Store interface {
	APIURL() string
	OnPreferenceChanged(fn func(Change)) event.Unsubscribe
}

// ViperStore tracks a fixed set of keys of a viper instance. Viper is not
// safe for concurrent use, so every access to v goes through vmu.
type ViperStore struct {
	vmu  sync.RWMutex
	v    *viper.Viper
	keys []string

	mu       sync.Mutex
	snapshot map[string]any
	watcher  *fsnotify.Watcher

	changed *event.Emitter[Change]
}

var _ Store = (*ViperStore)(nil)

// NewViperStore tracks the registry keys plus any extra keys given.
func NewViperStore(v *viper.Viper, extra ...string) *ViperStore {
	keys := append([]string{config.KeyAPIURL, config.KeyWebURL}, extra...)
	s := &ViperStore{
		v:        v,
		keys:     keys,
		snapshot: make(map[string]any, len(keys)),
		changed:  event.NewEmitter[Change](),
	}
	for _, k := range keys {
		s.snapshot[k] = v.Get(k)
	}
	return s
}

func (s *ViperStore) APIURL() string {
	s.vmu.RLock()
	defer s.vmu.RUnlock()
	return s.v.GetString(config.KeyAPIURL)
}

func (s *ViperStore) WebURL() string {
	s.vmu.RLock()
	defer s.vmu.RUnlock()
	return s.v.GetString(config.KeyWebURL)
}

func (s *ViperStore) Get(key string) any {
	s.vmu.RLock()
	defer s.vmu.RUnlock()
	return s.v.Get(key)
}

func (s *ViperStore) OnPreferenceChanged(fn func(Change)) event.Unsubscribe {
	return s.changed.Subscribe(fn)
}

// Set overrides a value at runtime. Listeners hear about it only when the
// effective value differs.
func (s *ViperStore) Set(key string, value any) {
	s.vmu.Lock()
	s.v.Set(key, value)
	s.vmu.Unlock()
	s.refresh()
}

// Watch re-reads the config file whenever it changes on disk. It is a no-op
// when viper was not loaded from a file. viper.WatchConfig is not used
// because it reloads outside of vmu.
func (s *ViperStore) Watch() error {
	s.vmu.RLock()
	file := s.v.ConfigFileUsed()
	s.vmu.RUnlock()
	if file == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.watcher != nil {
		return nil
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create config watcher: %w", err)
	}
	// Editors often replace the file, so watch its directory.
	if err := w.Add(filepath.Dir(file)); err != nil {
		w.Close()
		return fmt.Errorf("failed to watch %s: %w", file, err)
	}
	s.watcher = w

	go s.watch(w, filepath.Clean(file))
	return nil
}

// Close stops watching the config file.
func (s *ViperStore) Close() error {
	s.mu.Lock()
	w := s.watcher
	s.watcher = nil
	s.mu.Unlock()
	if w == nil {
		return nil
	}
	return w.Close()
}

func (s *ViperStore) watch(w *fsnotify.Watcher, file string) {
	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != file || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			s.vmu.Lock()
			err := s.v.ReadInConfig()
			s.vmu.Unlock()
			// A half-written file fails to parse; the next write retries.
			if err != nil {
				continue
			}
			s.refresh()
		case _, ok := <-w.Errors:
			if !ok {
				return
			}
		}
	}
}

func (s *ViperStore) refresh() {
	var changes []Change

	s.mu.Lock()
	s.vmu.RLock()
	for _, k := range s.keys {
		cur := s.v.Get(k)
		old := s.snapshot[k]
		if reflect.DeepEqual(cur, old) {
			continue
		}
		s.snapshot[k] = cur
		changes = append(changes, Change{PreferenceName: k, NewValue: cur, OldValue: old})
	}
	s.vmu.RUnlock()
	s.mu.Unlock()

	for _, c := range changes {
		s.changed.Fire(c)
	}
}
