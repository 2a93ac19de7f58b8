// Package catalog loads and hot-reloads model cards: YAML files
// describing the TTS models a deployment exposes, keyed by model name.
package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// Entry is one model card. Provider names a registered backend; the
// capability fields override that backend's defaults when set.
type Entry struct {
	Name          string   `yaml:"name"`
	Label         string   `yaml:"label"`
	Provider      string   `yaml:"provider"`
	Modes         []string `yaml:"modes"`
	DefaultVoice  string   `yaml:"default_voice"`
	WordLimit     int      `yaml:"word_limit"`
	AudioEncoding string   `yaml:"audio_encoding"`
}

// Catalog loads model cards from a directory and optionally
// hot-reloads them on file changes.
type Catalog struct {
	dir string

	mu      sync.RWMutex
	entries map[string]*Entry
}

// New creates a catalog backed by the given directory.
func New(dir string) *Catalog {
	return &Catalog{
		dir:     dir,
		entries: make(map[string]*Entry),
	}
}

// LoadAll loads all .yaml and .yml files from the configured directory.
func (c *Catalog) LoadAll() (map[string]*Entry, error) {
	dirEntries, err := os.ReadDir(c.dir)
	if err != nil {
		return nil, fmt.Errorf("read catalog dir %q: %w", c.dir, err)
	}

	result := make(map[string]*Entry)
	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}
		ext := filepath.Ext(de.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}

		path := filepath.Join(c.dir, de.Name())
		entry, err := c.loadFile(path)
		if err != nil {
			return nil, fmt.Errorf("load %q: %w", path, err)
		}
		result[entry.Name] = entry
	}

	c.mu.Lock()
	c.entries = result
	c.mu.Unlock()

	return result, nil
}

// Get returns a loaded model card by model name.
func (c *Catalog) Get(name string) (*Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[name]
	return entry, ok
}

// All returns all loaded model cards.
func (c *Catalog) All() map[string]*Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result := make(map[string]*Entry, len(c.entries))
	for k, v := range c.entries {
		result[k] = v
	}
	return result
}

func (c *Catalog) loadFile(path string) (*Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var entry Entry
	if err := yaml.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	if entry.Name == "" {
		entry.Name = filepath.Base(path)
	}
	if entry.Provider == "" {
		return nil, fmt.Errorf("model card %q names no provider", entry.Name)
	}

	return &entry, nil
}

// WatchAndReload starts watching the catalog directory for changes and
// reloads. This blocks until the done channel is closed.
func (c *Catalog) WatchAndReload(done <-chan struct{}) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(c.dir); err != nil {
		return fmt.Errorf("watch dir %q: %w", c.dir, err)
	}

	for {
		select {
		case <-done:
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				ext := filepath.Ext(event.Name)
				if ext == ".yaml" || ext == ".yml" {
					c.LoadAll()
				}
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return err
		}
	}
}
