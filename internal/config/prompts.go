package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"resumefit/internal/errors"

	"github.com/fsnotify/fsnotify"
)

// PromptOverride customizes the prompts for one oracle operation. File-based
// overrides win over inline ones; both win over the compiled-in defaults.
type PromptOverride struct {
	System     string `mapstructure:"system"`
	SystemFile string `mapstructure:"systemFile"`
	User       string `mapstructure:"user"`
	UserFile   string `mapstructure:"userFile"`
}

// PromptOverrides holds per-operation prompt customization
type PromptOverrides struct {
	ExtractJob    PromptOverride `mapstructure:"extractJob"`
	ExtractResume PromptOverride `mapstructure:"extractResume"`
	Match         PromptOverride `mapstructure:"match"`
	Optimize      PromptOverride `mapstructure:"optimize"`
	Recommend     PromptOverride `mapstructure:"recommend"`
	Language      PromptOverride `mapstructure:"language"`
}

func (p *PromptOverrides) forOperation(operation string) *PromptOverride {
	switch operation {
	case "extract_job":
		return &p.ExtractJob
	case "extract_resume":
		return &p.ExtractResume
	case "match":
		return &p.Match
	case "optimize":
		return &p.Optimize
	case "recommend":
		return &p.Recommend
	case "detect_language":
		return &p.Language
	default:
		return nil
	}
}

// PromptStore resolves the effective prompts per operation and keeps
// file-based overrides fresh via a file watcher
type PromptStore struct {
	mu        sync.RWMutex
	overrides PromptOverrides
	fromFiles map[string]string // "operation/system" or "operation/user" -> content
	logger    *errors.Logger
	watcher   *fsnotify.Watcher
}

// NewPromptStore loads any file-based overrides and returns the store
func NewPromptStore(overrides PromptOverrides, logger *errors.Logger) (*PromptStore, error) {
	ps := &PromptStore{
		overrides: overrides,
		fromFiles: make(map[string]string),
		logger:    logger,
	}
	if err := ps.loadAll(); err != nil {
		return nil, err
	}
	return ps, nil
}

// Resolve returns the effective (system, user) prompt overrides for an
// operation. Empty strings mean "use the compiled-in default".
func (ps *PromptStore) Resolve(operation string) (system, user string) {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	override := ps.overrides.forOperation(operation)
	if override == nil {
		return "", ""
	}

	system = ps.fromFiles[operation+"/system"]
	if system == "" {
		system = override.System
	}
	user = ps.fromFiles[operation+"/user"]
	if user == "" {
		user = override.User
	}
	return system, user
}

func (ps *PromptStore) loadAll() error {
	for _, operation := range []string{"extract_job", "extract_resume", "match", "optimize", "recommend", "detect_language"} {
		override := ps.overrides.forOperation(operation)
		if err := ps.loadFile(operation, "system", override.SystemFile); err != nil {
			return err
		}
		if err := ps.loadFile(operation, "user", override.UserFile); err != nil {
			return err
		}
	}
	return nil
}

func (ps *PromptStore) loadFile(operation, kind, path string) error {
	if path == "" {
		return nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to load %s prompt for %s from %s: %w", kind, operation, path, err)
	}
	if len(content) == 0 {
		return fmt.Errorf("%s prompt file %s is empty", kind, path)
	}

	ps.mu.Lock()
	ps.fromFiles[operation+"/"+kind] = string(content)
	ps.mu.Unlock()

	if ps.logger != nil {
		ps.logger.Debug("Loaded prompt override from file",
			"operation", operation, "kind", kind, "file", path)
	}
	return nil
}

// Watch starts watching override files for changes and hot-reloads them.
// It returns immediately; reloads happen on a background goroutine until
// Close is called. Operations with no file overrides make this a no-op.
func (ps *PromptStore) Watch() error {
	paths := ps.filePaths()
	if len(paths) == 0 {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create prompt file watcher: %w", err)
	}
	ps.watcher = watcher

	// Watch directories rather than files so editor rename-and-replace
	// writes are still observed
	dirs := make(map[string]bool)
	for _, p := range paths {
		dirs[filepath.Dir(p)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			ps.watcher = nil
			return fmt.Errorf("failed to watch prompt directory %s: %w", dir, err)
		}
	}

	go ps.watchLoop(paths)
	return nil
}

func (ps *PromptStore) watchLoop(paths []string) {
	watched := make(map[string]bool, len(paths))
	for _, p := range paths {
		watched[filepath.Clean(p)] = true
	}

	for {
		select {
		case event, ok := <-ps.watcher.Events:
			if !ok {
				return
			}
			if !watched[filepath.Clean(event.Name)] {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			ps.reload(event.Name)
		case err, ok := <-ps.watcher.Errors:
			if !ok {
				return
			}
			if ps.logger != nil {
				ps.logger.Warn("Prompt file watcher error", "error", err)
			}
		}
	}
}

func (ps *PromptStore) reload(changed string) {
	changed = filepath.Clean(changed)
	for _, operation := range []string{"extract_job", "extract_resume", "match", "optimize", "recommend", "detect_language"} {
		override := ps.overrides.forOperation(operation)
		if filepath.Clean(override.SystemFile) == changed && override.SystemFile != "" {
			if err := ps.loadFile(operation, "system", override.SystemFile); err != nil && ps.logger != nil {
				ps.logger.Warn("Failed to reload prompt file", "file", changed, "error", err)
			}
		}
		if filepath.Clean(override.UserFile) == changed && override.UserFile != "" {
			if err := ps.loadFile(operation, "user", override.UserFile); err != nil && ps.logger != nil {
				ps.logger.Warn("Failed to reload prompt file", "file", changed, "error", err)
			}
		}
	}
	if ps.logger != nil {
		ps.logger.Info("Prompt override reloaded", "file", changed)
	}
}

func (ps *PromptStore) filePaths() []string {
	var paths []string
	for _, operation := range []string{"extract_job", "extract_resume", "match", "optimize", "recommend", "detect_language"} {
		override := ps.overrides.forOperation(operation)
		if override.SystemFile != "" {
			paths = append(paths, override.SystemFile)
		}
		if override.UserFile != "" {
			paths = append(paths, override.UserFile)
		}
	}
	return paths
}

// Close stops the file watcher if one is running
func (ps *PromptStore) Close() error {
	if ps.watcher != nil {
		return ps.watcher.Close()
	}
	return nil
}
