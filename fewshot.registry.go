package fewshot

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Registry is an explicit, injectable store of named few-shot prompts.
// It is safe for concurrent use. There is deliberately no package-level
// default instance; callers construct and pass their own.
type Registry struct {
	mu      sync.RWMutex
	prompts map[string]*FewShotPromptTemplate
	byPath  map[string]string // definition file path -> prompt name
	watcher *fsnotify.Watcher
	done    chan struct{}
	closed  bool
	logger  *zap.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	c := defaultConfig().apply(opts)
	return &Registry{
		prompts: map[string]*FewShotPromptTemplate{},
		byPath:  map[string]string{},
		logger:  c.logger,
	}
}

// Register adds a prompt under a name. Registering an existing name fails;
// use LoadDir/Watch for reload-in-place semantics.
func (r *Registry) Register(name string, prompt *FewShotPromptTemplate) error {
	if name == "" {
		return NewConfigError(ErrMsgEmptyPromptName)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return NewConfigError(ErrMsgRegistryClosed)
	}
	if _, exists := r.prompts[name]; exists {
		return NewPromptExistsError(name)
	}
	r.prompts[name] = prompt
	r.logger.Debug(LogMsgPromptRegistered, zap.String(LogFieldName, name))
	return nil
}

// Get retrieves a prompt by name.
func (r *Registry) Get(name string) (*FewShotPromptTemplate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	prompt, ok := r.prompts[name]
	if !ok {
		return nil, NewPromptNotFoundError(name)
	}
	return prompt, nil
}

// Names returns all registered prompt names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.prompts))
	for name := range r.prompts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Remove deletes a prompt by name.
func (r *Registry) Remove(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return NewConfigError(ErrMsgRegistryClosed)
	}
	if _, ok := r.prompts[name]; !ok {
		return NewPromptNotFoundError(name)
	}
	delete(r.prompts, name)
	r.logger.Debug(LogMsgPromptRemoved, zap.String(LogFieldName, name))
	return nil
}

// LoadDir loads every YAML prompt definition in dir (non-recursive) and
// registers it under its definition name, replacing any previous prompt
// with the same name.
func (r *Registry) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return NewDefinitionError(ErrMsgDefinitionRead, dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !isDefinitionFile(entry.Name()) {
			continue
		}
		if err := r.loadFile(filepath.Join(dir, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

// Watch starts watching dir for YAML definition changes, reloading changed
// files and dropping prompts whose files are removed. One watch per
// registry; Close stops it.
func (r *Registry) Watch(dir string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return NewConfigError(ErrMsgRegistryClosed)
	}
	if r.watcher != nil {
		return NewConfigError(ErrMsgWatchUnavailable)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return err
	}

	r.watcher = watcher
	r.done = make(chan struct{})
	go r.watchLoop(watcher, r.done)

	r.logger.Debug(LogMsgWatchStarted, zap.String(LogFieldDir, dir))
	return nil
}

// watchLoop handles fsnotify events until Close. The watcher and done channel
// are captured at start so the loop never reads fields Close mutates.
func (r *Registry) watchLoop(watcher *fsnotify.Watcher, done chan struct{}) {
	for {
		select {
		case <-done:
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			r.handleEvent(event)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			r.logger.Warn(LogMsgWatchError, zap.Error(err))
		}
	}
}

func (r *Registry) handleEvent(event fsnotify.Event) {
	if !isDefinitionFile(event.Name) {
		return
	}

	switch {
	case event.Has(fsnotify.Create) || event.Has(fsnotify.Write):
		if err := r.loadFile(event.Name); err != nil {
			r.logger.Warn(LogMsgPromptFileInvalid,
				zap.String(LogFieldPath, event.Name), zap.Error(err))
		}
	case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
		r.dropPath(event.Name)
	}
}

// loadFile parses a definition file and registers (or replaces) its prompt.
func (r *Registry) loadFile(path string) error {
	def, err := LoadPromptDefinition(path)
	if err != nil {
		return err
	}
	prompt, err := def.Build(WithLogger(r.logger))
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return NewConfigError(ErrMsgRegistryClosed)
	}
	if previous, tracked := r.byPath[path]; tracked && previous != def.Name {
		delete(r.prompts, previous)
	}
	r.prompts[def.Name] = prompt
	r.byPath[path] = def.Name

	r.logger.Debug(LogMsgPromptFileLoaded,
		zap.String(LogFieldPath, path), zap.String(LogFieldName, def.Name))
	return nil
}

// dropPath removes the prompt loaded from a now-deleted definition file.
func (r *Registry) dropPath(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name, ok := r.byPath[path]
	if !ok {
		return
	}
	delete(r.byPath, path)
	delete(r.prompts, name)
	r.logger.Debug(LogMsgPromptRemoved, zap.String(LogFieldName, name))
}

// Close stops any active watch and marks the registry closed for writes.
// Get remains usable so in-flight consumers keep working.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true

	if r.watcher != nil {
		close(r.done)
		err := r.watcher.Close()
		r.watcher = nil
		r.logger.Debug(LogMsgWatchStopped)
		return err
	}
	return nil
}

// isDefinitionFile reports whether path looks like a YAML prompt definition.
func isDefinitionFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == FileExtensionYAML || ext == FileExtensionYML
}
