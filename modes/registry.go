package modes

import (
	"murmur/log"
)

// Settings is the slice of the persistence store the registry writes to.
type Settings interface {
	Set(key, value string) error
}

// The registry propagates accepted selections to the pipeline first,
// then the overlay, synchronously.
type Registry struct {
	settings   Settings
	settingKey string
	catalog    []Mode

	activeID         string
	cleanupAvailable func() bool

	onPipeline func(modeID string)
	onOverlay  func(modeID string)
}

func NewRegistry(settings Settings, settingKey string, cleanupAvailable func() bool) *Registry {
	return &Registry{
		settings:         settings,
		settingKey:       settingKey,
		catalog:          Catalog(),
		activeID:         DefaultID,
		cleanupAvailable: cleanupAvailable,
	}
}

func (r *Registry) Catalog() []Mode  { return r.catalog }
func (r *Registry) ActiveID() string { return r.activeID }

// OnSelect wires the two propagation targets. pipeline fires before
// overlay on every accepted selection.
func (r *Registry) OnSelect(pipeline, overlay func(modeID string)) {
	r.onPipeline = pipeline
	r.onOverlay = overlay
}

// Restore applies a previously persisted selection without persisting it
// again. Unknown or gated ids leave the default active.
func (r *Registry) Restore(id string) {
	if id == "" {
		return
	}
	mode, ok := r.lookup(id)
	if !ok || !r.allowed(mode) {
		return
	}
	r.activeID = id
	r.propagate()
}

// Select switches the active mode. A mode requiring the cleanup
// capability is rejected (no-op) while the capability is unavailable,
// unless it is the default mode.
func (r *Registry) Select(id string) bool {
	mode, ok := r.lookup(id)
	if !ok {
		log.Warnf("unknown mode: %s", id)
		return false
	}
	if !r.allowed(mode) {
		log.Info("mode rejected, cleanup unavailable: " + id)
		return false
	}

	r.activeID = id
	if err := r.settings.Set(r.settingKey, id); err != nil {
		log.Warnf("persist mode: %v", err)
	}
	r.propagate()
	return true
}

func (r *Registry) allowed(mode Mode) bool {
	return !mode.RequiresCleanup || mode.ID == DefaultID || r.cleanupAvailable()
}

func (r *Registry) lookup(id string) (Mode, bool) {
	for _, m := range r.catalog {
		if m.ID == id {
			return m, true
		}
	}
	return Mode{}, false
}

func (r *Registry) propagate() {
	if r.onPipeline != nil {
		r.onPipeline(r.activeID)
	}
	if r.onOverlay != nil {
		r.onOverlay(r.activeID)
	}
}
