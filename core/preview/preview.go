package preview

import (
	"context"
	"errors"
	"sync"

	"tailor-preview/core/engine"
	"tailor-preview/core/texture"

	"go.uber.org/zap"
)

// ErrClosed is returned by operations on a closed Preview.
var ErrClosed = errors.New("preview closed")

// Settings configures a Preview.
type Settings struct {
	// Mount is the target the engine renders into.
	Mount engine.Mount

	// ShowLoader and ShowErrors toggle the loader and error overlays.
	ShowLoader bool
	ShowErrors bool

	// QueueCapacity bounds the job queue. Zero uses DefaultQueueCapacity.
	QueueCapacity int

	// Hooks are the lifecycle callbacks.
	Hooks Hooks

	// Archiver fingerprints texture maps. Nil uses texture.NewArchiver().
	Archiver *texture.Archiver
}

// State is what a presentation layer renders.
type State struct {
	// Loading is true while the engine is being created or a job is in flight.
	Loading bool `json:"loading"`

	// Errors is the cumulative list of engine errors.
	Errors []string `json:"errors"`

	// LoaderVisible and ErrorsVisible apply the overlay toggles.
	LoaderVisible bool `json:"loader_visible"`
	ErrorsVisible bool `json:"errors_visible"`

	// Ready is true when a live engine instance exists.
	Ready bool `json:"ready"`

	// Queued is the number of jobs waiting to be drained.
	Queued int `json:"queued"`
}

// Preview keeps an engine instance in sync with an outfit config and a texture map.
type Preview struct {
	factory    engine.Factory
	mount      engine.Mount
	logger     *zap.Logger
	hooks      Hooks
	archiver   *texture.Archiver
	showLoader bool
	showErrors bool

	// baseCtx is handed to texture operations; drained jobs are never cancelled.
	baseCtx context.Context

	// createMu serializes engine rebuilds.
	createMu sync.Mutex

	mu         sync.Mutex
	changed    *sync.Cond
	hasOutfit  bool
	identity   uint64
	generation uint64
	created    bool
	instance   engine.Instance
	options    *engine.Options
	textures   texture.Map
	applied    texture.ArchivedMap
	tailBase   texture.ArchivedMap
	queue      *JobQueue
	initCount  int
	initDone   bool
	draining   bool
	errs       []string
	closed     bool
}

// New creates a Preview. The engine is created by the first SetOutfit call.
func New(factory engine.Factory, logger *zap.Logger, settings Settings) *Preview {
	if logger == nil {
		logger = zap.NewNop()
	}
	archiver := settings.Archiver
	if archiver == nil {
		archiver = texture.NewArchiver()
	}

	p := &Preview{
		factory:    factory,
		mount:      settings.Mount,
		logger:     logger.With(zap.String("mount", settings.Mount.ID)),
		hooks:      settings.Hooks,
		archiver:   archiver,
		showLoader: settings.ShowLoader,
		showErrors: settings.ShowErrors,
		baseCtx:    context.Background(),
		applied:    texture.ArchivedMap{},
		queue:      NewJobQueue(settings.QueueCapacity),
		errs:       []string{},
	}
	p.changed = sync.NewCond(&p.mu)
	return p
}

// State returns a snapshot of the presentation state.
func (p *Preview) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()

	loading := !p.initDone || p.initCount > 0 || p.draining
	errs := make([]string, len(p.errs))
	copy(errs, p.errs)

	return State{
		Loading:       loading,
		Errors:        errs,
		LoaderVisible: p.showLoader && loading,
		ErrorsVisible: p.showErrors && len(errs) > 0,
		Ready:         p.instance != nil,
		Queued:        p.queue.Len(),
	}
}

// Textures returns a copy of the desired texture map.
func (p *Preview) Textures() texture.Map {
	p.mu.Lock()
	defer p.mu.Unlock()
	return cloneTextures(p.textures)
}

// SetTextures sets the desired texture map and queues the resulting job.
// The job is drained as soon as the engine is ready.
func (p *Preview) SetTextures(textures texture.Map) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrClosed
	}
	p.textures = cloneTextures(textures)
	p.reconcileLocked()
	p.mu.Unlock()

	p.kick()
	return nil
}

// SetOptions stores preview options and forwards them to the live instance.
// Stored options are also applied to every instance created later.
func (p *Preview) SetOptions(opts engine.Options) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrClosed
	}
	p.options = &opts
	if p.instance != nil {
		p.instance.SetOptions(opts)
	}
	return nil
}

// Wait blocks until no engine creation or job is in progress and no job can be
// drained. Jobs queued while no engine instance exists do not keep Wait blocked.
func (p *Preview) Wait(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() {
		p.mu.Lock()
		p.changed.Broadcast()
		p.mu.Unlock()
	})
	defer stop()

	p.mu.Lock()
	defer p.mu.Unlock()
	for !p.idleLocked() {
		if err := ctx.Err(); err != nil {
			return err
		}
		p.changed.Wait()
	}
	return nil
}

// Close releases the engine instance. Queued jobs are dropped; an in-flight job
// is allowed to settle first.
func (p *Preview) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.generation++
	p.queue.Clear()
	p.mu.Unlock()

	p.createMu.Lock()
	defer p.createMu.Unlock()
	p.release()
}

func (p *Preview) idleLocked() bool {
	if p.initCount > 0 || p.draining {
		return false
	}
	return p.queue.Len() == 0 || p.instance == nil || p.closed
}

// reconcileLocked diffs the desired textures against the applied snapshot and
// queues the resulting job. When the queue is full the tail job is rebuilt from
// the snapshot it was based on, so the superseding job also carries the changes
// of the job it overwrites.
func (p *Preview) reconcileLocked() {
	next := p.archiver.Archive(p.textures)

	if p.queue.Full() {
		job := texture.BuildJob(texture.Compare(next, p.tailBase), p.textures)
		p.applied = next
		if job.Empty() {
			p.queue.DropTail()
			p.logger.Debug("Dropped superseded job")
		} else {
			p.queue.Push(job)
			p.logger.Debug("Superseded queued job", zap.Strings("groups", job.Groups()))
		}
		p.changed.Broadcast()
		return
	}

	job := texture.BuildJob(texture.Compare(next, p.applied), p.textures)
	if !job.Empty() {
		p.tailBase = p.applied
		p.queue.Push(job)
		p.logger.Debug("Queued job", zap.Strings("groups", job.Groups()), zap.Int("queued", p.queue.Len()))
	}
	p.applied = next
	p.changed.Broadcast()
}

func (p *Preview) appendErrorsLocked(msgs []string) {
	if len(msgs) == 0 {
		return
	}
	p.errs = append(p.errs, msgs...)
}

func cloneTextures(m texture.Map) texture.Map {
	out := make(texture.Map, len(m))
	for group, cfg := range m {
		if cfg == nil {
			out[group] = nil
			continue
		}
		c := texture.Config{ImageSource: cfg.ImageSource}
		if cfg.Attributes != nil {
			c.Attributes = cloneValue(cfg.Attributes).(map[string]any)
		}
		out[group] = &c
	}
	return out
}

// cloneValue deep-copies decoded JSON and YAML attribute values.
func cloneValue(v any) any {
	switch v := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, e := range v {
			out[k] = cloneValue(e)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}
