package preview

import (
	"context"
	"fmt"

	"tailor-preview/core/engine"
	"tailor-preview/core/texture"

	"go.uber.org/zap"
)

// SetOutfit rebuilds the engine for cfg. Calls with a config equal to the current
// one are no-ops.
//
// Rebuilds are serialized. The previous instance is detached, its in-flight job
// settles, and it is destroyed before the replacement is created. A creation that
// finishes after a newer SetOutfit call is discarded and destroyed.
//
// A *engine.RenderError from creation is recorded in the error list and nil is
// returned. Any other creation error is returned.
func (p *Preview) SetOutfit(ctx context.Context, cfg engine.OutfitConfig) error {
	identity := cfg.Identity()

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrClosed
	}
	if p.hasOutfit && p.identity == identity {
		p.mu.Unlock()
		return nil
	}
	p.hasOutfit = true
	p.identity = identity
	p.generation++
	gen := p.generation
	p.initCount++
	p.changed.Broadcast()
	p.mu.Unlock()

	p.hooks.initStart()
	defer p.finishInit()

	p.createMu.Lock()
	defer p.createMu.Unlock()

	if p.stale(gen) {
		p.logger.Debug("Skipped stale engine rebuild", zap.Uint64("generation", gen))
		return nil
	}

	p.release()

	inst, err := p.factory.Create(ctx, cfg, p.mount)
	if err != nil {
		if engine.IsRenderError(err) {
			p.logger.Warn("Engine creation failed", zap.Error(err))
			p.mu.Lock()
			p.appendErrorsLocked([]string{err.Error()})
			p.mu.Unlock()
			p.hooks.error([]string{err.Error()})
			return nil
		}
		p.mu.Lock()
		if gen == p.generation {
			// Let the caller retry the same config.
			p.hasOutfit = false
		}
		p.mu.Unlock()
		return fmt.Errorf("failed to create engine: %w", err)
	}

	p.mu.Lock()
	if gen != p.generation || p.closed {
		p.mu.Unlock()
		inst.Destroy()
		p.logger.Debug("Discarded stale engine instance", zap.Uint64("generation", gen))
		return nil
	}
	if p.options != nil {
		inst.SetOptions(*p.options)
	}
	p.instance = inst
	if p.created {
		// A fresh instance carries no textures: re-apply the whole desired map.
		p.queue.Clear()
		p.applied = texture.ArchivedMap{}
		p.tailBase = nil
		p.reconcileLocked()
	}
	p.created = true
	p.changed.Broadcast()
	p.mu.Unlock()

	p.logger.Info("Engine ready", zap.Uint64("generation", gen))
	return nil
}

func (p *Preview) finishInit() {
	p.hooks.initEnd()

	p.mu.Lock()
	p.initCount--
	p.initDone = true
	p.changed.Broadcast()
	p.mu.Unlock()

	p.kick()
}

func (p *Preview) stale(gen uint64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return gen != p.generation || p.closed
}

// release detaches the current instance, waits for its in-flight job to settle
// and destroys it. Callers must hold createMu.
func (p *Preview) release() {
	p.mu.Lock()
	old := p.instance
	p.instance = nil
	for p.draining {
		p.changed.Wait()
	}
	p.changed.Broadcast()
	p.mu.Unlock()

	if old != nil {
		old.Destroy()
		p.logger.Debug("Released engine instance")
	}
}
