package preview

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"tailor-preview/core/engine"
	"tailor-preview/core/texture"

	"go.uber.org/zap"
)

// kick starts draining the head job if no job is in flight and an engine
// instance is ready. It is called whenever either condition may have changed,
// so a job queued before the engine was ready is picked up once it is.
func (p *Preview) kick() {
	p.mu.Lock()
	if p.closed || p.draining || p.instance == nil {
		p.mu.Unlock()
		return
	}
	job, ok := p.queue.Pop()
	if !ok {
		p.mu.Unlock()
		return
	}
	inst := p.instance
	p.draining = true
	p.changed.Broadcast()
	p.mu.Unlock()

	go p.drain(inst, job)
}

// drain executes one job and starts the next one once every operation settled.
func (p *Preview) drain(inst engine.Instance, job texture.Job) {
	p.hooks.renderStart()

	failures := p.execute(p.baseCtx, inst, job)

	p.mu.Lock()
	p.appendErrorsLocked(failures)
	p.mu.Unlock()

	p.hooks.error(failures)
	p.hooks.renderEnd()

	p.mu.Lock()
	p.draining = false
	p.changed.Broadcast()
	p.mu.Unlock()

	p.kick()
}

// execute runs every operation of the job concurrently and waits for all of them.
// A failing operation never cancels its siblings. The failures are returned as
// display messages in group order.
func (p *Preview) execute(ctx context.Context, inst engine.Instance, job texture.Job) []string {
	groups := job.Groups()
	errs := make([]error, len(groups))

	var wg sync.WaitGroup
	wg.Add(len(groups))
	for i, group := range groups {
		go func(i int, group string, op texture.Op) {
			defer wg.Done()
			errs[i] = runOp(ctx, inst, group, op)
		}(i, group, job[group])
	}
	wg.Wait()

	var failures []string
	for i, err := range errs {
		if err == nil {
			continue
		}
		if engine.IsRenderError(err) {
			p.logger.Warn("Texture operation failed", zap.String("group", groups[i]), zap.Error(err))
		} else {
			p.logger.Error("Unexpected texture operation failure", zap.String("group", groups[i]), zap.Error(err))
		}
		failures = append(failures, err.Error())
	}

	p.logger.Debug("Drained job",
		zap.Strings("groups", groups),
		zap.Int("failures", len(failures)),
	)
	return failures
}

func runOp(ctx context.Context, inst engine.Instance, group string, op texture.Op) error {
	switch op.Kind {
	case texture.OpApply:
		if op.Config == nil {
			return engine.NewRenderError(engine.OpApply, group, errors.New("missing texture config"))
		}
		return inst.ApplyTexture(ctx, group, *op.Config)
	case texture.OpRemove:
		return inst.RemoveTexture(ctx, group)
	default:
		panic(fmt.Sprintf("preview: unhandled op %v for group %q", op.Kind, group))
	}
}
