// Package preview implements the controller that keeps an outfit engine in sync
// with a desired outfit config and texture map.
//
// # Pipeline
//
//   - Engine lifecycle: SetOutfit (re)creates the engine instance whenever the
//     outfit config changes, releasing the previous instance first.
//   - Reconcile: SetTextures archives the texture map, diffs it against the
//     applied snapshot (core/texture) and queues the resulting job.
//   - Drain: jobs are taken from a bounded JobQueue one at a time. All operations
//     of a job run concurrently and settle before the next job starts.
//
// # Job Queue
//
// The queue holds at most two jobs. A job pushed onto a full queue overwrites the
// tail, so a burst of updates collapses into the head job plus one superseding job.
//
// # Errors
//
// Engine failures are collected into a cumulative error list exposed by State.
// Only unexpected engine creation errors are returned to the caller.
//
// # Usage
//
//	p := preview.New(factory, logger, preview.Settings{Mount: mount, ShowErrors: true})
//	if err := p.SetOutfit(ctx, outfit); err != nil {
//	    return err
//	}
//	_ = p.SetTextures(texture.Map{"kurta": {ImageSource: "textures/1.jpg"}})
//	_ = p.Wait(ctx)
//	state := p.State()
package preview
