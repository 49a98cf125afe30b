// Package engine defines the contract between the preview controller and an
// outfit rendering engine.
//
// An engine is created per outfit config and mount through a Factory, and exposes
// an Instance that applies or removes textures per group. Engine failures are
// reported as *RenderError so callers can tell expected rendering failures apart
// from unexpected ones.
//
// The reference implementation lives in feature/compositor.
package engine
