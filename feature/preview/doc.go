// Package preview serves preview sessions over HTTP.
//
// A session owns one core/preview controller bound to a mount named after the
// session ID. Clients create a session for an outfit (by catalog name or inline
// config), then push texture maps and options; the controller turns every
// change into a job and drains it into the engine. The composited image is read
// back from object storage.
//
// # Routes
//
//   - POST /previews
//   - GET /previews, GET /previews/:id
//   - PUT /previews/:id/textures, /options, /outfit
//   - GET /previews/:id/image
//   - DELETE /previews/:id
//
// GET routes accept ?wait=true to block until pending jobs have drained.
package preview
