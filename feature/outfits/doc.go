// Package outfits implements the outfit catalog.
//
// Outfit configs are stored by name in the "outfits" table (MySQL or SQLite
// through gorm) as JSON documents. The preview feature resolves outfit names
// against this catalog when a session does not carry an inline config.
//
// # Routes
//
//   - GET /outfits
//   - GET /outfits/:name
//   - PUT /outfits/:name
//   - DELETE /outfits/:name
package outfits
