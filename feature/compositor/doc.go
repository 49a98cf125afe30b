// Package compositor is the reference rendering engine.
//
// An Instance composites textured groups over an outfit base image. Every
// group region is defined by its mask layers: a texture is tiled over the whole
// base, and each mask lets it through where the mask is opaque. The composited
// preview is scaled to the mount dimensions and written as a PNG object under
// the configured output prefix.
//
// Source images (base, enhanced base, masks and textures) are read from object
// storage and decoded once (PNG, JPEG or WebP); decoded images are kept in an
// LRU cache shared by every instance of a Factory.
//
// # Texture attributes
//
//   - tint: hex colour multiplied into the texture.
//   - opacity: 0..1, applied to the whole texture.
//   - scale: tile scale factor relative to the source texture size.
//   - tile: false stretches the texture over the group once instead of repeating it.
package compositor
