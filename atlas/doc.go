// Package atlas manages texture atlas pages for the blit renderer.
//
// Source textures are packed append-only into fixed-size RGBA pages
// using shelf rectangle packing. Registration returns an opaque Handle
// that resolves to a page and a normalized UV rectangle. Packed
// rectangles never move or shrink; when a page runs out of room a new
// page is appended, up to the configured page limit.
//
// Lookup is safe concurrently with registration of future textures:
// region metadata lives in an atomically swapped copy-on-write
// snapshot, so a reader never observes a half-mutated page.
package atlas
