package parallel

import "image"

// DefaultTileSize is the edge length of a shading tile in pixels.
const DefaultTileSize = 64

// Tiles splits bounds into size×size rectangles in row-major order. Tiles on
// the right and bottom edges are clipped to bounds. The rectangles are
// disjoint and cover bounds exactly.
func Tiles(bounds image.Rectangle, size int) []image.Rectangle {
	if size <= 0 {
		size = DefaultTileSize
	}
	if bounds.Empty() {
		return nil
	}
	cols := (bounds.Dx() + size - 1) / size
	rows := (bounds.Dy() + size - 1) / size
	tiles := make([]image.Rectangle, 0, cols*rows)
	for y := bounds.Min.Y; y < bounds.Max.Y; y += size {
		for x := bounds.Min.X; x < bounds.Max.X; x += size {
			tiles = append(tiles, image.Rect(x, y, x+size, y+size).Intersect(bounds))
		}
	}
	return tiles
}
