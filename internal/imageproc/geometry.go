package imageproc

import (
	"image"
	"math"
)

// FitWithin returns the dimensions of a w×h image scaled down so that neither
// side exceeds limit. Images already inside the box are returned unchanged;
// nothing is ever scaled up.
func FitWithin(w, h, limit int) (int, int) {
	if w <= 0 || h <= 0 || limit <= 0 {
		return w, h
	}
	if w <= limit && h <= limit {
		return w, h
	}
	if w >= h {
		return limit, scaleSide(h, limit, w)
	}
	return scaleSide(w, limit, h), limit
}

func scaleSide(side, num, den int) int {
	v := int(math.Round(float64(side) * float64(num) / float64(den)))
	if v < 1 {
		return 1
	}
	return v
}

// CenterSquare returns the largest square inside r that shares its center,
// keeping the middle band of the longer axis.
func CenterSquare(r image.Rectangle) image.Rectangle {
	w, h := r.Dx(), r.Dy()
	switch {
	case h > w:
		y0 := r.Min.Y + (h-w)/2
		return image.Rect(r.Min.X, y0, r.Max.X, y0+w)
	case w > h:
		x0 := r.Min.X + (w-h)/2
		return image.Rect(x0, r.Min.Y, x0+h, r.Max.Y)
	default:
		return r
	}
}
