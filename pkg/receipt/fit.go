package receipt

import "math"

// Align selects the horizontal anchor of a fitted text block.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Measurer reports the rendered width of a string at a given font size.
type Measurer interface {
	TextWidth(text string, size float64) float64
}

// FloorSize is the absolute lower bound a fitted size may reach for a given
// requested minimum. Text never renders below 6pt.
func FloorSize(min float64) float64 {
	return math.Max(6, min*0.85)
}

// FitText shrinks from max towards min in fixed steps until the text fits the
// target width or the absolute floor is hit. The text is never truncated: if
// it still overflows at the floor it will simply be drawn wider than target.
// Returns the final size and the measured width at that size.
func FitText(m Measurer, text string, max, min, step, target float64) (float64, float64) {
	floor := FloorSize(min)
	size := max
	for size > floor {
		if m.TextWidth(text, size) <= target {
			break
		}
		size -= step
	}
	if size < floor {
		size = floor
	}
	return size, m.TextWidth(text, size)
}

// AlignOrigin computes the draw X for a block of the given width anchored in
// [x, x+boxWidth]. It is only meaningful after the final fitted size (and so
// the final width) is known. The origin is clamped so overflowing text never
// starts left of the box.
func AlignOrigin(x, boxWidth, textWidth float64, align Align) float64 {
	var origin float64
	switch align {
	case AlignCenter:
		origin = x + (boxWidth-textWidth)/2
	case AlignRight:
		origin = x + boxWidth - textWidth
	default:
		origin = x
	}
	if origin < x {
		origin = x
	}
	if origin < 0 {
		origin = 0
	}
	return origin
}

// lineHeight converts a font size into the vertical space a line consumes.
func lineHeight(size float64) float64 {
	return size * 1.25
}
