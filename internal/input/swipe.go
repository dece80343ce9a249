package input

import "math"

// DefaultSwipeThreshold is the minimum horizontal travel, in CSS pixels,
// for a gesture to count as a swipe.
const DefaultSwipeThreshold = 50

// Swipe is a completed touch gesture.
type Swipe struct {
	StartX float64 `json:"startX"`
	StartY float64 `json:"startY"`
	EndX   float64 `json:"endX"`
	EndY   float64 `json:"endY"`
}

// Deltas returns start minus end on both axes. A positive dx is a
// right-to-left swipe.
func (s Swipe) Deltas() (dx, dy float64) {
	return s.StartX - s.EndX, s.StartY - s.EndY
}

// Command classifies the swipe. It registers only when the horizontal delta
// dominates the vertical one and exceeds threshold; right-to-left goes to
// the next slide. A non-positive threshold uses DefaultSwipeThreshold.
func (s Swipe) Command(threshold float64) Command {
	if threshold <= 0 {
		threshold = DefaultSwipeThreshold
	}
	dx, dy := s.Deltas()
	if math.Abs(dx) <= math.Abs(dy) || math.Abs(dx) <= threshold {
		return CmdNone
	}
	if dx > 0 {
		return CmdNext
	}
	return CmdPrevious
}
