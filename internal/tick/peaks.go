package tick

import "fmt"

// Peak is a local maximum of a projection.
type Peak struct {
	// Position is the index of the peak in the projection.
	Position int `json:"position"`

	// Magnitude is how far the peak rises above the lower of its two
	// neighbourhoods (the smaller of the left and right prominences).
	Magnitude int `json:"magnitude"`
}

// PeakSet is a list of peaks ordered by position.
type PeakSet []Peak

// Positions returns the peak positions in order.
func (ps PeakSet) Positions() []int {
	positions := make([]int, len(ps))
	for i, p := range ps {
		positions[i] = p.Position
	}
	return positions
}

// LocatePeaks finds the border lines of a frame in a projection.
//
// Parameters:
//   - p: Projection to search.
//   - windowSize: Half-width of the neighbourhood examined on each side of a
//     position, and the minimum distance between two reported peaks.
//   - minProminence: How far a position must rise above the lowest value on
//     its left and, separately, on its right.
//
// Returns the accepted peaks ordered by position, or ErrInvalidInput when
// windowSize < 1 or minProminence < 0.
//
// # Algorithm
//
// Position i is a candidate when p[i] is the largest value in p[i-w..i+w] and
// rises at least minProminence (and at least 1) above the minimum of
// p[i-w..i-1] and above the minimum of p[i+1..i+w]. Values beyond either end
// of the projection count as 0, which is what lies outside a cropped region.
//
// Candidates are scanned left to right. A candidate within windowSize of the
// last accepted peak replaces it only when its magnitude is strictly larger;
// otherwise the earlier peak wins.
//
// A thin frame gives exactly two peaks per axis. A box filled edge to edge has
// no interior contrast and gives none, which callers must handle.
func LocatePeaks(p Projection, windowSize, minProminence int) (PeakSet, error) {
	if windowSize < 1 {
		return nil, fmt.Errorf("%w: window size %d must be at least 1", ErrInvalidInput, windowSize)
	}
	if minProminence < 0 {
		return nil, fmt.Errorf("%w: minimum prominence %d must not be negative", ErrInvalidInput, minProminence)
	}

	peaks := make(PeakSet, 0, 2)
	for i := range p {
		magnitude, ok := prominence(p, i, windowSize)
		if !ok || magnitude < minProminence || magnitude < 1 {
			continue
		}

		if n := len(peaks); n > 0 && i-peaks[n-1].Position <= windowSize {
			if magnitude > peaks[n-1].Magnitude {
				peaks[n-1] = Peak{Position: i, Magnitude: magnitude}
			}
			continue
		}
		peaks = append(peaks, Peak{Position: i, Magnitude: magnitude})
	}
	return peaks, nil
}

// prominence reports whether p[i] is the maximum of its window and, if so, how
// far it rises above the lower side.
func prominence(p Projection, i, w int) (int, bool) {
	v := p[i]
	leftMin, rightMin := v, v
	for d := 1; d <= w; d++ {
		left := valueAt(p, i-d)
		right := valueAt(p, i+d)
		if left > v || right > v {
			return 0, false
		}
		if left < leftMin {
			leftMin = left
		}
		if right < rightMin {
			rightMin = right
		}
	}
	return min(v-leftMin, v-rightMin), true
}

func valueAt(p Projection, i int) int {
	if i < 0 || i >= len(p) {
		return 0
	}
	return p[i]
}
