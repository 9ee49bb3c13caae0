// Package angles tracks occupied angular sectors around a parent body.
package angles

import "github.com/Du4lity5151/DestinationSol/engine/geom"

type sector struct {
	angle float32
	width float32
}

// Reservation is a set of (angle, half-width) sectors in degrees.
// The zero value is empty and ready to use.
type Reservation struct {
	sectors []sector
}

// IsConsumed reports whether a sector at angle with half-width width
// overlaps any reserved sector.
func (r *Reservation) IsConsumed(angle, width float32) bool {
	for _, s := range r.sectors {
		if geom.AngleDiff(angle, s.angle) < width+s.width {
			return true
		}
	}
	return false
}

// Add reserves a sector.
func (r *Reservation) Add(angle, width float32) {
	r.sectors = append(r.sectors, sector{angle: angle, width: width})
}

// Len returns the number of reserved sectors.
func (r *Reservation) Len() int {
	return len(r.sectors)
}

// Reset clears every reservation.
func (r *Reservation) Reset() {
	r.sectors = r.sectors[:0]
}
