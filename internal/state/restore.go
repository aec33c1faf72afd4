package state

import (
	"github.com/yourusername/displayhop/internal/logging"
	"github.com/yourusername/displayhop/internal/sim"
	"github.com/yourusername/displayhop/internal/topology"
)

// Restore places the simulated cursor where it was last recorded on g.
// Returns false when nothing was recorded for this topology, leaving the
// cursor where the simulator put it.
func (s *SimState) Restore(dev *sim.Device, g *topology.Graph) bool {
	id, pos, ok := s.Cursor(Fingerprint(g))
	if !ok {
		return false
	}
	if err := dev.Place(id, pos); err != nil {
		logging.Warn().Err(err).Int("display", int(id)).Msg("discarding saved cursor")
		return false
	}
	return true
}

// Capture records the simulated cursor on g
func (s *SimState) Capture(dev *sim.Device, g *topology.Graph) {
	id, pos := dev.Local()
	s.Record(Fingerprint(g), id, pos)
}
