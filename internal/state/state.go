package state

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/displayhop/internal/topology"
	"github.com/yourusername/displayhop/internal/types"
)

const (
	// StateVersion is the current state file format version
	StateVersion = 1
)

// topologyNamespace scopes topology fingerprints
var topologyNamespace = uuid.MustParse("6f0c1b8e-3d2a-4c55-9a57-1e2f4b7d8c90")

// SimState is the simulated cursor persisted between hop invocations
type SimState struct {
	Version     int             `json:"version"`
	Topology    string          `json:"topology"` // Fingerprint of the topology the cursor was recorded on
	DisplayID   types.DisplayID `json:"displayId"`
	X           float64         `json:"x"` // local pixels
	Y           float64         `json:"y"`
	HasCursor   bool            `json:"hasCursor"`
	LastUpdated time.Time       `json:"lastUpdated"`

	mu sync.RWMutex `json:"-"` // For thread-safe access (not serialized)
}

// NewSimState creates a new empty state
func NewSimState() *SimState {
	return &SimState{
		Version:     StateVersion,
		LastUpdated: time.Now(),
	}
}

// Fingerprint identifies a topology by its displays and edges. Any change to
// bounds, density or adjacency produces a different fingerprint.
func Fingerprint(g *topology.Graph) string {
	var b strings.Builder
	fmt.Fprintf(&b, "primary=%d;", g.Primary)

	displays := g.Displays()
	sort.Slice(displays, func(i, j int) bool { return displays[i].ID < displays[j].ID })
	for _, d := range displays {
		fmt.Fprintf(&b, "d%d=%s@%d;", d.ID, d.Bounds, d.Density)
	}

	edges := g.Edges()
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].From != edges[j].From {
			return edges[i].From < edges[j].From
		}
		return edges[i].To < edges[j].To
	})
	for _, e := range edges {
		fmt.Fprintf(&b, "e%d>%d:%s;", e.From, e.To, e.Side)
	}

	return uuid.NewSHA1(topologyNamespace, []byte(b.String())).String()
}

// Record stores the cursor location for the topology with fingerprint fp
func (s *SimState) Record(fp string, id types.DisplayID, local types.Point) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Topology = fp
	s.DisplayID = id
	s.X = local.X
	s.Y = local.Y
	s.HasCursor = true
	s.LastUpdated = time.Now()
}

// Cursor returns the recorded location if it was recorded on topology fp
func (s *SimState) Cursor(fp string) (types.DisplayID, types.Point, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.HasCursor || s.Topology != fp {
		return 0, types.Point{}, false
	}
	return s.DisplayID, types.Point{X: s.X, Y: s.Y}, true
}

// Clear forgets the recorded cursor
func (s *SimState) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Topology = ""
	s.DisplayID = 0
	s.X, s.Y = 0, 0
	s.HasCursor = false
	s.LastUpdated = time.Now()
}
