package types

import (
	"fmt"
	"math"
	"strings"
)

// BaselineDensity is the density (dots per inch) at which one logical unit
// equals one device pixel.
const BaselineDensity = 160

// DisplayID identifies a display within a topology snapshot
type DisplayID int

// Rect represents absolute bounds in the shared logical (DP) coordinate space.
// Right and Bottom are exclusive edges, i.e. Width = Right - Left.
type Rect struct {
	Left   float64 `json:"left" yaml:"left"`
	Top    float64 `json:"top" yaml:"top"`
	Right  float64 `json:"right" yaml:"right"`
	Bottom float64 `json:"bottom" yaml:"bottom"`
}

// Point represents a 2D coordinate
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pixel is an integer device-pixel coordinate local to one display
type Pixel struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Delta is an integer pixel movement
type Delta struct {
	DX int `json:"dx"`
	DY int `json:"dy"`
}

// DeltaF is a fractional movement, in DP or PX depending on context
type DeltaF struct {
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

// Width returns Right - Left
func (r Rect) Width() float64 {
	return r.Right - r.Left
}

// Height returns Bottom - Top
func (r Rect) Height() float64 {
	return r.Bottom - r.Top
}

// Center returns the center point of a Rect
func (r Rect) Center() Point {
	return Point{
		X: (r.Left + r.Right) / 2,
		Y: (r.Top + r.Bottom) / 2,
	}
}

// Contains checks if a point is inside the rect, edges included
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Left && p.X <= r.Right &&
		p.Y >= r.Top && p.Y <= r.Bottom
}

// Clamp returns the point closest to p that lies inside the rect
func (r Rect) Clamp(p Point) Point {
	return Point{
		X: math.Min(math.Max(p.X, r.Left), r.Right),
		Y: math.Min(math.Max(p.Y, r.Top), r.Bottom),
	}
}

// Offset returns the rect translated by (dx, dy)
func (r Rect) Offset(dx, dy float64) Rect {
	return Rect{Left: r.Left + dx, Top: r.Top + dy, Right: r.Right + dx, Bottom: r.Bottom + dy}
}

// IsEmpty reports whether the rect has no area
func (r Rect) IsEmpty() bool {
	return r.Right <= r.Left || r.Bottom <= r.Top
}

// String formats the rect as (left,top)-(right,bottom)
func (r Rect) String() string {
	return fmt.Sprintf("(%g,%g)-(%g,%g)", r.Left, r.Top, r.Right, r.Bottom)
}

// Sub returns the fractional delta from other to p
func (p Point) Sub(other Point) DeltaF {
	return DeltaF{DX: p.X - other.X, DY: p.Y - other.Y}
}

// Add returns p moved by d
func (p Point) Add(d DeltaF) Point {
	return Point{X: p.X + d.DX, Y: p.Y + d.DY}
}

// Round converts to the nearest integer pixel (half away from zero)
func (p Point) Round() Pixel {
	return Pixel{X: int(math.Round(p.X)), Y: int(math.Round(p.Y))}
}

// Sub returns the delta from other to p
func (p Pixel) Sub(other Pixel) Delta {
	return Delta{DX: p.X - other.X, DY: p.Y - other.Y}
}

// Add returns p moved by d
func (p Pixel) Add(d Delta) Pixel {
	return Pixel{X: p.X + d.DX, Y: p.Y + d.DY}
}

// IsZero reports whether the delta moves nowhere
func (d Delta) IsZero() bool {
	return d.DX == 0 && d.DY == 0
}

// Round converts to the nearest integer delta (half away from zero)
func (d DeltaF) Round() Delta {
	return Delta{DX: int(math.Round(d.DX)), DY: int(math.Round(d.DY))}
}

// DpToPx converts logical units to device pixels for a display density
func DpToPx(dp float64, density int) float64 {
	return dp * float64(density) / BaselineDensity
}

// PxToDp converts device pixels to logical units for a display density
func PxToDp(px float64, density int) float64 {
	return px * BaselineDensity / float64(density)
}

// Side names which edge of one display touches a neighbor
type Side int

const (
	SideLeft Side = iota
	SideRight
	SideTop
	SideBottom
)

// String returns the string representation of a Side
func (s Side) String() string {
	switch s {
	case SideLeft:
		return "left"
	case SideRight:
		return "right"
	case SideTop:
		return "top"
	case SideBottom:
		return "bottom"
	default:
		return "unknown"
	}
}

// Opposite returns the side facing back from the neighbor
func (s Side) Opposite() Side {
	switch s {
	case SideLeft:
		return SideRight
	case SideRight:
		return SideLeft
	case SideTop:
		return SideBottom
	case SideBottom:
		return SideTop
	default:
		panic(fmt.Sprintf("invalid side %d", int(s)))
	}
}

// Valid reports whether s is one of the four sides
func (s Side) Valid() bool {
	return s >= SideLeft && s <= SideBottom
}

// ParseSide converts a string to Side. "up"/"down" are accepted as aliases.
func ParseSide(s string) (Side, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left":
		return SideLeft, true
	case "right":
		return SideRight, true
	case "top", "up":
		return SideTop, true
	case "bottom", "down":
		return SideBottom, true
	default:
		return 0, false
	}
}

// MarshalText implements encoding.TextMarshaler
func (s Side) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid side %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (s *Side) UnmarshalText(text []byte) error {
	side, ok := ParseSide(string(text))
	if !ok {
		return fmt.Errorf("invalid side %q", string(text))
	}
	*s = side
	return nil
}
