package types

// Box is an axis-aligned rectangle in page coordinates.
// The origin is the top-left corner of the page; Top grows downward.
type Box struct {
	Left   float64 `json:"left" yaml:"left"`
	Top    float64 `json:"top" yaml:"top"`
	Right  float64 `json:"right" yaml:"right"`
	Bottom float64 `json:"bottom" yaml:"bottom"`
}

// Width returns the horizontal extent of the box.
func (b Box) Width() float64 { return b.Right - b.Left }

// Height returns the vertical extent of the box.
func (b Box) Height() float64 { return b.Bottom - b.Top }

// Empty reports whether the box encloses no area.
func (b Box) Empty() bool { return b.Right <= b.Left || b.Bottom <= b.Top }

// Contains reports whether the point lies inside the box (edges inclusive).
func (b Box) Contains(x, y float64) bool {
	return x >= b.Left && x <= b.Right && y >= b.Top && y <= b.Bottom
}

// ContainsBox reports whether r lies entirely inside b.
func (b Box) ContainsBox(r Box) bool {
	return r.Left >= b.Left && r.Right <= b.Right && r.Top >= b.Top && r.Bottom <= b.Bottom
}
