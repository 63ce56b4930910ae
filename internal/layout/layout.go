// Package layout infers the reading regions of a two-column page from its
// drawn rule lines: the column separator and the vertical content band
// between the running header and the footer.
package layout

import (
	"math"

	"github.com/jackzampolin/lexsplit/internal/pdfsrc"
	"github.com/jackzampolin/lexsplit/internal/types"
)

// Config holds the geometric thresholds used by the segmenter.
type Config struct {
	// Tolerance is the maximum endpoint drift for a segment to count as
	// vertical or horizontal.
	Tolerance float64 `mapstructure:"tolerance" yaml:"tolerance"`
	// FullWidthRatio is the fraction of page width a horizontal segment must
	// span to be treated as a header/footer rule.
	FullWidthRatio float64 `mapstructure:"full_width_ratio" yaml:"full_width_ratio"`
	// HeaderOffset is the distance below the header rule where content starts
	// (one running-header line plus margin).
	HeaderOffset float64 `mapstructure:"header_offset" yaml:"header_offset"`
	// FooterZone is the fraction of page height below which rules are footers.
	FooterZone float64 `mapstructure:"footer_zone" yaml:"footer_zone"`
	// FooterMargin is backed off above the footer rule.
	FooterMargin float64 `mapstructure:"footer_margin" yaml:"footer_margin"`
	// FallbackTop and FallbackBottom are page-height fractions used when no
	// rule is found.
	FallbackTop    float64 `mapstructure:"fallback_top" yaml:"fallback_top"`
	FallbackBottom float64 `mapstructure:"fallback_bottom" yaml:"fallback_bottom"`
	// Gutter is left free on each side of the separator.
	Gutter float64 `mapstructure:"gutter" yaml:"gutter"`
	// RulesFromRects treats hairline rectangles as rules.
	RulesFromRects bool `mapstructure:"rules_from_rects" yaml:"rules_from_rects"`
}

// DefaultConfig returns thresholds tuned for the printed legal codes this
// tool targets.
func DefaultConfig() Config {
	return Config{
		Tolerance:      2,
		FullWidthRatio: 0.8,
		HeaderOffset:   28,
		FooterZone:     0.95,
		FooterMargin:   2,
		FallbackTop:    0.06,
		FallbackBottom: 0.92,
		Gutter:         3,
		RulesFromRects: true,
	}
}

// Bounds is the inferred layout of one page.
type Bounds struct {
	SeparatorX float64 `json:"separator_x" yaml:"separator_x"`
	Top        float64 `json:"top" yaml:"top"`
	Bottom     float64 `json:"bottom" yaml:"bottom"`

	// Which values came from fixed fractions rather than rule lines.
	SeparatorFallback bool `json:"separator_fallback" yaml:"separator_fallback"`
	TopFallback       bool `json:"top_fallback" yaml:"top_fallback"`
	BottomFallback    bool `json:"bottom_fallback" yaml:"bottom_fallback"`
}

// Segmenter computes page bounds. It never fails: every missing or
// implausible rule degrades to a fixed-fraction fallback.
type Segmenter struct {
	cfg Config
}

// NewSegmenter creates a segmenter, filling zero thresholds from DefaultConfig.
func NewSegmenter(cfg Config) *Segmenter {
	def := DefaultConfig()
	if cfg.Tolerance <= 0 {
		cfg.Tolerance = def.Tolerance
	}
	if cfg.FullWidthRatio <= 0 {
		cfg.FullWidthRatio = def.FullWidthRatio
	}
	if cfg.FooterZone <= 0 || cfg.FooterZone >= 1 {
		cfg.FooterZone = def.FooterZone
	}
	if cfg.FallbackTop <= 0 || cfg.FallbackTop >= 1 {
		cfg.FallbackTop = def.FallbackTop
	}
	if cfg.FallbackBottom <= 0 || cfg.FallbackBottom > 1 {
		cfg.FallbackBottom = def.FallbackBottom
	}
	if cfg.FallbackTop >= cfg.FallbackBottom {
		cfg.FallbackTop, cfg.FallbackBottom = def.FallbackTop, def.FallbackBottom
	}
	return &Segmenter{cfg: cfg}
}

// Config returns the effective thresholds.
func (s *Segmenter) Config() Config {
	return s.cfg
}

// Detect infers the separator and content band from a page's segments.
// The result always satisfies 0 <= Top < Bottom <= height and
// 0 < SeparatorX < width for a page of positive size.
func (s *Segmenter) Detect(segments []pdfsrc.Segment, width, height float64) Bounds {
	var b Bounds

	var vertical, fullWidth []pdfsrc.Segment
	for _, seg := range segments {
		switch {
		case seg.IsVertical(s.cfg.Tolerance) && seg.VerticalExtent() > s.cfg.Tolerance:
			vertical = append(vertical, seg)
		case seg.IsHorizontal(s.cfg.Tolerance) && seg.HorizontalExtent() > width*s.cfg.FullWidthRatio:
			fullWidth = append(fullWidth, seg)
		}
	}

	// Separator: the longest vertical rule.
	b.SeparatorX, b.SeparatorFallback = width/2, true
	longest := -1.0
	for _, seg := range vertical {
		if ext := seg.VerticalExtent(); ext > longest {
			longest = ext
			b.SeparatorX, b.SeparatorFallback = seg.X0, false
		}
	}
	if b.SeparatorX <= s.cfg.Gutter || b.SeparatorX >= width-s.cfg.Gutter {
		// A page border, not a column rule.
		b.SeparatorX, b.SeparatorFallback = width/2, true
	}

	footerY := height * s.cfg.FooterZone

	// Content top: below the topmost rule that is not a footer rule.
	b.Top, b.TopFallback = height*s.cfg.FallbackTop, true
	headerRule := math.Inf(1)
	for _, seg := range fullWidth {
		if y := seg.Top(); y <= footerY && y < headerRule {
			headerRule = y
		}
	}
	if !math.IsInf(headerRule, 1) {
		b.Top, b.TopFallback = headerRule+s.cfg.HeaderOffset, false
	}

	// Content bottom: above the topmost rule inside the footer zone.
	b.Bottom, b.BottomFallback = height*s.cfg.FallbackBottom, true
	footerRule := math.Inf(1)
	for _, seg := range fullWidth {
		if y := seg.Top(); y > footerY && y < footerRule {
			footerRule = y
		}
	}
	if !math.IsInf(footerRule, 1) {
		b.Bottom, b.BottomFallback = footerRule-s.cfg.FooterMargin, false
	}

	if b.Top < 0 || b.Top >= height {
		b.Top, b.TopFallback = height*s.cfg.FallbackTop, true
	}
	if b.Bottom > height || b.Bottom <= 0 {
		b.Bottom, b.BottomFallback = height*s.cfg.FallbackBottom, true
	}
	if b.Top >= b.Bottom {
		b.Top, b.TopFallback = height*s.cfg.FallbackTop, true
		b.Bottom, b.BottomFallback = height*s.cfg.FallbackBottom, true
	}

	return b
}

// Columns builds the left and right reading boxes, keeping a gutter on each
// side of the separator.
func (s *Segmenter) Columns(b Bounds, width float64) (left, right types.Box) {
	left = types.Box{Left: 0, Top: b.Top, Right: b.SeparatorX - s.cfg.Gutter, Bottom: b.Bottom}
	right = types.Box{Left: b.SeparatorX + s.cfg.Gutter, Top: b.Top, Right: width, Bottom: b.Bottom}
	return left, right
}
