package layout

import (
	"testing"

	"github.com/jackzampolin/lexsplit/internal/pdfsrc"
)

const (
	pageW = 600.0
	pageH = 800.0
)

func TestSegmenter_Detect(t *testing.T) {
	s := NewSegmenter(DefaultConfig())

	t.Run("rules present", func(t *testing.T) {
		segs := []pdfsrc.Segment{
			{X0: 302, Y0: 80, X1: 302, Y1: 300},   // short vertical
			{X0: 305, Y0: 80, X1: 305, Y1: 740},   // column rule
			{X0: 20, Y0: 40, X1: 580, Y1: 40},     // header rule
			{X0: 20, Y0: 70, X1: 580, Y1: 70},     // second header rule
			{X0: 20, Y0: 770, X1: 580, Y1: 770},   // footer rule
			{X0: 20, Y0: 790, X1: 580, Y1: 790},   // lower footer rule
			{X0: 100, Y0: 400, X1: 200, Y1: 400},  // short horizontal, ignored
		}
		b := s.Detect(segs, pageW, pageH)
		if b.SeparatorX != 305 || b.SeparatorFallback {
			t.Errorf("separator = %v (fallback=%v), want 305", b.SeparatorX, b.SeparatorFallback)
		}
		if b.Top != 68 || b.TopFallback {
			t.Errorf("top = %v (fallback=%v), want 68", b.Top, b.TopFallback)
		}
		if b.Bottom != 768 || b.BottomFallback {
			t.Errorf("bottom = %v (fallback=%v), want 768", b.Bottom, b.BottomFallback)
		}
	})

	t.Run("no segments falls back to fractions", func(t *testing.T) {
		b := s.Detect(nil, pageW, pageH)
		if !b.SeparatorFallback || !b.TopFallback || !b.BottomFallback {
			t.Errorf("expected all fallbacks, got %+v", b)
		}
		if b.SeparatorX != 300 {
			t.Errorf("separator = %v, want 300", b.SeparatorX)
		}
		if b.Top != pageH*0.06 || b.Bottom != pageH*0.92 {
			t.Errorf("band = [%v, %v]", b.Top, b.Bottom)
		}
		assertUsable(t, b)
	})

	t.Run("page border is not a column rule", func(t *testing.T) {
		segs := []pdfsrc.Segment{{X0: 0, Y0: 0, X1: 0, Y1: pageH}}
		b := s.Detect(segs, pageW, pageH)
		if b.SeparatorX != 300 || !b.SeparatorFallback {
			t.Errorf("separator = %v, want fallback 300", b.SeparatorX)
		}
	})

	t.Run("footer rule alone does not become header", func(t *testing.T) {
		segs := []pdfsrc.Segment{{X0: 10, Y0: 780, X1: 590, Y1: 780}}
		b := s.Detect(segs, pageW, pageH)
		if !b.TopFallback {
			t.Errorf("top should fall back, got %v", b.Top)
		}
		if b.Bottom != 778 {
			t.Errorf("bottom = %v, want 778", b.Bottom)
		}
		assertUsable(t, b)
	})

	t.Run("implausible header rule degrades", func(t *testing.T) {
		segs := []pdfsrc.Segment{{X0: 10, Y0: 755, X1: 590, Y1: 755}}
		b := s.Detect(segs, pageW, pageH)
		assertUsable(t, b)
		if !b.TopFallback {
			t.Errorf("expected top fallback, got %+v", b)
		}
	})
}

func assertUsable(t *testing.T, b Bounds) {
	t.Helper()
	if !(0 <= b.Top && b.Top < b.Bottom && b.Bottom <= pageH) {
		t.Errorf("unusable band: top=%v bottom=%v", b.Top, b.Bottom)
	}
	if !(0 < b.SeparatorX && b.SeparatorX < pageW) {
		t.Errorf("unusable separator: %v", b.SeparatorX)
	}
}

func TestSegmenter_Columns(t *testing.T) {
	s := NewSegmenter(DefaultConfig())
	b := Bounds{SeparatorX: 300, Top: 50, Bottom: 700}
	left, right := s.Columns(b, pageW)

	if left.Left != 0 || left.Right != 297 || left.Top != 50 || left.Bottom != 700 {
		t.Errorf("left = %+v", left)
	}
	if right.Left != 303 || right.Right != pageW {
		t.Errorf("right = %+v", right)
	}
}

func TestNewSegmenter_FillsZeroValues(t *testing.T) {
	s := NewSegmenter(Config{})
	cfg := s.Config()
	if cfg.Tolerance != 2 || cfg.FullWidthRatio != 0.8 || cfg.FooterZone != 0.95 {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}
