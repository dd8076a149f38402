package geometry

import "testing"

func TestSplitVerticalWidthsSum(t *testing.T) {
	r := Rect{X: 0, Y: 0, Width: 1920, Height: 1080}
	for _, ratio := range []float64{0.1, 0.25, 0.333, 0.5, 0.617, 0.75, 0.9} {
		left, right := r.Split(Vertical, ratio)
		if left.Width+right.Width != r.Width {
			t.Fatalf("ratio %v: widths %d+%d != %d", ratio, left.Width, right.Width, r.Width)
		}
		if left.Height != r.Height || right.Height != r.Height {
			t.Fatalf("ratio %v: heights changed: %d, %d", ratio, left.Height, right.Height)
		}
		if right.X != left.X+left.Width {
			t.Fatalf("ratio %v: pieces not adjacent: left ends at %d, right starts at %d", ratio, left.X+left.Width, right.X)
		}
	}
}

func TestSplitHorizontalHeightsSum(t *testing.T) {
	r := Rect{X: 100, Y: 50, Width: 800, Height: 601}
	for _, ratio := range []float64{0.1, 0.5, 0.9} {
		top, bottom := r.Split(Horizontal, ratio)
		if top.Height+bottom.Height != r.Height {
			t.Fatalf("ratio %v: heights %d+%d != %d", ratio, top.Height, bottom.Height, r.Height)
		}
		if top.Width != r.Width || bottom.Width != r.Width {
			t.Fatalf("ratio %v: widths changed", ratio)
		}
	}
}

func TestSplitTruncatesFirstPiece(t *testing.T) {
	r := Rect{Width: 1001, Height: 100}
	// 0.5 * 1001 = 500.5, truncated to 500; remainder 501 goes right.
	left, right := r.Split(Vertical, 0.5)
	if left.Width != 500 || right.Width != 501 {
		t.Fatalf("got %d/%d, want 500/501", left.Width, right.Width)
	}
}

func TestShrinkClampsAtZero(t *testing.T) {
	r := Rect{X: 0, Y: 0, Width: 10, Height: 10}
	out := r.Shrink(8, 8, 8, 8)
	if out.Width != 0 || out.Height != 0 {
		t.Fatalf("got %dx%d, want 0x0", out.Width, out.Height)
	}
}

func TestScaleIdentityIsNoOp(t *testing.T) {
	r := Rect{X: 7, Y: 13, Width: 640, Height: 480}
	if got := r.Scale(1.0); got != r {
		t.Fatalf("scale(1.0) changed rect: %+v", got)
	}
	// Within the 1% threshold the rect is also untouched.
	if got := r.Scale(1.005); got != r {
		t.Fatalf("scale(1.005) changed rect: %+v", got)
	}
}

func TestScaleRounds(t *testing.T) {
	r := Rect{X: 10, Y: 10, Width: 100, Height: 100}
	got := r.Scale(1.5)
	want := Rect{X: 15, Y: 15, Width: 150, Height: 150}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestClampRatio(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{0.0, 0.1},
		{0.1, 0.1},
		{0.5, 0.5},
		{0.9, 0.9},
		{1.5, 0.9},
		{-2, 0.1},
	}
	for _, c := range cases {
		if got := ClampRatio(c.in); got != c.want {
			t.Fatalf("ClampRatio(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestAxisOpposite(t *testing.T) {
	if Vertical.Opposite() != Horizontal || Horizontal.Opposite() != Vertical {
		t.Fatal("Opposite is not an involution")
	}
}

func TestContainsPoint(t *testing.T) {
	r := Rect{X: 10, Y: 10, Width: 20, Height: 20}
	if !r.ContainsPoint(10, 10) {
		t.Fatal("top-left corner should be inside")
	}
	if r.ContainsPoint(30, 30) {
		t.Fatal("bottom-right corner is exclusive")
	}
}
