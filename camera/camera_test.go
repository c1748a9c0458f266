package camera

import (
	"math"
	"testing"
)

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) <= 0.01
}

func TestNewFitsWorld(t *testing.T) {
	tests := []struct {
		name                 string
		vw, vh, ww, wh, zoom float32
	}{
		{"same size", 1000, 750, 1000, 750, 1},
		{"terminal cells", 80, 48, 1000, 750, 0.064},
		{"tall viewport", 500, 1000, 1000, 750, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := New(tt.vw, tt.vh, tt.ww, tt.wh)
			if !near(cam.Zoom, tt.zoom) || !near(cam.MinZoom, tt.zoom) {
				t.Errorf("zoom %v min %v, want %v", cam.Zoom, cam.MinZoom, tt.zoom)
			}
			if cam.X != tt.ww/2 || cam.Y != tt.wh/2 {
				t.Errorf("camera at (%v, %v), want world center", cam.X, cam.Y)
			}

			// Every world corner lands on screen
			for _, p := range [][2]float32{{0, 0}, {tt.ww - 0.01, 0}, {0, tt.wh - 0.01}, {tt.ww - 0.01, tt.wh - 0.01}} {
				sx, sy := cam.WorldToScreen(p[0], p[1])
				if sx < -0.01 || sx > tt.vw+0.01 || sy < -0.01 || sy > tt.vh+0.01 {
					t.Errorf("world corner %v maps off screen to (%v, %v)", p, sx, sy)
				}
			}
		})
	}
}

func TestScreenToWorldRoundtrip(t *testing.T) {
	cam := New(1000, 750, 1000, 750)
	cam.SetZoom(2)

	for _, tc := range []struct{ sx, sy float32 }{{500, 375}, {100, 100}, {900, 700}} {
		wx, wy := cam.ScreenToWorld(tc.sx, tc.sy)
		sx, sy := cam.WorldToScreen(wx, wy)
		if !near(sx, tc.sx) || !near(sy, tc.sy) {
			t.Errorf("roundtrip failed: (%v,%v) -> (%v,%v) -> (%v,%v)", tc.sx, tc.sy, wx, wy, sx, sy)
		}
	}
}

func TestToroidalWrap(t *testing.T) {
	cam := New(1000, 750, 1000, 750)
	cam.SetZoom(2)
	cam.X = 50

	// The right edge of the world is closer through the wrap
	sx, _ := cam.WorldToScreen(980, 375)
	if sx >= 500 {
		t.Errorf("expected entity left of center, got x=%v", sx)
	}
}

func TestPanWraps(t *testing.T) {
	cam := New(1000, 750, 1000, 750)
	cam.X = 50

	cam.Pan(-100, 0)
	if !near(cam.X, 950) {
		t.Errorf("X = %v, want 950 after wrapping", cam.X)
	}
}

func TestZoomClamp(t *testing.T) {
	cam := New(1000, 750, 2000, 1500)

	cam.SetZoom(0.1)
	if cam.Zoom != cam.MinZoom {
		t.Errorf("zoom %v, want clamped to min %v", cam.Zoom, cam.MinZoom)
	}
	cam.SetZoom(100)
	if cam.Zoom != cam.MaxZoom {
		t.Errorf("zoom %v, want clamped to max %v", cam.Zoom, cam.MaxZoom)
	}
}

func TestZoomAtKeepsCursorPoint(t *testing.T) {
	cam := New(1000, 750, 1000, 750)
	wx, wy := cam.ScreenToWorld(200, 150)

	cam.ZoomAt(200, 150, 2)

	sx, sy := cam.WorldToScreen(wx, wy)
	if !near(sx, 200) || !near(sy, 150) {
		t.Errorf("cursor point moved to (%v, %v)", sx, sy)
	}
	if cam.Zoom != 2 {
		t.Errorf("zoom %v, want 2", cam.Zoom)
	}
}

func TestIsVisible(t *testing.T) {
	cam := New(1000, 750, 1000, 750)
	cam.SetZoom(4)

	if !cam.IsVisible(500, 375, 3) {
		t.Error("center should be visible")
	}
	if cam.IsVisible(100, 100, 3) {
		t.Error("far point should not be visible at 4x")
	}
}

func TestResetAndResize(t *testing.T) {
	cam := New(1000, 750, 1000, 750)
	cam.X, cam.Y = 10, 10
	cam.SetZoom(3)

	cam.Reset()
	if cam.X != 500 || cam.Y != 375 || cam.Zoom != 1 {
		t.Errorf("after reset camera = (%v, %v) zoom %v", cam.X, cam.Y, cam.Zoom)
	}

	cam.Resize(500, 375)
	if !near(cam.MinZoom, 0.5) || !near(cam.Zoom, 1) {
		t.Errorf("after resize min %v zoom %v", cam.MinZoom, cam.Zoom)
	}
}
