package ui

import (
	"math"
	"testing"
)

func TestCameraZoomsAroundCentre(t *testing.T) {
	cam := NewCamera(200, 100)
	cam.Bump(1)
	if sx, sy := cam.ScreenPos(100, 50); sx != 100 || sy != 50 {
		t.Fatalf("centre moved to (%f,%f)", sx, sy)
	}
	if sx, sy := cam.ScreenPos(0, 0); sx != -100 || sy != -50 {
		t.Fatalf("corner at (%f,%f)", sx, sy)
	}
	m := cam.GeoM()
	gx, gy := m.Apply(0, 0)
	if gx != -100 || gy != -50 {
		t.Fatalf("GeoM maps corner to (%f,%f)", gx, gy)
	}
}

func TestCameraSettlesToBase(t *testing.T) {
	cam := NewCamera(640, 480)
	cam.Bump(0.015)
	prev := cam.Zoom
	for i := 0; i < 60; i++ {
		cam.Update(1.0 / 60)
		if cam.Zoom > prev {
			t.Fatalf("zoom grew while settling")
		}
		prev = cam.Zoom
	}
	if math.Abs(cam.Zoom-cam.Base) > 0.015*math.Exp(-3) {
		t.Fatalf("zoom=%f after one second", cam.Zoom)
	}
	for i := 0; i < 600; i++ {
		cam.Update(1.0 / 60)
	}
	if cam.Zoom != cam.Base {
		t.Fatalf("zoom never snapped to base: %f", cam.Zoom)
	}
}

func TestCameraClamp(t *testing.T) {
	cam := NewCamera(10, 10)
	cam.Bump(100)
	if cam.Zoom != 10 {
		t.Fatalf("zoom=%f", cam.Zoom)
	}
	cam.Bump(-50)
	if cam.Zoom != 0.1 {
		t.Fatalf("zoom=%f", cam.Zoom)
	}
}

func TestGeoMRounded(t *testing.T) {
	cam := NewCamera(101, 101)
	cam.OffsetX = 0.3
	m := cam.GeoMRounded()
	if tx := m.Element(0, 2); tx != math.Round(tx) {
		t.Fatalf("translation %f not rounded", tx)
	}
}
