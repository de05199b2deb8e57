package css

import "testing"

func TestParseLinearGradient(t *testing.T) {
	g, ok := ParseLinearGradient("linear-gradient(to right, red, rgba(0, 0, 255, 0.5) 50%, blue)")
	if !ok {
		t.Fatal("gradient not parsed")
	}
	if g.Direction != "to right" || len(g.ColorStops) != 3 {
		t.Fatalf("unexpected gradient %+v", g)
	}
	if g.ColorStops[1].Offset != 0.5 || g.ColorStops[1].Color.A != 0.5 {
		t.Errorf("middle stop = %+v", g.ColorStops[1])
	}
}

func TestParseLinearGradient_DefaultDirection(t *testing.T) {
	g, ok := ParseLinearGradient("linear-gradient(red, blue)")
	if !ok || g.Direction != "to bottom" {
		t.Fatalf("got %+v, %v", g, ok)
	}
}

func TestParseRadialGradient(t *testing.T) {
	g, ok := ParseRadialGradient("radial-gradient(circle at 25% 75%, white, black 80%)")
	if !ok {
		t.Fatal("gradient not parsed")
	}
	if g.Type != GradientRadial || g.Shape != "circle" {
		t.Errorf("unexpected gradient %+v", g)
	}
	if g.Center.X != 25 || g.Center.Y != 75 {
		t.Errorf("center = %+v", g.Center)
	}
	if g.ColorStops[0].Offset != 0 || g.ColorStops[1].Offset != 0.8 {
		t.Errorf("stops = %+v", g.ColorStops)
	}
}

func TestParseRadialGradient_NoDescriptor(t *testing.T) {
	g, ok := ParseRadialGradient("radial-gradient(red, blue)")
	if !ok || g.Shape != "ellipse" || len(g.ColorStops) != 2 {
		t.Fatalf("got %+v, %v", g, ok)
	}
	if g.Center.X != 50 || !g.Center.XPercent {
		t.Errorf("default center = %+v", g.Center)
	}
}

func TestGetGradient(t *testing.T) {
	if _, ok := GetGradient("url(a.png)"); ok {
		t.Error("url is not a gradient")
	}
	if g, ok := GetGradient(" radial-gradient(red, blue)"); !ok || g.Type != GradientRadial {
		t.Error("expected a radial gradient")
	}
}

func TestGradientRadius(t *testing.T) {
	g, _ := ParseRadialGradient("radial-gradient(red, blue)")
	if r := g.Radius(6, 8); r != 5 {
		t.Errorf("Radius(6, 8) = %v, want 5", r)
	}
}

func TestGradientStops_PixelOffsets(t *testing.T) {
	g, ok := ParseLinearGradient("linear-gradient(to right, blue 0, blue 50px, red, red 200px)")
	if !ok {
		t.Fatal("gradient not parsed")
	}
	if !g.ColorStops[1].Pixels || g.ColorStops[1].Offset != 50 {
		t.Fatalf("stop 1 = %+v", g.ColorStops[1])
	}
	stops := g.Stops(200, 100)
	want := []float64{0, 0.25, 0.625, 1}
	for i, w := range want {
		if stops[i].Offset != w {
			t.Errorf("stop %d offset = %v, want %v", i, stops[i].Offset, w)
		}
	}
	if g.ColorStops[1].Offset != 50 {
		t.Error("Stops must not modify the gradient")
	}
}
