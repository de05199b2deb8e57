package main

import "testing"

func TestParsePath(t *testing.T) {
	points, err := parsePath("0,0; 640, 400;")
	if err != nil {
		t.Fatal(err)
	}
	if len(points) != 2 {
		t.Fatalf("points = %v", points)
	}
	if points[1] != [2]float64{640, 400} {
		t.Errorf("points[1] = %v", points[1])
	}

	if points, err := parsePath(""); err != nil || len(points) != 0 {
		t.Errorf("empty path: %v, %v", points, err)
	}
	for _, bad := range []string{"1", "a,2", "1,b"} {
		if _, err := parsePath(bad); err == nil {
			t.Errorf("parsePath(%q) should fail", bad)
		}
	}
}
