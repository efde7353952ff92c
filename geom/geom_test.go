package geom

import (
	"encoding/json"
	"testing"
)

func TestRectWidthHeight(t *testing.T) {
	r := NewRect(10, 20, 110, 70)
	if r.Width() != 100 {
		t.Errorf("Width() = %v, want 100", r.Width())
	}
	if r.Height() != 50 {
		t.Errorf("Height() = %v, want 50", r.Height())
	}
}

func TestRectIsEmpty(t *testing.T) {
	tests := []struct {
		name     string
		rect     Rect
		expected bool
	}{
		{"Normal", NewRect(0, 0, 10, 10), false},
		{"Zero area", NewRect(5, 5, 5, 10), true},
		{"Negative width", NewRect(10, 0, 0, 10), true},
		{"Zero rect", Rect{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rect.IsEmpty(); got != tt.expected {
				t.Errorf("IsEmpty() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRectCanon(t *testing.T) {
	r := NewRect(110, 70, 10, 20).Canon()
	want := NewRect(10, 20, 110, 70)
	if r != want {
		t.Errorf("Canon() = %+v, want %+v", r, want)
	}
}

func TestPointJSONRoundTrip(t *testing.T) {
	p := Point{X: 1.5, Y: -2}
	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != "[1.5,-2]" {
		t.Errorf("Marshal = %s, want [1.5,-2]", data)
	}

	var got Point
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if got != p {
		t.Errorf("round trip = %+v, want %+v", got, p)
	}
}

func TestRectJSONEncoding(t *testing.T) {
	data, err := json.Marshal(NewRect(0, 0, 100, 50))
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != "[0,0,100,50]" {
		t.Errorf("Marshal = %s, want [0,0,100,50]", data)
	}

	var r Rect
	if err := json.Unmarshal([]byte("[1,2,3,4]"), &r); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if r != NewRect(1, 2, 3, 4) {
		t.Errorf("Unmarshal = %+v", r)
	}

	if err := json.Unmarshal([]byte(`{"x0":1}`), &r); err == nil {
		t.Error("Expected error for non-array rect")
	}
}

func TestColorJSONEncoding(t *testing.T) {
	data, err := json.Marshal(Yellow)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != "[1,1,0]" {
		t.Errorf("Marshal = %s, want [1,1,0]", data)
	}

	var c Color
	if err := json.Unmarshal([]byte("[0.5,0.25,1]"), &c); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if c != RGB(0.5, 0.25, 1) {
		t.Errorf("Unmarshal = %+v", c)
	}
}
