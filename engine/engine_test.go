package engine

import "testing"

func TestReportProgress(t *testing.T) {
	var got []int
	fn := func(percent int) { got = append(got, percent) }

	for i := 0; i < 4; i++ {
		ReportProgress(fn, i, 4)
	}

	want := []int{25, 50, 75, 100}
	if len(got) != len(want) {
		t.Fatalf("reported %d times, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestReportProgressNilCallback(t *testing.T) {
	// Must not panic.
	ReportProgress(nil, 0, 10)
	ReportProgress(func(int) { t.Error("called with zero total") }, 0, 0)
}
