package insight

import "testing"

func TestDetectSuddenDrops(t *testing.T) {
	tests := []struct {
		name      string
		daily     []DailyMoodPoint
		threshold int
		wantDrops []int
	}{
		{
			name: "drop of 25 at default threshold",
			daily: []DailyMoodPoint{
				{Date: day("2026-03-01"), Score: 80},
				{Date: day("2026-03-02"), Score: 55},
			},
			wantDrops: []int{25},
		},
		{
			name: "drop of 15 below threshold",
			daily: []DailyMoodPoint{
				{Date: day("2026-03-01"), Score: 80},
				{Date: day("2026-03-02"), Score: 65},
			},
			wantDrops: nil,
		},
		{
			name: "recovery is not a drop",
			daily: []DailyMoodPoint{
				{Date: day("2026-03-01"), Score: 30},
				{Date: day("2026-03-02"), Score: 80},
			},
			wantDrops: nil,
		},
		{
			name: "multiple drops across the window",
			daily: []DailyMoodPoint{
				{Date: day("2026-03-01"), Score: 90},
				{Date: day("2026-03-02"), Score: 60},
				{Date: day("2026-03-03"), Score: 70},
				{Date: day("2026-03-04"), Score: 45},
			},
			wantDrops: []int{30, 25},
		},
		{
			name: "custom threshold",
			daily: []DailyMoodPoint{
				{Date: day("2026-03-01"), Score: 80},
				{Date: day("2026-03-02"), Score: 70},
			},
			threshold: 10,
			wantDrops: []int{10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectSuddenDrops(tt.daily, tt.threshold)
			if len(got) != len(tt.wantDrops) {
				t.Fatalf("got %d drops, want %d: %+v", len(got), len(tt.wantDrops), got)
			}
			for i, d := range got {
				if d.Drop != tt.wantDrops[i] {
					t.Errorf("drop %d = %d, want %d", i, d.Drop, tt.wantDrops[i])
				}
				if d.FromScore-d.ToScore != d.Drop {
					t.Errorf("drop %d inconsistent: %+v", i, d)
				}
			}
		})
	}
}

func TestMaxDrop(t *testing.T) {
	if MaxDrop(nil) != 0 {
		t.Error("no drops must give 0")
	}
	drops := []SuddenDrop{{Drop: 20}, {Drop: 35}, {Drop: 22}}
	if got := MaxDrop(drops); got != 35 {
		t.Errorf("MaxDrop = %d, want 35", got)
	}
}
