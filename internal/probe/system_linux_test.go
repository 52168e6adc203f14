//go:build linux

package probe

import (
	"math"
	"testing"
)

func TestParseProcStat(t *testing.T) {
	// Fixture from a real /proc/stat.
	content := `cpu  10132153 290696 3084719 46828483 16683 0 25195 0 0 0
cpu0  1393280 32966 572056 13343292 6130 0 17875 0 0 0
cpu1  1335089 34612 543823 11287525 1641 0 3580 0 0 0
`

	tests := []struct {
		name      string
		content   string
		wantIdle  uint64
		wantTotal uint64
		wantErr   bool
	}{
		{
			name:    "aggregate line with iowait",
			content: content,
			// idle=46828483 plus iowait=16683
			wantIdle:  46845166,
			wantTotal: 60377929,
		},
		{
			name:      "minimal fields without iowait",
			content:   "cpu  100 0 50 350\n",
			wantIdle:  350,
			wantTotal: 500,
		},
		{
			name:    "empty content",
			content: "",
			wantErr: true,
		},
		{
			name:    "no aggregate cpu line",
			content: "cpu0 100 0 50 350\nprocesses 12345\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idle, total, err := parseProcStat(tt.content)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if idle != tt.wantIdle {
				t.Errorf("idle = %d, want %d", idle, tt.wantIdle)
			}
			if total != tt.wantTotal {
				t.Errorf("total = %d, want %d", total, tt.wantTotal)
			}
		})
	}
}

func TestParseMeminfo(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    float64
		wantErr bool
	}{
		{
			name: "with MemAvailable",
			content: `MemTotal:       16384000 kB
MemFree:         2048000 kB
MemAvailable:    8192000 kB
Buffers:          512000 kB
Cached:          4096000 kB
`,
			want: 50.0,
		},
		{
			name: "older kernel without MemAvailable",
			content: `MemTotal:       8000000 kB
MemFree:        1000000 kB
Buffers:         500000 kB
Cached:          500000 kB
`,
			// available = 1000000+500000+500000 = 2000000, used = 75%
			want: 75.0,
		},
		{
			name:    "missing MemTotal",
			content: "MemFree: 1000 kB\n",
			wantErr: true,
		},
		{
			name:    "empty",
			content: "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseMeminfo(tt.content)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if math.Abs(got-tt.want) > 0.01 {
				t.Errorf("percent = %.2f, want %.2f", got, tt.want)
			}
		})
	}
}
