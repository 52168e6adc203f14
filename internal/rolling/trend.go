package rolling

// Trend labels the direction of a metric over its recent window.
type Trend int

const (
	Stable Trend = iota
	Increasing
	Decreasing
)

// String returns the lowercase label used in API responses.
func (t Trend) String() string {
	switch t {
	case Increasing:
		return "increasing"
	case Decreasing:
		return "decreasing"
	default:
		return "stable"
	}
}

// MarshalJSON encodes the trend as its string label.
func (t Trend) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

// Hysteresis factors for trend classification. The 20% dead band keeps the
// label from flapping on sample noise.
const (
	trendRiseFactor = 1.2
	trendFallFactor = 0.8
	recentWindow    = 3
)

// Classify compares the mean of the last three samples against the mean of
// everything before them. Buffers with fewer than three samples classify as
// Stable unconditionally. When no samples precede the recent window the
// recent window is compared against itself, which also yields Stable.
// Pure function: reclassifying the same buffer always returns the same Trend.
func Classify(b *Buffer) Trend {
	values := b.Values()
	if len(values) < recentWindow {
		return Stable
	}

	recent := values[len(values)-recentWindow:]
	older := values[:len(values)-recentWindow]
	if len(older) == 0 {
		older = recent
	}

	recentMean := mean(recent)
	olderMean := mean(older)

	switch {
	case recentMean > olderMean*trendRiseFactor:
		return Increasing
	case recentMean < olderMean*trendFallFactor:
		return Decreasing
	default:
		return Stable
	}
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
