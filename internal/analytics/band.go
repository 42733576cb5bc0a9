package analytics

// Bands of a 1-5 average
const (
	BandStruggling = "struggling"
	BandModerate   = "moderate"
	BandDoingWell  = "doing well"
)

// Band classifies an average on the 1-5 scale
func Band(avg float64) string {
	switch {
	case avg < 2.5:
		return BandStruggling
	case avg < 3.5:
		return BandModerate
	default:
		return BandDoingWell
	}
}
