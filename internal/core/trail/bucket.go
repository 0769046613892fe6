package trail

// ColorBucket is the severity class of a power reading.
type ColorBucket int

const (
	BucketLow ColorBucket = iota
	BucketMedium
	BucketHigh
)

// Power thresholds. Intervals are closed-open: [MediumPowerThreshold, HighPowerThreshold) is Medium.
const (
	MediumPowerThreshold = 50.0
	HighPowerThreshold   = 100.0
)

// Color is a CSS color string understood by every map host.
type Color string

const (
	ColorGreen  Color = "green"
	ColorOrange Color = "orange"
	ColorRed    Color = "red"
	ColorWhite  Color = "#fff"
)

// ColorBucketFor classifies a power reading. There is no lower bound: negative
// power is Low. NaN compares false against both thresholds and lands in High.
func ColorBucketFor(power float64) ColorBucket {
	if power < MediumPowerThreshold {
		return BucketLow
	}
	if power < HighPowerThreshold {
		return BucketMedium
	}
	return BucketHigh
}

// Color returns the display color of the bucket.
func (b ColorBucket) Color() Color {
	switch b {
	case BucketLow:
		return ColorGreen
	case BucketMedium:
		return ColorOrange
	default:
		return ColorRed
	}
}

func (b ColorBucket) String() string {
	switch b {
	case BucketLow:
		return "low"
	case BucketMedium:
		return "medium"
	default:
		return "high"
	}
}

// MarshalText encodes the bucket by name.
func (b ColorBucket) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}
