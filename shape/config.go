package shape

// Config holds the recognition thresholds.
type Config struct {
	// HistoryLen bounds the number of buffered points. Older points are dropped.
	HistoryLen int `toml:"history_len"`
	// MinPoints is the number of points a session must exceed to be evaluated.
	MinPoints int `toml:"min_points"`
	// MinArea is the smallest contour area accepted, in square pixels.
	MinArea float64 `toml:"min_area"`
	// Epsilon is the polygon approximation tolerance as a fraction of the contour perimeter.
	Epsilon float64 `toml:"epsilon"`
	// CircleRatio is the minimum contour to bounding box area ratio of a circle.
	CircleRatio float64 `toml:"circle_ratio"`
	MinAspect   float64 `toml:"min_aspect"`
	MaxAspect   float64 `toml:"max_aspect"`
	// ScratchThickness is the stroke width used to close the buffered path.
	ScratchThickness int `toml:"scratch_thickness"`
	// KernelSize is the side of the square closing kernel.
	KernelSize int `toml:"kernel_size"`
	// EraseMargin is added to the ink thickness when the freehand path is erased.
	EraseMargin int `toml:"erase_margin"`
}

// DefaultConfig returns the default recognition thresholds.
func DefaultConfig() Config {
	return Config{
		HistoryLen:       500,
		MinPoints:        10,
		MinArea:          500,
		Epsilon:          0.04,
		CircleRatio:      0.75,
		MinAspect:        0.7,
		MaxAspect:        1.3,
		ScratchThickness: 40,
		KernelSize:       5,
		EraseMargin:      10,
	}
}
