package performance

const (
	EntityType = "performance_review"

	MinRating = 0.0
	MaxRating = 5.0

	DefaultTopPerformers = 5
	MaxTopPerformers     = 50
)
