package validation

// MaxBodySize is the maximum accepted request body (64 KB).
const MaxBodySize = 64 * 1024

// Batch verification bounds.
const (
	MinBatchSize = 1
	MaxBatchSize = 10
)
