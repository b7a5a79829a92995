package embedding

import "context"

// Embedder turns text into a fixed-length vector. Implementations fail
// closed: empty input or a provider error yields a zero vector of the
// configured dimension rather than an exception bubbling up the
// pipeline.
type Embedder interface {
	GetEmbedding(ctx context.Context, text string) ([]float32, error)
	Dimension() int
}

func ZeroVector(dimension int) []float32 {
	return make([]float32, dimension)
}

// IsZero reports whether a vector carries no signal, which happens when
// the provider was unavailable or the input was empty.
func IsZero(vector []float32) bool {
	for _, v := range vector {
		if v != 0 {
			return false
		}
	}
	return true
}

// Disabled is the degraded embedder selected at startup when no
// provider is configured. Every call returns a zero vector.
type Disabled struct {
	Dim int
}

func (d Disabled) GetEmbedding(ctx context.Context, text string) ([]float32, error) {
	return ZeroVector(d.Dim), nil
}

func (d Disabled) Dimension() int {
	return d.Dim
}
