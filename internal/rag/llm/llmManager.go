package llm

import "context"

// Request carries one completion exchange. System sets behaviour, User
// carries the assembled prompt.
type Request struct {
	System      string
	User        string
	Temperature float64
	MaxTokens   int64
}

type Provider interface {
	Complete(ctx context.Context, req Request) (string, error)
}
