package vision

import (
	"context"

	"github.com/akolanti/DocSearch/internal/domain/docmodel"
)

// Analysis is what a page image yields: the visual elements found on it
// and a one-paragraph summary of the page.
type Analysis struct {
	Elements    []docmodel.ElementRecord
	PageSummary string
}

type Analyzer interface {
	AnalyzePage(ctx context.Context, imageDataURI string, pageText string) (Analysis, error)
}

// Renderer turns one page of a source file into an image data URI.
type Renderer interface {
	RenderPage(ctx context.Context, filePath string, pageIndex int) (string, error)
}

// Degraded stands in when no vision model is reachable. Pages still get
// stored, just without visual elements.
type Degraded struct{}

func (Degraded) AnalyzePage(ctx context.Context, imageDataURI string, pageText string) (Analysis, error) {
	return Analysis{}, nil
}
