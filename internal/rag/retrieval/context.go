package retrieval

import (
	"fmt"
	"strings"

	"github.com/akolanti/DocSearch/internal/config"
	"github.com/akolanti/DocSearch/internal/domain/docmodel"
)

// buildAnswerPrompt renders the retrieved documents into the context
// block the answer model sees. Text is capped per document and image
// descriptions are listed, never the image payloads themselves.
func buildAnswerPrompt(query string, results []docmodel.SearchResult) string {
	var sb strings.Builder

	for i, res := range results {
		fmt.Fprintf(&sb, "Document %d: %s", i+1, res.FolderName)
		if res.PageNumber != "" {
			fmt.Fprintf(&sb, " (page %s)", res.PageNumber)
		}
		fmt.Fprintf(&sb, "\nRelevance score: %.4f\n", res.Score)

		if res.Summary != "" {
			fmt.Fprintf(&sb, "Summary: %s\n", res.Summary)
		}

		text := res.Text
		if len(text) > config.ContextTextCharLimit {
			text = text[:config.ContextTextCharLimit] + "..."
		}
		fmt.Fprintf(&sb, "Content: %s\n", text)

		if descs := imageDescriptions(res.Images); descs != "" {
			fmt.Fprintf(&sb, "Visuals: %s\n", descs)
		}
		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, "User question: %s", query)
	return sb.String()
}

func imageDescriptions(images []docmodel.ImageRef) string {
	var descs []string
	for _, img := range images {
		if img.Description == "" {
			continue
		}
		if len(descs) == config.ContextImageLimit {
			descs = append(descs, fmt.Sprintf("+%d more", remainingWithDescription(images, config.ContextImageLimit)))
			break
		}
		descs = append(descs, img.Description)
	}
	return strings.Join(descs, "; ")
}

func remainingWithDescription(images []docmodel.ImageRef, shown int) int {
	count := 0
	for _, img := range images {
		if img.Description != "" {
			count++
		}
	}
	return count - shown
}
