package geminiVision

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/akolanti/DocSearch/internal/config"
	"github.com/akolanti/DocSearch/internal/domain/docmodel"
	"github.com/akolanti/DocSearch/internal/rag/vision"
	"github.com/akolanti/DocSearch/pkg/logger_i"
	"google.golang.org/genai"
)

type visionClient struct {
	client    *genai.Client
	modelName string
}

var logger *logger_i.Logger
var geminiVision *visionClient
var once sync.Once

const analysisPrompt = "Analyze this document page image. Identify every distinct element. " +
	"Set \"type\" to \"image\" for visual elements and \"text\" for text blocks, and \"content_type\" " +
	"to what the element is (picture, chart, diagram, table, logo for images; paragraph, heading, " +
	"caption for text). Give each element a short description and its approximate bounding box, " +
	"then summarize the page in one paragraph. If page text is provided, use it to sharpen the summary. " +
	"Respond with JSON: {\"elements\": [{\"type\": \"image\" or \"text\", \"content_type\": string, " +
	"\"description\": string, " +
	"\"coordinates\": {\"x1\": number, \"y1\": number, \"x2\": number, \"y2\": number}}], " +
	"\"page_summary\": string}"

// GetVisionClient returns the shared Gemini page analyzer, or nil when
// GEMINI_API_KEY is missing. Callers substitute vision.Degraded then.
func GetVisionClient(ctx context.Context) vision.Analyzer {
	once.Do(func() {
		logger = logger_i.NewLogger("vision_gemini")
		newVisionClient(ctx, os.Getenv("GEMINI_API_KEY"))
	})

	if geminiVision == nil {
		return nil
	}
	return &visionClient{client: geminiVision.client, modelName: geminiVision.modelName}
}

func newVisionClient(ctx context.Context, apikey string) {
	if apikey == "" {
		logger.Error("GEMINI_API_KEY not set, vision analysis unavailable")
		return
	}

	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apikey})
	if err != nil {
		logger.Error("Error creating Gemini client:", "error", err)
	}
	if c != nil {
		geminiVision = &visionClient{client: c, modelName: config.VisionModel}
		logger.Info("Gemini vision client created")
		go closeClient(ctx, geminiVision)
	}
}

func closeClient(ctx context.Context, vc *visionClient) {
	<-ctx.Done()
	logger.Info("Closing Gemini vision client")
	vc.client = nil
	vc.modelName = ""
}

// wire structs match the JSON shape the prompt asks the model for
type wireElement struct {
	Type        string                `json:"type"`
	ContentType string                `json:"content_type"`
	Description string                `json:"description"`
	Coordinates *docmodel.Coordinates `json:"coordinates"`
}

type wireAnalysis struct {
	Elements    []wireElement `json:"elements"`
	PageSummary string        `json:"page_summary"`
}

func (c *visionClient) AnalyzePage(ctx context.Context, imageDataURI string, pageText string) (vision.Analysis, error) {
	data, mimeType, err := vision.DecodeDataURI(imageDataURI)
	if err != nil {
		return vision.Analysis{}, fmt.Errorf("decoding page image: %w", err)
	}

	parts := []*genai.Part{
		genai.NewPartFromBytes(data, mimeType),
	}
	if pageText != "" {
		parts = append(parts, genai.NewPartFromText("Page text:\n"+pageText))
	}

	contentConfig := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: analysisPrompt}},
		},
		ResponseMIMEType: "application/json",
	}

	result, err := c.client.Models.GenerateContent(
		ctx,
		c.modelName,
		[]*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)},
		contentConfig,
	)
	if err != nil {
		logger.Error("vision analysis failed", "error", err)
		return vision.Analysis{}, err
	}

	return parseAnalysis(result.Text())
}

func parseAnalysis(raw string) (vision.Analysis, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")

	var wire wireAnalysis
	if err := json.Unmarshal([]byte(raw), &wire); err != nil {
		return vision.Analysis{}, fmt.Errorf("parsing vision response: %w", err)
	}

	analysis := vision.Analysis{PageSummary: strings.TrimSpace(wire.PageSummary)}
	for i, el := range wire.Elements {
		analysis.Elements = append(analysis.Elements, docmodel.ElementRecord{
			ID:          fmt.Sprintf("element_%d", i+1),
			Type:        normalizeElementType(el.Type),
			ContentType: el.ContentType,
			Description: el.Description,
			Coordinates: el.Coordinates,
		})
	}
	return analysis, nil
}

// normalizeElementType pins the element type to "image" or "text" even
// when the model answers with the content vocabulary instead.
func normalizeElementType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "image", "picture", "chart", "diagram", "table", "logo", "figure", "photo":
		return "image"
	default:
		return "text"
	}
}
