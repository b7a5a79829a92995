package docmodel

import (
	"time"
)

// Payload field names shared between the store writer and reader. The
// vector itself travels as the point vector, not payload, but its
// logical field name is part of the same contract.
const (
	FieldID              = "_id"
	FieldFolderName      = "folder_name"
	FieldPageNumber      = "page_number"
	FieldDescription     = "description"
	FieldPageSummary     = "page_summary"
	FieldDocumentSummary = "document_summary"
	FieldFullText        = "full_text"
	FieldPageSummaries   = "page_summaries"
	FieldPages           = "pages"
	FieldImages          = "images"
	FieldAllImages       = "all_images"
	FieldElements        = "elements"
	FieldAllElements     = "all_elements"
	FieldEmbedding       = "combined_embedding"
	FieldIsConsolidated  = "is_consolidated"
	FieldIsException     = "is_exception_doc"
	FieldSuperseded      = "superseded"
	FieldContentType     = "content_type"
	FieldCreatedAt       = "created_at"
	FieldUpdatedAt       = "updated_at"
)

var knownFields = map[string]bool{
	FieldID: true, FieldFolderName: true, FieldPageNumber: true,
	FieldDescription: true, FieldPageSummary: true, FieldDocumentSummary: true,
	FieldFullText: true, FieldPageSummaries: true, FieldPages: true,
	FieldImages: true, FieldAllImages: true, FieldElements: true,
	FieldAllElements: true, FieldEmbedding: true, FieldIsConsolidated: true,
	FieldIsException: true, FieldSuperseded: true, FieldContentType: true,
	FieldCreatedAt: true, FieldUpdatedAt: true,
}

// ToPayload flattens a record into the schemaless map shape the store
// persists. The embedding is deliberately left out.
func ToPayload(rec Record) map[string]any {
	payload := map[string]any{
		FieldID:             rec.ID,
		FieldFolderName:     rec.FolderName,
		FieldIsConsolidated: rec.IsConsolidated,
	}
	if rec.PageNumber != "" {
		payload[FieldPageNumber] = rec.PageNumber
	}
	if rec.Description != "" {
		payload[FieldDescription] = rec.Description
	}
	if rec.PageSummary != "" {
		payload[FieldPageSummary] = rec.PageSummary
	}
	if rec.DocumentSummary != "" {
		payload[FieldDocumentSummary] = rec.DocumentSummary
	}
	if rec.FullText != "" {
		payload[FieldFullText] = rec.FullText
	}
	if len(rec.PageSummaries) > 0 {
		payload[FieldPageSummaries] = toAnySlice(rec.PageSummaries)
	}
	if len(rec.Pages) > 0 {
		pages := make([]any, 0, len(rec.Pages))
		for _, p := range rec.Pages {
			pages = append(pages, pageEntryToMap(p))
		}
		payload[FieldPages] = pages
	}
	if len(rec.Images) > 0 {
		payload[FieldImages] = imagesToAny(rec.Images)
	}
	if len(rec.AllImages) > 0 {
		payload[FieldAllImages] = imagesToAny(rec.AllImages)
	}
	if len(rec.Elements) > 0 {
		payload[FieldElements] = elementsToAny(rec.Elements)
	}
	if len(rec.AllElements) > 0 {
		payload[FieldAllElements] = elementsToAny(rec.AllElements)
	}
	if rec.IsException {
		payload[FieldIsException] = true
	}
	if rec.Superseded {
		payload[FieldSuperseded] = true
	}
	if rec.ContentType != "" {
		payload[FieldContentType] = rec.ContentType
	}
	if !rec.CreatedAt.IsZero() {
		payload[FieldCreatedAt] = rec.CreatedAt.UTC().Format(time.RFC3339Nano)
	}
	if !rec.UpdatedAt.IsZero() {
		payload[FieldUpdatedAt] = rec.UpdatedAt.UTC().Format(time.RFC3339Nano)
	}
	for k, v := range rec.Extra {
		if !knownFields[k] {
			payload[k] = v
		}
	}
	return payload
}

// FromPayload rebuilds a record from the stored map. Fields this
// version of the code does not know about land in Extra instead of
// being dropped.
func FromPayload(payload map[string]any) Record {
	rec := Record{
		ID:              asString(payload[FieldID]),
		FolderName:      asString(payload[FieldFolderName]),
		PageNumber:      asString(payload[FieldPageNumber]),
		Description:     asString(payload[FieldDescription]),
		PageSummary:     asString(payload[FieldPageSummary]),
		DocumentSummary: asString(payload[FieldDocumentSummary]),
		FullText:        asString(payload[FieldFullText]),
		IsConsolidated:  asBool(payload[FieldIsConsolidated]),
		IsException:     asBool(payload[FieldIsException]),
		Superseded:      asBool(payload[FieldSuperseded]),
		ContentType:     asString(payload[FieldContentType]),
	}
	for _, s := range asSlice(payload[FieldPageSummaries]) {
		rec.PageSummaries = append(rec.PageSummaries, asString(s))
	}
	for _, p := range asSlice(payload[FieldPages]) {
		if m, ok := p.(map[string]any); ok {
			rec.Pages = append(rec.Pages, pageEntryFromMap(m))
		}
	}
	rec.Images = imagesFromAny(payload[FieldImages])
	rec.AllImages = imagesFromAny(payload[FieldAllImages])
	rec.Elements = elementsFromAny(payload[FieldElements])
	rec.AllElements = elementsFromAny(payload[FieldAllElements])
	rec.CreatedAt = asTime(payload[FieldCreatedAt])
	rec.UpdatedAt = asTime(payload[FieldUpdatedAt])

	for k, v := range payload {
		if knownFields[k] {
			continue
		}
		if rec.Extra == nil {
			rec.Extra = make(map[string]any)
		}
		rec.Extra[k] = v
	}
	return rec
}

func pageEntryToMap(p PageEntry) map[string]any {
	m := map[string]any{
		FieldPageNumber: p.PageNumber,
		"text_content":  p.Text,
	}
	if p.Summary != "" {
		m[FieldPageSummary] = p.Summary
	}
	if len(p.Images) > 0 {
		m[FieldImages] = imagesToAny(p.Images)
	}
	if len(p.Elements) > 0 {
		m[FieldElements] = elementsToAny(p.Elements)
	}
	return m
}

func pageEntryFromMap(m map[string]any) PageEntry {
	return PageEntry{
		PageNumber: asString(m[FieldPageNumber]),
		Text:       asString(m["text_content"]),
		Summary:    asString(m[FieldPageSummary]),
		Images:     imagesFromAny(m[FieldImages]),
		Elements:   elementsFromAny(m[FieldElements]),
	}
}

func imagesToAny(images []ImageRef) []any {
	out := make([]any, 0, len(images))
	for _, img := range images {
		m := map[string]any{"image": img.Image}
		if img.Description != "" {
			m["description"] = img.Description
		}
		if len(img.RelatedTextIDs) > 0 {
			m["related_text_ids"] = intsToAny(img.RelatedTextIDs)
		}
		out = append(out, m)
	}
	return out
}

func imagesFromAny(v any) []ImageRef {
	var out []ImageRef
	for _, item := range asSlice(v) {
		switch img := item.(type) {
		case map[string]any:
			out = append(out, ImageRef{
				Image:          asString(img["image"]),
				Description:    asString(img["description"]),
				RelatedTextIDs: asInts(img["related_text_ids"]),
			})
		case string:
			//bare image payloads from older writers
			out = append(out, ImageRef{Image: img})
		}
	}
	return out
}

func elementsToAny(elements []ElementRecord) []any {
	out := make([]any, 0, len(elements))
	for _, el := range elements {
		m := map[string]any{
			"id":   el.ID,
			"type": el.Type,
		}
		if el.ContentType != "" {
			m["content_type"] = el.ContentType
		}
		if el.Content != "" {
			m["content"] = el.Content
		}
		if el.Summary != "" {
			m["summary"] = el.Summary
		}
		if el.Description != "" {
			m["description"] = el.Description
		}
		if el.PageNumber != "" {
			m["page_number"] = el.PageNumber
		}
		if el.Coordinates != nil {
			m["coordinates"] = map[string]any{
				"x1": el.Coordinates.X1, "y1": el.Coordinates.Y1,
				"x2": el.Coordinates.X2, "y2": el.Coordinates.Y2,
			}
		}
		if len(el.RelatedTextIDs) > 0 {
			m["related_text_ids"] = intsToAny(el.RelatedTextIDs)
		}
		out = append(out, m)
	}
	return out
}

func elementsFromAny(v any) []ElementRecord {
	var out []ElementRecord
	for _, item := range asSlice(v) {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		el := ElementRecord{
			ID:             asString(m["id"]),
			Type:           asString(m["type"]),
			ContentType:    asString(m["content_type"]),
			Content:        asString(m["content"]),
			Summary:        asString(m["summary"]),
			Description:    asString(m["description"]),
			PageNumber:     asString(m["page_number"]),
			RelatedTextIDs: asInts(m["related_text_ids"]),
		}
		if c, ok := m["coordinates"].(map[string]any); ok {
			el.Coordinates = &Coordinates{
				X1: asFloat(c["x1"]), Y1: asFloat(c["y1"]),
				X2: asFloat(c["x2"]), Y2: asFloat(c["y2"]),
			}
		}
		out = append(out, el)
	}
	return out
}

func toAnySlice(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func intsToAny(values []int) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = int64(v)
	}
	return out
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asBool(v any) bool {
	b, _ := v.(bool)
	return b
}

func asFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int64:
		return float64(n)
	case int:
		return float64(n)
	}
	return 0
}

func asSlice(v any) []any {
	s, _ := v.([]any)
	return s
}

func asInts(v any) []int {
	var out []int
	for _, item := range asSlice(v) {
		out = append(out, int(asFloat(item)))
	}
	return out
}

func asTime(v any) time.Time {
	s, ok := v.(string)
	if !ok {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
