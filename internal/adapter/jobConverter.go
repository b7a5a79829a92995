package adapter

import (
	"fmt"
	"time"

	"github.com/akolanti/DocSearch/internal/api"
	"github.com/akolanti/DocSearch/internal/domain/docmodel"
	"github.com/akolanti/DocSearch/internal/domain/jobModel"
)

func ToInitJobResponse(id string) api.InitJobResponse {
	return api.InitJobResponse{
		Id:        id,
		StatusURL: fmt.Sprintf("status/%s", id),
	}
}

func ToAPIResponse(job jobModel.Job) api.JobResponse {

	var errorPtr *api.JobOutgoingError
	if job.Error.Message != "" || job.Error.Code != 0 {
		errorPtr = &api.JobOutgoingError{
			Code:    job.Error.Code,
			Message: job.Error.Message,
			Retry:   job.Error.Retry,
		}
	}

	result := api.Result{
		Status:        string(job.Status),
		IngestOutcome: ToIngestOutcome(job.JobPayload),
	}

	return api.JobResponse{
		Id:        job.Id,
		StartTime: job.CreatedTime,
		EndTime:   job.EndTime,
		Error:     errorPtr,
		Result:    result,
	}
}

func ToIngestOutcome(payload jobModel.JobPayload) *api.IngestOutcome {
	if payload.PagesProcessed == 0 && payload.FoldersProcessed == 0 && len(payload.Errors) == 0 {
		return nil
	}

	return &api.IngestOutcome{
		DocumentName:     payload.IngestFileName,
		PagesProcessed:   payload.PagesProcessed,
		FoldersProcessed: payload.FoldersProcessed,
		Errors:           payload.Errors,
	}
}

func BadRequest(id string, error string, code int) api.JobResponse {
	return api.JobResponse{
		Id:        id,
		StartTime: time.Time{},
		EndTime:   time.Time{},
		Result: api.Result{
			Status: string(api.JobStatusError),
		},
		Error: &api.JobOutgoingError{
			Code:    code,
			Message: error,
			Retry:   false,
		},
	}
}

func ToSearchResponse(answer string, results []docmodel.SearchResult, images []docmodel.ImageRef) api.SearchResponse {
	resp := api.SearchResponse{
		Answer:          answer,
		SourceDocuments: make([]api.SourceDocument, 0, len(results)),
	}

	for _, res := range results {
		resp.SourceDocuments = append(resp.SourceDocuments, api.SourceDocument{
			Id:         res.ID,
			FolderName: res.FolderName,
			PageNumber: res.PageNumber,
			Score:      res.Score,
			Text:       res.Text,
			Summary:    res.Summary,
			Images:     toImageInfos(res.Images),
			Elements:   toElementInfos(res.Elements),
		})
	}

	resp.Images = toImageInfos(images)
	return resp
}

func toImageInfos(images []docmodel.ImageRef) []api.ImageInfo {
	if len(images) == 0 {
		return nil
	}
	out := make([]api.ImageInfo, 0, len(images))
	for _, img := range images {
		out = append(out, api.ImageInfo{Image: img.Image, Description: img.Description})
	}
	return out
}

func toElementInfos(elements []docmodel.ElementRecord) []api.ElementInfo {
	if len(elements) == 0 {
		return nil
	}
	out := make([]api.ElementInfo, 0, len(elements))
	for _, el := range elements {
		out = append(out, api.ElementInfo{
			Id:          el.ID,
			Type:        el.Type,
			Description: el.Description,
			PageNumber:  el.PageNumber,
		})
	}
	return out
}

// ToFolderView renders a folder's page records, assumed pre-sorted.
func ToFolderView(folder string, pages []docmodel.Record) api.FolderView {
	view := api.FolderView{FolderName: folder, Pages: make([]api.FolderPage, 0, len(pages))}
	for _, p := range pages {
		view.Pages = append(view.Pages, api.FolderPage{
			Id:         p.ID,
			PageNumber: p.PageNumber,
			Summary:    p.PageSummary,
			Text:       p.Description,
		})
	}
	return view
}

func ToDocumentList(docs []docmodel.Record) api.DocumentListResponse {
	list := api.DocumentListResponse{Documents: make([]api.DocumentInfo, 0, len(docs))}
	for _, d := range docs {
		list.Documents = append(list.Documents, api.DocumentInfo{
			Id:             d.ID,
			FolderName:     d.FolderName,
			Summary:        d.DocumentSummary,
			IsConsolidated: d.IsConsolidated,
			PageCount:      len(d.Pages),
		})
	}
	list.Total = len(list.Documents)
	return list
}
