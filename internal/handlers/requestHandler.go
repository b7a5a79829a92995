package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/akolanti/DocSearch/internal/adapter"
	"github.com/akolanti/DocSearch/internal/adapter/utils"
	"github.com/akolanti/DocSearch/internal/api"
	"github.com/akolanti/DocSearch/internal/config"
	"github.com/akolanti/DocSearch/internal/domain/docmodel"
	"github.com/akolanti/DocSearch/internal/domain/jobModel"
	"github.com/akolanti/DocSearch/internal/rag/docstore"
	"github.com/akolanti/DocSearch/internal/rag/ingest"
	"github.com/akolanti/DocSearch/internal/rag/retrieval"
	"github.com/akolanti/DocSearch/pkg/logger_i"
)

var logRH *logger_i.Logger

// carries what the job channel needs; request-scoped only
type newJobData struct {
	id             string
	traceId        string
	jobType        jobModel.JobType
	documentName   string
	documentSource string
	excludeFolders []string
}

func GetHandler(w http.ResponseWriter, r *http.Request) {
	writeJsonResponse(w, http.StatusOK, api.HealthResponse{
		Status:        "ok",
		DocumentStore: handlerInstance != nil && handlerInstance.docStore != nil,
	})
}

// SearchQueryHandler godoc
// @Summary      Search documents and generate an answer
// @Description  Embeds the query, retrieves the best matching documents and synthesizes an answer from them.
// @Tags         Search
// @Accept       json
// @Produce      json
// @Param        request  body      api.SearchRequest   true  "Query with optional filters"
// @Success      200      {object}  api.SearchResponse  "Answer with source documents"
// @Failure      400      {object}  api.JobResponse     "Invalid request data"
// @Router       /api/search/query [post]
func SearchQueryHandler(w http.ResponseWriter, request *http.Request) {

	if validateContext(request.Context()) {

		var requestData api.SearchRequest
		defer func(Body io.ReadCloser) {
			err := Body.Close()
			if err != nil {
				logRH.Error("Couldn't close the Search handler reader :", err)
			}
		}(request.Body)
		if err := json.NewDecoder(request.Body).Decode(&requestData); err != nil || requestData.Query == "" {
			logRH.Warn("Bad Search Request: ", "error:", err, "request data:", requestData)
			WriteErrorResponse(w, http.StatusBadRequest, "", "Bad Request")
			return
		}

		opts := docmodel.FilterOptions{}
		if requestData.FilterOptions != nil {
			opts.ConsolidatedOnly = requestData.FilterOptions.ConsolidatedOnly
			opts.FolderName = requestData.FilterOptions.FolderName
			opts.ExcludeExceptions = requestData.FilterOptions.ExcludeExceptions
		}

		results, err := handlerInstance.ragService.Search(request.Context(), requestData.Query, opts, requestData.MaxDocuments)
		if err != nil {
			logRH.Error("Search failed", "error", err)
			WriteErrorResponse(w, http.StatusInternalServerError, "", "Search failed")
			return
		}

		answer := handlerInstance.ragService.GenerateAnswer(request.Context(), requestData.Query, results)

		var images []docmodel.ImageRef
		if requestData.IncludeImages {
			images = retrieval.CollectImages(results)
		}

		writeJsonResponse(w, http.StatusOK, adapter.ToSearchResponse(answer, results, images))
		return
	}
	logRH.Warn("Invalid Context by request ", request.RemoteAddr)
}

// GetDocumentHandler godoc
// @Summary      Get one folder's pages
// @Description  Returns every page record of a folder, ordered by page number.
// @Tags         Search
// @Produce      json
// @Param        folder  path      string          true  "Folder name"
// @Success      200     {object}  api.FolderView  "The folder's pages"
// @Failure      404     {object}  api.JobResponse "Folder not found"
// @Router       /api/search/documents/{folder} [get]
func GetDocumentHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		folder := utils.GetChiURLParam(r, "folder")
		if folder == "" {
			WriteErrorResponse(w, http.StatusBadRequest, "", "folder is required")
			return
		}

		consolidated := false
		pages, err := handlerInstance.docStore.Find(r.Context(), docstore.Filter{
			FolderName:     &folder,
			IsConsolidated: &consolidated,
		}, config.ConsolidationScanLimit)
		if err != nil {
			WriteErrorResponse(w, http.StatusInternalServerError, folder, "Storage error")
			return
		}
		if len(pages) == 0 {
			WriteErrorResponse(w, http.StatusNotFound, folder, "Folder not found")
			return
		}

		sort.SliceStable(pages, func(i, j int) bool {
			return docmodel.SafeInt(pages[i].PageNumber) < docmodel.SafeInt(pages[j].PageNumber)
		})
		writeJsonResponse(w, http.StatusOK, adapter.ToFolderView(folder, pages))
	}
}

// ListDocumentsHandler godoc
// @Summary      List consolidated documents
// @Description  Returns every consolidated document with its summary.
// @Tags         Documents
// @Produce      json
// @Success      200  {object}  api.DocumentListResponse  "The consolidated documents"
// @Router       /api/documents/list [get]
func ListDocumentsHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		consolidated := true
		docs, err := handlerInstance.docStore.Find(r.Context(), docstore.Filter{
			IsConsolidated: &consolidated,
		}, config.ConsolidationScanLimit)
		if err != nil {
			WriteErrorResponse(w, http.StatusInternalServerError, "", "Storage error")
			return
		}
		sort.SliceStable(docs, func(i, j int) bool { return docs[i].FolderName < docs[j].FolderName })
		writeJsonResponse(w, http.StatusOK, adapter.ToDocumentList(docs))
	}
}

// DeleteFolderHandler godoc
// @Summary      Delete a folder
// @Description  Removes every record of a folder, pages and consolidated document alike.
// @Tags         Documents
// @Produce      json
// @Param        folder  path      string              true  "Folder name"
// @Success      200     {object}  api.DeleteResponse  "Number of records removed"
// @Failure      404     {object}  api.JobResponse     "Folder not found"
// @Router       /api/documents/folder/{folder} [delete]
func DeleteFolderHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		folder := utils.GetChiURLParam(r, "folder")
		count, err := handlerInstance.docStore.DeleteByFolder(r.Context(), folder)
		if err != nil {
			WriteErrorResponse(w, http.StatusInternalServerError, folder, "Storage error")
			return
		}
		if count == 0 {
			WriteErrorResponse(w, http.StatusNotFound, folder, "Folder not found")
			return
		}
		writeJsonResponse(w, http.StatusOK, api.DeleteResponse{Deleted: count, Target: folder})
	}
}

// DeleteDocumentHandler godoc
// @Summary      Delete one record
// @Description  Removes a single record by its id.
// @Tags         Documents
// @Produce      json
// @Param        id   path      string              true  "Record id"
// @Success      200  {object}  api.DeleteResponse  "Number of records removed"
// @Failure      404  {object}  api.JobResponse     "Record not found"
// @Router       /api/documents/{id} [delete]
func DeleteDocumentHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		id := utils.GetChiURLParam(r, "id")
		count, err := handlerInstance.docStore.DeleteByID(r.Context(), id)
		if err != nil {
			WriteErrorResponse(w, http.StatusInternalServerError, id, "Storage error")
			return
		}
		if count == 0 {
			WriteErrorResponse(w, http.StatusNotFound, id, "Record not found")
			return
		}
		writeJsonResponse(w, http.StatusOK, api.DeleteResponse{Deleted: count, Target: id})
	}
}

// ConsolidateHandler godoc
// @Summary      Start a consolidation job
// @Description  Queues a background job that folds each folder's pages into one consolidated document.
// @Tags         Documents
// @Accept       json
// @Produce      json
// @Param        request  body      api.ConsolidateRequest  false  "Folders to exclude"
// @Success      202      {object}  api.InitJobResponse     "Job successfully created"
// @Router       /api/documents/consolidate [post]
func ConsolidateHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		var requestData api.ConsolidateRequest
		if r.Body != nil {
			defer r.Body.Close()
			//an empty body is a full consolidation run
			_ = json.NewDecoder(r.Body).Decode(&requestData)
		}

		newJob := newJobData{
			id:             utils.GetNewUUID(),
			traceId:        r.Context().Value(config.TRACE_ID_KEY).(string),
			jobType:        jobModel.JobTypeConsolidate,
			excludeFolders: requestData.ExcludeFolders,
		}
		CreateNewJob(newJob)
		writeJsonResponse(w, http.StatusAccepted, adapter.ToInitJobResponse(newJob.id))
		return
	}
	logRH.Warn("Invalid Context by request ", r.RemoteAddr)
}

// GetStatusHandler godoc
// @Summary      Get job status
// @Description  Retrieves the current status of a specific job using its ID.
// @Tags         Job Status
// @Accept       json
// @Produce      json
// @Param        id   path      string  true  "Job ID "
// @Success      200  {object}  api.JobResponse   "Successful retrieval of job status"
// @Failure      404  {object}  api.JobResponse   "Job not found (returns Error object within JobResponse)"
// @Router       /status/{id} [get]
func GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		//use chi get the url id
		idString := utils.GetChiURLParam(r, "id")
		result, isFound := validateId(idString, r.Context().Value(config.TRACE_ID_KEY).(string))

		logRH.Debug("Get Status Request:", "URL path", r.URL.Path)
		if !isFound {
			WriteErrorResponse(w, http.StatusNotFound, idString, "Job not found")
			return
		}

		writeJsonResponse(w, http.StatusOK, adapter.ToAPIResponse(result))
	}
}

// UploadHandler handles the uploading of PDF, PPTX or DOCX documents.
// @Summary      Upload a document for ingestion
// @Description  Receives a file via multipart/form-data, saves it to a temporary directory, and queues an ingestion job.
// @Tags         Ingestion
// @Accept       multipart/form-data
// @Produce      json
// @Param        document_name  formData  string  true  "The display name of the document"
// @Param        document       formData  file    true  "The PDF, PPTX or DOCX file to upload"
// @Success      202  {object}  api.InitJobResponse "Accepted - returns job id"
// @Failure      400  {object}  api.JobResponse "Bad Request - Missing fields or file too large"
// @Failure      500  {object}  api.JobResponse "Internal Server Error - Storage or Write Error"
// @Router       /api/documents/upload [post]
func UploadHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {

		targetDir, errString := getTargetDirectory()

		if errString != "" {
			logRH.Error("Couldn't get target directory :", "err", errString)
			WriteErrorResponse(w, http.StatusInternalServerError, "", errString)
			return
		}

		const maxUploadSize = 32 << 20 //32mb
		err := r.ParseMultipartForm(maxUploadSize)
		if err != nil {
			WriteErrorResponse(w, http.StatusBadRequest, "", "File too large or bad request")
			return
		}

		//process request
		docName := r.FormValue("document_name")
		if docName == "" {
			WriteErrorResponse(w, http.StatusBadRequest, "", "document_name is required")
			return
		}

		//get the document name the user uploads
		fileReader, fileMetadata, err := r.FormFile("document")
		if err != nil {
			WriteErrorResponse(w, http.StatusBadRequest, docName, "Could not retrieve file")
			return
		}
		defer fileReader.Close()

		if !ingest.IsSupportedFormat(fileMetadata.Filename) {
			logRH.Warn("Rejected upload with unsupported format", "filename", fileMetadata.Filename)
			WriteErrorResponse(w, http.StatusBadRequest, docName, "Unsupported document format")
			return
		}

		filename := fmt.Sprintf("%d-%s", time.Now().UnixNano(), fileMetadata.Filename)
		tempFilePath := filepath.Join(targetDir, filename)
		destinationFileWriter, err := os.Create(tempFilePath)
		if err != nil {
			WriteErrorResponse(w, http.StatusInternalServerError, docName, "Storage error")
			return
		}
		defer destinationFileWriter.Close()

		if _, err := io.Copy(destinationFileWriter, fileReader); err != nil {
			WriteErrorResponse(w, http.StatusInternalServerError, docName, "Write error")
			return
		}

		newJob := newJobData{
			id:             utils.GetNewUUID(),
			traceId:        r.Context().Value(config.TRACE_ID_KEY).(string),
			jobType:        jobModel.JobTypeIngest,
			documentName:   docName,
			documentSource: tempFilePath,
		}
		CreateNewJob(newJob)
		writeJsonResponse(w, http.StatusAccepted, adapter.ToInitJobResponse(newJob.id))
		return
	}
	logRH.Warn("Invalid Context by request ", r.RemoteAddr)
}
