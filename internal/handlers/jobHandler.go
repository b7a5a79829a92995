package handlers

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/akolanti/DocSearch/internal/config"
	"github.com/akolanti/DocSearch/internal/domain/jobModel"
	"github.com/akolanti/DocSearch/internal/job"
	"github.com/akolanti/DocSearch/internal/metrics"
	"github.com/akolanti/DocSearch/internal/rag"
	"github.com/akolanti/DocSearch/internal/rag/docstore"
	"github.com/akolanti/DocSearch/pkg/logger_i"
)

var (
	handlerInstance *JobHandler //private singleton
	once            sync.Once
	logJH           *logger_i.Logger
)

type JobHandler struct {
	service    *job.Service
	ragService rag.Service
	docStore   docstore.Store
}

func InitHandlers(jobService *job.Service, ragService rag.Service, docStore docstore.Store) {
	once.Do(func() {
		handlerInstance = &JobHandler{
			service:    jobService,
			ragService: ragService,
			docStore:   docStore,
		}

		logJH = logger_i.NewLogger("JobHandler")
		logRH = logger_i.NewLogger("RequestHandler")
		logJH.Info("Starting job handler")
	})

}

func CreateNewJob(newJob newJobData) {
	logJH.With("traceId", newJob.traceId, "job id", newJob.id)
	logJH.Info("To create new job")
	handlerInstance.pushToJobChannel(newJob)
}

func GetJobStatus(id string, traceId string) (result jobModel.Job, isFound bool) {
	ctxC := context.WithValue(context.Background(), config.TRACE_ID_KEY, traceId)
	if handlerInstance != nil {
		return handlerInstance.service.JobStore.GetJob(ctxC, id)
	}
	return result, false
}

// private methods
func (h *JobHandler) pushToJobChannel(newJob newJobData) {

	_job := jobModel.Job{}
	_job.Id = newJob.id
	_job.CreatedTime = time.Now()
	_job.TraceId = newJob.traceId
	_job.Status = jobModel.JobStatusQueued

	if newJob.jobType == jobModel.JobTypeConsolidate {
		_job.CurrentStep = jobModel.ConsolidateInit
		_job.JobType = jobModel.JobTypeConsolidate
		_job.JobPayload.ExcludeFolders = newJob.excludeFolders

	} else {
		_job.CurrentStep = jobModel.IngestInit
		_job.JobType = jobModel.JobTypeIngest
		_job.JobPayload.IngestFileName = newJob.documentName
		_job.JobPayload.IngestURL = newJob.documentSource
	}

	//metrics
	metrics.IncrementJobsInQueue()

	h.service.JobChannel <- _job //this is a blocking send to prevent the system from being overwhelmed
	logJH.Info("Created new job")

	//a new worker is added every N requests, and always for ingestion:
	//ingestion walks every page through external model calls which can
	//take a while, so it should never queue behind other jobs.
	//idle workers retire on their own, so the pool shrinks back.

	accurateCount := atomic.AddInt64(&h.service.RequestCount, 1) //after sending a request increment counter
	if accurateCount%config.RequestsPerNewWorkerCount == 0 || _job.JobType == jobModel.JobTypeIngest {
		metrics.StartDispatcherSignalCount() //metrics
		logJH.Debug("Worker count ", accurateCount)
		h.service.DispatcherChannel <- true
	}
}
