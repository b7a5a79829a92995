// @title           Document Search API
// @version         1.0
// @description     This API handles document ingestion, consolidation and semantic search
// @termsOfService  http://swagger.io/terms/

// @contact.name    me lol
// @contact.url
// @contact.email

// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:3000
// @BasePath  /
// @schemes   http https
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/akolanti/DocSearch/internal/config"
	"github.com/akolanti/DocSearch/internal/data/store"
	jobmodel "github.com/akolanti/DocSearch/internal/domain/jobModel"
	"github.com/akolanti/DocSearch/internal/handlers"
	"github.com/akolanti/DocSearch/internal/job"
	"github.com/akolanti/DocSearch/internal/rag"
	"github.com/akolanti/DocSearch/internal/rag/docstore"
	"github.com/akolanti/DocSearch/internal/rag/docstore/memoryStore"
	"github.com/akolanti/DocSearch/internal/rag/docstore/qdrantStore"
	"github.com/akolanti/DocSearch/internal/rag/embedding"
	"github.com/akolanti/DocSearch/internal/rag/embedding/openaiEmbedding"
	"github.com/akolanti/DocSearch/internal/rag/llm"
	"github.com/akolanti/DocSearch/internal/rag/llm/openaiChat"
	"github.com/akolanti/DocSearch/internal/rag/vision"
	"github.com/akolanti/DocSearch/internal/rag/vision/geminiVision"
	"github.com/akolanti/DocSearch/internal/server"
	"github.com/akolanti/DocSearch/internal/worker"
	"github.com/akolanti/DocSearch/pkg/logger_i"
)

var (
	listenAddr        string
	requestCount      int64
	stopWorkerChannel chan bool
	workerWaitGroup   sync.WaitGroup
)

func main() {

	logger_i.Init()
	var logger = logger_i.NewLogger("main")

	//config
	flag.StringVar(&listenAddr, "listen-addr", config.ServerListenAddr, "server listen address")
	flag.Parse()

	//init buffered job channel
	jobChannel := make(chan jobmodel.Job, config.BufferLimit)
	dispatcherChannel := make(chan bool, 1)
	stopWorkerChannel = make(chan bool, 1)

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	//init job service and job store
	var jobStore jobmodel.JobStore
	if rjs := store.GetRedisJobStore(serviceContext); rjs != nil {
		jobStore = rjs
	} else {
		logger.Error("Redis store is offline")
		jobStore = store.InitInMemoryJobStore()
	}

	logger.Info("Starting job service")
	service := job.InitJobService(job.ServiceConfig{
		JobChannel:        jobChannel,
		RequestCount:      requestCount,
		DispatcherChannel: dispatcherChannel,
		JobStore:          jobStore,
	})

	//every external dependency degrades rather than blocks startup:
	//missing keys or offline services fall back to local substitutes
	var embedder embedding.Embedder
	if e := openaiEmbedding.GetEmbeddingClient(serviceContext); e != nil {
		embedder = e
	} else {
		logger.Error("Embedding service unavailable, storing zero vectors")
		embedder = embedding.Disabled{Dim: config.EmbeddingOutputDimensionality}
	}

	var docStore docstore.Store
	if qs := qdrantStore.GetQdrantStore(serviceContext, embedder); qs != nil {
		docStore = qs
	} else {
		logger.Error("Qdrant unavailable, using in-memory document store")
		docStore = memoryStore.InitMemoryStore(embedder)
	}

	var llmProvider llm.Provider
	if c := openaiChat.GetChatClient(serviceContext); c != nil {
		llmProvider = c
	} else {
		logger.Error("Chat service unavailable, answers degrade to canned responses")
	}

	var analyzer vision.Analyzer
	if a := geminiVision.GetVisionClient(serviceContext); a != nil {
		analyzer = a
	} else {
		logger.Error("Vision service unavailable, pages stored without visual analysis")
		analyzer = vision.Degraded{}
	}

	ragService := rag.NewService(docStore, llmProvider, embedder, vision.NewPlaceholderRenderer(), analyzer)

	handlers.InitHandlers(service, ragService, docStore)

	//init worker pool
	worker.InitServices(service, ragService)
	worker.InitWorkerPool(stopWorkerChannel, &workerWaitGroup)

	//server handling
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	shutdownParams := server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		WorkerStop:       stopWorkerChannel,
		Group:            &workerWaitGroup,
		CloseServices:    closeExternalServices,
	}
	go server.ShutDownHandler(shutdownParams)
	go server.CreateServer(listenAddr)

	<-stopExecution
	logger.Info("Server stopped")
}
