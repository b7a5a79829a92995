package config

import (
	"log/slog"
	"time"
)

const (
	IS_PROD        = false
	LOG_LEVEL_PROD = slog.LevelInfo
	TRACE_ID_KEY   = "traceId"

	NoAuthBypass = true //flip for deployments that front their own auth
	AuthToken    = ""

	RATE_LIMIT_PER_SECOND       = 2
	BURST_RATE_LIMIT_PER_SECOND = 5

	//embeddings - dimension is a fixed contract between writer and reader
	EmbeddingOutputDimensionality = 1536
	EmbeddingModel                = "text-embedding-3-small"
	EmbeddingInputCharLimit       = 8000

	//chat + summaries
	ChatModel                = "gpt-4.1"
	AnswerTemperature        = 0.7
	AnswerMaxTokens    int64 = 1500
	SummaryTemperature       = 0.3
	SummaryMaxTokens   int64 = 200

	//vision analysis
	VisionModel = "gemini-2.5-flash"

	//document store
	CollectionName          = "documents"
	QdrantConnectionTimeout = 30 * time.Second
	QdrantHost              = "localhost"
	QdrantGrpcPort          = 6334
	QdrantUseTLS            = false
	QdrantPoolSize          = 1

	//retrieval shaping
	DefaultTopK          = 3
	MaxTopK              = 10
	OverFetchFactor      = 2
	ContextTextCharLimit = 1000
	ContextImageLimit    = 3
	ImagesPerDocument    = 2
	ImagesPerResponse    = 8

	//consolidation shaping
	ConsolidatedImageCap     = 20
	DocSummaryPageLimit      = 10
	DocEmbedSummaryCount     = 5
	DocEmbedTextCharLimit    = 5000
	PageEmbedTextCharLimit   = 4000
	ConsolidationScanLimit   = 10000
	NoTextSentinel           = "no text content"
	ConsolidatedContentType  = "consolidated_document"
	ProcessedPageContentType = "processed_page"

	AnswerSystemPrompt = "You are an assistant that provides information from within the organisation. " +
		"Synthesize the given document excerpts into a comprehensive answer to the user question. " +
		"Integrate information across documents into one coherent answer and structure it clearly. " +
		"When documents conflict, prefer the information with the highest relevance score."

	SummarySystemPrompt = "Generate a concise summary of the whole document based on the per-page summaries."

	NoResultsAnswer = "No documents related to the question could be found."

	AnswerUnavailableAnswer = "Unable to generate an answer: the language model service is unavailable."

	JobExecutionTimeout = 10 * time.Minute

	RequestsPerNewWorkerCount int64 = 10
	MaxWorkerCount            int64 = 10
	MinWorkerCount            int64 = 1
	IdleWorkerTimeout               = 1 * time.Minute

	//serverTimeouts
	ReadTimeout            = 5 * time.Second
	WriteTimeout           = 30 * time.Second
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	ServerListenAddr = ":3000"

	//job requests buffer limit
	BufferLimit = 100

	MaxIdleConns        = 50
	MaxIdleConnsPerHost = 25
	IdleConnTimeout     = 60 * time.Second

	//redis
	redisHost     = "127.0.0.1"
	redisPort     = "6379"
	RedisAddr     = redisHost + ":" + redisPort
	RedisPassword = ""

	RedisJobStore    = 0
	RedisJobStoreTTL = 24 * time.Hour
)
