package bootstrap

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"pdftutor/internal/ai"
	appsvc "pdftutor/internal/app"
	"pdftutor/internal/cache"
	"pdftutor/internal/config"
	"pdftutor/internal/model"
	mysqlClient "pdftutor/internal/platform/mysql"
	rabbitmqClient "pdftutor/internal/platform/rabbitmq"
	redisClient "pdftutor/internal/platform/redis"
	"pdftutor/internal/repository"
	"pdftutor/internal/worker"
)

type App struct {
	Config        *config.Config
	MySQL         *gorm.DB
	Redis         *redis.Client
	MQConn        *amqp.Connection
	CleanupWorker *worker.CleanupWorker

	Documents *appsvc.DocumentService
	Questions *appsvc.QuestionFlow
	Summaries *appsvc.SummaryFlow

	StartedAt time.Time
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}

	mysqlDB, err := mysqlClient.New(ctx, cfg.MySQLDSN())
	if err != nil {
		return nil, err
	}
	if err := mysqlDB.AutoMigrate(&model.Document{}, &model.Chunk{}); err != nil {
		return nil, fmt.Errorf("auto migrate tables failed: %w", err)
	}

	redisCli, err := redisClient.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, err
	}

	mqConn, err := rabbitmqClient.New(ctx, cfg.RabbitMQ.URL)
	if err != nil {
		return nil, err
	}

	llmClient := ai.NewClient(
		ai.NewOpenAICompatibleClient(),
		ai.EmbeddingConfig{
			BaseURL: cfg.LLM.BaseURL,
			APIKey:  cfg.LLM.APIKey,
			Model:   cfg.LLM.EmbeddingModel,
		},
		ai.ChatConfig{
			BaseURL: cfg.LLM.BaseURL,
			APIKey:  cfg.LLM.APIKey,
			Model:   cfg.LLM.Model,
		},
	)

	docRepo := repository.NewDocumentRepository(mysqlDB)
	chunkRepo := repository.NewChunkRepository(mysqlDB)

	indexer := appsvc.NewIndexer(llmClient, chunkRepo, cfg.RAG.ChunkSize, cfg.RAG.ChunkOverlap)
	retriever := appsvc.NewRetriever(llmClient, chunkRepo)
	cleanupPublisher := rabbitmqClient.NewCleanupPublisher(mqConn, cfg.RabbitMQ.CleanupQueue)

	documents := appsvc.NewDocumentService(
		docRepo,
		chunkRepo,
		indexer,
		cleanupPublisher,
		time.Duration(cfg.RAG.RetentionDays)*24*time.Hour,
	)
	summaryCache := cache.NewSummaryCache(redisCli, time.Duration(cfg.Redis.SummaryTTLSeconds)*time.Second)

	questions := appsvc.NewQuestionFlow(retriever, llmClient)
	summaries := appsvc.NewSummaryFlow(retriever, llmClient, summaryCache)

	cleanupWorker := worker.NewCleanupWorker(mqConn, documents, cfg.RabbitMQ.CleanupQueue)
	if err := cleanupWorker.Start(ctx); err != nil {
		return nil, fmt.Errorf("start cleanup worker failed: %w", err)
	}

	return &App{
		Config:        cfg,
		MySQL:         mysqlDB,
		Redis:         redisCli,
		MQConn:        mqConn,
		CleanupWorker: cleanupWorker,
		Documents:     documents,
		Questions:     questions,
		Summaries:     summaries,
		StartedAt:     time.Now(),
	}, nil
}

func (a *App) Close() error {
	var closeErr error
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.CleanupWorker != nil {
		a.CleanupWorker.Close()
	}
	if a.MQConn != nil {
		if err := a.MQConn.Close(); err != nil {
			closeErr = err
		}
	}
	if a.MySQL != nil {
		sqlDB, err := a.MySQL.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				closeErr = err
			}
		}
	}
	return closeErr
}
