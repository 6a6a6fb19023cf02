package bootstrap

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"shopy/internal/ai"
	appsvc "shopy/internal/app"
	"shopy/internal/config"
	"shopy/internal/model"
	mysqlClient "shopy/internal/platform/mysql"
	rabbitmqClient "shopy/internal/platform/rabbitmq"
	redisClient "shopy/internal/platform/redis"
	"shopy/internal/repository"
	"shopy/internal/worker"
)

type App struct {
	Config      *config.Config
	MySQL       *gorm.DB
	Redis       *redis.Client
	MQConn      *amqp.Connection
	Assistant   *appsvc.AssistantService
	IndexWorker *worker.IndexSyncWorker

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
	if err := mysqlDB.AutoMigrate(
		&model.User{},
		&model.Product{},
		&model.Order{},
		&model.OrderItem{},
		&model.IndexEntry{},
	); err != nil {
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

	llmClient := ai.NewOpenAICompatibleClient()
	assistant := appsvc.NewAssistantService(
		repository.NewProductRepository(mysqlDB),
		repository.NewIndexEntryRepository(mysqlDB),
		ai.NewEmbeddingProvider(llmClient, ai.EmbeddingConfig{
			BaseURL: cfg.LLM.BaseURL,
			APIKey:  cfg.LLM.APIKey,
			Model:   cfg.LLM.EmbeddingModel,
		}),
		ai.NewCompletionProvider(llmClient, ai.ChatConfig{
			BaseURL: cfg.LLM.BaseURL,
			APIKey:  cfg.LLM.APIKey,
			Model:   cfg.LLM.Model,
		}),
		cfg.Assistant.ScoreThreshold,
		cfg.Assistant.TopK,
	)

	indexWorker := worker.NewIndexSyncWorker(mqConn, assistant, cfg.RabbitMQ.CatalogEventQueue)
	if err := indexWorker.Start(ctx); err != nil {
		return nil, fmt.Errorf("start index sync worker failed: %w", err)
	}

	return &App{
		Config:      cfg,
		MySQL:       mysqlDB,
		Redis:       redisCli,
		MQConn:      mqConn,
		Assistant:   assistant,
		IndexWorker: indexWorker,
		StartedAt:   time.Now(),
	}, nil
}

func (a *App) Close() error {
	var closeErr error
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.IndexWorker != nil {
		a.IndexWorker.Close()
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
