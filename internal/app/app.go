package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awsssm "github.com/aws/aws-sdk-go-v2/service/ssm"

	"resume-critic/handler"
	"resume-critic/internal/integrations/extractor"
	"resume-critic/internal/integrations/openai"
	"resume-critic/internal/integrations/paramstore"
	"resume-critic/internal/repository"
	"resume-critic/internal/session"
	"resume-critic/internal/usecase"
)

// New loads the AWS SDK configuration and wires the full pipeline. The
// returned cleanup releases backend connections.
func New(ctx context.Context, cfg Config, log *slog.Logger) (*handler.Handler, func(), error) {
	awsCfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("app: load AWS config: %w", err)
	}
	return build(ctx, cfg, awsCfg, log)
}

func build(ctx context.Context, cfg Config, awsCfg aws.Config, log *slog.Logger) (*handler.Handler, func(), error) {
	if log == nil {
		log = slog.Default()
	}

	params, err := paramstore.New(awsssm.NewFromConfig(awsCfg))
	if err != nil {
		return nil, nil, fmt.Errorf("app: create SSM client: %w", err)
	}

	kv, cleanup, err := newKV(ctx, cfg, awsCfg)
	if err != nil {
		return nil, nil, err
	}

	h, err := wire(cfg, params, kv, log)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return h, cleanup, nil
}

func newKV(ctx context.Context, cfg Config, awsCfg aws.Config) (repository.KV, func(), error) {
	noop := func() {}
	switch cfg.StoreBackend {
	case BackendRedis:
		client, err := repository.DialRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, nil, fmt.Errorf("app: connect redis: %w", err)
		}
		kv, err := repository.NewRedis(client)
		if err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("app: create redis store: %w", err)
		}
		return kv, func() { _ = client.Close() }, nil
	case BackendMemory:
		return repository.NewMemory(), noop, nil
	default:
		kv, err := repository.NewDynamo(awsdynamodb.NewFromConfig(awsCfg), cfg.StateTable)
		if err != nil {
			return nil, nil, fmt.Errorf("app: create dynamodb store: %w", err)
		}
		return kv, noop, nil
	}
}

func wire(cfg Config, params *paramstore.Client, kv repository.KV, log *slog.Logger) (*handler.Handler, error) {
	store, err := session.NewStore(kv, session.WithTTL(cfg.SessionTTL), session.WithLogger(log))
	if err != nil {
		return nil, fmt.Errorf("app: create session store: %w", err)
	}
	correlator, err := session.NewCorrelator(store, log)
	if err != nil {
		return nil, fmt.Errorf("app: create correlator: %w", err)
	}

	ex, err := extractor.NewClient(cfg.ExtractorURL)
	if err != nil {
		return nil, fmt.Errorf("app: create extractor client: %w", err)
	}
	chat, err := openai.NewClient(params, cfg.ParamPrefix,
		openai.WithBaseURL(cfg.OpenAIBaseURL),
		openai.WithAzureAPIVersion(cfg.OpenAIAPIVersion),
	)
	if err != nil {
		return nil, fmt.Errorf("app: create OpenAI client: %w", err)
	}
	generator, err := usecase.NewGenerator(chat, params, cfg.ParamPrefix, cfg.GenerationTimeout, log)
	if err != nil {
		return nil, fmt.Errorf("app: create generator: %w", err)
	}

	svc, err := usecase.NewService(ex, generator, usecase.NewFallbackPool(), store, correlator, log)
	if err != nil {
		return nil, fmt.Errorf("app: create service: %w", err)
	}
	h, err := handler.NewHandler(svc,
		handler.WithMaxUploadBytes(cfg.MaxUploadBytes),
		handler.WithLogger(log),
	)
	if err != nil {
		return nil, fmt.Errorf("app: create handler: %w", err)
	}
	return h, nil
}
