// Package bootstrap connects the shared infrastructure and builds the
// optional integrations from configuration. The server, worker and opsctl
// all start from here.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Acurioustractor/act-global-infrastructure-sub005/common/arangodb"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/common/llm"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/common/typesense"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/core/config"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/core/db"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/agent"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/approval"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/integration"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/integration/gcalendar"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/integration/gmail"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/integration/knowledgerepo"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/integration/notion"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/integration/telegram"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/model"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/queue"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/service"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/store"
)

// Infra is the always-on infrastructure: Postgres and Redis.
type Infra struct {
	DB       *db.DB
	Redis    *redis.Client
	Stores   *store.Stores
	Producer queue.Producer
	Status   *queue.StatusStream
}

func Connect(ctx context.Context, cfg config.Config) (*Infra, error) {
	database, err := db.New(ctx, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	slog.InfoContext(ctx, "database connected")

	redisOpts, err := redis.ParseURL(cfg.Queue.RedisURL)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	redisClient := redis.NewClient(redisOpts)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		database.Close()
		_ = redisClient.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}
	slog.InfoContext(ctx, "redis connected", "stream", cfg.Queue.Stream)

	return &Infra{
		DB:       database,
		Redis:    redisClient,
		Stores:   store.NewStores(database.Queries()),
		Producer: queue.NewRedisProducer(redisClient, cfg.Queue.Stream, slog.Default()),
		Status:   queue.NewStatusStream(redisClient, cfg.Queue.StatusStream),
	}, nil
}

func (i *Infra) Close() {
	if err := i.Producer.Close(); err != nil {
		slog.Warn("closing producer", "error", err)
	}
	if err := i.Redis.Close(); err != nil {
		slog.Warn("closing redis", "error", err)
	}
	i.DB.Close()
}

// Integrations holds the external clients. A field is nil when its
// integration is not configured.
type Integrations struct {
	Gmail       gmail.Client
	Calendar    gcalendar.Client
	Notion      notion.Client
	Telegram    telegram.Client
	Wiki        knowledgerepo.Repo
	Search      typesense.Client
	Graph       arangodb.Client
	Transcriber llm.Transcriber
}

// NewIntegrations builds every configured integration. A misconfigured
// optional integration is logged and left off rather than failing startup.
func NewIntegrations(ctx context.Context, cfg config.Config) *Integrations {
	in := &Integrations{}
	loc := cfg.Location()

	if cfg.Google.Enabled() {
		httpClient := integration.GoogleHTTPClient(ctx, cfg.Google)
		in.Calendar = gcalendar.New(httpClient, cfg.Google.CalendarID, loc)
		if cfg.Google.SenderEmail != "" {
			in.Gmail = gmail.New(httpClient, cfg.Google.SenderEmail)
		}
	}
	if cfg.Notion.Enabled() {
		in.Notion = notion.New(cfg.Notion.Token)
	}
	if cfg.Telegram.Enabled() {
		in.Telegram = telegram.New(cfg.Telegram.BotToken)
	}
	if cfg.KnowledgeRepo.Enabled() {
		repo, err := knowledgerepo.New(cfg.KnowledgeRepo)
		if err != nil {
			slog.WarnContext(ctx, "knowledge repo disabled", "error", err)
		} else {
			in.Wiki = repo
		}
	}
	if cfg.Typesense.Enabled() {
		search, err := typesense.New(typesense.Config{URL: cfg.Typesense.URL, APIKey: cfg.Typesense.APIKey})
		if err != nil {
			slog.WarnContext(ctx, "typesense disabled", "error", err)
		} else {
			in.Search = search
		}
	}
	if cfg.ArangoDB.Enabled() {
		graph, err := arangodb.New(ctx, arangodb.Config{
			URL:      cfg.ArangoDB.URL,
			Username: cfg.ArangoDB.Username,
			Password: cfg.ArangoDB.Password,
			Database: cfg.ArangoDB.Database,
		})
		if err != nil {
			slog.WarnContext(ctx, "relationship graph disabled", "error", err)
		} else {
			in.Graph = graph
		}
	}
	if cfg.Transcription.Enabled() {
		transcriber, err := llm.NewTranscriber(llmConfig(cfg.Transcription))
		if err != nil {
			slog.WarnContext(ctx, "voice transcription disabled", "error", err)
		} else {
			in.Transcriber = transcriber
		}
	}

	slog.InfoContext(ctx, "integrations configured",
		"gmail", in.Gmail != nil,
		"calendar", in.Calendar != nil,
		"notion", in.Notion != nil,
		"telegram", in.Telegram != nil,
		"knowledge_repo", in.Wiki != nil,
		"typesense", in.Search != nil,
		"arangodb", in.Graph != nil,
		"transcription", in.Transcriber != nil,
	)
	return in
}

func (in *Integrations) Close() {
	if in.Graph != nil {
		if err := in.Graph.Close(); err != nil {
			slog.Warn("closing arangodb", "error", err)
		}
	}
}

func (in *Integrations) ServiceClients() service.Clients {
	return service.Clients{
		Graph:    in.Graph,
		Search:   in.Search,
		Wiki:     in.Wiki,
		Calendar: in.Calendar,
	}
}

// NewServices builds the service factory over infra and integrations.
func NewServices(cfg config.Config, infra *Infra, in *Integrations) *service.Services {
	return service.NewServices(infra.Stores, service.NewTxRunner(infra.DB), in.ServiceClients(), cfg)
}

// NewApprovals builds the pending action state machine with an executor for
// every action type whose integration is configured.
func NewApprovals(cfg config.Config, infra *Infra, in *Integrations) approval.Service {
	defaultChannel := model.ChannelWeb
	if in.Telegram != nil && cfg.Telegram.DefaultChatID != "" {
		defaultChannel = model.ChannelTelegram
	}

	executors := []approval.Executor{
		approval.NewReminderExecutor(infra.Stores.Reminders(), defaultChannel, cfg.Telegram.DefaultChatID),
		approval.NewReceiptExecutor(infra.Stores.Finance()),
	}
	if in.Gmail != nil {
		executors = append(executors, approval.NewEmailExecutor(in.Gmail))
	}
	if in.Calendar != nil {
		executors = append(executors, approval.NewCalendarExecutor(in.Calendar))
	}

	return approval.NewService(
		infra.Stores.PendingActions(),
		approval.NewRegistry(executors...),
		infra.Producer,
		infra.Status,
		approval.ConfigFrom(cfg.Approval),
		cfg.Location(),
		time.Now,
	)
}

// NewAgent builds the agent with both model tiers and the full tool set.
func NewAgent(cfg config.Config, infra *Infra, in *Integrations, services *service.Services, approvals approval.Service) (agent.Agent, error) {
	cheap, err := llm.NewAgentClient(llmConfig(cfg.Agent.Cheap))
	if err != nil {
		return nil, fmt.Errorf("creating cheap tier client: %w", err)
	}
	clients := agent.Clients{Cheap: cheap}
	if cfg.Agent.Expensive.Enabled() {
		expensive, err := llm.NewAgentClient(llmConfig(cfg.Agent.Expensive))
		if err != nil {
			return nil, fmt.Errorf("creating expensive tier client: %w", err)
		}
		clients.Expensive = expensive
	}

	loc := services.Location()
	tools := agent.NewTools(agent.Deps{
		Contacts:  services.Contacts(),
		Projects:  services.Projects(),
		Finance:   services.Finance(),
		Calendar:  services.Calendar(),
		Knowledge: services.Knowledge(),
		Overview:  services.Overview(),
		Briefing:  services.Briefing(),
		Reminders: infra.Stores.Reminders(),
		Approvals: approvals,
		Gmail:     in.Gmail,
		Notion:    in.Notion,
		Location:  loc,
		Now:       time.Now,
	})

	slog.Info("agent ready",
		"cheap_model", cheap.Model(),
		"escalates", clients.Expensive != nil,
		"tools", len(tools.Definitions()),
	)

	return agent.New(
		clients,
		tools,
		infra.Stores.Conversations(),
		approvals,
		agent.ConfigFrom(cfg.Agent, cfg.Org),
		loc,
		time.Now,
	), nil
}

func llmConfig(c config.LLMConfig) llm.Config {
	return llm.Config{
		Provider: c.Provider,
		APIKey:   c.APIKey,
		BaseURL:  c.BaseURL,
		Model:    c.Model,
	}
}
