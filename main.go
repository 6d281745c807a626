package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tanpawarit/huddle/agent/agents/orchestrator"
	"github.com/tanpawarit/huddle/agent/classify"
	"github.com/tanpawarit/huddle/agent/llm"
	nodex "github.com/tanpawarit/huddle/agent/nodes"
	"github.com/tanpawarit/huddle/agent/prompt"
	statex "github.com/tanpawarit/huddle/agent/state"
	"github.com/tanpawarit/huddle/agent/stats"
	"github.com/tanpawarit/huddle/agent/teams"
	"github.com/tanpawarit/huddle/agent/toolcall"
	"github.com/tanpawarit/huddle/agent/trivia"
	"github.com/tanpawarit/huddle/agent/video"
	configx "github.com/tanpawarit/huddle/pkg/config"
	logx "github.com/tanpawarit/huddle/pkg/logger"
	_ "github.com/tanpawarit/huddle/pkg/logger/autoload"
	"github.com/tanpawarit/huddle/server"
)

func main() {
	log := logx.Component("main")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverCfg := configx.MustNew[server.Config]("SERVER")
	sessionCfg := configx.MustNew[statex.Config]("SESSION")
	triviaCfg := configx.MustNew[trivia.Config]("TRIVIA")
	videoCfg := configx.MustNew[video.Config]("VIDEO")
	liveCfg := configx.MustNew[stats.Config]("LIVE_STATS")
	historicalCfg := configx.MustNew[stats.Config]("HISTORICAL")
	llmCfg := configx.MustNew[llm.Config]("OPENROUTER")
	routerCfg := configx.MustNew[orchestrator.Config]("ROUTER")

	ix := teams.MustLoad()

	bank, err := trivia.LoadEmbedded()
	if err != nil {
		log.Fatal().Err(err).Msg("load embedded question bank")
	}

	caps := nodex.Capabilities{
		Trivia: trivia.NewEngine(bank),
	}
	toolClient := toolcall.New(ix)
	if videoCfg.Enabled() {
		caps.Clips = video.New(*videoCfg, ix)
	}
	if liveCfg.Enabled() {
		caps.Live = stats.NewLive(toolClient, *liveCfg)
	}
	if historicalCfg.Enabled() {
		caps.Historical = stats.NewHistorical(toolClient, *historicalCfg)
	}
	if llmCfg.Enabled() {
		model, err := llm.NewClient(*llmCfg)
		if err != nil {
			log.Fatal().Err(err).Msg("build model client")
		}
		caps.Chat = model
	}

	store := newSessionStore(*sessionCfg)

	agent, err := orchestrator.New(store, classify.New(), caps, prompt.LoadPromptSet(), *routerCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("build orchestrator")
	}
	log.Info().
		Str("mode", string(agent.Mode())).
		Bool("clips", caps.Clips != nil).
		Bool("live", caps.Live != nil).
		Bool("historical", caps.Historical != nil).
		Bool("chat", caps.Chat != nil).
		Msg("orchestrator ready")

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return server.New(*serverCfg, agent).Run(gctx)
	})

	if mem, ok := store.(*statex.MemoryStore); ok {
		g.Go(func() error {
			return mem.RunSweeper(gctx)
		})
	}

	if triviaCfg.DatabaseURL != "" {
		source := trivia.NewPostgresSource(triviaCfg.DatabaseURL)
		defer source.Close()

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := source.Ping(pingCtx); err != nil {
			log.Warn().Err(err).Msg("trivia database unreachable, serving embedded questions until a refresh succeeds")
		}
		cancel()

		g.Go(func() error {
			return bank.RunRefresher(gctx, source, triviaCfg.RefreshCron)
		})
	}

	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("service stopped")
	}
	log.Info().Msg("service stopped")
}

// newSessionStore picks the session backend. Redis keeps sessions across
// restarts and replicas; the in-memory store is the zero-config default.
func newSessionStore(cfg statex.Config) statex.Store {
	log := logx.Component("main")

	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "redis":
		redisCfg := configx.MustNew[statex.RedisConfig]("SESSION_REDIS")
		store, err := statex.NewRedisStore(*redisCfg, cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("build redis session store")
		}
		return store
	case "", "memory":
		return statex.NewMemoryStore(cfg)
	default:
		log.Fatal().Str("backend", cfg.Backend).Msg("unknown session backend")
		return nil
	}
}
