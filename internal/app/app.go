// Package app wires the bot together: config, storage, cache, Discord
// session and the health HTTP server.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/valkey-io/valkey-go"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/kapu/guild-jobs-bot/internal/assets"
	"github.com/kapu/guild-jobs-bot/internal/config"
	"github.com/kapu/guild-jobs-bot/internal/dashboard"
	"github.com/kapu/guild-jobs-bot/internal/discord"
	"github.com/kapu/guild-jobs-bot/internal/domain"
	"github.com/kapu/guild-jobs-bot/internal/health"
	"github.com/kapu/guild-jobs-bot/internal/httpserver"
	"github.com/kapu/guild-jobs-bot/internal/member"
	"github.com/kapu/guild-jobs-bot/internal/messageprovider"
	"github.com/kapu/guild-jobs-bot/internal/platform/bootstrap"
	"github.com/kapu/guild-jobs-bot/internal/repository"
)

const (
	appName         = "guild-jobs-bot"
	logFileName     = "guild-jobs-bot.log"
	shutdownTimeout = 10 * time.Second
)

// Run loads the configuration, assembles the application and blocks until
// shutdown. The returned logger is whichever logger was active last, so the
// caller can report a fatal error through it.
func Run(ctx context.Context, logger *slog.Logger) (*slog.Logger, error) {
	if err := config.LoadDotenvIfPresent(); err != nil {
		return logger, fmt.Errorf("load dotenv failed: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return logger, fmt.Errorf("load config failed: %w", err)
	}

	if strings.TrimSpace(cfg.Log.Dir) != "" {
		fileLogger, logErr := bootstrap.EnableFileLogging(cfg.Log, logFileName)
		if logErr != nil {
			return logger, fmt.Errorf("enable file logging failed: %w", logErr)
		}
		if fileLogger != nil {
			logger = fileLogger
		}
	}

	cleanup, err := run(ctx, cfg, logger)
	if cleanup != nil {
		defer cleanup()
	}
	return logger, err
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) (func(), error) {
	logger.Info("config_loaded",
		"token_prefix", tokenPrefix(cfg.Discord.Token),
		"cache_enabled", cfg.Redis.Enabled(),
		"cards_per_page", cfg.Dashboard.CardsPerPage,
	)

	catalog, err := domain.LoadCatalog(assets.ProfessionsYAML)
	if err != nil {
		return nil, fmt.Errorf("load profession catalog failed: %w", err)
	}

	messages, err := messageprovider.NewFromYAML(assets.BotMessagesYAML)
	if err != nil {
		return nil, fmt.Errorf("load messages failed: %w", err)
	}

	db, sqlDB, err := openPostgres(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("open postgres failed: %w", err)
	}
	cleanups := []func(){func() {
		if closeErr := sqlDB.Close(); closeErr != nil {
			logger.Warn("postgres_close_failed", "err", closeErr)
		}
	}}
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	repo := repository.New(db)
	if err := repo.AutoMigrate(ctx); err != nil {
		return cleanup, fmt.Errorf("auto migrate failed: %w", err)
	}

	var valkeyClient valkey.Client
	if cfg.Redis.Enabled() {
		valkeyClient, err = openValkey(ctx, cfg.Redis)
		if err != nil {
			return cleanup, fmt.Errorf("open valkey failed: %w", err)
		}
		cleanups = append(cleanups, valkeyClient.Close)
	} else {
		logger.Info("member_name_cache_disabled")
	}

	session, err := discord.NewSession(cfg.Discord.Token)
	if err != nil {
		return cleanup, fmt.Errorf("create discord session failed: %w", err)
	}

	resolver := member.NewResolver(
		discord.NewMemberFetcher(session),
		valkeyClient,
		cfg.Redis.MemberNameTTL,
		logger,
	)

	messenger := discord.NewMessenger(session, logger)
	renderer := dashboard.NewRenderer(catalog, messages)
	dashSvc := dashboard.NewService(repo, messenger, resolver, renderer, messages, cfg.Dashboard.CardsPerPage, logger)

	handlers := discord.NewHandlers(repo, dashSvc, catalog, messages, resolver, cfg.Discord.PrivilegedRoles, logger)
	dispatcher := discord.NewDispatcher(handlers, dashSvc, messages, logger)

	session.AddHandler(dispatcher.HandleInteractionCreate)
	session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		logger.Info("discord_ready", "user", r.User.Username, "guilds", len(r.Guilds))
		if err := discord.RegisterCommands(s, catalog); err != nil {
			logger.Error("register_commands_failed", "err", err)
			return
		}
		logger.Info("commands_registered")
	})

	server := newHTTPServer(cfg.Server)

	err = bootstrap.RunHTTPServer(
		ctx,
		logger,
		appName,
		server,
		shutdownTimeout,
		bootstrap.BackgroundTask{
			Name:        "discord_gateway",
			ErrorLogKey: "discord_gateway_failed",
			Run: func(ctx context.Context) error {
				return discord.RunGateway(ctx, session, logger)
			},
		},
	)
	return cleanup, err
}

// tokenPrefix keeps enough of the credential to confirm which one loaded
// without logging the secret.
func tokenPrefix(token string) string {
	if len(token) <= 6 {
		return "***"
	}
	return token[:6] + "..."
}

func newHTTPServer(cfg config.ServerConfig) *http.Server {
	mux := http.NewServeMux()
	health.Register(mux)

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	return httpserver.NewServer(addr, mux, httpserver.Options{
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	})
}

func openPostgres(ctx context.Context, cfg config.DatabaseConfig) (*gorm.DB, *sql.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.URL), &gorm.Config{})
	if err != nil {
		return nil, nil, fmt.Errorf("gorm open failed: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("get sql db failed: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		return nil, nil, fmt.Errorf("db ping failed: %w", err)
	}

	return db, sqlDB, nil
}

func openValkey(ctx context.Context, cfg config.RedisConfig) (valkey.Client, error) {
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress: []string{fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)},
		Password:    cfg.Password,
		SelectDB:    cfg.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("valkey client failed: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Do(pingCtx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("valkey ping failed: %w", err)
	}

	return client, nil
}
