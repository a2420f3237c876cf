package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"log/slog"

	"github.com/joho/godotenv"

	"friendfeed/internal/auth"
	"friendfeed/internal/config"
	"friendfeed/internal/httpapi"
	"friendfeed/internal/imaging"
	"friendfeed/internal/service"
	"friendfeed/internal/store/postgres"
	"friendfeed/internal/webui"
)

func main() {
	// A missing .env is fine; the environment wins either way.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}

	logger := newLogger(cfg)

	if cfg.DBDSN == "" {
		logger.Error("APP_DB_DSN is required")
		os.Exit(1)
	}

	pgPool, err := postgres.Open(context.Background(), cfg.DBDSN)
	if err != nil {
		logger.Error("db open failed", "err", err)
		os.Exit(1)
	}
	defer pgPool.Close()

	if err := postgres.EnsureSchema(context.Background(), pgPool); err != nil {
		logger.Error("schema setup failed", "err", err)
		os.Exit(1)
	}

	users := postgres.NewUsersStore(pgPool)
	sessions := postgres.NewSessionsStore(pgPool)
	friendships := postgres.NewFriendshipsStore(pgPool)
	posts := postgres.NewPostsStore(pgPool)
	userSearch := postgres.NewUserSearchStore(pgPool)

	authSvc := &service.AuthService{
		Users:      users,
		Sessions:   sessions,
		SessionTTL: cfg.SessionTTL,
	}
	friendsSvc := &service.FriendsService{
		Users:       users,
		Friendships: friendships,
	}
	postsSvc := &service.PostsService{Store: posts}
	profileSvc := &service.ProfileService{Users: users}
	searchSvc := &service.SearchService{Store: userSearch}

	postImages := &imaging.Processor{Dir: filepath.Join(cfg.UploadDir, "post_pics")}
	profileImages := &imaging.Processor{Dir: filepath.Join(cfg.UploadDir, "profile_pics")}

	codec := auth.NewCookieCodec([]byte(cfg.CookieSecret))

	web := webui.New(webui.Opts{
		Logger:        logger,
		Auth:          authSvc,
		Posts:         postsSvc,
		Friends:       friendsSvc,
		Profile:       profileSvc,
		Search:        searchSvc,
		PostImages:    postImages,
		ProfileImages: profileImages,
		CookieCodec:   codec,
		CookieSecure:  cfg.CookieSecure(),
		SessionTTL:    cfg.SessionTTL,
		UploadDir:     cfg.UploadDir,
	})

	root := httpapi.NewRouter(httpapi.RouterOpts{
		Logger:        logger,
		IsProd:        cfg.IsProd(),
		DBPing:        pgPool.Ping,
		Auth:          authSvc,
		Posts:         postsSvc,
		Friends:       friendsSvc,
		Profile:       profileSvc,
		Search:        searchSvc,
		PostImages:    postImages,
		ProfileImages: profileImages,
		CookieCodec:   codec,
		CookieSecure:  cfg.CookieSecure(),
		SessionTTL:    cfg.SessionTTL,
		Web:           web,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           root,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "env", cfg.Env, "addr", cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "err", err)
			os.Exit(1)
		}
	}
}

func newLogger(cfg config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "info", "":
		level = slog.LevelInfo
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.IsProd() {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
