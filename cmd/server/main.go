package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/pencraft/pencraft/modules/auth"
	"github.com/pencraft/pencraft/modules/blog"
	"github.com/pencraft/pencraft/pkg/config"
	"github.com/pencraft/pencraft/pkg/cookie"
	"github.com/pencraft/pencraft/pkg/email"
	"github.com/pencraft/pencraft/pkg/httpserver"
	"github.com/pencraft/pencraft/pkg/logger"
	"github.com/pencraft/pencraft/pkg/mongo"
	"github.com/pencraft/pencraft/pkg/redis"
	"github.com/pencraft/pencraft/pkg/requestid"
	"github.com/pencraft/pencraft/pkg/session"
)

type appConfig struct {
	SessionSecret string `env:"SESSION_SECRET,required"`
	ClientURL     string `env:"CLIENT_URL" envDefault:"http://localhost:3000"`
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		appCfg     appConfig
		logCfg     logger.Config
		httpCfg    httpserver.Config
		mongoCfg   mongo.Config
		redisCfg   redis.Config
		sessionCfg session.Config
		emailCfg   email.Config
		auth0Cfg   auth.Auth0Config
	)
	config.MustLoad(&appCfg)
	config.MustLoad(&logCfg)
	config.MustLoad(&httpCfg)
	config.MustLoad(&mongoCfg)
	config.MustLoad(&redisCfg)
	config.MustLoad(&sessionCfg)
	config.MustLoad(&emailCfg)
	config.MustLoad(&auth0Cfg)

	log := logger.NewFromConfig(logCfg,
		logger.WithAttr(slog.String("app", "pencraft")),
		logger.WithContextExtractors(requestid.LoggerExtractor()),
	)

	db, err := mongo.NewWithDatabase(ctx, mongoCfg, mongoCfg.Database)
	if err != nil {
		log.Error("mongodb connection failed", logger.Error(err))
		os.Exit(1)
	}
	defer func() { _ = db.Client().Disconnect(context.Background()) }()

	redisClient, err := redis.Connect(ctx, redisCfg)
	if err != nil {
		log.Error("redis connection failed", logger.Error(err))
		os.Exit(1)
	}
	defer func() { _ = redisClient.Close() }()

	userStore := auth.NewMongoStore(db)
	blogStore := blog.NewMongoStore(db)
	if err := userStore.EnsureIndexes(ctx); err != nil {
		log.Error("user index creation failed", logger.Error(err))
		os.Exit(1)
	}
	if err := blogStore.EnsureIndexes(ctx); err != nil {
		log.Error("blog index creation failed", logger.Error(err))
		os.Exit(1)
	}

	cookieMgr, err := cookie.New([]string{appCfg.SessionSecret})
	if err != nil {
		log.Error("cookie manager init failed", logger.Error(err))
		os.Exit(1)
	}

	sessions := session.NewFromConfig(sessionCfg,
		session.WithStore(session.NewRedisStore(redisClient)),
		session.WithCookieManager(cookieMgr),
	)

	mailer := newMailer(emailCfg, log)

	passwords := auth.NewPasswordService(userStore, auth.WithPasswordLogger(log))
	resets := auth.NewResetService(userStore, mailer, appCfg.ClientURL, auth.WithResetLogger(log))
	oauthSvc := auth.NewOAuthService(
		userStore,
		auth.NewRedisStateStore(redisClient),
		auth.NewAuth0Adapter(auth0Cfg),
		auth.WithStateTTL(auth0Cfg.StateTTL),
		auth.WithOAuthLogger(log),
	)

	authHandler := auth.NewHandler(userStore, passwords, oauthSvc, resets, sessions, appCfg.ClientURL, log)
	blogHandler := blog.NewHandler(blog.NewService(blogStore, blogStore, log), userStore, log)

	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(requestid.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{appCfg.ClientURL},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", requestid.Header},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(sessions.Middleware)

	r.Get("/health", httpserver.HealthCheckHandler(ctx, log,
		mongo.Healthcheck(db.Client()),
		redis.Healthcheck(redisClient),
	))
	r.Mount("/", authHandler.Routes())
	r.Mount("/post", blogHandler.PostRoutes())
	r.Mount("/comment", blogHandler.CommentRoutes())

	srv := httpserver.NewFromConfig(httpCfg, httpserver.WithLogger(log))
	if err := srv.Run(ctx, r); err != nil {
		log.Error("server stopped", logger.Error(err))
		os.Exit(1)
	}
}

// newMailer picks Postmark when tokens are configured and falls back to the
// file-based dev sender otherwise.
func newMailer(cfg email.Config, log *slog.Logger) email.EmailSender {
	if cfg.PostmarkServerToken != "" && cfg.PostmarkAccountToken != "" {
		sender, err := email.NewPostmarkClient(cfg)
		if err != nil {
			log.Error("postmark init failed", logger.Error(err))
			os.Exit(1)
		}
		return sender
	}

	log.Warn("postmark tokens not set, writing emails to disk",
		slog.String("dir", cfg.DevOutputDir))
	return email.NewDevSender(cfg.DevOutputDir)
}
