package app

import (
	"net/http"

	"deprem-network-go/internal/config"
	"deprem-network-go/internal/db"
	networkdomain "deprem-network-go/internal/domain/network"
	userdomain "deprem-network-go/internal/domain/user"
	networkrepo "deprem-network-go/internal/repository/postgres/network"
	userrepo "deprem-network-go/internal/repository/postgres/user"
	"deprem-network-go/internal/transport/httpserver"
	"deprem-network-go/internal/transport/httpserver/handler"
	"deprem-network-go/pkg/logger"
	"gorm.io/gorm"
)

type App struct {
	cfg        config.Config
	httpServer *http.Server
	db         *gorm.DB
	log        logger.Logger
}

func New(log logger.Logger) (*App, error) {
	log.Info("app: loading config")
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}

	log.Info("app: initializing database")
	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		return nil, err
	}

	if cfg.DB.AutoMigrate {
		log.Info("app: applying migrations")
		if err := db.Migrate(dbConn, log); err != nil {
			closeDB(dbConn, log)
			return nil, err
		}
	}

	userService := userdomain.NewService(userrepo.NewPostgres(dbConn))
	networkService := networkdomain.NewService(networkrepo.NewPostgres(dbConn), userService, networkdomain.Config{
		DefaultMaxMembers: cfg.Networks.DefaultMaxMembers,
		InvitationTTL:     cfg.Networks.InvitationTTL,
		CodeLength:        cfg.Networks.CodeLength,
		CodeAttempts:      cfg.Networks.CodeAttempts,
	})

	log.Info("app: initializing router")
	handlers := handler.New(networkService, log.With("component", "http"))
	router := httpserver.NewRouter(cfg, handlers, userService, log.With("component", "auth"))

	log.Info("app: initializing http server")
	srv := httpserver.New(cfg, router)

	return &App{
		cfg:        cfg,
		httpServer: srv,
		db:         dbConn,
		log:        log,
	}, nil
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func closeDB(dbConn *gorm.DB, log logger.Logger) {
	sqlDB, err := dbConn.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Error("app: close db failed", "err", err)
	}
}
