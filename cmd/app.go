package main

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"medicare/internal/catalog"
	"medicare/internal/config"
	httpapi "medicare/internal/http"
	"medicare/internal/repository"
	"medicare/internal/service"
	"medicare/internal/session"
	"medicare/internal/store"
)

// app is everything a command needs, built from the configuration.
type app struct {
	cfg     *config.Config
	log     *logrus.Logger
	store   store.RecordStore
	catalog *service.CatalogService
	closers []func() error
}

func newApp(c *cli.Context) (*app, error) {
	cfg, err := config.Load(c.String("env-file"))
	if err != nil {
		return nil, err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, log: log}
	if err := a.openStore(); err != nil {
		return nil, err
	}

	meds := repository.NewMedicines(a.store)
	engine := catalog.NewEngine(meds, catalog.WithTTL(cfg.CacheTTL), catalog.WithLogger(log))
	a.catalog = service.NewCatalogService(engine, meds, cfg.PageSize, log)
	return a, nil
}

func newLogger(cfg *config.Config) (*logrus.Logger, error) {
	log := logrus.New()
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, errors.Wrap(err, "log level")
	}
	log.SetLevel(level)
	switch cfg.LogFormat {
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	default:
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return log, nil
}

func (a *app) openStore() error {
	switch a.cfg.Store {
	case config.StoreSQLite:
		if err := os.MkdirAll(filepath.Dir(a.cfg.SQLitePath), 0o755); err != nil {
			return errors.Wrap(err, "create sqlite dir")
		}
		db, err := store.OpenSQLite(a.cfg.SQLitePath, a.log.IsLevelEnabled(logrus.DebugLevel))
		if err != nil {
			return err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return errors.Wrap(err, "sqlite handle")
		}
		a.closers = append(a.closers, sqlDB.Close)
		st, err := store.NewSQLStore(db)
		if err != nil {
			return err
		}
		a.store = st
		a.log.WithField("path", a.cfg.SQLitePath).Info("using sqlite store")
	default:
		st, err := store.NewFileStore(a.cfg.DataDir)
		if err != nil {
			return err
		}
		a.store = st
		a.log.WithField("dir", st.Dir()).Info("using file store")
	}
	return nil
}

// server wires the HTTP server and its session store.
func (a *app) server() (*httpapi.Server, *session.Store) {
	secret := a.cfg.SessionSecret
	if secret == "" {
		secret = uuid.NewString()
		a.log.Warn("MEDICARE_SESSION_SECRET is not set, sessions will not survive a restart")
	}
	sessions := session.NewStore(a.cfg.SessionTTL)
	sessions.SetAnonymousTTL(a.cfg.AnonSessionTTL)
	srv := httpapi.NewServer(httpapi.Deps{
		Catalog:       a.catalog,
		Orders:        service.NewOrderService(repository.NewOrders(a.store), a.log),
		Consultations: service.NewConsultationService(repository.NewConsultations(a.store), a.log),
		Auth:          service.NewAuthService(repository.NewUsers(a.store), service.NewPasswordHasher(a.cfg.BcryptCost), a.log),
		Sessions:      sessions,
		Signer:        session.NewSigner(secret, a.cfg.SessionTTL),
		Log:           a.log,
	})
	return srv, sessions
}

func (a *app) Close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			a.log.WithError(err).Warn("close")
		}
	}
}
