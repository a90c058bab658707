package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/knowledgebase/config"
	"github.com/meghashyamc/knowledgebase/db/kvdb"
	"github.com/meghashyamc/knowledgebase/db/searchdb"
	"github.com/meghashyamc/knowledgebase/logger"
	"github.com/meghashyamc/knowledgebase/metrics"
	"github.com/meghashyamc/knowledgebase/render"
	"github.com/meghashyamc/knowledgebase/services/documents"
	"github.com/meghashyamc/knowledgebase/services/search"
	"github.com/meghashyamc/knowledgebase/session"
	"github.com/meghashyamc/knowledgebase/validation"
)

const shutdownTimeout = 10 * time.Second

type server struct {
	cfg        *config.Config
	router     *gin.Engine
	httpServer *http.Server
	kvdb       kvdb.DB
	searchdb   searchdb.DB
	validator  *validation.Validator
	documents  *documents.Service
	search     *search.Service
	sessions   *session.Store
	locale     *render.Locale
	logger     logger.Logger
}

// Run serves until ctx is cancelled or the process is interrupted.
func Run(ctx context.Context, cfg *config.Config) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	s := &server{
		cfg:    cfg,
		logger: logger.New(cfg.GetLogLevel()),
	}
	if err := s.setupDependencies(ctx); err != nil {
		return err
	}
	defer s.closeDependencies()

	go s.sessions.Run(ctx)

	if err := s.setupRouter(); err != nil {
		return err
	}
	errCh := s.setupHTTPServer()

	return s.waitForShutdown(ctx, errCh)
}

func (s *server) setupDependencies(ctx context.Context) error {
	var err error
	s.kvdb, err = kvdb.New(s.logger, s.cfg)
	if err != nil {
		s.logger.Error("error creating kvDB", "err", err.Error())
		return err
	}
	searchDB, err := searchdb.New(s.logger, s.cfg)
	if err != nil {
		s.logger.Error("error creating searchDB", "err", err.Error())
		s.kvdb.Close()
		return err
	}
	s.searchdb = searchDB
	s.validator, err = validation.New(s.logger)
	if err != nil {
		s.logger.Error("error creating validator", "err", err.Error())
		s.closeDependencies()
		return err
	}

	s.documents = documents.New(s.logger, s.kvdb, searchDB)
	if s.cfg.GetSeedCatalog() {
		if err := s.documents.Seed(ctx); err != nil {
			s.logger.Error("error seeding documents", "err", err.Error())
			s.closeDependencies()
			return err
		}
	}
	s.search = search.New(s.logger, searchDB, s.documents)

	s.sessions = session.NewStore(s.logger, s.cfg.GetMessageTTL(), s.cfg.GetSessionIdleTimeout())
	metrics.TrackSessions(s.sessions.Len)
	s.locale = render.NewLocale(s.cfg.GetLocale())

	return nil

}

func (s *server) closeDependencies() {
	if s.searchdb != nil {
		if err := s.searchdb.Close(); err != nil {
			s.logger.Error("error closing searchDB", "err", err.Error())
		}
	}
	if s.kvdb != nil {
		if err := s.kvdb.Close(); err != nil {
			s.logger.Error("error closing kvDB", "err", err.Error())
		}
	}
}

func (s *server) setupRouter() error {
	router, err := newRouter(s.logger)
	if err != nil {
		s.logger.Error("error creating router", "err", err.Error())
		return err
	}

	setupRoutes(router, s)

	s.router = router
	return nil
}

func (s *server) setupHTTPServer() <-chan error {

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%s", s.cfg.GetPort()),
		Handler:           s.router.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.httpServer = httpServer

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting http server", "addr", httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("listen: %w", err)
		}
		close(errCh)
	}()
	return errCh
}

func (s *server) waitForShutdown(ctx context.Context, errCh <-chan error) error {

	select {
	case err, ok := <-errCh:
		if ok && err != nil {
			s.logger.Error("http server stopped", "err", err.Error())
			return err
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("starting to shut down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("error shutting down http server", "err", err)
		return err
	}
	s.logger.Info("shut down http server successfully")

	return nil
}
