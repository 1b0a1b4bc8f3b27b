package restserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/chrissnell/paleoprofile/internal/log"
	"github.com/chrissnell/paleoprofile/pkg/catalog"
	"github.com/chrissnell/paleoprofile/pkg/config"
	"github.com/chrissnell/paleoprofile/pkg/profile"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// maxBodyBytes caps a request body. A full 5000-point depth list fits
// comfortably.
const maxBodyBytes = 4 << 20

// Controller represents the REST server controller
type Controller struct {
	ctx          context.Context
	wg           *sync.WaitGroup
	serverConfig config.ServerData
	generation   config.GenerationData
	Server       http.Server
	catalog      *catalog.Catalog
	assembler    *profile.Assembler
	logger       *zap.SugaredLogger
	handlers     *Handlers
	errs         chan error
}

// NewController creates a new REST server controller serving profiles
// from assembler and range edits against cat.
func NewController(ctx context.Context, wg *sync.WaitGroup, cfg *config.ConfigData, cat *catalog.Catalog, assembler *profile.Assembler, logger *zap.SugaredLogger) (*Controller, error) {
	if cfg == nil {
		return nil, fmt.Errorf("REST server requires a configuration")
	}
	if cat == nil || assembler == nil {
		return nil, fmt.Errorf("REST server requires a catalog and an assembler")
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	ctrl := &Controller{
		ctx:          ctx,
		wg:           wg,
		serverConfig: cfg.Server,
		generation:   cfg.Generation,
		catalog:      cat,
		assembler:    assembler,
		logger:       logger,
		errs:         make(chan error, 1),
	}

	// Create handlers
	ctrl.handlers = NewHandlers(ctrl)

	// Set up router
	router := ctrl.setupRouter()
	ctrl.Server.Addr = fmt.Sprintf("%v:%v", cfg.Server.ListenAddr, cfg.Server.Port)
	ctrl.Server.Handler = router
	ctrl.Server.ReadHeaderTimeout = 10 * time.Second

	return ctrl, nil
}

// StartController starts the REST server
func (c *Controller) StartController() error {
	log.Infof("Starting REST server on %v...", c.Server.Addr)
	c.wg.Add(1)

	go func() {
		defer c.wg.Done()

		var err error
		if c.serverConfig.Cert != "" && c.serverConfig.Key != "" {
			err = c.Server.ListenAndServeTLS(c.serverConfig.Cert, c.serverConfig.Key)
		} else {
			err = c.Server.ListenAndServe()
		}
		if !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("REST server error: %v", err)
			c.errs <- err
		}
	}()

	go func() {
		<-c.ctx.Done()
		log.Info("Shutting down the REST server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		c.Server.Shutdown(shutdownCtx)
	}()

	return nil
}

// Errors delivers the error that stopped the server, if it stopped for any
// reason other than shutdown.
func (c *Controller) Errors() <-chan error {
	return c.errs
}

// Handler returns the routed handler, for serving without a listener.
func (c *Controller) Handler() http.Handler {
	return c.Server.Handler
}

// setupRouter configures the HTTP router with all endpoints
func (c *Controller) setupRouter() *mux.Router {
	router := mux.NewRouter()

	router.Use(c.instrument)

	router.HandleFunc("/healthz", c.handlers.Health).Methods(http.MethodGet)

	// Catalog endpoints
	router.HandleFunc("/catalog/parameters", c.handlers.GetParameters).Methods(http.MethodGet)
	router.HandleFunc("/catalog/ranges", c.handlers.GetRanges).Methods(http.MethodGet)
	router.HandleFunc("/catalog/overrides", c.handlers.ListOverrides).Methods(http.MethodGet)
	router.HandleFunc("/catalog/overrides", c.handlers.PutOverride).Methods(http.MethodPut, http.MethodPost)
	router.HandleFunc("/catalog/overrides", c.handlers.DeleteOverride).Methods(http.MethodDelete)

	// Generation endpoints
	router.HandleFunc("/profiles", c.handlers.GenerateProfile).Methods(http.MethodPost)
	router.HandleFunc("/profiles/batch", c.handlers.GenerateBatch).Methods(http.MethodPost)

	router.HandleFunc("/logs/http", c.handlers.GetHTTPLogs).Methods(http.MethodGet)

	return router
}
