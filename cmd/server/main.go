package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/janisto/profile-editor/internal/config"
	"github.com/janisto/profile-editor/internal/http/health"
	"github.com/janisto/profile-editor/internal/http/v1/routes"
	"github.com/janisto/profile-editor/internal/platform/auth"
	"github.com/janisto/profile-editor/internal/platform/firebase"
	applog "github.com/janisto/profile-editor/internal/platform/logging"
	appmiddleware "github.com/janisto/profile-editor/internal/platform/middleware"
	"github.com/janisto/profile-editor/internal/platform/respond"
	profilesvc "github.com/janisto/profile-editor/internal/service/profile"
)

// Version can be overridden at build time: -ldflags "-X main.Version=1.2.3"
var Version = "dev"

const (
	apiPrefix = "/v1"
	docsPath  = "/api-docs"
)

// deps are the collaborators the router needs.
type deps struct {
	store       profilesvc.Service
	storeName   string
	verifier    auth.Verifier
	corsOrigins []string
}

func main() {
	defer func() {
		if err := applog.Sync(); err != nil {
			applog.LogError(context.Background(), "logger sync error", err)
		}
	}()
	if err := applog.Err(); err != nil {
		applog.LogError(context.Background(), "logger init error", err)
	}

	ctx := context.Background()
	if err := config.LoadDotEnv(); err != nil {
		applog.LogFatal(ctx, "loading .env failed", err)
	}
	cfg, err := config.LoadServer()
	if err != nil {
		applog.LogFatal(ctx, "invalid configuration", err)
	}

	d, cleanup, err := setup(ctx, cfg)
	if err != nil {
		applog.LogFatal(ctx, "startup failed", err)
	}
	defer cleanup()

	srv := newServer(":"+cfg.Port, newRouter(d))
	if err := serve(srv, shutdownSignal()); err != nil {
		applog.LogError(ctx, "server stopped with error", err, zap.String("addr", srv.Addr))
		cleanup()
		os.Exit(1)
	}
}

// setup builds the store and verifier selected by cfg.
func setup(ctx context.Context, cfg config.Server) (deps, func(), error) {
	d := deps{storeName: cfg.Store, corsOrigins: cfg.CORSOrigins}
	cleanup := func() {}

	var clients *firebase.Clients
	if cfg.NeedsFirebase() {
		var err error
		clients, err = firebase.InitializeClients(ctx, firebase.Config{
			ProjectID:       cfg.ProjectID,
			CredentialsFile: cfg.CredentialsFile,
			Auth:            cfg.AuthMode == config.AuthFirebase,
			Firestore:       cfg.Store == config.StoreFirestore,
		})
		if err != nil {
			return d, cleanup, err
		}
		cleanup = func() {
			if err := clients.Close(); err != nil {
				applog.LogError(context.Background(), "firebase close error", err)
			}
		}
	}

	switch cfg.Store {
	case config.StoreFirestore:
		d.store = profilesvc.NewFirestoreStore(clients.Firestore)
	default:
		d.store = profilesvc.NewMemoryStore()
	}

	switch cfg.AuthMode {
	case config.AuthFirebase:
		d.verifier = auth.NewFirebaseVerifier(clients.Auth)
	default:
		applog.LogWarn(ctx, "static token auth enabled; do not use in production",
			zap.Bool("tokenSet", cfg.DevToken != ""))
		d.verifier = auth.NewStaticVerifier(cfg.DevToken, nil)
	}

	applog.LogInfo(ctx, "profile backend ready",
		zap.String("store", cfg.Store),
		zap.String("auth", cfg.AuthMode),
		zap.String("version", Version),
	)
	return d, cleanup, nil
}

func newRouter(d deps) http.Handler {
	router := chi.NewRouter()
	router.NotFound(respond.NotFoundHandler())
	router.MethodNotAllowed(respond.MethodNotAllowedHandler())
	router.Use(
		appmiddleware.Security(apiPrefix+docsPath),
		appmiddleware.Vary(),
		appmiddleware.CORS(d.corsOrigins...),
		appmiddleware.RequestID(),
		// Trusts X-Forwarded-For; only deploy behind a proxy that sets it.
		chimiddleware.RealIP,
		chimiddleware.RequestSize(64<<10),
		applog.RequestLogger(),
		applog.AccessLogger(),
		respond.Recoverer(),
	)

	router.Get("/health", health.Handler(d.storeName))
	router.Route(apiPrefix, func(r chi.Router) {
		api := newAPI(r)
		routes.Register(api, d.verifier, d.store)
	})
	return router
}

func newAPI(r chi.Router) huma.API {
	cfg := huma.DefaultConfig("Profile Editor API", Version)
	cfg.DocsPath = docsPath
	cfg.Servers = []*huma.Server{{URL: apiPrefix}}
	cfg.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearerAuth": {Type: "http", Scheme: "bearer", BearerFormat: "JWT"},
	}
	api := humachi.New(r, cfg)
	api.OpenAPI().OnAddOperation = append(api.OpenAPI().OnAddOperation, addCBORContent)
	return api
}

// addCBORContent documents application/cbor next to every JSON body.
func addCBORContent(_ *huma.OpenAPI, op *huma.Operation) {
	if op.RequestBody != nil && op.RequestBody.Content != nil {
		if c, ok := op.RequestBody.Content["application/json"]; ok {
			op.RequestBody.Content["application/cbor"] = c
		}
	}
	for _, resp := range op.Responses {
		if resp.Content == nil {
			continue
		}
		if c, ok := resp.Content["application/json"]; ok {
			resp.Content["application/cbor"] = c
		}
	}
}

func newServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    64 << 10,
	}
}

func shutdownSignal() <-chan os.Signal {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	return stop
}

// serve runs srv until it fails or stop fires, then shuts down gracefully.
func serve(srv *http.Server, stop <-chan os.Signal) error {
	listenErr := make(chan error, 1)
	go func() {
		applog.LogInfo(context.Background(), "server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			listenErr <- err
		}
	}()

	select {
	case err := <-listenErr:
		return err
	case <-stop:
		applog.LogInfo(context.Background(), "shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return err
	}
	applog.LogInfo(context.Background(), "server exited")
	return nil
}
