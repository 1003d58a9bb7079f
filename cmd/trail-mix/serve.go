package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/joestump/trail-mix/internal/auth"
	"github.com/joestump/trail-mix/internal/build"
	"github.com/joestump/trail-mix/internal/config"
	"github.com/joestump/trail-mix/internal/db"
	"github.com/joestump/trail-mix/internal/handler"
	"github.com/joestump/trail-mix/internal/logging"
	"github.com/joestump/trail-mix/internal/store"
	"github.com/joestump/trail-mix/internal/trailmap"
	"github.com/joestump/trail-mix/internal/userpage"
)

const shutdownTimeout = 15 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logging.Setup("trail-mix", cfg.Verbose)
			log := logging.For("serve")

			database, err := db.New(cfg.DB.Driver, cfg.DB.DSN)
			if err != nil {
				return err
			}
			defer func() { _ = database.Close() }()

			if err := db.Migrate(database, cfg.DB.Driver); err != nil {
				return err
			}

			sessionManager := auth.NewSessionManager(database, cfg.DB.Driver, cfg.SessionLifetime, !cfg.InsecureCookies)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			oidcProvider, err := auth.NewProvider(ctx, cfg)
			if err != nil {
				return err
			}

			userStore := store.NewUserStore(database)
			trailStore := store.NewTrailStore(database)
			photoStore := store.NewPhotoStore(database)
			commentStore := store.NewCommentStore(database)
			travellogStore := store.NewTravellogStore(database)
			profileStore := store.NewProfileStore(userStore, photoStore, commentStore, trailStore)

			registry := userpage.NewRegistry(cfg.UserPage.RegistrySize, cfg.UserPage.TTL)
			defer registry.Purge()
			go registry.Run(ctx, cfg.UserPage.SweepEvery)

			router := handler.NewRouter(handler.Deps{
				SessionManager: sessionManager,
				AuthHandlers:   auth.NewHandlers(oidcProvider, sessionManager, userStore, !cfg.InsecureCookies),
				AuthMiddleware: auth.NewMiddleware(sessionManager, userStore),
				Sessions:       auth.NewSessionResolver(sessionManager, userStore),
				Profiles:       profileStore,
				Registry:       registry,
				UserPage: userpage.Options{
					FetchTimeout: cfg.UserPage.FetchTimeout,
					Logger:       logging.For("userpage"),
				},
				TrailStore:     trailStore,
				CommentStore:   commentStore,
				TravellogStore: travellogStore,
				MapAPIKey:      cfg.Map.APIKey,
				MapCenter:      trailmap.Center{Lat: cfg.Map.DefaultLat, Lng: cfg.Map.DefaultLng},
			})

			srv := &http.Server{
				Addr:              cfg.HTTP.Addr,
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				log.WithField("addr", cfg.HTTP.Addr).WithField("version", build.Version).Info("listening")
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			log.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
}
