package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"winamp7/cache"
	"winamp7/config"
	"winamp7/core/auth"
	"winamp7/core/library"
	"winamp7/core/media"
	"winamp7/core/mirror"
	"winamp7/core/player"
	"winamp7/logger"
	"winamp7/model"
	"winamp7/storage"

	"github.com/gorilla/mux"
)

// MusicPrefix is the URL prefix of the library directory.
const MusicPrefix = "/music/"

// NewRouter wires every route of the owner server.
func NewRouter(h *APIHandler, cfg *config.Config) *mux.Router {
	router := mux.NewRouter()

	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, HEAD")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Range")
			w.Header().Set("Access-Control-Expose-Headers", "Content-Length, Content-Range")
			w.Header().Set("Access-Control-Max-Age", "86400")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}
			next.ServeHTTP(w, r)
		})
	})

	router.HandleFunc("/health", h.HealthHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/auth/login", h.LoginHandler).Methods(http.MethodPost)

	// Player
	router.HandleFunc("/api/player", h.AuthMiddleware(h.GetPlayerHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/player/toggle", h.AuthMiddleware(h.TogglePlayHandler())).Methods(http.MethodPost)
	router.HandleFunc("/api/player/prev", h.AuthMiddleware(h.PrevTrackHandler())).Methods(http.MethodPost)
	router.HandleFunc("/api/player/next", h.AuthMiddleware(h.NextTrackHandler())).Methods(http.MethodPost)
	router.HandleFunc("/api/player/mute", h.AuthMiddleware(h.ToggleMuteHandler())).Methods(http.MethodPost)
	router.HandleFunc("/api/player/seek", h.AuthMiddleware(h.SeekHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/player/volume", h.AuthMiddleware(h.VolumeHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/player/select", h.AuthMiddleware(h.SelectTrackHandler)).Methods(http.MethodPost)

	// Playlist and appearance
	router.HandleFunc("/api/tracks", h.AuthMiddleware(h.UploadTracksHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/tracks/{index:[0-9]+}", h.AuthMiddleware(h.RemoveTrackHandler)).Methods(http.MethodDelete)
	router.HandleFunc("/api/tracks/{index:[0-9]+}/cover", h.AuthMiddleware(h.SetCoverHandler)).Methods(http.MethodPut)
	router.HandleFunc("/api/tracks/{index:[0-9]+}/cover", h.AuthMiddleware(h.UploadCoverHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/background", h.AuthMiddleware(h.SetBackgroundHandler)).Methods(http.MethodPut)
	router.HandleFunc("/api/background", h.AuthMiddleware(h.UploadBackgroundHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/recent", h.AuthMiddleware(h.RecentHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/recent/background", h.AuthMiddleware(h.ApplyRecentBackgroundHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/recent/album-art", h.AuthMiddleware(h.ApplyRecentAlbumArtHandler)).Methods(http.MethodPost)

	// Pop-out mirror
	router.HandleFunc("/api/popout", h.AuthMiddleware(h.OpenPopoutHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/popout", h.AuthMiddleware(h.ClosePopoutHandler)).Methods(http.MethodDelete)
	router.HandleFunc("/popout/{id}", h.PopoutPageHandler).Methods(http.MethodGet)
	router.HandleFunc("/ws/popout/{id}", h.PopoutSocketHandler).Methods(http.MethodGet)

	// Files
	router.PathPrefix(storage.MediaPrefix).Handler(NewMediaHandler(h.store)).Methods(http.MethodGet, http.MethodHead)
	router.PathPrefix(MusicPrefix).Handler(http.StripPrefix(MusicPrefix, http.FileServer(http.Dir(cfg.LibraryDir))))
	router.PathPrefix("/").Handler(http.FileServer(http.Dir(cfg.StaticDir)))

	return router
}

func newStore(cfg *config.Config) (storage.Store, error) {
	switch cfg.StorageBackend {
	case "minio":
		return storage.NewMinioStore(cfg)
	case "local", "":
		return storage.NewLocalStore(cfg.UploadDir)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

func newRecent(cfg *config.Config) (cache.RecentImages, func(), error) {
	switch cfg.RecentBackend {
	case "redis":
		client, err := cache.ConnectRedis(cfg)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Successfully connected to Redis")
		return cache.NewRedisRecent(client), func() { client.Close() }, nil
	case "memory", "":
		return cache.NewMemoryRecent(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown recent backend %q", cfg.RecentBackend)
	}
}

func newElement(cfg *config.Config, resolver *storage.Resolver) (media.Element, error) {
	switch cfg.AudioOutput {
	case "speaker":
		return media.NewSpeakerElement(resolver.Resolve, cfg.TimeUpdateInterval)
	case "null", "":
		return media.NewClockElement(cfg.TimeUpdateInterval), nil
	default:
		return nil, fmt.Errorf("unknown audio output %q", cfg.AudioOutput)
	}
}

func ensureDirExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		logger.Info("Creating directory", logger.String("path", path))
		return os.MkdirAll(path, 0755)
	} else if err != nil {
		return fmt.Errorf("check directory %s: %w", path, err)
	}
	return nil
}

// Run assembles the owner and serves it until ctx is cancelled.
func Run(ctx context.Context, cfg *config.Config) error {
	for _, dir := range []string{cfg.LibraryDir, cfg.UploadDir, cfg.StaticDir} {
		if err := ensureDirExists(dir); err != nil {
			return err
		}
	}

	store, err := newStore(cfg)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}
	recent, closeRecent, err := newRecent(cfg)
	if err != nil {
		return fmt.Errorf("init recent images: %w", err)
	}
	defer closeRecent()

	signer := auth.NewSigner(cfg.JWTSecret, cfg.TokenTTL)
	hub := mirror.NewHub(signer, mirror.HubOptions{MaxWindows: cfg.MaxPopouts})
	go hub.Run()
	defer hub.Stop()

	lib := library.New(cfg.LibraryDir, MusicPrefix)
	tracks, err := lib.Scan()
	if err != nil {
		return err
	}
	if len(tracks) == 0 {
		logger.Info("library empty, using sample tracks", logger.String("dir", cfg.LibraryDir))
		tracks = model.SampleTracks()
	}

	el, err := newElement(cfg, storage.NewResolver(store, map[string]string{MusicPrefix: cfg.LibraryDir}))
	if err != nil {
		return fmt.Errorf("init audio output: %w", err)
	}
	defer el.Close()

	ctrl := player.NewController(el, hub, tracks, player.Options{
		Background:       cfg.DefaultBackground,
		Volume:           cfg.DefaultVolume,
		PlaceholderCover: cfg.PlaceholderCover,
		Popout: player.PopoutOptions{
			Width:        cfg.PopoutWidth,
			Height:       cfg.PopoutHeight,
			ScreenWidth:  cfg.ScreenWidth,
			ScreenHeight: cfg.ScreenHeight,
		},
	})
	logger.Info("player ready", logger.Int("tracks", len(tracks)))

	go func() {
		if err := lib.Watch(ctx, func(t model.Track) { ctrl.AddTracks(t) }); err != nil {
			logger.Warn("library watcher stopped", logger.ErrorField(err))
		}
	}()

	handler := NewAPIHandler(ctrl, hub, store, recent, signer, cfg)
	server := &http.Server{
		Addr:        cfg.ServerAddr,
		Handler:     NewRouter(handler, cfg),
		ReadTimeout: 30 * time.Second,
		IdleTimeout: 120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", logger.String("addr", cfg.ServerAddr), logger.String("url", cfg.PublicURL))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...")
	ctrl.CloseMirror()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	logger.Info("Server stopped")
	return nil
}
