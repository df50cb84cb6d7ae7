package main

import (
	"context"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func healthHandler(env string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]any{
			"message":     "Wasteless API is running",
			"timestamp":   time.Now().UTC().Format(time.RFC3339),
			"environment": env,
		})
	}
}

func notFoundHandler(w http.ResponseWriter, r *http.Request) {
	respondError(w, http.StatusNotFound, "Route not found")
}

func welcomeHandler(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"message": "Welcome to Wasteless API",
		"version": "1.0.0",
		"endpoints": map[string]string{
			"users":  "/api/users",
			"food":   "/api/food",
			"health": "/api/health",
		},
	})
}

func newRouter(cfg *Config, a *api, chat *chatServer, log *zap.SugaredLogger) *mux.Router {
	router := mux.NewRouter()

	apiRouter := router.PathPrefix("/api").Subrouter()
	apiRouter.Use(corsMiddleware(cfg.AllowedOrigins), requestLogger(log))
	apiRouter.HandleFunc("/users/register", a.registerHandler).Methods("POST", "OPTIONS")
	apiRouter.HandleFunc("/users/login", a.loginHandler).Methods("POST", "OPTIONS")
	apiRouter.HandleFunc("/users/me", a.requireAuth(a.meHandler)).Methods("GET", "OPTIONS")
	apiRouter.HandleFunc("/food", a.listFoodHandler).Methods("GET", "OPTIONS")
	apiRouter.HandleFunc("/food", a.requireAuth(a.createFoodHandler)).Methods("POST", "OPTIONS")
	apiRouter.HandleFunc("/food/{id}", a.getFoodHandler).Methods("GET", "OPTIONS")
	apiRouter.HandleFunc("/food/{id}", a.requireAuth(a.updateFoodHandler)).Methods("PUT", "OPTIONS")
	apiRouter.HandleFunc("/food/{id}", a.requireAuth(a.deleteFoodHandler)).Methods("DELETE", "OPTIONS")
	apiRouter.HandleFunc("/media", a.requireAuth(a.uploadHandler)).Methods("POST", "OPTIONS")
	apiRouter.HandleFunc("/health", healthHandler(cfg.Environment)).Methods("GET")
	// Unknown API routes answer in the same JSON vocabulary instead of
	// falling through to the static file server.
	apiRouter.NotFoundHandler = http.HandlerFunc(notFoundHandler)

	// The websocket endpoint shares the port but skips the HTTP middleware;
	// wrapping the ResponseWriter would break the upgrade hijack.
	router.HandleFunc("/ws", chat.serveWs)
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")
	router.HandleFunc("/", welcomeHandler).Methods("GET")
	router.PathPrefix("/").Handler(http.FileServer(http.Dir("./static")))

	return router
}

func main() {
	cfg := loadConfig()

	log, err := newLogger(cfg.development())
	if err != nil {
		stdlog.Fatal(err)
	}
	defer log.Sync()

	if cfg.JWTSecret == "" {
		log.Warn("JWT_SECRET is empty; tokens are forgeable")
	}

	db, mongoClient, err := connectMongo(cfg.MongoURI, cfg.MongoDB, log)
	if err != nil {
		log.Fatalf("mongo: %v", err)
	}

	users := newUserRepo(db)
	food := newFoodRepo(db)
	{
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := users.ensureIndexes(ctx); err != nil {
			log.Fatalf("indexes: %v", err)
		}
		cancel()
	}

	var media Uploader
	if cfg.S3Bucket != "" {
		s3store, err := newS3Store(context.Background(), cfg.S3Region, cfg.S3Bucket)
		if err != nil {
			log.Warnf("image uploads disabled: %v", err)
		} else {
			media = s3store
			log.Infow("image uploads ready", "bucket", cfg.S3Bucket)
		}
	} else {
		log.Warn("S3 not configured, image uploads disabled")
	}

	a := &api{
		users:  users,
		food:   food,
		tokens: &tokenIssuer{secret: []byte(cfg.JWTSecret)},
		media:  media,
		log:    log,
	}

	store := NewRoomStore(cfg.MaxRoomMessages)
	hub := NewHub()
	chat := newChatServer(store, hub, cfg.MaxMessageChars, cfg.AllowedOrigins, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rp := &reaper{store: store, interval: cfg.SweepInterval, ttl: cfg.RoomTTL, log: log}
	go rp.run(ctx)

	router := newRouter(cfg, a, chat, log)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Infow("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("shutdown: %v", err)
	}
	if err := mongoClient.Disconnect(shutdownCtx); err != nil {
		log.Errorf("mongo disconnect: %v", err)
	}
}
