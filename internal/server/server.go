package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/pocketpro-tw/lead-services/api/internal/config"
	mongodoc "github.com/pocketpro-tw/lead-services/api/internal/infrastructure/mongo"
	adminhttp "github.com/pocketpro-tw/lead-services/api/internal/interfaces/http/admin"
	commonhttp "github.com/pocketpro-tw/lead-services/api/internal/interfaces/http/common"
	publichttp "github.com/pocketpro-tw/lead-services/api/internal/interfaces/http/public"
	"github.com/pocketpro-tw/lead-services/api/internal/notify"
	publicapp "github.com/pocketpro-tw/lead-services/api/internal/public/application"
)

// Server 管理 HTTP 伺服器生命週期，並負責把儲存層、通知 sink 與各 handler
// 組裝起來；屬於 composition root，不放任何業務邏輯。
type Server struct {
	logger            *log.Logger
	client            *mongo.Client
	database          *mongo.Database
	submissionRepo    *mongodoc.SubmissionRepository
	submissionService publicapp.SubmissionService
	statsService      publicapp.StatsService
	location          *time.Location
	jwtConfigs        []config.JWTConfig
	jwtAudience       string
	addr              string
	allowedOrigins    []string
}

type authenticatedUser = commonhttp.AuthenticatedUser

// New builds the dependency graph from Config and a connected Mongo client.
func New(cfg config.Config, client *mongo.Client) *Server {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		loc = time.FixedZone("CST", 8*60*60)
		cfg.ServerLog.Printf("時區 %s 載入失敗: %v，改用台北時間", cfg.Timezone, err)
	}

	srv := &Server{
		logger:         cfg.ServerLog,
		client:         client,
		database:       client.Database(cfg.MongoDatabase),
		location:       loc,
		jwtConfigs:     append([]config.JWTConfig(nil), cfg.JWTConfigs...),
		jwtAudience:    cfg.JWTAudience,
		addr:           cfg.Addr,
		allowedOrigins: append([]string(nil), cfg.AllowedOrigins...),
	}

	srv.submissionRepo = mongodoc.NewSubmissionRepository(srv.database, cfg.SubmissionCollection)
	srv.submissionService = publicapp.NewSubmissionService(srv.submissionRepo, buildSinks(cfg), cfg.ServerLog)
	srv.statsService = publicapp.NewStatsService(srv.submissionRepo, loc)

	return srv
}

// buildSinks assembles every notification sink from configuration. Sinks
// whose credentials are absent stay in the list and skip themselves, so the
// dispatcher can log the skip instead of the sink silently vanishing.
func buildSinks(cfg config.Config) []notify.Sink {
	httpClient := &http.Client{Timeout: cfg.NotifyTimeout}

	sinks := []notify.Sink{
		notify.NewEmailSink(notify.EmailConfig{
			HTTPClient: httpClient,
			Endpoint:   cfg.ResendEndpoint,
			APIKey:     cfg.ResendAPIKey,
			From:       cfg.EmailFrom,
			To:         cfg.AdminEmail,
		}),
		notify.NewNotionSink(notify.NotionConfig{
			HTTPClient: httpClient,
			Endpoint:   cfg.NotionEndpoint,
			APIKey:     cfg.NotionAPIKey,
			DatabaseID: cfg.NotionDatabaseID,
		}),
	}

	sheetsSink, err := notify.NewSheetsSink(context.Background(), notify.SheetsConfig{
		ClientEmail:   cfg.GoogleClientEmail,
		PrivateKey:    cfg.GooglePrivateKey,
		SpreadsheetID: cfg.GoogleSheetID,
	})
	if err != nil {
		// A broken sheet credential must not take the pipeline down.
		cfg.ServerLog.Printf("Google Sheets 通知初始化失敗，略過: %v", err)
	} else {
		sinks = append(sinks, sheetsSink)
	}

	return sinks
}

// Run starts the HTTP server and assembles routing and middleware.
func (s *Server) Run() error {
	if err := s.ensureIndexes(context.Background()); err != nil {
		s.logger.Printf("建立索引失敗: %v", err)
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(withCORS(s.allowedOrigins))

	router.Get("/healthz", s.healthHandler())

	publicHandler := publichttp.NewHandler(publichttp.Config{
		Logger:      s.logger,
		Submissions: s.submissionService,
	})
	publicHandler.Register(router)

	adminHandler := adminhttp.NewHandler(adminhttp.Config{
		Logger:      s.logger,
		Submissions: s.submissionService,
		Stats:       s.statsService,
		Location:    s.location,
	})
	router.Route("/admin", func(r chi.Router) {
		r.Use(s.authMiddleware)
		adminHandler.Register(r)
	})

	httpServer := &http.Server{
		Addr:              s.addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Printf("HTTP 伺服器啟動: http://%s", s.addr)
		errChan <- httpServer.ListenAndServe()
	}()

	waitForShutdown(httpServer, errChan, s)
	return nil
}

// ensureIndexes prepares the createdAt index used by the stats range scans.
func (s *Server) ensureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.submissionRepo.EnsureIndexes(ctx)
}

// withCORS 依允許的來源清單加上 CORS 標頭；行銷官網與後台各自有來源。
func withCORS(origins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{})
	allowAll := false
	for _, origin := range origins {
		origin = strings.TrimSpace(origin)
		if origin == "" {
			continue
		}
		if origin == "*" {
			allowAll = true
			continue
		}
		allowed[origin] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := strings.TrimSpace(r.Header.Get("Origin"))
			if origin == "" || (!allowAll && len(allowed) > 0 && !originAllowed(origin, allowed)) {
				if r.Method == http.MethodOptions {
					w.WriteHeader(http.StatusNoContent)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Authorization,Content-Type")
			w.Header().Set("Access-Control-Max-Age", "300")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// originAllowed reports whether origin appears in the allow list.
func originAllowed(origin string, allowed map[string]struct{}) bool {
	if len(allowed) == 0 {
		return true
	}
	_, ok := allowed[origin]
	return ok
}

// healthHandler answers monitoring checks with the storage reachability
// only; it says nothing about sink health.
func (s *Server) healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
			s.writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "degraded",
				"error":  err.Error(),
			})
			return
		}

		s.writeJSON(w, http.StatusOK, map[string]string{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	}
}

// authMiddleware 從 Authorization 標頭驗證 JWT，並把已驗證的使用者塞進
// context；admin 路由全部掛在這層之後。
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
		if authHeader == "" {
			s.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "缺少 Authorization 標頭"})
			return
		}

		const bearerPrefix = "Bearer "
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			s.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "請提供 Bearer token"})
			return
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, bearerPrefix))
		if tokenString == "" {
			s.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "存取 token 為空"})
			return
		}

		claims, err := s.parseAuthToken(tokenString)
		if err != nil {
			s.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": err.Error()})
			return
		}

		user := authenticatedUser{
			ID:       claims.Subject,
			Name:     claims.Name,
			Username: claims.PreferredUsername,
		}

		ctx := commonhttp.ContextWithUser(r.Context(), user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// parseAuthToken tries each configured JWT secret in order and checks
// signature, issuer, audience and time claims.
func (s *Server) parseAuthToken(tokenString string) (*authClaims, error) {
	if len(s.jwtConfigs) == 0 {
		return nil, fmt.Errorf("未設定任何認證金鑰")
	}

	for _, cfg := range s.jwtConfigs {
		claims := &authClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
			if token.Method != jwt.SigningMethodHS256 {
				return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
			}
			return cfg.Secret, nil
		}, jwt.WithLeeway(30*time.Second))

		if err != nil || !token.Valid {
			continue
		}

		if cfg.Issuer != "" && claims.Issuer != cfg.Issuer {
			continue
		}

		now := time.Now()
		if claims.ExpiresAt != nil && now.After(claims.ExpiresAt.Time) {
			continue
		}
		if claims.NotBefore != nil && now.Before(claims.NotBefore.Time) {
			continue
		}
		if claims.Subject == "" {
			continue
		}
		if s.jwtAudience != "" && !contains(claims.Audience, s.jwtAudience) {
			continue
		}

		return claims, nil
	}

	return nil, fmt.Errorf("存取 token 無效")
}

// contains is a plain membership check used for audience validation.
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

type authClaims struct {
	jwt.RegisteredClaims
	Name              string `json:"name,omitempty"`
	PreferredUsername string `json:"preferred_username,omitempty"`
}

// writeJSON is the shared JSON response writer for server-level handlers.
func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Printf("JSON 編碼失敗: %v", err)
	}
}

// shutdown drains in-flight notification deliveries, then disconnects the
// Mongo client. Deliveries still running after the grace period are
// abandoned; they are single-attempt anyway.
func (s *Server) shutdown(ctx context.Context) {
	drained := make(chan struct{})
	go func() {
		s.submissionService.Wait()
		close(drained)
	}()
	select {
	case <-drained:
	case <-time.After(5 * time.Second):
		s.logger.Printf("通知尚未全部送出，放棄等待")
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.client.Disconnect(shutdownCtx); err != nil {
		s.logger.Printf("MongoDB 斷線時發生錯誤: %v", err)
	}
}

// waitForShutdown 監看 ListenAndServe 結束與 OS 訊號，完成 graceful shutdown。
func waitForShutdown(httpServer *http.Server, errChan <-chan error, srv *Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			srv.logger.Fatalf("伺服器異常終止: %v", err)
		}
	case sig := <-sigChan:
		srv.logger.Printf("收到訊號 %s，開始關閉伺服器。", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			srv.logger.Printf("伺服器關閉時發生錯誤: %v", err)
		}
	}

	srv.shutdown(context.Background())
}
