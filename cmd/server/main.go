// Package main はWebサーバーのエントリーポイントです。
package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/yourusername/go-todo/internal/auth"
	"github.com/yourusername/go-todo/internal/config"
	"github.com/yourusername/go-todo/internal/session"
	"github.com/yourusername/go-todo/internal/store"
	"github.com/yourusername/go-todo/internal/task"
	"github.com/yourusername/go-todo/internal/web"
)

func main() {
	// 設定の読み込み
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Ginのモードを設定
	gin.SetMode(cfg.GinMode)

	// Ginルーターの初期化（デフォルトミドルウェア: Logger, Recovery）
	router := gin.Default()

	// フラッシュ通知用のクッキーセッション（署名鍵は必須）
	secret := cfg.SessionSecret
	if secret == "" {
		// release モードでは config.Validate が空を拒否する
		secret = "dev-insecure-secret"
	}
	flashStore := cookie.NewStore([]byte(secret))
	flashStore.Options(sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   cfg.GinMode == gin.ReleaseMode,
		SameSite: http.SameSiteStrictMode,
	})
	router.Use(sessions.Sessions(web.FlashCookieName, flashStore))

	ctx := context.Background()

	// 永続化ストアへの接続とスキーマ適用
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()
	if err := store.EnsureSchema(ctx, pool); err != nil {
		log.Fatalf("Failed to ensure schema: %v", err)
	}

	// セッションストア（Redis）への接続
	opt, err := redis.ParseURL(cfg.SessionRedisURL)
	if err != nil {
		log.Fatalf("Failed to parse redis url: %v", err)
	}
	rdb := redis.NewClient(opt)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Fatalf("Failed to connect to redis: %v", err)
	}

	sessionTTL := time.Duration(cfg.SessionTTLMinutes) * time.Minute
	sessionStore := session.NewStore(rdb, sessionTTL)

	db := store.NewPostgres(pool)
	authService := auth.NewService(db, sessionStore)
	taskService := task.NewService(db)

	// HTMLテンプレートの読み込み
	router.LoadHTMLGlob(cfg.TemplateGlob)

	// ルーティングの設定
	setupRoutes(router, authService, taskService, sessionStore, int(sessionTTL.Seconds()))

	// サーバーの起動
	addr := ":" + cfg.Port
	log.Printf("Starting server on %s (mode: %s)", addr, cfg.GinMode)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// handleHealth はヘルスチェックエンドポイントのハンドラーです。
func handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "go-todo",
		"version": "0.1.0",
	})
}

// handleHome は GET / のハンドラーです。
func handleHome(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{
		"Flashes": web.Take(c),
	})
}

// setupRoutes は画面と認証まわりの配線を行います。
func setupRoutes(
	router *gin.Engine,
	authService *auth.Service,
	taskService *task.Service,
	sessionStore *session.Store,
	cookieMaxAge int,
) {
	router.GET("/health", handleHealth)
	router.GET("/", handleHome)

	authHandler := auth.NewHandler(authService, cookieMaxAge)
	router.GET("/login", authHandler.ShowLogin)
	router.POST("/login", authHandler.Login)
	router.GET("/register", authHandler.ShowRegister)
	router.POST("/register", authHandler.Register)
	// ログアウトはセッションが無くても成功として扱うため保護の外に置く
	router.GET("/logout", authHandler.Logout)

	taskHandler := task.NewHandler(taskService)
	protected := router.Group("")
	protected.Use(auth.RequireLogin(sessionStore))
	{
		protected.GET("/todo", taskHandler.ListPage)
		protected.POST("/todo", taskHandler.Create)
		protected.GET("/edit_task/:id", taskHandler.EditPage)
		protected.POST("/edit_task/:id", taskHandler.Edit)
		protected.POST("/mark_task/:id", taskHandler.Mark)
		protected.POST("/undo_task/:id", taskHandler.Undo)
		protected.POST("/delete_task/:id", taskHandler.Delete)
	}
}
