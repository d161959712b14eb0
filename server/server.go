package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"playlister/cache"
	"playlister/config"
	"playlister/core/edit"
	"playlister/db"
	"playlister/logger"
	"playlister/repository"
	"playlister/storage"

	"github.com/gorilla/mux"
)

// Start initializes and starts the HTTP server.
func Start() {
	cfg := config.Load()

	logger.InitLogger(logger.Config{
		Level:      cfg.LogLevel,
		OutputPath: cfg.LogOutput,
		MaxSize:    100,
		MaxBackups: 5,
		MaxAge:     30,
		Compress:   true,
	})

	// 设置服务器超时
	server := &http.Server{
		Addr:         cfg.ServerAddr,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 初始化 MinIO 客户端（头像存储）
	if err := storage.InitMinio(cfg); err != nil {
		logger.Fatal("Failed to initialize MinIO", logger.ErrorField(err))
	}

	// Connect to the database
	if err := db.ConnectGormDB(cfg); err != nil {
		logger.Fatal("Failed to connect to database", logger.ErrorField(err))
	}
	defer db.CloseGormDB()

	// Initialize database schema
	if err := db.MigrateDB(); err != nil {
		logger.Fatal("Failed to migrate database", logger.ErrorField(err))
	}

	// Connect to Redis
	if err := cache.ConnectRedis(cfg); err != nil {
		logger.Fatal("Failed to connect to Redis", logger.ErrorField(err))
	}
	defer cache.CloseRedis()
	logger.Info("Successfully connected to Redis")

	userRepo := repository.NewMySQLUserRepository(db.GormDB)
	songRepo := repository.NewMySQLSongRepository(db.GormDB)
	playlistRepo := repository.NewMySQLPlaylistRepository(db.GormDB)
	editManager := edit.NewManager(playlistRepo, songRepo)

	// 初始化处理器
	apiHandler := NewAPIHandler(userRepo, songRepo, playlistRepo, editManager, cfg)

	// 使用 gorilla/mux 创建路由器
	router := mux.NewRouter()

	// 添加 CORS 中间件
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Access-Control-Max-Age", "86400") // 24 hours

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	})

	// 用户认证相关的API端点
	router.HandleFunc("/api/auth/register", apiHandler.RegisterHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/login", apiHandler.LoginHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/profile", apiHandler.AuthMiddleware(apiHandler.GetProfileHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/auth/avatar", apiHandler.AuthMiddleware(apiHandler.UploadAvatarHandler)).Methods(http.MethodPost)

	// 歌曲目录相关的API端点
	router.HandleFunc("/api/songs", apiHandler.AuthMiddleware(apiHandler.SearchSongsHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/songs", apiHandler.AuthMiddleware(apiHandler.CreateSongHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/songs/{id}", apiHandler.AuthMiddleware(apiHandler.GetSongHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/songs/{id}", apiHandler.AuthMiddleware(apiHandler.UpdateSongHandler)).Methods(http.MethodPut)
	router.HandleFunc("/api/songs/{id}", apiHandler.AuthMiddleware(apiHandler.DeleteSongHandler)).Methods(http.MethodDelete)
	router.HandleFunc("/api/songs/{id}/copy", apiHandler.AuthMiddleware(apiHandler.CopySongHandler)).Methods(http.MethodPost)

	// 播放列表相关的API端点
	router.HandleFunc("/api/playlists", apiHandler.AuthMiddleware(apiHandler.GetPlaylistsHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/playlists", apiHandler.AuthMiddleware(apiHandler.CreatePlaylistHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/playlists/{id}", apiHandler.AuthMiddleware(apiHandler.GetPlaylistHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/playlists/{id}", apiHandler.AuthMiddleware(apiHandler.DeletePlaylistHandler)).Methods(http.MethodDelete)
	router.HandleFunc("/api/playlists/{id}/songs", apiHandler.AuthMiddleware(apiHandler.AddSongToPlaylistHandler)).Methods(http.MethodPost)

	// 编辑会话相关的API端点
	router.HandleFunc("/api/edit/open", apiHandler.AuthMiddleware(apiHandler.OpenEditSessionHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/edit/{sessionId}", apiHandler.AuthMiddleware(apiHandler.GetEditSessionHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/edit/{sessionId}/close", apiHandler.AuthMiddleware(apiHandler.CloseEditSessionHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/edit/{sessionId}/name", apiHandler.AuthMiddleware(apiHandler.RenameHandler)).Methods(http.MethodPut)
	router.HandleFunc("/api/edit/{sessionId}/name/commit", apiHandler.AuthMiddleware(apiHandler.CommitRenameHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/edit/{sessionId}/songs", apiHandler.AuthMiddleware(apiHandler.AddSongHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/edit/{sessionId}/songs/move", apiHandler.AuthMiddleware(apiHandler.MoveSongHandler)).Methods(http.MethodPut)
	router.HandleFunc("/api/edit/{sessionId}/songs/{index}", apiHandler.AuthMiddleware(apiHandler.RemoveSongHandler)).Methods(http.MethodDelete)
	router.HandleFunc("/api/edit/{sessionId}/songs/{index}", apiHandler.AuthMiddleware(apiHandler.UpdateSongFieldHandler)).Methods(http.MethodPut)
	router.HandleFunc("/api/edit/{sessionId}/undo", apiHandler.AuthMiddleware(apiHandler.UndoHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/edit/{sessionId}/redo", apiHandler.AuthMiddleware(apiHandler.RedoHandler)).Methods(http.MethodPost)

	server.Handler = router

	// 创建一个通道来接收操作系统信号
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// 在goroutine中启动服务器
	go func() {
		logger.Info("Server starting", logger.String("addr", cfg.ServerAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", logger.ErrorField(err))
		}
	}()

	// 等待中断信号
	<-stop
	logger.Info("Shutting down server...")

	// 丢弃所有打开的编辑会话；已提交的编辑保留在存储中
	editManager.CloseAll()

	// 创建一个5秒超时的上下文
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// 优雅关闭服务器
	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", logger.ErrorField(err))
	}

	logger.Info("Server stopped")
}
