// Package routes はルーティングとアクセス制御を行います。
package routes

import (
	"database/sql"
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"todo-auth/backend/internal/auth"
	"todo-auth/backend/internal/config"
	"todo-auth/backend/internal/handlers"
	"todo-auth/backend/internal/repositories"
	"todo-auth/backend/internal/services"
)

// SetupRouter はGinルーターをセットアップし、すべてのエンドポイントを登録します。
// todoCache が nil の場合、一覧はキャッシュされません。
func SetupRouter(cfg *config.Config, db *sql.DB, todoCache services.TodoCache) (*gin.Engine, error) {
	r := gin.New()
	r.Use(RequestLogger(), gin.Recovery())

	// CORS対策
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = splitOrigins(cfg.CORSAllowedOrigins)
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	corsConfig.AllowCredentials = true
	r.Use(cors.New(corsConfig))

	// リポジトリ
	todoRepo := repositories.NewTodoRepository(db)
	userRepo := repositories.NewUserRepository(db)

	// サービス
	hasher, err := services.NewPasswordHasher(cfg.BcryptCost)
	if err != nil {
		return nil, err
	}
	jwtService := services.NewJWTService(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
	userService := services.NewUserService(userRepo, hasher)
	todoService := services.NewTodoService(todoRepo, userRepo, todoCache)

	// ハンドラー
	userHandler := handlers.NewUserHandler(userService, jwtService)
	todoHandler := handlers.NewTodoHandler(todoService)

	// すべてのリクエストで認証情報を読み取る（未認証でも通す）
	r.Use(AuthMiddleware(jwtService))

	// 公開エンドポイント
	r.GET("/", statusHandler(db))
	authGroup := r.Group("/api/auth")
	{
		authGroup.POST("/signup", userHandler.SignupHandler)
		authGroup.POST("/signin", userHandler.SigninHandler)
	}

	// 認証必須
	todoGroup := r.Group("/api/todo")
	todoGroup.Use(RequireAuth())
	{
		todoGroup.POST("", todoHandler.CreateTodoHandler)
		todoGroup.GET("", todoHandler.GetTodosHandler)
		todoGroup.PUT("/:id", todoHandler.UpdateTodoHandler)
		todoGroup.DELETE("/:id", todoHandler.DeleteTodoHandler)
	}

	r.NoRoute(noRouteHandler)

	return r, nil
}

func statusHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": "Database connection failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Database connection is healthy"})
	}
}

// noRouteHandler は未定義のパスに対し、未認証なら401、認証済みなら404を返します。
func noRouteHandler(c *gin.Context) {
	if _, ok := auth.UserIDFromContext(c.Request.Context()); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
}

func splitOrigins(s string) []string {
	var origins []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	return origins
}
