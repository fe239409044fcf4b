// Package testutil はテスト用のデータベースとルーター、HTTPヘルパーを提供します。
package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"todo-auth/backend/internal/config"
	"todo-auth/backend/internal/database"
	"todo-auth/backend/internal/models"
	"todo-auth/backend/internal/routes"
)

const (
	TestJWTSecret = "test_very_secret_jwt_key_here"
	TestJWTIssuer = "demo app"
)

// TestConfig はテスト用の設定を返します。SQLiteファイルは t.TempDir() に作られます。
func TestConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		GinMode:            gin.TestMode,
		CORSAllowedOrigins: "http://localhost:3000",
		DBDriver:           config.DriverSQLite,
		SQLitePath:         filepath.Join(t.TempDir(), "todo_test.db"),
		JWTSecret:          TestJWTSecret,
		JWTIssuer:          TestJWTIssuer,
		JWTTTL:             time.Hour,
		BcryptCost:         bcrypt.MinCost,
	}
}

// NewTestDB はスキーマ作成済みのSQLiteデータベースを返します。テスト終了時に閉じられます。
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	return openTestDB(t, TestConfig(t))
}

func openTestDB(t *testing.T, cfg *config.Config) *sql.DB {
	t.Helper()
	db, err := database.Open(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

// SetupTestRouter はテスト用DBに接続したルーターを返します。キャッシュは使いません。
func SetupTestRouter(t *testing.T) (*gin.Engine, *sql.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := TestConfig(t)
	db := openTestDB(t, cfg)
	router, err := routes.SetupRouter(cfg, db, nil)
	require.NoError(t, err)
	return router, db
}

// DoJSON はJSONボディ付きのリクエストをルーターに送ります。token が空なら Authorization を付けません。
func DoJSON(t *testing.T, router http.Handler, method, path, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}

	req, err := http.NewRequest(method, path, &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

// SignupUser はサインアップAPIでユーザーを登録します。
func SignupUser(t *testing.T, router http.Handler, email, username, password string) {
	t.Helper()
	resp := DoJSON(t, router, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"email":    email,
		"username": username,
		"password": password,
	})
	require.Equal(t, http.StatusOK, resp.Code, "サインアップに失敗しました: %s", resp.Body.String())
}

// LoginAndGetToken はサインインAPIでトークンを取得します。
func LoginAndGetToken(t *testing.T, router http.Handler, email, password string) (string, error) {
	t.Helper()
	resp := DoJSON(t, router, http.MethodPost, "/api/auth/signin", "", map[string]string{
		"email":    email,
		"password": password,
	})
	if resp.Code != http.StatusOK {
		return "", fmt.Errorf("login failed with status %d: %s", resp.Code, resp.Body.String())
	}

	var loginRes models.SigninResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &loginRes); err != nil {
		return "", fmt.Errorf("failed to unmarshal login response: %w", err)
	}
	if loginRes.Token == "" {
		return "", errors.New("token not found in login response")
	}
	return loginRes.Token, nil
}

// SignupAndLogin はユーザーを登録してトークンを返します。
func SignupAndLogin(t *testing.T, router http.Handler, email, password string) string {
	t.Helper()
	SignupUser(t, router, email, "", password)
	token, err := LoginAndGetToken(t, router, email, password)
	require.NoError(t, err)
	return token
}

// CreateTestTodo はAPI経由でTodoを作成し、返ってきた一覧を返します。
func CreateTestTodo(t *testing.T, router http.Handler, token, title string, done bool) []models.Todo {
	t.Helper()
	resp := DoJSON(t, router, http.MethodPost, "/api/todo", token, map[string]any{
		"title": title,
		"done":  done,
	})
	require.Equal(t, http.StatusOK, resp.Code, "TODO作成に失敗しました: %s", resp.Body.String())

	var todos []models.Todo
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &todos))
	return todos
}
