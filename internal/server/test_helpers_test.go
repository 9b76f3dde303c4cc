package server

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"party-squares/internal/config"
	"party-squares/internal/db"
	"party-squares/internal/squares"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "test-secret"

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func newTestServer(t *testing.T, handler http.Handler) *httptest.Server {
	t.Helper()
	listener, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Skipf("skipping test; listen unavailable: %v", err)
	}
	ts := &httptest.Server{
		Listener: listener,
		Config:   &http.Server{Handler: handler},
	}
	ts.Start()
	t.Cleanup(ts.Close)
	return ts
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	conn, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err := db.Migrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

type testApp struct {
	ts    *httptest.Server
	store *db.Store
	game  squares.Game
}

// newTestApp serves a fresh database holding the default game, one
// global admin and two approved players.
func newTestApp(t *testing.T) *testApp {
	t.Helper()
	cfg := config.Default()
	cfg.AuthJWTSecret = testSecret
	srv := New(openTestDB(t), cfg)

	app := &testApp{
		ts:    newTestServer(t, srv.Handler()),
		store: srv.store,
	}
	game, err := app.store.EnsureGame(context.Background(), cfg.DefaultGameSlug, "Big Game", 5)
	if err != nil {
		t.Fatalf("seed game: %v", err)
	}
	app.game = game
	app.approve(t, "admin@example.com", "Host", true)
	app.approve(t, "ada@example.com", "Ada", false)
	app.approve(t, "ben@example.com", "Ben", false)
	return app
}

func (a *testApp) approve(t *testing.T, email, name string, admin bool) {
	t.Helper()
	if _, err := a.store.UpsertApprovedUser(context.Background(), db.ApprovedUser{Email: email, Name: name, IsAdmin: admin}); err != nil {
		t.Fatalf("approve %s: %v", email, err)
	}
}

func mintToken(t *testing.T, secret, email string, expiresIn time.Duration) string {
	t.Helper()
	claims := identityClaims{
		Email: email,
		Name:  strings.Split(email, "@")[0],
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-" + email,
			Issuer:    config.Default().AuthIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func tokenFor(t *testing.T, email string) string {
	t.Helper()
	return mintToken(t, testSecret, email, time.Hour)
}
