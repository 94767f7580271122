package helpers

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"sync/atomic"
	"testing"

	"jobportal_backend/internal/app"
	"jobportal_backend/internal/cache"
	"jobportal_backend/internal/config"
	"jobportal_backend/internal/database"
	"jobportal_backend/internal/handlers"
	"jobportal_backend/internal/logger"
	"jobportal_backend/internal/routes"
	"jobportal_backend/internal/services"
	"jobportal_backend/internal/storage"
	"jobportal_backend/pkg/contextkeys"

	"gorm.io/gorm"
)

// FakeGateway stands in for the payment provider. VerifySignature accepts
// exactly what Sign produces, so a test can exercise both the success and
// the tampered-signature path without network access.
type FakeGateway struct {
	secret  string
	counter atomic.Int64
}

func NewFakeGateway() *FakeGateway {
	return &FakeGateway{secret: "itest-gateway-secret"}
}

func (g *FakeGateway) CreateOrder(_ context.Context, _ int64, _, _ string, _ map[string]string) (string, error) {
	return fmt.Sprintf("order_itest_%d", g.counter.Add(1)), nil
}

// Sign produces the signature VerifySignature expects for the pair.
func (g *FakeGateway) Sign(orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(g.secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func (g *FakeGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return signature == g.Sign(orderID, paymentID)
}

// TestServer wraps the wired router and the test database connection.
// Requests are served in-process; each test runs inside its own
// transaction, injected through the request context so DBMiddleware
// picks it up, and rolled back afterwards.
type TestServer struct {
	Router  http.Handler
	DB      *gorm.DB
	Gateway *FakeGateway
	Emails  *app.MockEmailProvider
}

// NewTestServer connects to TEST_DATABASE_URL, migrates the schema and
// wires the full handler tree with a fake payment gateway, a mock email
// provider and local file storage in a temp directory. Tests are skipped
// when no test database is configured.
func NewTestServer(t *testing.T) *TestServer {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration tests")
	}

	os.Setenv("DATABASE_URL", dsn)
	os.Setenv("SERVER_ENV", "test")
	if os.Getenv("JWT_SECRET") == "" {
		os.Setenv("JWT_SECRET", "integration-test-secret-12345")
	}

	config.LoadConfig()
	cfg := config.GetConfig()
	logger.Init(cfg.Server.Env)

	db, err := database.Connect(cfg.Database.DSN, cfg.Server.Env)
	if err != nil {
		t.Fatalf("failed to connect to test database (%s): %v", cfg.Database.DSN, err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	uploadDir, err := os.MkdirTemp("", "jobportal-itest-uploads")
	if err != nil {
		t.Fatalf("failed to create upload dir: %v", err)
	}
	cfg.Storage.Type = "local"
	cfg.Storage.BasePath = uploadDir
	cfg.Storage.BaseURL = "/api/v1/files"

	store, err := storage.NewStorage(storage.Config{
		Type:     cfg.Storage.Type,
		BasePath: cfg.Storage.BasePath,
		BaseURL:  cfg.Storage.BaseURL,
	})
	if err != nil {
		t.Fatalf("failed to init local storage: %v", err)
	}

	gateway := NewFakeGateway()
	emails := app.NewMockEmailProvider()

	container := services.NewServiceContainer(services.ContainerDeps{
		Config:        cfg,
		Storage:       store,
		EmailProvider: emails,
		Gateway:       gateway,
		ViewTracker:   cache.NewViewTracker(nil),
	})

	router := routes.Setup(cfg, db, handlers.NewAppHandlers(container))

	return &TestServer{
		Router:  router,
		DB:      db,
		Gateway: gateway,
		Emails:  emails,
	}
}

func (ts *TestServer) Close() {
	if sqlDB, err := ts.DB.DB(); err == nil {
		sqlDB.Close()
	}
}

// BeginTransaction opens the per-test transaction. Everything the test
// does, directly or through the API, happens inside it.
func (ts *TestServer) BeginTransaction(t *testing.T) *gorm.DB {
	t.Helper()
	tx := ts.DB.Begin()
	if tx.Error != nil {
		t.Fatalf("failed to begin transaction: %v", tx.Error)
	}
	return tx
}

func (ts *TestServer) RollbackTransaction(t *testing.T, tx *gorm.DB) {
	t.Helper()
	if err := tx.Rollback().Error; err != nil {
		t.Logf("rollback failed: %v", err)
	}
}

// SendRequest serves a JSON request in-process. The transaction rides in
// the request context so every handler works against it.
func (ts *TestServer) SendRequest(t *testing.T, tx *gorm.DB, method, path, token string, body interface{}) (*http.Response, string) {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req := httptest.NewRequest(method, path, reqBody)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return ts.serve(t, tx, req, token)
}

// SendMultipart serves a multipart form request, optionally attaching a
// file part with an explicit content type.
func (ts *TestServer) SendMultipart(t *testing.T, tx *gorm.DB, method, path, token string,
	fields map[string]string, fileField, fileName, fileContentType string, fileContent []byte) (*http.Response, string) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("failed to write form field %s: %v", key, err)
		}
	}
	if fileField != "" {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition",
			fmt.Sprintf(`form-data; name=%q; filename=%q`, fileField, fileName))
		header.Set("Content-Type", fileContentType)
		part, err := writer.CreatePart(header)
		if err != nil {
			t.Fatalf("failed to create file part: %v", err)
		}
		if _, err := part.Write(fileContent); err != nil {
			t.Fatalf("failed to write file content: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to finalize multipart body: %v", err)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return ts.serve(t, tx, req, token)
}

func (ts *TestServer) serve(t *testing.T, tx *gorm.DB, req *http.Request, token string) (*http.Response, string) {
	t.Helper()

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if tx != nil {
		req = req.WithContext(context.WithValue(req.Context(), contextkeys.DBContextKey, tx))
	}

	recorder := httptest.NewRecorder()
	ts.Router.ServeHTTP(recorder, req)

	res := recorder.Result()
	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	res.Body.Close()

	return res, string(resBody)
}
