package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolms/internal/api"
	"schoolms/internal/auth"
	"schoolms/internal/cloudinary"
	"schoolms/internal/school"
	"schoolms/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var authCfg = auth.Config{Secret: "test-secret", Issuer: "schoolms-test", TokenTTL: 24 * time.Hour, BcryptCost: 4}

type testApp struct {
	router *gin.Engine
	repo   *store.Memory
	svc    *school.Service
	tokens *auth.Tokens
}

func setup(t *testing.T, uploader api.Uploader) *testApp {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := store.NewMemory()
	tokens := auth.NewTokens(authCfg)
	svc := school.NewService(repo, auth.NewCredentials(authCfg), tokens, log)

	deps := api.Deps{
		Service: svc,
		Tokens:  tokens,
		Log:     log,
		DB:      repo,
	}
	if uploader != nil {
		deps.Uploader = uploader
	}
	return &testApp{router: api.NewRouter(deps), repo: repo, svc: svc, tokens: tokens}
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, httptest.NewRecorder()
}

func (a *testApp) do(method, path, token string, data ...[]byte) *httptest.ResponseRecorder {
	req, rec := newAuthRequest(method, path, token, data...)
	a.router.ServeHTTP(rec, req)
	return rec
}

func (a *testApp) run(t *testing.T, tests []httpTest) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			method := tt.method
			if method == "" {
				method = http.MethodGet
			}
			rec := a.do(method, tt.path, tt.token, tt.body)
			assert.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
			if tt.wantData != nil {
				assert.JSONEq(t, string(tt.wantData), rec.Body.String())
			}
		})
	}
}

// adminToken registers an admin account and returns a token for it.
func (a *testApp) adminToken(t *testing.T) string {
	t.Helper()
	acc, err := a.svc.Register(context.Background(), school.RegisterInput{
		Username: "principal", Password: "secret123", Email: "principal@school.com", FullName: "Principal",
	})
	require.NoError(t, err)
	token, _, err := a.tokens.Issue(auth.Identity{ID: acc.ID, Username: acc.Username, Role: string(acc.Role)})
	require.NoError(t, err)
	return token
}

func authIdentity(id string) auth.Identity {
	return auth.Identity{ID: id, Username: "ghost", Role: "admin"}
}

func marshal(t *testing.T, obj interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(obj)
	require.NoError(t, err)
	return data
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst), rec.Body.String())
}

type fakeUploader struct {
	err error
}

func (f fakeUploader) UploadDataURL(context.Context, string) (*cloudinary.UploadResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &cloudinary.UploadResult{PublicID: "avatars/a", SecureURL: "https://cdn/a.png", Width: 10, Height: 10, Bytes: 4}, nil
}

func (f fakeUploader) UploadFile(_ context.Context, data []byte, _ string) (*cloudinary.UploadResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &cloudinary.UploadResult{PublicID: "avatars/f", SecureURL: "https://cdn/f.png", Bytes: len(data)}, nil
}
