package server

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/expenselens/expense-tracker/internal/auth"
	"github.com/expenselens/expense-tracker/internal/common"
	"github.com/expenselens/expense-tracker/internal/entity"
	"github.com/expenselens/expense-tracker/internal/repository"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeUserRepo keeps users in a map keyed by username.
type fakeUserRepo struct {
	users map[string]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*entity.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, username, passwordHash string) (*entity.User, error) {
	if _, exists := f.users[username]; exists {
		return nil, common.ErrConflict
	}
	u := &entity.User{ID: uuid.New(), Username: username, PasswordHash: passwordHash, CreatedAt: time.Now()}
	f.users[username] = u
	return u, nil
}

func (f *fakeUserRepo) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	u, ok := f.users[username]
	if !ok {
		return nil, common.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, common.ErrNotFound
}

// fakeTxRepo keeps transactions in insertion order and records the last
// filter it was asked to apply.
type fakeTxRepo struct {
	txs        []*entity.Transaction
	lastFilter repository.Filter
	err        error
}

func (f *fakeTxRepo) Create(_ context.Context, tx *entity.Transaction) error {
	if f.err != nil {
		return f.err
	}
	tx.ID = uuid.New()
	tx.CreatedAt = time.Now()
	f.txs = append(f.txs, tx)
	return nil
}

func (f *fakeTxRepo) Get(_ context.Context, userID, id uuid.UUID, txType entity.TxType) (*entity.Transaction, error) {
	for _, tx := range f.txs {
		if tx.ID == id && tx.UserID == userID && tx.Type == txType {
			return tx, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeTxRepo) Update(ctx context.Context, userID, id uuid.UUID, txType entity.TxType, patch repository.UpdatePatch) (*entity.Transaction, error) {
	tx, err := f.Get(ctx, userID, id, txType)
	if err != nil {
		return nil, err
	}
	if patch.Amount != nil {
		tx.Amount = *patch.Amount
	}
	if patch.Category != nil {
		tx.Category = *patch.Category
	}
	if patch.Note != nil {
		tx.Note = *patch.Note
	}
	if patch.ClearDate {
		tx.TxDate = nil
	} else if patch.TxDate != nil {
		tx.TxDate = patch.TxDate
	}
	return tx, nil
}

func (f *fakeTxRepo) Delete(ctx context.Context, userID, id uuid.UUID, txType entity.TxType) error {
	for i, tx := range f.txs {
		if tx.ID == id && tx.UserID == userID && tx.Type == txType {
			f.txs = append(f.txs[:i], f.txs[i+1:]...)
			return nil
		}
	}
	return common.ErrNotFound
}

func (f *fakeTxRepo) List(_ context.Context, userID uuid.UUID, txType entity.TxType, filter repository.Filter) ([]*entity.Transaction, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.lastFilter = filter
	out := make([]*entity.Transaction, 0)
	for _, tx := range f.txs {
		if tx.UserID == userID && tx.Type == txType {
			out = append(out, tx)
		}
	}
	return out, nil
}

// testServer wires a router around fakes and a signed-in user.
type testServer struct {
	router *gin.Engine
	users  *fakeUserRepo
	txs    *fakeTxRepo
	srv    *Server

	userID uuid.UUID
	token  string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	users := newFakeUserRepo()
	txs := &fakeTxRepo{}
	tokens := auth.NewTokenIssuer("test-secret", time.Hour)

	srv := &Server{
		Users:  users,
		Txs:    txs,
		Tokens: tokens,
		Logger: slog.New(slog.DiscardHandler),
	}

	hash, err := auth.HashPassword("password123")
	require.NoError(t, err)
	u, err := users.Create(context.Background(), "alice", hash)
	require.NoError(t, err)

	token, err := tokens.Issue(u.ID)
	require.NoError(t, err)

	return &testServer{
		router: srv.NewRouter("http://localhost:5173"),
		users:  users,
		txs:    txs,
		srv:    srv,
		userID: u.ID,
		token:  token,
	}
}

func (ts *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if ts.token != "" {
		req.Header.Set("Authorization", "Bearer "+ts.token)
	}

	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	return m
}

func TestRegister(t *testing.T) {
	ts := newTestServer(t)

	t.Run("success", func(t *testing.T) {
		w := ts.do(t, http.MethodPost, "/api/register", gin.H{"username": "bob", "password": "pw"})
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "User registered successfully", decodeBody(t, w)["message"])
	})

	t.Run("duplicate username", func(t *testing.T) {
		w := ts.do(t, http.MethodPost, "/api/register", gin.H{"username": "alice", "password": "pw"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Username already exists", decodeBody(t, w)["error"])
	})

	t.Run("missing password", func(t *testing.T) {
		w := ts.do(t, http.MethodPost, "/api/register", gin.H{"username": "carol"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Missing username or password", decodeBody(t, w)["error"])
	})
}

func TestLogin(t *testing.T) {
	ts := newTestServer(t)

	t.Run("success returns token", func(t *testing.T) {
		w := ts.do(t, http.MethodPost, "/api/login", gin.H{"username": "alice", "password": "password123"})
		require.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, decodeBody(t, w)["token"])
	})

	t.Run("wrong password", func(t *testing.T) {
		w := ts.do(t, http.MethodPost, "/api/login", gin.H{"username": "alice", "password": "nope"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Invalid username or password", decodeBody(t, w)["error"])
	})

	t.Run("unknown user", func(t *testing.T) {
		w := ts.do(t, http.MethodPost, "/api/login", gin.H{"username": "mallory", "password": "pw"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestProfile(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/api/profile", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "alice", body["username"])
	assert.NotContains(t, w.Body.String(), "password")
}

func TestAuthMiddleware(t *testing.T) {
	ts := newTestServer(t)

	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
		w := httptest.NewRecorder()
		ts.router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("wrong scheme", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
		req.Header.Set("Authorization", "Basic abc123")
		w := httptest.NewRecorder()
		ts.router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
		req.Header.Set("Authorization", "Bearer not-a-token")
		w := httptest.NewRecorder()
		ts.router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestHealthEndpointIsPublic(t *testing.T) {
	ts := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
