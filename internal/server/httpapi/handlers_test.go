package httpapi

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/fingr/internal/logging"
	"github.com/dmitrijs2005/fingr/internal/server/config"
	"github.com/dmitrijs2005/fingr/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/fingr/internal/server/services"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func newTestServer(t *testing.T, mutate func(*config.Config)) (*httptest.Server, *fakeClock) {
	t.Helper()

	cfg := &config.Config{}
	cfg.LoadDefaults()
	if mutate != nil {
		mutate(cfg)
	}

	clock := &fakeClock{now: time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)}

	svc, err := services.NewPresenceService(repomanager.NewInMemoryRepositoryManager(), cfg, clock)
	require.NoError(t, err)

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(io.Discard, nil)))
	ts := httptest.NewServer(NewRouter(NewHandler(svc, logger)))
	t.Cleanup(ts.Close)

	return ts, clock
}

type envelope struct {
	Status  string          `json:"status"`
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func get(t *testing.T, ts *httptest.Server, path string, params url.Values) (int, envelope) {
	t.Helper()

	u := ts.URL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	resp, err := http.Get(u)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))

	return resp.StatusCode, env
}

func registerUser(t *testing.T, ts *httptest.Server, username string) string {
	t.Helper()

	code, env := get(t, ts, "/register", url.Values{"username": {username}})
	require.Equal(t, http.StatusOK, code)

	var data struct {
		Username string `json:"username"`
		Key      string `json:"key"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Equal(t, username, data.Username)
	require.NotEmpty(t, data.Key)

	return data.Key
}

func TestHealthz(t *testing.T) {
	ts, _ := newTestServer(t, nil)

	code, env := get(t, ts, "/healthz", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "success", env.Status)
}

func TestRegisterMissingUsername(t *testing.T) {
	ts, _ := newTestServer(t, nil)

	code, env := get(t, ts, "/register", nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "MISSING_PARAMETER", env.Code)
}

func TestRegisterConflict(t *testing.T) {
	ts, _ := newTestServer(t, nil)

	registerUser(t, ts, "alice")

	code, env := get(t, ts, "/register", url.Values{"username": {"alice"}})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "USERNAME_TAKEN", env.Code)
}

func TestRegisterClosed(t *testing.T) {
	ts, _ := newTestServer(t, func(cfg *config.Config) {
		cfg.Registration = config.RegistrationClosed
	})

	code, env := get(t, ts, "/register", url.Values{"username": {"alice"}})
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "REGISTRATION_CLOSED", env.Code)
}

func TestRegisterKeyed(t *testing.T) {
	ts, _ := newTestServer(t, func(cfg *config.Config) {
		cfg.Registration = config.RegistrationKeyed
		cfg.RegistrationKey = "sekrit"
	})

	code, env := get(t, ts, "/register", url.Values{"username": {"alice"}, "key": {"wrong"}})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "INVALID_REGISTRATION_KEY", env.Code)

	code, _ = get(t, ts, "/register", url.Values{"username": {"alice"}, "key": {"sekrit"}})
	assert.Equal(t, http.StatusOK, code)
}

func TestLoginAndFinger(t *testing.T) {
	ts, _ := newTestServer(t, nil)

	key := registerUser(t, ts, "alice")

	code, _ := get(t, ts, "/login", url.Values{
		"username": {"alice"},
		"key":      {key},
		"status":   {"out to lunch"},
	})
	require.Equal(t, http.StatusOK, code)

	code, env := get(t, ts, "/finger", url.Values{"user": {"alice"}})
	require.Equal(t, http.StatusOK, code)

	var data struct {
		Username string `json:"username"`
		Online   bool   `json:"online"`
		Status   string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "alice", data.Username)
	assert.True(t, data.Online)
	assert.Equal(t, "out to lunch", data.Status)
}

func TestLoginBadKey(t *testing.T) {
	ts, _ := newTestServer(t, nil)

	registerUser(t, ts, "alice")

	code, env := get(t, ts, "/login", url.Values{"username": {"alice"}, "key": {"bogus"}})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "AUTH_FAILED", env.Code)
}

func TestFingerUnknownUser(t *testing.T) {
	ts, _ := newTestServer(t, nil)

	code, env := get(t, ts, "/finger", url.Values{"user": {"nobody"}})
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "USER_NOT_FOUND", env.Code)
}

func TestLogoffNotOnline(t *testing.T) {
	ts, _ := newTestServer(t, nil)

	key := registerUser(t, ts, "alice")

	code, env := get(t, ts, "/logoff", url.Values{"username": {"alice"}, "key": {key}})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "NOT_ONLINE", env.Code)
}

func TestBumpExtendsSession(t *testing.T) {
	ts, clock := newTestServer(t, nil)

	key := registerUser(t, ts, "alice")

	code, _ := get(t, ts, "/login", url.Values{"username": {"alice"}, "key": {key}})
	require.Equal(t, http.StatusOK, code)

	clock.now = clock.now.Add(59 * time.Minute)
	code, _ = get(t, ts, "/bump", url.Values{"username": {"alice"}, "key": {key}})
	require.Equal(t, http.StatusOK, code)

	clock.now = clock.now.Add(59 * time.Minute)
	code, env := get(t, ts, "/finger", url.Values{"user": {"alice"}})
	require.Equal(t, http.StatusOK, code)

	var data struct {
		Online bool `json:"online"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.True(t, data.Online)
}

func TestListOnlineUsers(t *testing.T) {
	ts, _ := newTestServer(t, nil)

	aliceKey := registerUser(t, ts, "alice")
	registerUser(t, ts, "bob")

	code, _ := get(t, ts, "/login", url.Values{"username": {"alice"}, "key": {aliceKey}})
	require.Equal(t, http.StatusOK, code)

	code, env := get(t, ts, "/list", nil)
	require.Equal(t, http.StatusOK, code)

	var data struct {
		Users []string `json:"users"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, []string{"alice"}, data.Users)
}

func TestCheckRecordsAuthenticatedFingers(t *testing.T) {
	ts, _ := newTestServer(t, nil)

	aliceKey := registerUser(t, ts, "alice")
	bobKey := registerUser(t, ts, "bob")

	// Anonymous lookup is not recorded, authenticated one is.
	code, _ := get(t, ts, "/finger", url.Values{"user": {"alice"}})
	require.Equal(t, http.StatusOK, code)

	code, _ = get(t, ts, "/finger", url.Values{
		"user":     {"alice"},
		"username": {"bob"},
		"key":      {bobKey},
	})
	require.Equal(t, http.StatusOK, code)

	code, env := get(t, ts, "/check", url.Values{"username": {"alice"}, "key": {aliceKey}})
	require.Equal(t, http.StatusOK, code)

	var data struct {
		Checkers []struct {
			Username string    `json:"username"`
			At       time.Time `json:"at"`
		} `json:"checkers"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Len(t, data.Checkers, 1)
	assert.Equal(t, "bob", data.Checkers[0].Username)
}

func TestFingerWithBadCredentials(t *testing.T) {
	ts, _ := newTestServer(t, nil)

	registerUser(t, ts, "alice")

	code, env := get(t, ts, "/finger", url.Values{
		"user":     {"alice"},
		"username": {"bob"},
		"key":      {"bogus"},
	})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "AUTH_FAILED", env.Code)
}

func TestRequestIDHeader(t *testing.T) {
	ts, _ := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))
}
