package service_test

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/tokenauth/internal/auth/cache"
	"github.com/aussiebroadwan/tokenauth/internal/auth/domain"
	"github.com/aussiebroadwan/tokenauth/internal/auth/service"
	"github.com/aussiebroadwan/tokenauth/internal/auth/store"
	"github.com/aussiebroadwan/tokenauth/internal/auth/store/drivers/sqlite"
	"github.com/aussiebroadwan/tokenauth/pkg/cryptox"
	"github.com/aussiebroadwan/tokenauth/pkg/jwtx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

const (
	testIssuer   = "tokenauth-test"
	testEmail    = "ada@example.com"
	testPassword = "correct horse battery"
)

var testSecret = bytes.Repeat([]byte("s"), jwtx.MinSecretSize)

func TestMain(m *testing.M) {
	cryptox.SetPepper("test-pepper")
	os.Exit(m.Run())
}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type harness struct {
	svc   *service.SessionService
	store store.Store
	clock *fakeClock
	reg   *prometheus.Registry
	user  domain.User
}

type harnessOption func(*harnessConfig)

type harnessConfig struct {
	wrapStore func(store.Store) store.Store
	cache     cache.Store
}

// withStore wraps the ledger store the service sees, after the test user
// has been created.
func withStore(wrap func(store.Store) store.Store) harnessOption {
	return func(c *harnessConfig) { c.wrapStore = wrap }
}

func withCache(cs cache.Store) harnessOption {
	return func(c *harnessConfig) { c.cache = cs }
}

func newHarness(t *testing.T, opts ...harnessOption) *harness {
	t.Helper()
	ctx := context.Background()

	var cfg harnessConfig
	for _, o := range opts {
		o(&cfg)
	}

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	clock := newFakeClock()

	users := &service.UserService{Store: st, Now: clock.Now}
	user, err := users.CreateUser(ctx, service.CreateUserRequest{
		Email:       testEmail,
		Password:    testPassword,
		AccessLevel: 3,
	})
	require.NoError(t, err)

	var svcStore store.Store = st
	if cfg.wrapStore != nil {
		svcStore = cfg.wrapStore(st)
	}

	cs := cfg.cache
	if cs == nil {
		mem := cache.NewMemoryStoreWithClock(time.Hour, clock.Now)
		t.Cleanup(func() { _ = mem.Close() })
		cs = mem
	}

	signer, err := jwtx.NewSignerHS256(testSecret)
	require.NoError(t, err)
	verifier, err := jwtx.NewVerifierHS256(testSecret, jwtx.VerifyOptions{Issuer: testIssuer, Now: clock.Now})
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	svc := &service.SessionService{
		Store:     svcStore,
		Sessions:  cache.NewSessionCache(cs, clock.Now),
		Blacklist: cache.NewBlacklist(cs, clock.Now),
		Issuer: &service.TokenIssuer{
			Signer:     signer,
			Issuer:     testIssuer,
			AccessTTL:  jwtx.DefaultAccessTokenTTL,
			RefreshTTL: jwtx.DefaultRefreshTokenTTL,
			Now:        clock.Now,
		},
		Verifier:    verifier,
		Credentials: &service.CredentialVerifier{Store: svcStore},
		Metrics:     service.NewMetrics(reg),
		Now:         clock.Now,
	}

	return &harness{svc: svc, store: st, clock: clock, reg: reg, user: user}
}

var testRequester = domain.Requester{UserAgent: "service-test", IPAddress: "192.0.2.10"}

func (h *harness) signIn(t *testing.T) service.SessionResult {
	t.Helper()
	res, err := h.svc.SignIn(context.Background(), service.SignInRequest{
		Email:     testEmail,
		Password:  testPassword,
		Requester: testRequester,
	})
	require.NoError(t, err)
	return res
}

func (h *harness) authorize(access, refresh string) (service.AuthorizeResult, error) {
	return h.svc.Authorize(context.Background(), service.AuthorizeRequest{
		AccessToken:  access,
		RefreshToken: refresh,
		Requester:    testRequester,
	})
}

func (h *harness) refresh(access, refresh string) (service.SessionResult, error) {
	return h.svc.Refresh(context.Background(), service.RefreshRequest{
		AccessToken:  access,
		RefreshToken: refresh,
		Requester:    testRequester,
	})
}

// missingUsers hides every user from GetUserByID, simulating a ledger entry
// that outlived its owner.
type missingUsers struct {
	store.Store
}

func (m missingUsers) Users() store.Users { return missingUsersRepo{m.Store.Users()} }

type missingUsersRepo struct {
	store.Users
}

func (missingUsersRepo) GetUserByID(context.Context, string) (domain.User, error) {
	return domain.User{}, store.ErrNotFound
}

// brokenCache fails every call the way an unreachable Redis would.
type brokenCache struct{}

var errBroken = fmt.Errorf("%w: connection refused", cache.ErrUnavailable)

func (brokenCache) Get(context.Context, string) ([]byte, error) { return nil, errBroken }
func (brokenCache) Set(context.Context, string, []byte, time.Duration) error {
	return errBroken
}
func (brokenCache) Delete(context.Context, string) (bool, error) { return false, errBroken }
func (brokenCache) Ping(context.Context) error                   { return errBroken }
func (brokenCache) Close() error                                 { return nil }
