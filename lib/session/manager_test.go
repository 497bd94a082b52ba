package session

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type stubGateway struct {
	probeErr     error
	probeCalls   int
	ticketCalls  int
	checkCalls   int
	checkResults []stubCheck
}

type stubCheck struct {
	code  int
	msg   string
	token string
	err   error
}

func (g *stubGateway) Probe(ctx context.Context, token string) error {
	g.probeCalls++
	return g.probeErr
}

func (g *stubGateway) CreateTicket(ctx context.Context) (Ticket, error) {
	g.ticketCalls++
	return Ticket{URL: "https://example.com/qr", Random: "nonce"}, nil
}

func (g *stubGateway) CheckLogin(ctx context.Context, random string) (int, string, string, error) {
	if random != "nonce" {
		return 0, "", "", fmt.Errorf("unexpected nonce %q", random)
	}
	res := g.checkResults[g.checkCalls]
	g.checkCalls++
	return res.code, res.msg, res.token, res.err
}

func newTestManager(t *testing.T, gw Gateway) (*Manager, Cache) {
	cache := NewCache(filepath.Join(t.TempDir(), "session.json"))
	m := NewManager(cache, gw)
	return m, cache
}

func TestStartWithValidCache(t *testing.T) {
	gw := &stubGateway{}
	m, cache := newTestManager(t, gw)
	require.NoError(t, cache.Save(Credentials{
		Token:    "cached",
		Imprint:  "imprint",
		IssuedAt: time.Now().UnixMilli(),
	}))

	ticket, err := m.Start(context.Background())
	require.NoError(t, err)
	require.Equal(t, Ticket{}, ticket)
	require.Equal(t, StateAuthenticated, m.State())
	require.Equal(t, Session{Token: "cached", Imprint: "imprint"}, m.Session())
	require.Equal(t, 1, gw.probeCalls)
	require.Zero(t, gw.ticketCalls)
}

func TestStartWithExpiredCacheSkipsProbe(t *testing.T) {
	gw := &stubGateway{}
	m, cache := newTestManager(t, gw)
	require.NoError(t, cache.Save(Credentials{
		Token:    "stale",
		IssuedAt: time.Now().Add(-25 * time.Hour).UnixMilli(),
	}))

	ticket, err := m.Start(context.Background())
	require.NoError(t, err)
	require.Equal(t, "nonce", ticket.Random)
	require.Equal(t, StatePolling, m.State())
	require.Zero(t, gw.probeCalls)
	require.Equal(t, 1, gw.ticketCalls)
}

// a cached record that looks valid but the backend rejects must never
// be kept, authentication only completes through the full login flow
func TestProbeRejectionFallsBackToLogin(t *testing.T) {
	gw := &stubGateway{
		probeErr: fmt.Errorf("401 unauthorized"),
		checkResults: []stubCheck{
			{code: 0, msg: "未扫码"},
			{code: 1, token: "fresh-token"},
		},
	}
	m, cache := newTestManager(t, gw)
	require.NoError(t, cache.Save(Credentials{
		Token:    "rejected",
		IssuedAt: time.Now().UnixMilli(),
	}))

	ticket, err := m.Start(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, ticket.URL)
	require.Equal(t, StatePolling, m.State())
	require.Empty(t, m.Session().Token)

	res, err := m.Poll(context.Background())
	require.NoError(t, err)
	require.Equal(t, PollWaiting, res)
	require.Equal(t, StatePolling, m.State())

	res, err = m.Poll(context.Background())
	require.NoError(t, err)
	require.Equal(t, PollAuthenticated, res)
	require.Equal(t, StateAuthenticated, m.State())
	require.Equal(t, "fresh-token", m.Session().Token)

	// the fresh token replaced the rejected record on disk
	saved, ok := cache.Load()
	require.True(t, ok)
	require.Equal(t, "fresh-token", saved.Token)
	require.True(t, Valid(saved, time.Now()))
}

func TestPollTerminalFailure(t *testing.T) {
	gw := &stubGateway{
		checkResults: []stubCheck{
			{code: 2, msg: "二维码已过期"},
		},
	}
	m, _ := newTestManager(t, gw)

	_, err := m.Start(context.Background())
	require.NoError(t, err)

	_, err = m.Poll(context.Background())
	require.ErrorIs(t, err, ErrLoginFailed)
	require.ErrorContains(t, err, "二维码已过期")
	require.Equal(t, StateLoginFailed, m.State())
}

func TestSeededCredentialsActLikeCacheHit(t *testing.T) {
	gw := &stubGateway{}
	m, _ := newTestManager(t, gw)
	m.Seed("env-token", "env-imprint")

	ticket, err := m.Start(context.Background())
	require.NoError(t, err)
	require.Equal(t, Ticket{}, ticket)
	require.Equal(t, StateAuthenticated, m.State())
	require.Equal(t, Session{Token: "env-token", Imprint: "env-imprint"}, m.Session())
}

func TestPollOutsidePollingState(t *testing.T) {
	gw := &stubGateway{}
	m, _ := newTestManager(t, gw)

	_, err := m.Poll(context.Background())
	require.Error(t, err)
}
