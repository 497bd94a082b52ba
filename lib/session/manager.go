package session

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"bjxgj-exporter/lib/timezone"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("session")

// the backend reports "not scanned yet" only through this literal
// status message. Any other non-success message is a terminal login
// failure. This is brittle coupling to exact backend wording, but it
// is what the service actually sends.
const msgNotScanned = "未扫码"

const codeLoginSuccess = 1

var ErrLoginFailed = fmt.Errorf("login failed")

type State int

const (
	StateUnauthenticated State = iota
	StateCacheValid
	StatePolling
	StateAuthenticated
	StateLoginFailed
)

func (s State) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateCacheValid:
		return "cache_valid"
	case StatePolling:
		return "polling"
	case StateAuthenticated:
		return "authenticated"
	case StateLoginFailed:
		return "login_failed"
	}
	return "unknown"
}

// Session is the in-memory token pair exposed to downstream calls once
// the manager reaches StateAuthenticated.
type Session struct {
	Token   string
	Imprint string
}

// Ticket is a pending QR login handed to the operator.
type Ticket struct {
	// the WeChat url to render as a QR code and print verbatim
	URL string
	// the backend's nonce for this login attempt, polling is keyed on it
	Random string
}

// Gateway is the slice of the backend the manager needs. It is consumed
// through an interface so the state machine can be driven by synthetic
// events in tests.
type Gateway interface {
	// any cheap authenticated endpoint, used to validate cached tokens
	Probe(ctx context.Context, token string) error
	CreateTicket(ctx context.Context) (Ticket, error)
	// one login-status poll keyed by the ticket nonce
	CheckLogin(ctx context.Context, random string) (code int, msg string, token string, err error)
}

type PollResult int

const (
	// the operator has not scanned the code yet, poll again later
	PollWaiting PollResult = iota
	PollAuthenticated
)

// Manager owns the authentication state machine. Polling is advanced by
// explicit Poll calls rather than a timer: the scan step has
// operator-controlled latency, so pacing is left to the operator.
type Manager struct {
	cache  Cache
	gw     Gateway
	state  State
	sess   Session
	ticket Ticket
	seeded Credentials
	now    func() time.Time
}

func NewManager(cache Cache, gw Gateway) *Manager {
	return &Manager{
		cache: cache,
		gw:    gw,
		state: StateUnauthenticated,
		now:   timezone.Now,
	}
}

func (m *Manager) State() State {
	return m.state
}

// Session returns the token pair. Only meaningful once State() is
// StateAuthenticated.
func (m *Manager) Session() Session {
	return m.sess
}

// Seed injects credentials from outside the cache (environment
// variables). They are treated exactly like a cache hit: tentatively
// adopted, then validated by the probe call.
func (m *Manager) Seed(token, imprint string) {
	m.seeded = Credentials{
		Token:    token,
		Imprint:  imprint,
		IssuedAt: m.now().UnixMilli(),
	}
}

// Start runs the cache-check phase. When a cached (or seeded) token
// passes the probe call the manager lands in StateAuthenticated and the
// returned Ticket is zero. Otherwise a QR login is initiated and the
// pending ticket is returned for the operator to scan, with the manager
// in StatePolling.
func (m *Manager) Start(ctx context.Context) (Ticket, error) {
	ctx, span := tracer.Start(ctx, "manager:Start")
	defer span.End()

	cred, ok := m.loadCandidate()
	if ok && Valid(cred, m.now()) {
		m.sess = Session{Token: cred.Token, Imprint: cred.Imprint}
		m.state = StateCacheValid

		err := m.gw.Probe(ctx, cred.Token)
		if err == nil {
			m.state = StateAuthenticated
			slog.Info("reusing cached session")
			return Ticket{}, nil
		}
		// not an operator-facing error, the login flow covers for it
		slog.Info("cached session rejected by backend, falling back to QR login", "err", err)
		m.sess = Session{}
	}

	ticket, err := m.gw.CreateTicket(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to create login ticket")
		return Ticket{}, err
	}
	m.ticket = ticket
	m.state = StatePolling
	return ticket, nil
}

func (m *Manager) loadCandidate() (Credentials, bool) {
	if m.seeded.Token != "" {
		return m.seeded, true
	}
	return m.cache.Load()
}

// Poll performs one login-status check. It must only be called in
// StatePolling, one call per operator-triggered attempt.
func (m *Manager) Poll(ctx context.Context) (PollResult, error) {
	ctx, span := tracer.Start(ctx, "manager:Poll")
	defer span.End()

	if m.state != StatePolling {
		return PollWaiting, fmt.Errorf("poll called in state %s", m.state)
	}

	code, msg, token, err := m.gw.CheckLogin(ctx, m.ticket.Random)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "login status check failed")
		return PollWaiting, err
	}

	switch {
	case code == codeLoginSuccess:
		m.sess = Session{Token: token, Imprint: m.sess.Imprint}
		m.state = StateAuthenticated

		err := m.cache.Save(Credentials{
			Token:    token,
			Imprint:  m.sess.Imprint,
			IssuedAt: m.now().UnixMilli(),
		})
		if err != nil {
			slog.Warn("failed to persist session, next run will need a fresh login", "err", err)
		}
		return PollAuthenticated, nil

	case msg == msgNotScanned:
		return PollWaiting, nil

	default:
		m.state = StateLoginFailed
		span.SetStatus(codes.Error, "terminal login failure")
		return PollWaiting, fmt.Errorf("%w: %s", ErrLoginFailed, msg)
	}
}
