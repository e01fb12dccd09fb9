package reviews

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/steward/internal/requests"
	"github.com/JaimeStill/steward/pkg/metrics"
)

// DefaultReviewer is recorded when a session is opened without a name.
const DefaultReviewer = "steward"

// Config controls decision notification and session retention.
type Config struct {
	NotifyTimeout time.Duration
	SessionTTL    time.Duration
}

// System defines the public contract for the review workflow.
type System interface {
	Handler() *Handler

	Open(reviewer string) *Session
	Session(id uuid.UUID) (*Session, error)
	Close(id uuid.UUID) error
}

// Option configures a controller.
type Option func(*controller)

// WithMetrics records decisions and notification failures on m.
func WithMetrics(m *metrics.Registry) Option {
	return func(c *controller) {
		c.deps.metrics = m
	}
}

// WithClock overrides the time source used for session expiry.
func WithClock(now func() time.Time) Option {
	return func(c *controller) {
		c.deps.now = now
	}
}

type controller struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
	ttl      time.Duration

	deps   *deps
	logger *slog.Logger
}

// New creates a review controller over store. Every decision is forwarded to notifier.
func New(store requests.System, notifier Notifier, cfg Config, logger *slog.Logger, opts ...Option) System {
	logger = logger.With("system", "reviews")
	c := &controller{
		sessions: make(map[uuid.UUID]*Session),
		ttl:      cfg.SessionTTL,
		deps: &deps{
			store:         store,
			notifier:      notifier,
			notifyTimeout: cfg.NotifyTimeout,
			now:           time.Now,
			logger:        logger,
		},
		logger: logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *controller) Handler() *Handler {
	return NewHandler(c, c.logger)
}

// Open starts a session in the Listing view and prunes expired sessions.
func (c *controller) Open(reviewer string) *Session {
	reviewer = strings.TrimSpace(reviewer)
	if reviewer == "" {
		reviewer = DefaultReviewer
	}

	s := newSession(reviewer, c.deps)

	c.mu.Lock()
	c.prune()
	c.sessions[s.id] = s
	c.mu.Unlock()

	c.logger.Info("session opened", "session", s.id, "reviewer", reviewer)
	return s
}

// Session looks up a live session. A lookup counts as activity, so a
// reviewer who only reads state does not expire.
func (c *controller) Session(id uuid.UUID) (*Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.prune()
	s, ok := c.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	s.touch()
	return s, nil
}

func (c *controller) Close(id uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(c.sessions, id)
	c.logger.Info("session closed", "session", id)
	return nil
}

// prune drops sessions idle longer than the TTL. Callers hold c.mu.
func (c *controller) prune() {
	if c.ttl <= 0 {
		return
	}
	cutoff := c.deps.now().Add(-c.ttl)
	for id, s := range c.sessions {
		if s.idleSince().Before(cutoff) {
			delete(c.sessions, id)
			c.logger.Debug("session expired", "session", id)
		}
	}
}
