package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"bybud-web/internal/domain"
	"bybud-web/internal/logx"
)

// RecordKey is the fixed name the session record is stored under.
const RecordKey = "userData"

// publisher is implemented by backends that distribute changes themselves,
// so that other processes sharing the backend see them too.
type publisher interface {
	Publish(ctx context.Context, c Change) error
}

// Store reads and writes the session record of a session id.
type Store struct {
	backend  Backend
	notifier *Notifier
	logger   logx.Logger
	changes  *prometheus.CounterVec
}

// NewStore builds a Store. changes may be nil.
func NewStore(backend Backend, notifier *Notifier, logger logx.Logger, changes *prometheus.CounterVec) *Store {
	if notifier == nil {
		notifier = NewNotifier()
	}
	if logger == nil {
		logger = logx.Nop()
	}
	return &Store{backend: backend, notifier: notifier, logger: logger, changes: changes}
}

// Key is the backend key of sid's record.
func Key(sid string) string {
	return sid + ":" + RecordKey
}

// Read returns the stored record. It never fails: a missing, unreadable or
// malformed record reads as absent.
func (s *Store) Read(ctx context.Context, sid string) (domain.Session, bool) {
	if sid == "" {
		return domain.Session{}, false
	}
	raw, ok, err := s.backend.Load(ctx, Key(sid))
	if err != nil {
		s.logger.Warn("session load failed", logx.String("key", RecordKey), logx.Err(err))
		return domain.Session{}, false
	}
	if !ok || raw == "" {
		return domain.Session{}, false
	}
	var rec domain.Session
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		s.logger.Warn("session record unreadable", logx.String("key", RecordKey), logx.Err(err))
		return domain.Session{}, false
	}
	return rec, true
}

// Write replaces sid's record and notifies subscribers.
func (s *Store) Write(ctx context.Context, sid string, rec domain.Session) error {
	if sid == "" {
		return fmt.Errorf("session write: empty session id")
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("session write: encode: %w", err)
	}
	if err := s.backend.Save(ctx, Key(sid), string(raw)); err != nil {
		return fmt.Errorf("session write: %w", err)
	}
	s.emit(ctx, Change{SessionID: sid, Key: RecordKey, Kind: ChangeWrite})
	return nil
}

// Clear removes sid's record entirely and notifies subscribers.
func (s *Store) Clear(ctx context.Context, sid string) error {
	if sid == "" {
		return nil
	}
	if err := s.backend.Delete(ctx, Key(sid)); err != nil {
		return fmt.Errorf("session clear: %w", err)
	}
	s.emit(ctx, Change{SessionID: sid, Key: RecordKey, Kind: ChangeClear})
	return nil
}

// Subscribe streams changes to sid's record.
func (s *Store) Subscribe(sid string) (<-chan Change, func()) {
	return s.notifier.Subscribe(sid)
}

func (s *Store) emit(ctx context.Context, c Change) {
	if s.changes != nil {
		s.changes.WithLabelValues(string(c.Kind)).Inc()
	}
	if p, ok := s.backend.(publisher); ok {
		err := p.Publish(ctx, c)
		if err == nil {
			return
		}
		s.logger.Warn("session change publish failed, notifying locally", logx.Err(err))
	}
	s.notifier.Publish(c)
}
