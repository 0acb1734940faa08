package voice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/vyapaari/collect-backend/internal/payments"
	"github.com/vyapaari/collect-backend/pkg/config"
	"github.com/vyapaari/collect-backend/pkg/enums"
	pkgerrors "github.com/vyapaari/collect-backend/pkg/errors"
	"github.com/vyapaari/collect-backend/pkg/logger"
)

// sessionStore is the slice of the redis client session tracking needs.
type sessionStore interface {
	Get(ctx context.Context, key string) (string, error)
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	VoiceSessionKey(sessionID string) string
}

// paymentCreator is the slice of the payment service spoken commands drive.
type paymentCreator interface {
	Create(ctx context.Context, input payments.CreatePaymentInput) (*payments.PaymentResult, error)
}

// Session is one single-shot voice capture. It is born Listening and moves
// to Idle exactly once, on result delivery or explicit stop.
type Session struct {
	ID        uuid.UUID        `json:"id"`
	State     enums.VoiceState `json:"state"`
	StartedAt time.Time        `json:"started_at"`
}

// ResultInput carries the final transcript plus the vendor the spoken
// command collects for.
type ResultInput struct {
	Transcript string
	VendorID   uuid.UUID
}

// Result pairs the final session state with the interpreted command and the
// payment requests it triggered.
type Result struct {
	Session  Session                  `json:"session"`
	Command  Command                  `json:"command"`
	Payments []payments.PaymentResult `json:"payments,omitempty"`
}

// Service manages voice capture sessions and runs the payment flows a
// transcript asks for.
type Service interface {
	Start(ctx context.Context, id uuid.UUID) (*Session, error)
	Result(ctx context.Context, id uuid.UUID, input ResultInput) (*Result, error)
	Stop(ctx context.Context, id uuid.UUID) (*Session, error)
}

type service struct {
	store    sessionStore
	payments paymentCreator
	ttl      time.Duration
	logg     *logger.Logger
}

// NewService wires a voice session service.
func NewService(store sessionStore, creator paymentCreator, cfg config.VoiceConfig, logg *logger.Logger) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("session store required")
	}
	if creator == nil {
		return nil, fmt.Errorf("payment creator required")
	}
	if cfg.SessionTTL <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{store: store, payments: creator, ttl: cfg.SessionTTL, logg: logg}, nil
}

// Start opens a listening session. Clients may supply their own id so a
// retried start is detected; a nil id gets a generated one.
func (s *service) Start(ctx context.Context, id uuid.UUID) (*Session, error) {
	if id == uuid.Nil {
		id = uuid.New()
	}
	session := Session{
		ID:        id,
		State:     enums.VoiceStateListening,
		StartedAt: time.Now().UTC(),
	}

	payload, err := json.Marshal(session)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding voice session")
	}

	ok, err := s.store.SetNX(ctx, s.store.VoiceSessionKey(session.ID.String()), string(payload), s.ttl)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "storing voice session")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "voice session already started")
	}

	ctx = s.logg.WithVoiceSessionID(ctx, session.ID.String())
	s.logg.Info(ctx, "voice session listening")
	return &session, nil
}

// Result interprets the transcript and executes the payment flows it names,
// QR before cash when both appear. The session is spent either way.
func (s *service) Result(ctx context.Context, id uuid.UUID, input ResultInput) (*Result, error) {
	session, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.State != enums.VoiceStateListening {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "voice session is not listening")
	}

	cmd := Interpret(input.Transcript)
	executable := cmd.Amount != "" && len(cmd.Actions) > 0
	if executable && input.VendorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor id is required to execute a spoken command")
	}

	session.State = enums.VoiceStateIdle
	if err := s.save(ctx, session); err != nil {
		return nil, err
	}

	ctx = s.logg.WithVoiceSessionID(ctx, id.String())
	ctx = s.logg.WithFields(ctx, map[string]any{
		"amount":  cmd.Amount,
		"actions": len(cmd.Actions),
	})
	s.logg.Info(ctx, "voice transcript interpreted")

	result := &Result{Session: *session, Command: cmd}
	if !executable {
		return result, nil
	}

	for _, action := range cmd.Actions {
		created, err := s.payments.Create(ctx, payments.CreatePaymentInput{
			VendorID: input.VendorID,
			Amount:   cmd.Amount,
			Channel:  channelFor(action),
		})
		if err != nil {
			return nil, err
		}
		result.Payments = append(result.Payments, *created)
	}
	s.logg.Info(ctx, "spoken command executed")
	return result, nil
}

// Stop is idempotent: stopping an already idle session reports the idle
// state instead of failing.
func (s *service) Stop(ctx context.Context, id uuid.UUID) (*Session, error) {
	session, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.State == enums.VoiceStateIdle {
		return session, nil
	}

	session.State = enums.VoiceStateIdle
	if err := s.save(ctx, session); err != nil {
		return nil, err
	}

	ctx = s.logg.WithVoiceSessionID(ctx, id.String())
	s.logg.Info(ctx, "voice session stopped")
	return session, nil
}

func channelFor(action Action) enums.Channel {
	if action == ActionRecordCash {
		return enums.ChannelCash
	}
	return enums.ChannelQR
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*Session, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}

	raw, err := s.store.Get(ctx, s.store.VoiceSessionKey(id.String()))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "voice session not found or expired")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading voice session")
	}

	var session Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decoding voice session")
	}
	return &session, nil
}

func (s *service) save(ctx context.Context, session *Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding voice session")
	}
	if err := s.store.Set(ctx, s.store.VoiceSessionKey(session.ID.String()), string(payload), s.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "storing voice session")
	}
	return nil
}
