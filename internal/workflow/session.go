package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Veraticus/bon-scanner/internal/common"
	"github.com/Veraticus/bon-scanner/internal/engine"
	"github.com/Veraticus/bon-scanner/internal/model"
	"github.com/Veraticus/bon-scanner/internal/service"
)

// DefaultOcrTimeout bounds a single recognition.
const DefaultOcrTimeout = 2 * time.Minute

// ImportSource lists receipt images that have not been committed yet.
type ImportSource interface {
	List(ctx context.Context) ([]string, error)
	Path(name string) string
}

// Session owns all mutable workflow state. It is driven by one event loop and
// is not safe for concurrent use.
type Session struct {
	lastError  error
	store      service.Storage
	imports    ImportSource
	engine     *engine.Engine
	logger     *slog.Logger
	pending    *pendingOcr
	id         string
	ocrFile    string
	buffer     string
	receipts   []model.Receipt
	importList []string
	ocrLines   []model.OcrLine
	blacklist  []string
	categories []model.Category
	draft      model.ReceiptDraft
	ocrTimeout time.Duration
	nextOcrID  uint64
	state      State

	receiptCursor  int
	importCursor   int
	ocrCursor      int
	itemCursor     int
	categoryCursor int
}

// Option configures a Session.
type Option func(*Session)

// WithOcrTimeout overrides DefaultOcrTimeout.
func WithOcrTimeout(timeout time.Duration) Option {
	return func(s *Session) {
		if timeout > 0 {
			s.ocrTimeout = timeout
		}
	}
}

// WithEngine overrides the default conversion engine.
func WithEngine(e *engine.Engine) Option {
	return func(s *Session) {
		if e != nil {
			s.engine = e
		}
	}
}

// New creates a session on the Home screen with receipts and the blacklist loaded.
func New(ctx context.Context, store service.Storage, imports ImportSource, opts ...Option) (*Session, error) {
	id := uuid.NewString()
	s := &Session{
		id:             id,
		store:          store,
		imports:        imports,
		engine:         engine.New(),
		logger:         slog.With("session", id),
		ocrTimeout:     DefaultOcrTimeout,
		state:          StateHome,
		receiptCursor:  -1,
		importCursor:   -1,
		ocrCursor:      -1,
		itemCursor:     -1,
		categoryCursor: -1,
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.Refresh(ctx); err != nil {
		return nil, err
	}

	blacklist, err := store.ListBlacklist(ctx)
	if err != nil {
		return nil, common.NewStorageError("load blacklist", err)
	}
	s.blacklist = blacklist

	s.logger.Debug("session started", "receipts", len(s.receipts), "blacklist", len(blacklist))
	return s, nil
}

// Refresh reloads the Home receipt list.
func (s *Session) Refresh(ctx context.Context) error {
	receipts, err := s.store.ListReceipts(ctx, service.ReceiptFilter{})
	if err != nil {
		return common.NewStorageError("load receipts", err)
	}
	s.receipts = receipts
	s.receiptCursor = clampCursor(s.receiptCursor, len(receipts))
	return nil
}

// SetBuffer replaces the edit buffer. The presentation layer calls it as the user types.
func (s *Session) SetBuffer(text string) {
	s.buffer = text
}

// Fire applies one trigger. Pairs of state and trigger without a transition are
// ignored. A non-nil OcrRequest must be executed by the caller and its outcome
// reported through CompleteOcr. Errors are also kept as LastError.
func (s *Session) Fire(ctx context.Context, trigger Trigger) (*OcrRequest, error) {
	s.lastError = nil
	from := s.state

	req, err := s.dispatch(ctx, trigger)
	if err != nil {
		s.lastError = err
		s.logger.Warn("transition failed",
			"state", from.String(),
			"trigger", trigger.String(),
			"error", err)
		return nil, err
	}

	if from != s.state {
		s.logger.Debug("transition",
			"from", from.String(),
			"to", s.state.String(),
			"trigger", trigger.String())
	}
	return req, nil
}

func (s *Session) dispatch(ctx context.Context, trigger Trigger) (*OcrRequest, error) {
	switch trigger {
	case NextItem:
		s.moveCursor(1)
		return nil, nil
	case PreviousItem:
		s.moveCursor(-1)
		return nil, nil
	}

	switch s.state {
	case StateHome:
		return nil, s.onHome(ctx, trigger)
	case StateImport:
		return s.onImport(ctx, trigger)
	case StateOcr:
		return nil, s.onOcr(ctx, trigger)
	case StateBlacklist:
		return nil, s.onBlacklist(ctx, trigger)
	case StateConvertBon:
		return nil, s.onConvertBon(ctx, trigger)
	case StateCategory:
		return nil, s.onCategory(trigger)
	case StateEditName, StateEditPrice, StateEditBonPrice:
		return nil, s.onEditDraft(trigger)
	case StateEditCategory:
		return nil, s.onEditCategory(ctx, trigger)
	default:
		return nil, fmt.Errorf("unknown workflow state %d", s.state)
	}
}

// Close cancels a recognition still in flight.
func (s *Session) Close() {
	s.cancelOcr()
}

// goHome discards everything belonging to the receipt being imported.
func (s *Session) goHome() {
	s.cancelOcr()
	s.ocrFile = ""
	s.ocrLines = nil
	s.ocrCursor = -1
	s.draft = model.ReceiptDraft{}
	s.itemCursor = -1
	s.buffer = ""
	s.state = StateHome
}
