package content

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"luminashare/fhe"
)

var (
	// ErrNotFound is returned when the requested content id was never
	// registered.
	ErrNotFound = errors.New("content engine: content not found")
	// ErrTitleRequired is returned when a registration carries an empty title.
	ErrTitleRequired = errors.New("content engine: title cannot be empty")
	// ErrInactive is returned by callers that require the content to be live.
	ErrInactive = errors.New("content engine: content is inactive")
	// ErrInvalidContentType is returned for enum values outside the supported
	// range.
	ErrInvalidContentType = errors.New("content engine: invalid content type")
	// ErrInvalidAccessType is returned for enum values outside the supported
	// range.
	ErrInvalidAccessType = errors.New("content engine: invalid access type")

	errNilState  = errors.New("content engine: state not configured")
	errNilEngine = errors.New("content engine: fhe engine not configured")
)

type engineState interface {
	ContentGet(id uint64) (*Content, bool, error)
	ContentPut(content *Content) error
	ContentCount() (uint64, error)
	ContentSetCount(count uint64) error
	CreatorContentIndex(creator [20]byte) ([]uint64, error)
	CreatorContentAppend(creator [20]byte, id uint64) error
}

// Engine owns the content registry: sequential ids, immutable terms and the
// creator membership index.
type Engine struct {
	state engineState
	fhe   fhe.Engine
	scope [20]byte
	nowFn func() int64
}

// NewEngine constructs a content engine with default dependencies.
func NewEngine() *Engine {
	return &Engine{
		nowFn: func() int64 {
			return time.Now().Unix()
		},
	}
}

// SetState configures the state backend used by the engine.
func (e *Engine) SetState(state engineState) { e.state = state }

// SetFHE configures the confidential-computation engine and the scope address
// input handles must be bound to.
func (e *Engine) SetFHE(engine fhe.Engine, scope [20]byte) {
	e.fhe = engine
	e.scope = scope
}

// SetNowFunc overrides the time source used for deterministic testing.
func (e *Engine) SetNowFunc(now func() int64) {
	if now == nil {
		e.nowFn = func() int64 { return time.Now().Unix() }
		return
	}
	e.nowFn = now
}

func (e *Engine) now() int64 {
	if e == nil || e.nowFn == nil {
		return time.Now().Unix()
	}
	return e.nowFn()
}

// Register appends a new content record and returns it. The price handle must
// be bound to the creator within this registry's scope; earnings, view and tip
// counters start from the additive identity. Ids are sequential and never
// reused.
func (e *Engine) Register(creator [20]byte, title string, locator string, contentType ContentType, accessType AccessType, price fhe.Handle, priceProof []byte) (*Content, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	if e.fhe == nil {
		return nil, errNilEngine
	}
	if strings.TrimSpace(title) == "" {
		return nil, ErrTitleRequired
	}
	if !contentType.Valid() {
		return nil, ErrInvalidContentType
	}
	if !accessType.Valid() {
		return nil, ErrInvalidAccessType
	}
	if err := e.fhe.VerifyInput(price, priceProof, creator, e.scope); err != nil {
		return nil, fmt.Errorf("content engine: price input rejected: %w", err)
	}
	count, err := e.state.ContentCount()
	if err != nil {
		return nil, err
	}
	record := &Content{
		ID:          count,
		Creator:     creator,
		Title:       title,
		Locator:     strings.TrimSpace(locator),
		ContentType: contentType,
		AccessType:  accessType,
		Price:       price,
		CreatedAt:   e.now(),
		Active:      true,
	}
	if err := e.state.ContentPut(record); err != nil {
		return nil, err
	}
	if err := e.state.ContentSetCount(count + 1); err != nil {
		return nil, err
	}
	if err := e.state.CreatorContentAppend(creator, record.ID); err != nil {
		return nil, err
	}
	return record.Clone(), nil
}

// Get returns the content record for the given id.
func (e *Engine) Get(id uint64) (*Content, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	record, ok, err := e.state.ContentGet(id)
	if err != nil {
		return nil, err
	}
	if !ok || record == nil {
		return nil, ErrNotFound
	}
	return record.Clone(), nil
}

// ListByCreator returns the creator's content ids in insertion order.
func (e *Engine) ListByCreator(creator [20]byte) ([]uint64, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	ids, err := e.state.CreatorContentIndex(creator)
	if err != nil {
		return nil, err
	}
	return append([]uint64(nil), ids...), nil
}

// Count returns the number of registered content records.
func (e *Engine) Count() (uint64, error) {
	if e == nil || e.state == nil {
		return 0, errNilState
	}
	return e.state.ContentCount()
}
