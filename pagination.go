package collex

import "fmt"

// Reserved pagination edge ids. Custom ids are arbitrary strings;
// namespace collisions with these are the caller's responsibility.
const (
	EdgeLeading  = "leading"
	EdgeTrailing = "trailing"
	EdgeTop      = "top"
	EdgeBottom   = "bottom"
	EdgeLeft     = "left"
	EdgeRight    = "right"
)

// EdgeStatus is an EdgeState's position in its idle/loading/error/exhausted
// state machine.
type EdgeStatus int

const (
	Idle EdgeStatus = iota
	Loading
	ErrorStatus
	Exhausted
)

// String returns a one-word rendering of s.
func (s EdgeStatus) String() string {
	switch s {
	case Loading:
		return "loading"
	case ErrorStatus:
		return "error"
	case Exhausted:
		return "exhausted"
	default:
		return "idle"
	}
}

// PageTokenKind distinguishes the tagged variants of PageToken.
type PageTokenKind int

const (
	TokenEmpty PageTokenKind = iota
	TokenEnd
	TokenOffset
	TokenCursor
)

func (k PageTokenKind) String() string {
	switch k {
	case TokenEnd:
		return "end"
	case TokenOffset:
		return "offset"
	case TokenCursor:
		return "cursor"
	default:
		return "empty"
	}
}

// PageToken is the tagged load-cursor variant: empty (not yet loaded), end
// (exhausted), offset(n, total?), or cursor(string).
type PageToken struct {
	Kind   PageTokenKind
	Offset int
	Total  *int
	Cursor string
}

// EmptyToken is the not-yet-loaded token.
func EmptyToken() PageToken { return PageToken{Kind: TokenEmpty} }

// EndToken is the exhausted token.
func EndToken() PageToken { return PageToken{Kind: TokenEnd} }

// OffsetToken builds an offset(n, total?) token.
func OffsetToken(n int, total *int) PageToken {
	return PageToken{Kind: TokenOffset, Offset: n, Total: total}
}

// CursorToken builds a cursor(s) token.
func CursorToken(s string) PageToken {
	return PageToken{Kind: TokenCursor, Cursor: s}
}

// HasMore reports whether this token implies more data may be fetched.
// empty and offset/cursor tokens all imply "maybe more"; only end does not.
func (t PageToken) HasMore() bool { return t.Kind != TokenEnd }

// EdgeState is one id's position in the pagination state machine: its
// status, current token, last error (if any), and retry count.
type EdgeState struct {
	Status     EdgeStatus
	Token      PageToken
	Err        string
	RetryCount int
}

// PaginationState owns per-edge load-cursor state machines plus
// pre-load hints. All mutators notify exactly once unless documented
// otherwise.
type PaginationState struct {
	ChangeEmitter

	edges map[string]*EdgeState
	hints map[string]bool
}

// NewPaginationState constructs an empty PaginationState.
func NewPaginationState() *PaginationState {
	return &PaginationState{
		edges: make(map[string]*EdgeState),
		hints: make(map[string]bool),
	}
}

// AddEdge registers id with the empty token and idle status, if not already
// registered.
func (p *PaginationState) AddEdge(id string) {
	if _, exists := p.edges[id]; exists {
		return
	}
	p.edges[id] = &EdgeState{Status: Idle, Token: EmptyToken()}
	p.Notify()
}

// RemoveEdge deregisters id entirely, clearing its hint too.
func (p *PaginationState) RemoveEdge(id string) {
	if _, exists := p.edges[id]; !exists {
		return
	}
	delete(p.edges, id)
	delete(p.hints, id)
	p.Notify()
}

// SetHint records that more data may exist for id, before any real load.
func (p *PaginationState) SetHint(id string, hasMore bool) {
	p.hints[id] = hasMore
	p.Notify()
}

// ClearHint removes id's hint.
func (p *PaginationState) ClearHint(id string) {
	if _, exists := p.hints[id]; !exists {
		return
	}
	delete(p.hints, id)
	p.Notify()
}

// HasHint reports whether id has a recorded hint.
func (p *PaginationState) HasHint(id string) bool {
	_, ok := p.hints[id]
	return ok
}

// GetHint returns id's recorded hint value (false if none recorded).
func (p *PaginationState) GetHint(id string) bool { return p.hints[id] }

func (p *PaginationState) ensure(id string) *EdgeState {
	e, ok := p.edges[id]
	if !ok {
		e = &EdgeState{Status: Idle, Token: EmptyToken()}
		p.edges[id] = e
	}
	return e
}

// StartLoading transitions id from idle/error to loading. Auto-registers id
// if unknown. Returns false (state unchanged) if id is already loading or
// exhausted; only Reset leaves the exhausted state.
func (p *PaginationState) StartLoading(id string) bool {
	e := p.ensure(id)
	if e.Status == Loading || e.Status == Exhausted {
		return false
	}
	e.Status = Loading
	p.Notify()
	return true
}

// Complete transitions a loading edge back to idle (storing nextToken) or
// to exhausted (if nextToken is absent or End). Unregistered ids are a
// no-op without notifying.
//
// Complete rejects two situations rather than silently applying them:
// called on an edge that isn't currently loading returns a
// PaginationStateMismatchError, and a nextToken whose kind conflicts with
// the token kind the edge already committed to (offset vs cursor) returns
// an InvalidTokenError. Both are returned without mutating state or
// notifying; the edge is left exactly as it was.
func (p *PaginationState) Complete(id string, nextToken *PageToken) error {
	e, ok := p.edges[id]
	if !ok {
		return nil
	}
	if e.Status != Loading {
		return &PaginationStateMismatchError{EdgeID: id, Expected: Loading, Actual: e.Status}
	}
	if nextToken != nil && nextToken.Kind != TokenEnd &&
		e.Token.Kind != TokenEmpty && e.Token.Kind != TokenEnd &&
		nextToken.Kind != e.Token.Kind {
		return &InvalidTokenError{
			EdgeID: id,
			Reason: fmt.Sprintf("edge is committed to %s tokens, got %s", e.Token.Kind, nextToken.Kind),
		}
	}
	if nextToken == nil || nextToken.Kind == TokenEnd {
		e.Status = Exhausted
		e.Token = EndToken()
		delete(p.hints, id)
		p.Notify()
		return nil
	}
	e.Status = Idle
	e.Token = *nextToken
	e.Err = ""
	p.Notify()
	return nil
}

// Fail transitions a (typically loading) edge to error, storing the opaque
// error payload and incrementing retry_count. Unregistered ids are a no-op.
func (p *PaginationState) Fail(id string, errPayload string) {
	e, ok := p.edges[id]
	if !ok {
		return
	}
	e.Status = ErrorStatus
	e.Err = errPayload
	e.RetryCount++
	p.Notify()
}

// Reset returns id to idle with the empty token. When keepHint is false,
// the hint is also cleared. Unregistered ids are auto-registered.
func (p *PaginationState) Reset(id string, keepHint bool) {
	e := p.ensure(id)
	e.Status = Idle
	e.Token = EmptyToken()
	e.Err = ""
	e.RetryCount = 0
	if !keepHint {
		delete(p.hints, id)
	}
	p.Notify()
}

// ResetAll resets every registered edge, notifying once.
func (p *PaginationState) ResetAll(keepHints bool) {
	for id, e := range p.edges {
		e.Status = Idle
		e.Token = EmptyToken()
		e.Err = ""
		e.RetryCount = 0
		if !keepHints {
			delete(p.hints, id)
		}
	}
	p.Notify()
}

// Unregister fully removes id (equivalent to RemoveEdge).
func (p *PaginationState) Unregister(id string) { p.RemoveEdge(id) }

// ---- Queries ----

// CanLoad reports whether id is eligible to start a new load: status is
// idle or error, and its token implies more data may exist.
func (p *PaginationState) CanLoad(id string) bool {
	e, ok := p.edges[id]
	if !ok {
		return true // unregistered ids are implicitly loadable (auto-register on StartLoading)
	}
	return (e.Status == Idle || e.Status == ErrorStatus) && e.Token.HasMore()
}

// IsLoading reports whether id is currently loading.
func (p *PaginationState) IsLoading(id string) bool {
	e, ok := p.edges[id]
	return ok && e.Status == Loading
}

// IsExhausted reports whether id has reached the end token.
func (p *PaginationState) IsExhausted(id string) bool {
	e, ok := p.edges[id]
	return ok && e.Status == Exhausted
}

// HasError reports whether id is currently in the error state.
func (p *PaginationState) HasError(id string) bool {
	e, ok := p.edges[id]
	return ok && e.Status == ErrorStatus
}

// GetError returns id's stored error payload.
func (p *PaginationState) GetError(id string) string {
	if e, ok := p.edges[id]; ok {
		return e.Err
	}
	return ""
}

// GetToken returns id's current token.
func (p *PaginationState) GetToken(id string) PageToken {
	if e, ok := p.edges[id]; ok {
		return e.Token
	}
	return EmptyToken()
}

// GetState returns a copy of id's full EdgeState.
func (p *PaginationState) GetState(id string) (EdgeState, bool) {
	e, ok := p.edges[id]
	if !ok {
		return EdgeState{}, false
	}
	return *e, true
}

// IsRegistered reports whether id has been added.
func (p *PaginationState) IsRegistered(id string) bool {
	_, ok := p.edges[id]
	return ok
}

// LoadableIDs returns every registered id currently eligible to load.
func (p *PaginationState) LoadableIDs() []string {
	var out []string
	for id := range p.edges {
		if p.CanLoad(id) {
			out = append(out, id)
		}
	}
	return out
}

// HintedIDs returns every id with a recorded hint of true.
func (p *PaginationState) HintedIDs() []string {
	var out []string
	for id, hint := range p.hints {
		if hint {
			out = append(out, id)
		}
	}
	return out
}

// IsAllExhausted reports whether every registered edge is exhausted. An
// empty registry is vacuously true.
func (p *PaginationState) IsAllExhausted() bool {
	for _, e := range p.edges {
		if e.Status != Exhausted {
			return false
		}
	}
	return true
}

// IsAnyLoading reports whether at least one registered edge is loading.
func (p *PaginationState) IsAnyLoading() bool {
	for _, e := range p.edges {
		if e.Status == Loading {
			return true
		}
	}
	return false
}

// ---- Snapshot ----

// PaginationSnapshot captures offset-based edges only; cursor tokens are
// skipped on capture (documented loss).
type PaginationSnapshot struct {
	Offsets map[string]int `json:"offsets"`
}

// CaptureState returns a PaginationSnapshot of every edge whose token is an
// offset token.
func (p *PaginationState) CaptureState() PaginationSnapshot {
	offsets := make(map[string]int)
	for id, e := range p.edges {
		if e.Token.Kind == TokenOffset {
			offsets[id] = e.Token.Offset
		}
	}
	return PaginationSnapshot{Offsets: offsets}
}

// RestoreState sets every mentioned id's token to offset(n) (idle status)
// and resets every other registered id to empty, notifying once.
func (p *PaginationState) RestoreState(snap PaginationSnapshot) {
	mentioned := make(map[string]bool, len(snap.Offsets))
	for id, n := range snap.Offsets {
		mentioned[id] = true
		e := p.ensure(id)
		e.Status = Idle
		e.Token = OffsetToken(n, nil)
		e.Err = ""
		e.RetryCount = 0
	}
	for id, e := range p.edges {
		if !mentioned[id] {
			e.Status = Idle
			e.Token = EmptyToken()
			e.Err = ""
			e.RetryCount = 0
		}
	}
	p.Notify()
}
