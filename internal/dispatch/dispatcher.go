// Package dispatch maps named operations onto single HTTP calls against the
// commerce API. Each operation is a static descriptor carrying its
// authorization requirement, coercion schema and success side effect.
package dispatch

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
	"github.com/terraconstructs/shopctl/internal/draft"
	"github.com/terraconstructs/shopctl/internal/refs"
	"github.com/terraconstructs/shopctl/pkg/sdk"
)

// Doer issues one HTTP exchange. *sdk.Client satisfies it.
type Doer interface {
	Do(ctx context.Context, req sdk.Request) (*sdk.Response, error)
}

// SessionStore is the credential holder consulted and updated by dispatch.
type SessionStore interface {
	Credential() (sdk.Credentials, bool)
	SetCredential(ctx context.Context, token string, role sdk.Role) error
	ClearCredential(ctx context.Context) error
}

// EntityCache supplies default path identifiers and records new ones.
type EntityCache interface {
	Get(kind refs.Kind) (string, bool)
	RecordCreated(kind refs.Kind, id string) bool
	RecordFirstOfList(kind refs.Kind, ids []string) bool
}

// Deps are the collaborators of a Dispatcher. Order, Payment and Profile may
// be nil, in which case fresh drafts are used.
type Deps struct {
	Client  Doer
	Session SessionStore
	Refs    EntityCache
	Order   *draft.Order
	Payment *draft.Payment
	Profile *draft.Profile
	Logger  zerolog.Logger
}

// Dispatcher executes catalog operations.
type Dispatcher struct {
	client  Doer
	session SessionStore
	refs    EntityCache
	order   *draft.Order
	payment *draft.Payment
	profile *draft.Profile
	log     zerolog.Logger
}

func New(deps Deps) *Dispatcher {
	d := &Dispatcher{
		client:  deps.Client,
		session: deps.Session,
		refs:    deps.Refs,
		order:   deps.Order,
		payment: deps.Payment,
		profile: deps.Profile,
		log:     deps.Logger,
	}
	if d.order == nil {
		d.order = draft.NewOrder()
	}
	if d.payment == nil {
		d.payment = draft.NewPayment()
	}
	if d.profile == nil {
		d.profile = draft.NewProfile()
	}
	return d
}

// Input carries operator-supplied values for one dispatch.
type Input struct {
	// ID overrides the cached identifier for operations with a path id.
	ID string
	// Fields holds raw form values keyed by field name. Absent names take
	// the field default (or are omitted for partial operations).
	Fields map[string]string
}

// Result describes a completed operation.
type Result struct {
	Operation  string
	Method     string
	Path       string
	StatusCode int
	RequestID  string
	Body       []byte
	// Effects lists the session and cache changes applied, for display.
	Effects []string
	// Warnings lists side effects that could not be applied. The call itself
	// still succeeded.
	Warnings []string
}

// Permitted reports whether the current session satisfies the requirement of
// the named operation.
func (d *Dispatcher) Permitted(name string) (bool, error) {
	op, ok := Lookup(name)
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownOperation, name)
	}
	return Authorize(op.Requirement, d.authContext()), nil
}

// Dispatch runs the named operation. A failed authorization check returns
// *AuthorizationDeniedError without touching the network; transport and
// HTTP failures are returned as *sdk.TransportError and *sdk.ServerError and
// leave the session and cache unchanged.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, in Input) (*Result, error) {
	op, ok := Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownOperation, name)
	}

	ac := d.authContext()
	if !Authorize(op.Requirement, ac) {
		d.log.Debug().Str("operation", op.Name).Stringer("context", ac).Msg("authorization denied")
		return nil, &AuthorizationDeniedError{Operation: op.Name, Requirement: op.Requirement, Context: ac}
	}

	if op.Local {
		return d.runLocal(ctx, op), nil
	}

	req := d.buildRequest(op, in)
	if creds, present := d.session.Credential(); present {
		req.Token = creds.Token
	}

	resp, err := d.client.Do(ctx, req)
	if err != nil {
		d.log.Debug().Err(err).Str("operation", op.Name).Str("method", req.Method).Str("path", req.Path).Msg("operation failed")
		return nil, err
	}

	res := &Result{
		Operation:  op.Name,
		Method:     req.Method,
		Path:       req.Path,
		StatusCode: resp.StatusCode,
		RequestID:  resp.RequestID,
		Body:       resp.Body,
	}
	d.applyEffect(ctx, op, resp.Body, res)

	d.log.Debug().
		Str("operation", op.Name).
		Str("method", req.Method).
		Str("path", req.Path).
		Int("status", resp.StatusCode).
		Str("request_id", resp.RequestID).
		Msg("operation completed")
	return res, nil
}

func (d *Dispatcher) authContext() AuthContext {
	return NewAuthContext(d.session.Credential())
}

func (d *Dispatcher) runLocal(ctx context.Context, op Operation) *Result {
	res := &Result{Operation: op.Name}
	if op.Effect == EffectClearCredential {
		if err := d.session.ClearCredential(ctx); err != nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("stored session not removed: %v", err))
		}
		res.Effects = append(res.Effects, "session cleared")
	}
	return res
}

func (d *Dispatcher) buildRequest(op Operation, in Input) sdk.Request {
	req := sdk.Request{Method: op.Method, Path: d.resolvePath(op, in.ID)}

	fields := in.Fields
	switch op.Draft {
	case DraftPayment:
		fields = mergeDefaults(d.payment.Fields(), in.Fields)
	}

	body, query := shape(op.Fields, fields, op.Partial)
	for k, v := range op.Extras {
		body[k] = cloneExtra(v)
	}
	if op.Draft == DraftOrderItems {
		body["items"] = d.order.Items()
	}
	if len(query) > 0 {
		req.Query = query
	}
	if op.sendsBody() {
		req.Body = body
	}
	return req
}

// resolvePath substitutes {id}. Explicit input wins over the cached slot; a
// miss yields an empty segment, which the server rejects.
func (d *Dispatcher) resolvePath(op Operation, explicit string) string {
	if !op.HasPathID() {
		return op.Path
	}
	id := strings.TrimSpace(explicit)
	if id == "" {
		id, _ = d.refs.Get(op.PathKind)
	}
	return strings.Replace(op.Path, "{id}", url.PathEscape(id), 1)
}

// mergeDefaults overlays input on non-empty draft values.
func mergeDefaults(defaults, input map[string]string) map[string]string {
	out := make(map[string]string, len(defaults)+len(input))
	for k, v := range defaults {
		if v != "" {
			out[k] = v
		}
	}
	for k, v := range input {
		out[k] = v
	}
	return out
}

// cloneExtra copies static container values so request bodies never share
// the catalog's maps.
func cloneExtra(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = cloneExtra(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneExtra(e)
		}
		return out
	default:
		return v
	}
}
