package dispatch

import (
	"net/http"
	"sort"

	"github.com/terraconstructs/shopctl/internal/refs"
)

// Effect is the cache/session side effect applied after a successful call.
type Effect int

const (
	EffectNone Effect = iota
	// EffectSetCredential stores the token and role from the response.
	EffectSetCredential
	// EffectClearCredential makes the session anonymous.
	EffectClearCredential
	// EffectRecordCreated caches the id of the object under Envelope.
	EffectRecordCreated
	// EffectRecordFirstOfList caches the id of the first item under Envelope.
	EffectRecordFirstOfList
	// EffectRememberProfile stores the object under Envelope as the profile draft.
	EffectRememberProfile
)

// DraftSource names a draft whose contents feed the request.
type DraftSource int

const (
	DraftNone DraftSource = iota
	// DraftOrderItems sends the pending order's line items as "items".
	DraftOrderItems
	// DraftPayment uses the payment draft as defaults under operator input.
	DraftPayment
)

// Operation is the static descriptor of one named API action.
type Operation struct {
	Name    string
	Summary string
	Method  string
	// Path may contain a single "{id}" placeholder.
	Path string
	// PathKind is the cache slot supplying {id} when no explicit id is given.
	PathKind    refs.Kind
	Requirement Requirement
	Fields      []Field
	// Partial sends only the fields the operator supplied.
	Partial bool
	// Extras are static members merged into the body.
	Extras map[string]any
	Draft  DraftSource
	Effect Effect
	// Envelope is the response key holding the created object or listing.
	Envelope   string
	EffectKind refs.Kind
	// SeedsPayment links the payment draft to the created object's id.
	SeedsPayment bool
	// Local operations issue no HTTP request.
	Local bool
}

// HasPathID reports whether the path takes an identifier.
func (op Operation) HasPathID() bool {
	return op.PathKind != ""
}

// sendsBody reports whether the request carries a JSON body. Operations
// without body fields, extras or drafts send none.
func (op Operation) sendsBody() bool {
	if op.Method == http.MethodGet || op.Method == http.MethodDelete {
		return false
	}
	if len(op.Extras) > 0 || op.Draft != DraftNone {
		return true
	}
	for _, f := range op.Fields {
		if f.In == InBody {
			return true
		}
	}
	return false
}

// Lookup returns the catalog descriptor for name.
func Lookup(name string) (Operation, bool) {
	op, ok := catalogIndex[name]
	return op, ok
}

// Operations returns every descriptor sorted by name.
func Operations() []Operation {
	out := make([]Operation, 0, len(catalog))
	out = append(out, catalog...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

var catalogIndex = func() map[string]Operation {
	idx := make(map[string]Operation, len(catalog))
	for _, op := range catalog {
		if _, dup := idx[op.Name]; dup {
			panic("dispatch: duplicate operation " + op.Name)
		}
		idx[op.Name] = op
	}
	return idx
}()
