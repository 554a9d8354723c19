package draft

import (
	"fmt"
	"sync"
)

// ProfileFields are the editable profile attributes, in form order.
var ProfileFields = []string{"first_name", "last_name", "phone", "address", "city", "country", "postal_code"}

// Profile remembers the last fetched profile so an update can send back
// the fields the operator leaves untouched.
type Profile struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewProfile() *Profile {
	return &Profile{values: map[string]string{}}
}

// Remember replaces the stored profile with the known fields of user.
// Missing or null attributes are stored as empty strings.
func (p *Profile) Remember(user map[string]any) {
	next := make(map[string]string, len(ProfileFields))
	for _, name := range ProfileFields {
		switch v := user[name].(type) {
		case nil:
			next[name] = ""
		case string:
			next[name] = v
		default:
			next[name] = fmt.Sprint(v)
		}
	}
	p.mu.Lock()
	p.values = next
	p.mu.Unlock()
}

// Fields returns a copy of the stored values. Empty when nothing was fetched.
func (p *Profile) Fields() map[string]string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make(map[string]string, len(p.values))
	for k, v := range p.values {
		out[k] = v
	}
	return out
}

// Load restores previously persisted values, ignoring unknown names.
func (p *Profile) Load(values map[string]string) {
	next := map[string]string{}
	for _, name := range ProfileFields {
		if v, ok := values[name]; ok {
			next[name] = v
		}
	}
	p.mu.Lock()
	p.values = next
	p.mu.Unlock()
}
