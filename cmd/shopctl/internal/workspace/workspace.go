// Package workspace persists per-directory shopctl context: the current
// entity references and the request drafts.
package workspace

import (
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"time"

	"github.com/terraconstructs/shopctl/internal/draft"
	"github.com/terraconstructs/shopctl/internal/refs"
)

const (
	// FileName is the default workspace file in the working directory.
	FileName = ".shopctl.json"
	// FileVersion is the current schema version.
	FileVersion = "1"
)

// File is the on-disk workspace.
type File struct {
	Version    string            `json:"version"`
	ServerURL  string            `json:"server_url,omitempty"`
	Refs       map[string]string `json:"refs"`
	OrderItems []draft.LineItem  `json:"order_items"`
	Payment    map[string]string `json:"payment,omitempty"`
	Profile    map[string]string `json:"profile,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// Validate checks the schema version and reference kinds.
func (f *File) Validate() error {
	if f.Version != FileVersion {
		return fmt.Errorf("unsupported workspace version: %s (expected %s)", f.Version, FileVersion)
	}
	for kind := range f.Refs {
		if _, err := refs.ParseKind(kind); err != nil {
			return err
		}
	}
	return nil
}

// State is the live, in-memory view a workspace file is loaded into and
// captured from.
type State struct {
	Refs    *refs.Cache
	Order   *draft.Order
	Payment *draft.Payment
	Profile *draft.Profile
}

// NewState returns empty state.
func NewState() *State {
	return &State{
		Refs:    refs.New(),
		Order:   draft.NewOrder(),
		Payment: draft.NewPayment(),
		Profile: draft.NewProfile(),
	}
}

// Apply loads f into s. It returns human-readable notes for anything that
// had to be dropped.
func (f *File) Apply(s *State) []string {
	var notes []string

	slots := make(map[refs.Kind]string, len(f.Refs))
	for k, v := range f.Refs {
		slots[refs.Kind(k)] = v
	}
	s.Refs.Restore(slots)

	if dropped := s.Order.Restore(f.OrderItems); dropped > 0 {
		notes = append(notes, fmt.Sprintf("dropped %d invalid order line(s)", dropped))
	}

	keys := make([]string, 0, len(f.Payment))
	for k := range f.Payment {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if !s.Payment.Set(k, f.Payment[k]) {
			notes = append(notes, fmt.Sprintf("ignored unknown payment field %q", k))
		}
	}

	if len(f.Profile) > 0 {
		s.Profile.Load(f.Profile)
	}
	return notes
}

// Capture snapshots s into a file body, keeping CreatedAt from prev when
// present.
func Capture(s *State, serverURL string, prev *File) *File {
	now := time.Now().UTC()
	f := &File{
		Version:    FileVersion,
		ServerURL:  serverURL,
		Refs:       map[string]string{},
		OrderItems: s.Order.Items(),
		Payment:    s.Payment.Fields(),
		Profile:    s.Profile.Fields(),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	for k, v := range s.Refs.Snapshot() {
		f.Refs[string(k)] = v
	}
	if prev != nil && !prev.CreatedAt.IsZero() {
		f.CreatedAt = prev.CreatedAt
	}
	return f
}

// SameContent reports whether f and o hold the same references, drafts and
// profile. Version, server and timestamps are not compared.
func (f *File) SameContent(o *File) bool {
	if f == nil || o == nil {
		return f == o
	}
	return maps.Equal(f.Refs, o.Refs) &&
		slices.Equal(f.OrderItems, o.OrderItems) &&
		maps.Equal(f.Payment, o.Payment) &&
		maps.Equal(f.Profile, o.Profile)
}

// Read loads the workspace at path.
// Returns nil, nil if the file doesn't exist.
// Returns nil, error if the file is corrupted or invalid.
func Read(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("corrupted %s (invalid JSON): %w", path, err)
	}
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", path, err)
	}
	return &f, nil
}

// Write stores f at path atomically using a temp file and rename.
func Write(path string, f *File) error {
	if err := f.Validate(); err != nil {
		return fmt.Errorf("invalid workspace: %w", err)
	}

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal workspace: %w", err)
	}
	data = append(data, '\n')

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename %s to %s: %w", tmpPath, path, err)
	}
	return nil
}
