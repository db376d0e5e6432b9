package clipboard

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/incurian/nexus3/internal/ioutil"
	"github.com/incurian/nexus3/internal/nexuserr"
)

// NowFunc returns the current wall-clock time in seconds. Tests may
// substitute a deterministic clock.
type NowFunc func() float64

// Manager coordinates storage, permissions, and scope resolution across the
// agent/project/system clipboard scopes, per spec §4.7.
type Manager struct {
	agentID     string
	cwd         string
	homeDir     string
	permissions Permissions
	now         NowFunc

	mu             sync.Mutex
	agentEntries   map[string]*Entry
	projectStorage *Storage
	systemStorage  *Storage
}

// ManagerOption configures a Manager at construction.
type ManagerOption func(*Manager)

// WithNowFunc overrides the wall-clock source (for deterministic tests).
func WithNowFunc(f NowFunc) ManagerOption {
	return func(m *Manager) { m.now = f }
}

// NewManager constructs a Manager for one agent session.
func NewManager(agentID, cwd, homeDir string, perms Permissions, opts ...ManagerOption) *Manager {
	m := &Manager{
		agentID:      agentID,
		cwd:          cwd,
		homeDir:      homeDir,
		permissions:  perms,
		agentEntries: make(map[string]*Entry),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.now == nil {
		m.now = defaultNow
	}
	return m
}

func (m *Manager) projectDBPath() string { return filepath.Join(m.cwd, ".nexus3", "clipboard.db") }
func (m *Manager) systemDBPath() string  { return filepath.Join(m.homeDir, ".nexus3", "clipboard.db") }

func (m *Manager) storageFor(scope Scope) (*Storage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch scope {
	case ScopeProject:
		if m.projectStorage == nil {
			s, err := OpenStorage(m.projectDBPath(), ScopeProject)
			if err != nil {
				return nil, err
			}
			m.projectStorage = s
		}
		return m.projectStorage, nil
	case ScopeSystem:
		if m.systemStorage == nil {
			s, err := OpenStorage(m.systemDBPath(), ScopeSystem)
			if err != nil {
				return nil, err
			}
			m.systemStorage = s
		}
		return m.systemStorage, nil
	default:
		return nil, fmt.Errorf("scope %q has no persistent storage", scope)
	}
}

// Close releases any open persistent storage connections.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var err error
	if m.projectStorage != nil {
		err = m.projectStorage.Close()
		m.projectStorage = nil
	}
	if m.systemStorage != nil {
		if e := m.systemStorage.Close(); e != nil {
			err = e
		}
		m.systemStorage = nil
	}
	return err
}

func (m *Manager) checkRead(scope Scope) error {
	if !m.permissions.CanRead(scope) {
		return fmt.Errorf("%w: No read permission for %s clipboard", nexuserr.ErrPermission, scope)
	}
	return nil
}

func (m *Manager) checkWrite(scope Scope) error {
	if !m.permissions.CanWrite(scope) {
		return fmt.Errorf("%w: No write permission for %s clipboard", nexuserr.ErrPermission, scope)
	}
	return nil
}

// validateSize enforces spec §3's hard/soft entry-size limits, returning a
// non-empty warning on the soft cap and an error on the hard cap.
func validateSize(content string) (warning string, err error) {
	size := len(content)
	if size > ioutil.ClipboardHardCapBytes {
		return "", fmt.Errorf("%w: content size (%d bytes) exceeds maximum (%d bytes)",
			nexuserr.ErrSize, size, ioutil.ClipboardHardCapBytes)
	}
	if size > ioutil.ClipboardSoftWarnBytes {
		return fmt.Sprintf("Warning: Large clipboard entry (%d bytes)", size), nil
	}
	return "", nil
}

// scopeDefaultTTL returns the scope's default TTL. Per spec §9's open
// question, this unconditionally returns "no default" — a host may wire a
// real policy by constructing entries with an explicit TTL instead.
func (m *Manager) scopeDefaultTTL(scope Scope) (seconds int64, ok bool) {
	return 0, false
}

func defaultNow() float64 { return float64(time.Now().UnixNano()) / 1e9 }

// CopyParams are the optional fields accepted by Copy.
type CopyParams struct {
	ShortDescription string
	SourcePath       string
	SourceLines      string
	Tags             []string
	TTLSeconds       *int64
}

// Copy creates a new entry in scope. Returns the created entry and an
// optional non-fatal size warning.
func (m *Manager) Copy(key string, content string, scope Scope, p CopyParams) (*Entry, string, error) {
	if err := m.checkWrite(scope); err != nil {
		return nil, "", err
	}
	warning, err := validateSize(content)
	if err != nil {
		return nil, "", err
	}

	now := m.now()
	e := &Entry{
		Key:              key,
		Scope:            scope,
		Content:          content,
		ShortDescription: p.ShortDescription,
		SourcePath:       p.SourcePath,
		SourceLines:      p.SourceLines,
		CreatedAt:        now,
		ModifiedAt:       now,
		CreatedByAgent:   m.agentID,
		ModifiedByAgent:  m.agentID,
		Tags:             dedupTags(p.Tags),
	}
	e.recomputeCounts()

	ttl := p.TTLSeconds
	if ttl == nil {
		if secs, ok := m.scopeDefaultTTL(scope); ok {
			ttl = &secs
		}
	}
	if ttl != nil {
		e.HasTTL = true
		e.TTLSeconds = *ttl
		e.HasExpiry = true
		e.ExpiresAt = now + float64(*ttl)
	}

	switch scope {
	case ScopeAgent:
		m.mu.Lock()
		_, exists := m.agentEntries[key]
		if exists {
			m.mu.Unlock()
			return nil, "", fmt.Errorf("%w: key %q already exists in agent scope", nexuserr.ErrConflict, key)
		}
		m.agentEntries[key] = e
		m.mu.Unlock()
	default:
		storage, err := m.storageFor(scope)
		if err != nil {
			return nil, "", err
		}
		if err := storage.Create(e); err != nil {
			return nil, "", err
		}
	}
	return e, warning, nil
}

// Get resolves key from scope (or, if scope is "", searches agent, project,
// then system, returning the first match).
func (m *Manager) Get(key string, scope Scope) (*Entry, error) {
	if scope != "" {
		if err := m.checkRead(scope); err != nil {
			return nil, err
		}
		e, err := m.getFromScope(key, scope)
		if err != nil {
			return nil, err
		}
		if e == nil {
			return nil, fmt.Errorf("%w: key %q not found in %s scope", nexuserr.ErrNotFound, key, scope)
		}
		return e, nil
	}
	for _, s := range []Scope{ScopeAgent, ScopeProject, ScopeSystem} {
		if !m.permissions.CanRead(s) {
			continue
		}
		e, err := m.getFromScope(key, s)
		if err != nil {
			return nil, err
		}
		if e != nil {
			return e, nil
		}
	}
	return nil, nexuserr.ErrNotFound
}

// getFromScope resolves key in scope, returning (nil, nil) if absent —
// callers that need a "not found" error synthesize one themselves (see Get).
func (m *Manager) getFromScope(key string, scope Scope) (*Entry, error) {
	if scope == ScopeAgent {
		m.mu.Lock()
		e, ok := m.agentEntries[key]
		m.mu.Unlock()
		if !ok {
			return nil, nil
		}
		return e, nil
	}
	storage, err := m.storageFor(scope)
	if err != nil {
		return nil, err
	}
	e, err := storage.Get(key)
	if err != nil {
		if err == nexuserr.ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	return e, nil
}

// UpdateFields is the set of optional fields Update may change.
type UpdateFields struct {
	Content          *string
	ShortDescription *string
	SourcePath       *string
	SourceLines      *string
	NewKey           *string
	TTLSeconds       *int64
}

// Update mutates the entry identified by (key, scope).
func (m *Manager) Update(key string, scope Scope, f UpdateFields) (*Entry, string, error) {
	if err := m.checkWrite(scope); err != nil {
		return nil, "", err
	}
	var warning string
	if f.Content != nil {
		w, err := validateSize(*f.Content)
		if err != nil {
			return nil, "", err
		}
		warning = w
	}

	if scope == ScopeAgent {
		m.mu.Lock()
		defer m.mu.Unlock()
		e, ok := m.agentEntries[key]
		if !ok {
			return nil, "", fmt.Errorf("%w: key %q not found in agent scope", nexuserr.ErrNotFound, key)
		}
		if f.NewKey != nil && *f.NewKey != key {
			if _, exists := m.agentEntries[*f.NewKey]; exists {
				return nil, "", fmt.Errorf("%w: key %q already exists in agent scope", nexuserr.ErrConflict, *f.NewKey)
			}
		}
		if f.Content != nil {
			e.Content = *f.Content
			e.recomputeCounts()
		}
		if f.ShortDescription != nil {
			e.ShortDescription = *f.ShortDescription
		}
		if f.SourcePath != nil {
			e.SourcePath = *f.SourcePath
		}
		if f.SourceLines != nil {
			e.SourceLines = *f.SourceLines
		}
		if f.TTLSeconds != nil {
			e.HasTTL = true
			e.TTLSeconds = *f.TTLSeconds
			e.HasExpiry = true
			e.ExpiresAt = m.now() + float64(*f.TTLSeconds)
		}
		e.ModifiedAt = m.now()
		e.ModifiedByAgent = m.agentID
		if f.NewKey != nil && *f.NewKey != key {
			e.Key = *f.NewKey
			delete(m.agentEntries, key)
			m.agentEntries[*f.NewKey] = e
		}
		return e, warning, nil
	}

	storage, err := m.storageFor(scope)
	if err != nil {
		return nil, "", err
	}
	e, err := storage.Update(key, UpdateParams{
		Content:          f.Content,
		ShortDescription: f.ShortDescription,
		SourcePath:       f.SourcePath,
		SourceLines:      f.SourceLines,
		NewKey:           f.NewKey,
		AgentID:          m.agentID,
		TTLSeconds:       f.TTLSeconds,
		Now:              m.now(),
	})
	if err != nil {
		return nil, "", err
	}
	return e, warning, nil
}

// Delete removes key from scope, reporting whether anything was deleted.
func (m *Manager) Delete(key string, scope Scope) (bool, error) {
	if err := m.checkWrite(scope); err != nil {
		return false, err
	}
	if scope == ScopeAgent {
		m.mu.Lock()
		defer m.mu.Unlock()
		if _, ok := m.agentEntries[key]; !ok {
			return false, nil
		}
		delete(m.agentEntries, key)
		return true, nil
	}
	storage, err := m.storageFor(scope)
	if err != nil {
		return false, err
	}
	return storage.Delete(key)
}

// Clear deletes every entry in scope, returning the count removed.
func (m *Manager) Clear(scope Scope) (int, error) {
	if err := m.checkWrite(scope); err != nil {
		return 0, err
	}
	if scope == ScopeAgent {
		m.mu.Lock()
		defer m.mu.Unlock()
		n := len(m.agentEntries)
		m.agentEntries = make(map[string]*Entry)
		return n, nil
	}
	storage, err := m.storageFor(scope)
	if err != nil {
		return 0, err
	}
	return storage.Clear()
}

// ListOptions filters ListEntries.
type ListOptions struct {
	Scope          Scope // "" = all readable scopes
	Tags           []string
	AnyTags        []string
	IncludeExpired bool
}

// ListEntries returns entries across readable scopes, newest-modified first.
func (m *Manager) ListEntries(opts ListOptions) ([]*Entry, error) {
	scopes := []Scope{ScopeAgent, ScopeProject, ScopeSystem}
	if opts.Scope != "" {
		scopes = []Scope{opts.Scope}
	}

	var entries []*Entry
	for _, s := range scopes {
		if !m.permissions.CanRead(s) {
			continue
		}
		if s == ScopeAgent {
			m.mu.Lock()
			for _, e := range m.agentEntries {
				entries = append(entries, e)
			}
			m.mu.Unlock()
			continue
		}
		storage, err := m.storageFor(s)
		if err != nil {
			return nil, err
		}
		all, err := storage.ListAll()
		if err != nil {
			return nil, err
		}
		entries = append(entries, all...)
	}

	if len(opts.Tags) > 0 {
		entries = filterEntries(entries, func(e *Entry) bool { return hasAllTags(e.Tags, opts.Tags) })
	}
	if len(opts.AnyTags) > 0 {
		entries = filterEntries(entries, func(e *Entry) bool { return hasAnyTag(e.Tags, opts.AnyTags) })
	}
	if !opts.IncludeExpired {
		now := m.now()
		entries = filterEntries(entries, func(e *Entry) bool { return !e.IsExpired(now) })
	}

	sort.SliceStable(entries, func(i, j int) bool { return entries[i].ModifiedAt > entries[j].ModifiedAt })
	return entries, nil
}

func filterEntries(entries []*Entry, keep func(*Entry) bool) []*Entry {
	out := entries[:0:0]
	for _, e := range entries {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

func hasAllTags(have, want []string) bool {
	set := make(map[string]struct{}, len(have))
	for _, t := range have {
		set[t] = struct{}{}
	}
	for _, w := range want {
		if _, ok := set[w]; !ok {
			return false
		}
	}
	return true
}

func hasAnyTag(have, want []string) bool {
	set := make(map[string]struct{}, len(have))
	for _, t := range have {
		set[t] = struct{}{}
	}
	for _, w := range want {
		if _, ok := set[w]; ok {
			return true
		}
	}
	return false
}

// CountExpired counts expired entries across readable scopes (or scope if set).
func (m *Manager) CountExpired(scope Scope) (int, error) {
	scopes := []Scope{ScopeAgent, ScopeProject, ScopeSystem}
	if scope != "" {
		scopes = []Scope{scope}
	}
	now := m.now()
	total := 0
	for _, s := range scopes {
		if !m.permissions.CanRead(s) {
			continue
		}
		if s == ScopeAgent {
			m.mu.Lock()
			for _, e := range m.agentEntries {
				if e.IsExpired(now) {
					total++
				}
			}
			m.mu.Unlock()
			continue
		}
		storage, err := m.storageFor(s)
		if err != nil {
			return 0, err
		}
		n, err := storage.CountExpired(now)
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

// GetExpired returns expired entries across readable scopes (or scope if set).
func (m *Manager) GetExpired(scope Scope) ([]*Entry, error) {
	scopes := []Scope{ScopeAgent, ScopeProject, ScopeSystem}
	if scope != "" {
		scopes = []Scope{scope}
	}
	now := m.now()
	var out []*Entry
	for _, s := range scopes {
		if !m.permissions.CanRead(s) {
			continue
		}
		if s == ScopeAgent {
			m.mu.Lock()
			for _, e := range m.agentEntries {
				if e.IsExpired(now) {
					out = append(out, e)
				}
			}
			m.mu.Unlock()
			continue
		}
		storage, err := m.storageFor(s)
		if err != nil {
			return nil, err
		}
		expired, err := storage.GetExpired(now)
		if err != nil {
			return nil, err
		}
		out = append(out, expired...)
	}
	return out, nil
}

// Search performs a case-insensitive substring match over key/description/
// content across readable scopes, per spec §4.7 ordering (list then filter).
func (m *Manager) Search(query string, scope Scope, searchContent, searchKeys, searchDescriptions bool, tags []string) ([]*Entry, error) {
	entries, err := m.ListEntries(ListOptions{Scope: scope, IncludeExpired: true})
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(query)
	var out []*Entry
	for _, e := range entries {
		if len(tags) > 0 && !hasAllTags(e.Tags, tags) {
			continue
		}
		switch {
		case searchKeys && strings.Contains(strings.ToLower(e.Key), q):
		case searchDescriptions && e.ShortDescription != "" && strings.Contains(strings.ToLower(e.ShortDescription), q):
		case searchContent && strings.Contains(strings.ToLower(e.Content), q):
		default:
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// AddTags adds tags to an existing entry, creating them if new.
func (m *Manager) AddTags(key string, scope Scope, tags []string) (*Entry, error) {
	return m.mutateTags(key, scope, func(existing []string) []string {
		return dedupTags(append(append([]string{}, existing...), tags...))
	})
}

// RemoveTags removes tags from an existing entry.
func (m *Manager) RemoveTags(key string, scope Scope, tags []string) (*Entry, error) {
	remove := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		remove[t] = struct{}{}
	}
	return m.mutateTags(key, scope, func(existing []string) []string {
		out := existing[:0:0]
		for _, t := range existing {
			if _, drop := remove[t]; !drop {
				out = append(out, t)
			}
		}
		return out
	})
}

func (m *Manager) mutateTags(key string, scope Scope, transform func([]string) []string) (*Entry, error) {
	if err := m.checkWrite(scope); err != nil {
		return nil, err
	}
	if scope == ScopeAgent {
		m.mu.Lock()
		defer m.mu.Unlock()
		e, ok := m.agentEntries[key]
		if !ok {
			return nil, fmt.Errorf("%w: key %q not found in agent scope", nexuserr.ErrNotFound, key)
		}
		e.Tags = transform(e.Tags)
		e.ModifiedAt = m.now()
		e.ModifiedByAgent = m.agentID
		return e, nil
	}
	storage, err := m.storageFor(scope)
	if err != nil {
		return nil, err
	}
	e, err := storage.Get(key)
	if err != nil {
		return nil, err
	}
	e.Tags = transform(e.Tags)
	if err := storage.SetTags(key, e.Tags); err != nil {
		return nil, err
	}
	return e, nil
}

// ListTags returns the sorted union of tags across readable scopes.
func (m *Manager) ListTags(scope Scope) ([]string, error) {
	entries, err := m.ListEntries(ListOptions{Scope: scope, IncludeExpired: true})
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{})
	for _, e := range entries {
		for _, t := range e.Tags {
			set[t] = struct{}{}
		}
	}
	tags := make([]string, 0, len(set))
	for t := range set {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags, nil
}

// Now returns the manager's wall-clock source, exported so callers (the
// skill layer's expiry check in paste) can evaluate Entry.IsExpired against
// the same clock the manager itself uses.
func (m *Manager) Now() float64 { return m.now() }

// GetAgentEntries snapshots agent-scope entries for external session
// persistence.
func (m *Manager) GetAgentEntries() map[string]*Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]*Entry, len(m.agentEntries))
	for k, v := range m.agentEntries {
		out[k] = v
	}
	return out
}

// RestoreAgentEntries replaces the agent-scope map from a prior snapshot.
func (m *Manager) RestoreAgentEntries(entries map[string]*Entry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.agentEntries = make(map[string]*Entry, len(entries))
	for k, v := range entries {
		m.agentEntries[k] = v
	}
}
