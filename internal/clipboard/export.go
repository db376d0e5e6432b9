package clipboard

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/incurian/nexus3/internal/nexuserr"
)

const exportVersion = "1.0"

// ExportedEntry is the per-entry shape of the canonical JSON export format
// from spec §6.2.
type ExportedEntry struct {
	Key              string   `json:"key"`
	Scope            string   `json:"scope"`
	Content          string   `json:"content"`
	LineCount        int      `json:"line_count"`
	ByteCount        int      `json:"byte_count"`
	ShortDescription *string  `json:"short_description"`
	SourcePath       *string  `json:"source_path"`
	SourceLines      *string  `json:"source_lines"`
	CreatedAt        float64  `json:"created_at"`
	ModifiedAt       float64  `json:"modified_at"`
	CreatedByAgent   *string  `json:"created_by_agent"`
	ModifiedByAgent  *string  `json:"modified_by_agent"`
	ExpiresAt        *float64 `json:"expires_at"`
	TTLSeconds       *int64   `json:"ttl_seconds"`
	Tags             []string `json:"tags"`
}

// ExportDocument is the top-level export envelope.
type ExportDocument struct {
	Version    string          `json:"version"`
	ExportedAt string          `json:"exported_at"`
	EntryCount int             `json:"entry_count"`
	Entries    []ExportedEntry `json:"entries"`
}

func strPtrOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func entryToExported(e *Entry) ExportedEntry {
	ex := ExportedEntry{
		Key:              e.Key,
		Scope:            string(e.Scope),
		Content:          e.Content,
		LineCount:        e.LineCount,
		ByteCount:        e.ByteCount,
		ShortDescription: strPtrOrNil(e.ShortDescription),
		SourcePath:       strPtrOrNil(e.SourcePath),
		SourceLines:      strPtrOrNil(e.SourceLines),
		CreatedAt:        e.CreatedAt,
		ModifiedAt:       e.ModifiedAt,
		CreatedByAgent:   strPtrOrNil(e.CreatedByAgent),
		ModifiedByAgent:  strPtrOrNil(e.ModifiedByAgent),
		Tags:             e.Tags,
	}
	if e.HasExpiry {
		v := e.ExpiresAt
		ex.ExpiresAt = &v
	}
	if e.HasTTL {
		v := e.TTLSeconds
		ex.TTLSeconds = &v
	}
	if ex.Tags == nil {
		ex.Tags = []string{}
	}
	return ex
}

// Export builds the JSON bytes for entries, per spec §6.2. exportedAt should
// be an ISO-8601 local timestamp string supplied by the caller (this package
// does not read the wall clock).
func Export(entries []*Entry, exportedAt string) ([]byte, error) {
	doc := ExportDocument{Version: exportVersion, ExportedAt: exportedAt, EntryCount: len(entries)}
	for _, e := range entries {
		doc.Entries = append(doc.Entries, entryToExported(e))
	}
	if doc.Entries == nil {
		doc.Entries = []ExportedEntry{}
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	// Re-stamp entry_count defensively via sjson so a future
	// field addition to ExportDocument can't silently desync the envelope
	// from what list callers actually pass in.
	data, err = sjson.SetBytes(data, "entry_count", len(entries))
	if err != nil {
		return nil, err
	}
	return data, nil
}

// ConflictPolicy controls Import's behavior when a key already exists.
type ConflictPolicy string

const (
	ConflictSkip      ConflictPolicy = "skip"
	ConflictOverwrite ConflictPolicy = "overwrite"
)

// ImportSummary reports what Import did (or would do, under dry_run).
type ImportSummary struct {
	Imported int
	Skipped  int
	Total    int
}

// Import parses raw export JSON and writes entries into targetScope via m,
// per spec §6.2: only "1.0" is accepted; each entry's target scope is
// targetScope regardless of the record's own scope field; dryRun reports
// counts without mutating.
func Import(m *Manager, raw []byte, targetScope Scope, policy ConflictPolicy, dryRun bool) (ImportSummary, error) {
	version := gjson.GetBytes(raw, "version").String()
	if version != exportVersion {
		return ImportSummary{}, fmt.Errorf("%w: unsupported export version %q", nexuserr.ErrSchema, version)
	}

	var doc ExportDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return ImportSummary{}, fmt.Errorf("%w: %v", nexuserr.ErrValidation, err)
	}

	summary := ImportSummary{Total: len(doc.Entries)}
	for _, ex := range doc.Entries {
		exists, err := entryExistsInScope(m, ex.Key, targetScope)
		if err != nil {
			return summary, err
		}
		if exists && policy == ConflictSkip {
			summary.Skipped++
			continue
		}
		if dryRun {
			summary.Imported++
			continue
		}
		if exists && policy == ConflictOverwrite {
			if _, err := m.Delete(ex.Key, targetScope); err != nil {
				return summary, err
			}
		}
		if err := importOne(m, ex, targetScope); err != nil {
			return summary, err
		}
		summary.Imported++
	}
	return summary, nil
}

func entryExistsInScope(m *Manager, key string, scope Scope) (bool, error) {
	e, err := m.getFromScope(key, scope)
	if err != nil {
		return false, err
	}
	return e != nil, nil
}

func importOne(m *Manager, ex ExportedEntry, scope Scope) error {
	params := CopyParams{Tags: ex.Tags}
	if ex.ShortDescription != nil {
		params.ShortDescription = *ex.ShortDescription
	}
	if ex.SourcePath != nil {
		params.SourcePath = *ex.SourcePath
	}
	if ex.SourceLines != nil {
		params.SourceLines = *ex.SourceLines
	}
	if ex.TTLSeconds != nil {
		params.TTLSeconds = ex.TTLSeconds
	}
	_, _, err := m.Copy(ex.Key, ex.Content, scope, params)
	return err
}
