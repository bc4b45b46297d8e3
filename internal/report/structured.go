package report

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/open-sspm/ovh-key-audit/internal/audit"
	"github.com/open-sspm/ovh-key-audit/internal/connectors/ovh"
	"github.com/open-sspm/ovh-key-audit/internal/normalize"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Formatter writes a report document in a machine-readable encoding.
type Formatter func(w io.Writer, value any) error

// Formatters holds the structured encodings; text is rendered separately.
var Formatters = map[string]Formatter{
	FormatJSON: formatJSON,
	FormatYAML: formatYAML,
}

// FormatNames returns every accepted format name, sorted.
func FormatNames() []string {
	names := []string{FormatText}
	for name := range Formatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ValidFormat reports whether name is an accepted format.
func ValidFormat(name string) bool {
	name = normalize.Lower(name)
	if name == FormatText {
		return true
	}
	_, ok := Formatters[name]
	return ok
}

func formatJSON(w io.Writer, value any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}

func formatYAML(w io.Writer, value any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(value); err != nil {
		return err
	}
	return enc.Close()
}

type auditDocument struct {
	Mode                 string             `json:"mode" yaml:"mode"`
	ValidCredentials     []audit.Resolution `json:"valid_credentials" yaml:"valid_credentials"`
	ValidApplicationIDs  []int64            `json:"valid_application_ids" yaml:"valid_application_ids"`
	OrphanedApplications []ovh.Application  `json:"orphaned_applications" yaml:"orphaned_applications"`
}

type searchSection struct {
	ApplicationID int64              `json:"application_id" yaml:"application_id"`
	Credentials   []audit.Resolution `json:"credentials" yaml:"credentials"`
}

type searchDocument struct {
	Mode    string          `json:"mode" yaml:"mode"`
	Total   int             `json:"total" yaml:"total"`
	Results []searchSection `json:"results" yaml:"results"`
}

func newAuditDocument(a audit.Audit) auditDocument {
	ids := make([]int64, 0, len(a.ValidAppIDs))
	for id := range a.ValidAppIDs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return auditDocument{
		Mode:                 "audit",
		ValidCredentials:     nonNil(a.Valid),
		ValidApplicationIDs:  ids,
		OrphanedApplications: nonNil(a.Orphans),
	}
}

func newSearchDocument(g audit.Grouped) searchDocument {
	doc := searchDocument{Mode: "search", Total: g.Total(), Results: make([]searchSection, 0, len(g.IDs))}
	for _, id := range g.IDs {
		doc.Results = append(doc.Results, searchSection{ApplicationID: id, Credentials: nonNil(g.Results[id])})
	}
	return doc
}

func nonNil[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}

func structured(format string) (Formatter, error) {
	f, ok := Formatters[normalize.Lower(format)]
	if !ok {
		return nil, fmt.Errorf("unknown format: %s", format)
	}
	return f, nil
}
