package audit

import "github.com/open-sspm/ovh-key-audit/internal/connectors/ovh"

// Absence explains why a credential's application could not be resolved.
// Every absence is handled the same way; the reason is kept so that
// transient failures stay distinguishable from deleted applications in
// logs and structured output.
type Absence string

const (
	AbsenceNotFound    Absence = "not_found"
	AbsenceUnreachable Absence = "unreachable"
)

// Resolution pairs a credential with its application, or with an absent
// marker when the application could not be read.
type Resolution struct {
	Credential  ovh.Credential   `json:"credential" yaml:"credential"`
	Application *ovh.Application `json:"application" yaml:"application"`
	Absence     Absence          `json:"absence,omitempty" yaml:"absence,omitempty"`
}

// Resolved reports whether the owning application was read successfully.
func (r Resolution) Resolved() bool {
	return r.Application != nil
}

// IDSet is a set of application ids.
type IDSet map[int64]struct{}

func (s IDSet) Add(id int64) {
	s[id] = struct{}{}
}

func (s IDSet) Has(id int64) bool {
	_, ok := s[id]
	return ok
}

// Audit is the outcome of a full scan followed by the orphan search.
type Audit struct {
	Valid       []Resolution      `json:"valid_credentials" yaml:"valid_credentials"`
	ValidAppIDs IDSet             `json:"-" yaml:"-"`
	Orphans     []ovh.Application `json:"orphaned_applications" yaml:"orphaned_applications"`
}

// Grouped holds targeted search results keyed by requested application id.
// IDs keeps the request order; every id has an entry in Results, possibly empty.
type Grouped struct {
	IDs     []int64                `json:"application_ids" yaml:"application_ids"`
	Results map[int64][]Resolution `json:"results" yaml:"results"`
}

// Total returns the number of matched credentials across all ids.
func (g Grouped) Total() int {
	n := 0
	for _, id := range g.IDs {
		n += len(g.Results[id])
	}
	return n
}
