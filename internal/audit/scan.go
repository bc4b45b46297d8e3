package audit

import (
	"context"
	"time"

	"github.com/open-sspm/ovh-key-audit/internal/connectors/ovh"
)

// Selector decides which credentials a scan keeps.
//
// Match filters on the owning application id before the application is
// resolved. With RequireApplication set, credentials whose application
// cannot be resolved are dropped; otherwise they are kept and marked absent.
type Selector struct {
	Match              func(applicationID int64) bool
	RequireApplication bool
}

// AllValid keeps every credential whose application resolves.
func AllValid() Selector {
	return Selector{
		Match:              func(applicationID int64) bool { return applicationID != 0 },
		RequireApplication: true,
	}
}

// Targets keeps every credential owned by one of ids, whether or not the
// application resolves.
func Targets(ids ...int64) Selector {
	set := make(IDSet, len(ids))
	for _, id := range ids {
		set.Add(id)
	}
	return Selector{Match: set.Has}
}

// Scanner walks the credentials of an account one request at a time.
type Scanner struct {
	source   Source
	reporter Reporter
	now      func() time.Time
}

func NewScanner(source Source, reporter Reporter) *Scanner {
	if reporter == nil {
		reporter = nopReporter{}
	}
	return &Scanner{source: source, reporter: reporter, now: time.Now}
}

// Scan lists all credentials, reads each one, and returns those the selector
// keeps, in listing order. A listing failure yields no results and a failed
// credential read skips that credential. The only error returned is the
// context's, when it is canceled mid-scan.
func (s *Scanner) Scan(ctx context.Context, sel Selector) ([]Resolution, error) {
	ids, err := s.source.ListCredentialIDs(ctx)
	if err != nil {
		s.report(Event{Stage: StageCredentials, Outcome: OutcomeError, Err: err})
		return nil, ctx.Err()
	}
	s.report(Event{Stage: StageCredentials, Outcome: OutcomeOK, Total: len(ids)})

	var out []Resolution
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return out, err
		}

		cred, ok := s.fetchCredential(ctx, id)
		if !ok {
			continue
		}
		if sel.Match != nil && !sel.Match(cred.ApplicationID) {
			continue
		}

		res := s.resolveApplication(ctx, cred)
		if sel.RequireApplication && !res.Resolved() {
			continue
		}

		e := Event{Stage: StageMatch, Outcome: OutcomeOK, CredentialID: cred.ID, ApplicationID: cred.ApplicationID}
		if res.Application != nil {
			e.Name = res.Application.Name
		}
		s.report(e)
		out = append(out, res)
	}
	return out, ctx.Err()
}

// FullScan keeps only credentials backed by a readable application and
// collects the distinct ids of those applications.
func (s *Scanner) FullScan(ctx context.Context) (Audit, error) {
	valid, err := s.Scan(ctx, AllValid())
	audit := Audit{Valid: valid, ValidAppIDs: make(IDSet, len(valid))}
	for _, res := range valid {
		audit.ValidAppIDs.Add(res.Credential.ApplicationID)
	}
	return audit, err
}

// FullAudit runs FullScan and then FindOrphans against its valid ids.
func (s *Scanner) FullAudit(ctx context.Context) (Audit, error) {
	audit, err := s.FullScan(ctx)
	if err != nil {
		return audit, err
	}
	audit.Orphans, err = s.FindOrphans(ctx, audit.ValidAppIDs)
	return audit, err
}

// Search returns every credential owned by applicationID, including those
// whose application is missing.
func (s *Scanner) Search(ctx context.Context, applicationID int64) ([]Resolution, error) {
	return s.Scan(ctx, Targets(applicationID))
}

// SearchMany runs a single scan and groups matches by requested id. Duplicate
// ids are collapsed; ids without matches map to an empty slice.
func (s *Scanner) SearchMany(ctx context.Context, applicationIDs []int64) (Grouped, error) {
	g := Grouped{Results: make(map[int64][]Resolution, len(applicationIDs))}
	for _, id := range applicationIDs {
		if _, seen := g.Results[id]; seen {
			continue
		}
		g.IDs = append(g.IDs, id)
		g.Results[id] = []Resolution{}
	}

	matches, err := s.Scan(ctx, Targets(g.IDs...))
	for _, res := range matches {
		id := res.Credential.ApplicationID
		g.Results[id] = append(g.Results[id], res)
	}
	return g, err
}

func (s *Scanner) fetchCredential(ctx context.Context, id int64) (ovh.Credential, bool) {
	cred, err := s.source.GetCredential(ctx, id)
	if err != nil {
		s.report(Event{Stage: StageCredential, Outcome: outcomeFor(err), CredentialID: id, Err: err})
		return ovh.Credential{}, false
	}
	if cred.ID == 0 {
		cred.ID = id
	}
	return cred, true
}

func (s *Scanner) resolveApplication(ctx context.Context, cred ovh.Credential) Resolution {
	res := Resolution{Credential: cred}
	app, err := s.source.GetApplication(ctx, cred.ApplicationID)
	if err != nil {
		outcome := outcomeFor(err)
		res.Absence = AbsenceUnreachable
		if outcome == OutcomeNotFound {
			res.Absence = AbsenceNotFound
		}
		s.report(Event{Stage: StageApplication, Outcome: outcome, CredentialID: cred.ID, ApplicationID: cred.ApplicationID, Err: err})
		return res
	}
	s.report(Event{Stage: StageApplication, Outcome: OutcomeOK, CredentialID: cred.ID, ApplicationID: cred.ApplicationID, Name: app.Name})
	res.Application = &app
	return res
}

func (s *Scanner) report(e Event) {
	if e.At.IsZero() {
		e.At = s.now()
	}
	s.reporter.Report(e)
}

func outcomeFor(err error) string {
	if ovh.IsNotFound(err) {
		return OutcomeNotFound
	}
	return OutcomeError
}
