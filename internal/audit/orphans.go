package audit

import (
	"context"

	"github.com/open-sspm/ovh-key-audit/internal/connectors/ovh"
)

// FindOrphans returns the applications that exist but are not in validAppIDs,
// in listing order. Candidates whose detail cannot be read are left out. A
// listing failure yields no orphans.
func (s *Scanner) FindOrphans(ctx context.Context, validAppIDs IDSet) ([]ovh.Application, error) {
	ids, err := s.source.ListApplicationIDs(ctx)
	if err != nil {
		s.report(Event{Stage: StageApplications, Outcome: OutcomeError, Err: err})
		return nil, ctx.Err()
	}
	s.report(Event{Stage: StageApplications, Outcome: OutcomeOK, Total: len(ids)})

	var orphans []ovh.Application
	seen := make(IDSet, len(ids))
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return orphans, err
		}
		if validAppIDs.Has(id) || seen.Has(id) {
			continue
		}
		seen.Add(id)

		app, err := s.source.GetApplication(ctx, id)
		if err != nil {
			s.report(Event{Stage: StageApplication, Outcome: outcomeFor(err), ApplicationID: id, Err: err})
			continue
		}
		s.report(Event{Stage: StageApplication, Outcome: OutcomeOK, ApplicationID: id, Name: app.Name})
		s.report(Event{Stage: StageOrphan, Outcome: OutcomeOK, ApplicationID: id, Name: app.Name})
		orphans = append(orphans, app)
	}
	return orphans, ctx.Err()
}
