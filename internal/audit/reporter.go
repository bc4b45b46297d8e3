package audit

import (
	"log/slog"
	"time"
)

// Stages of an audit run.
const (
	StageCredentials  = "credentials"
	StageCredential   = "credential"
	StageApplications = "applications"
	StageApplication  = "application"
	StageMatch        = "match"
	StageOrphan       = "orphan"
)

// Outcomes attached to events.
const (
	OutcomeOK       = "ok"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

// Event is a progress notification emitted while scanning.
type Event struct {
	Stage         string
	Outcome       string
	Total         int
	CredentialID  int64
	ApplicationID int64
	Name          string
	Err           error
	At            time.Time
}

// Reporter receives audit progress events.
type Reporter interface {
	Report(e Event)
}

// MultiReporter forwards events to every non-nil reporter.
type MultiReporter []Reporter

func (m MultiReporter) Report(e Event) {
	for _, r := range m {
		if r != nil {
			r.Report(e)
		}
	}
}

type nopReporter struct{}

func (nopReporter) Report(Event) {}

// LogReporter logs events to the default slog logger.
type LogReporter struct {
	Logger *slog.Logger
}

func (r *LogReporter) Report(e Event) {
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}

	switch e.Stage {
	case StageCredentials, StageApplications:
		if e.Err != nil {
			logger.Error(e.Stage+" listing failed", "err", e.Err)
			return
		}
		logger.Info(e.Stage+" listed", "total", e.Total)
	case StageCredential:
		if e.Err != nil {
			logger.Debug("credential unreadable", "credential_id", e.CredentialID, "outcome", e.Outcome, "err", e.Err)
		}
	case StageApplication:
		switch e.Outcome {
		case OutcomeNotFound:
			logger.Debug("application not found", "application_id", e.ApplicationID, "credential_id", e.CredentialID)
		case OutcomeError:
			// Treated as absent like a 404, but may be transient.
			logger.Warn("application unreachable", "application_id", e.ApplicationID, "credential_id", e.CredentialID, "err", e.Err)
		}
	case StageMatch:
		attrs := []any{"credential_id", e.CredentialID, "application_id", e.ApplicationID}
		if e.Name != "" {
			attrs = append(attrs, "application_name", e.Name)
		}
		logger.Info("credential matched", attrs...)
	case StageOrphan:
		logger.Info("orphaned application", "application_id", e.ApplicationID, "application_name", e.Name)
	}
}
