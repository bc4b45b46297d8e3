package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/open-sspm/ovh-key-audit/internal/audit"
	"github.com/open-sspm/ovh-key-audit/internal/connectors/ovh"
)

const (
	unknown        = "Unknown"
	noDescription  = "No description"
	noPermissions  = "None found"
	appUnavailable = "Application not found or inaccessible"
)

var (
	banner = strings.Repeat("=", 80)
	rule   = strings.Repeat("-", 60)
)

// textWriter keeps the first write error so renderers can print freely and
// check once at the end.
type textWriter struct {
	w   io.Writer
	err error
}

func (t *textWriter) printf(format string, args ...any) {
	if t.err != nil {
		return
	}
	_, t.err = fmt.Fprintf(t.w, format, args...)
}

func (t *textWriter) heading(lines ...string) {
	t.printf("\n%s\n", banner)
	for _, line := range lines {
		t.printf("%s\n", line)
	}
	t.printf("%s\n", banner)
}

// Audit renders the valid credentials followed by the orphaned applications.
func Audit(w io.Writer, a audit.Audit) error {
	t := &textWriter{w: w}
	t.heading(fmt.Sprintf("VALID API KEYS (%d found)", len(a.Valid)))
	for i, res := range a.Valid {
		t.resolution(i+1, res)
	}
	t.orphans(a.Orphans)
	return t.err
}

// Search renders the credentials found for a single application id.
func Search(w io.Writer, applicationID int64, results []audit.Resolution) error {
	t := &textWriter{w: w}
	t.heading(
		fmt.Sprintf("SEARCH RESULTS FOR APPLICATION ID: %d", applicationID),
		fmt.Sprintf("Found %d matching credential(s)", len(results)),
	)
	if len(results) == 0 {
		t.printf("No credentials found with this Application ID.\n")
		return t.err
	}
	for i, res := range results {
		t.resolution(i+1, res)
	}
	return t.err
}

// SearchMany renders one section per requested application id, in request order.
func SearchMany(w io.Writer, g audit.Grouped) error {
	t := &textWriter{w: w}
	ids := make([]string, 0, len(g.IDs))
	for _, id := range g.IDs {
		ids = append(ids, strconv.FormatInt(id, 10))
	}
	t.heading(
		"SEARCH RESULTS FOR APPLICATION IDs: "+strings.Join(ids, ", "),
		fmt.Sprintf("Found %d matching credential(s) total", g.Total()),
	)
	for _, id := range g.IDs {
		results := g.Results[id]
		t.heading(fmt.Sprintf("APPLICATION ID: %d (%d credential(s))", id, len(results)))
		if len(results) == 0 {
			t.printf("No credentials found with this Application ID.\n")
			continue
		}
		for i, res := range results {
			t.resolution(i+1, res)
		}
	}
	return t.err
}

func (t *textWriter) resolution(n int, res audit.Resolution) {
	cred := res.Credential
	t.printf("\n%s\n", rule)
	t.printf("#%d CREDENTIAL ID: %d\n", n, cred.ID)
	t.printf("%s\n", rule)

	t.printf("CREDENTIAL DETAILS:\n")
	t.field("Created", FormatTimestamp(cred.Creation))
	t.field("Expires", FormatTimestamp(cred.Expiration))
	t.field("Last Used", FormatTimestamp(cred.LastUse))
	t.field("Status", orDefault(cred.Status, unknown))
	t.field("Application", strconv.FormatInt(cred.ApplicationID, 10))
	t.permissions(cred.Rules)

	t.printf("\nAPPLICATION DETAILS:\n")
	if res.Application == nil {
		t.field("Status", appUnavailable)
		return
	}
	t.application(*res.Application)
}

func (t *textWriter) permissions(rules []ovh.Rule) {
	if len(rules) == 0 {
		t.field("Permissions", noPermissions)
		return
	}
	t.printf("  Permissions:\n")
	for _, r := range rules {
		t.printf("    %s %s\n", orDefault(r.Method, unknown), orDefault(r.Path, unknown))
	}
}

func (t *textWriter) application(app ovh.Application) {
	t.field("Name", orDefault(app.Name, unknown))
	t.field("Description", orDefault(app.Description, noDescription))
	t.field("Status", orDefault(app.Status, unknown))
}

func (t *textWriter) orphans(apps []ovh.Application) {
	if len(apps) == 0 {
		t.heading("ORPHANED APPLICATIONS: None found")
		return
	}
	t.heading(
		fmt.Sprintf("ORPHANED APPLICATIONS (%d found)", len(apps)),
		"Applications without any valid credentials",
	)
	for i, app := range apps {
		t.printf("\n%s\n", rule)
		t.printf("#%d APPLICATION ID: %d\n", i+1, app.ID)
		t.printf("%s\n", rule)
		t.printf("APPLICATION DETAILS:\n")
		t.application(app)
	}
}

// field prints a label padded to a fixed value column.
func (t *textWriter) field(label, value string) {
	t.printf("  %-15s%s\n", label+":", value)
}

func orDefault(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return value
}
