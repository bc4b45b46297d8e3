package report

import (
	"io"
	"os"

	"github.com/open-sspm/ovh-key-audit/internal/audit"
	"github.com/open-sspm/ovh-key-audit/internal/normalize"
)

// Printer writes reports in one output format.
type Printer struct {
	w      io.Writer
	format string
}

func NewPrinter(w io.Writer, format string) (*Printer, error) {
	if w == nil {
		w = os.Stdout
	}
	format = normalize.Lower(format)
	if format == "" {
		format = FormatText
	}
	if format != FormatText {
		if _, err := structured(format); err != nil {
			return nil, err
		}
	}
	return &Printer{w: w, format: format}, nil
}

func (p *Printer) Audit(a audit.Audit) error {
	if p.format == FormatText {
		return Audit(p.w, a)
	}
	return p.encode(newAuditDocument(a))
}

func (p *Printer) Search(applicationID int64, results []audit.Resolution) error {
	if p.format == FormatText {
		return Search(p.w, applicationID, results)
	}
	return p.encode(newSearchDocument(audit.Grouped{
		IDs:     []int64{applicationID},
		Results: map[int64][]audit.Resolution{applicationID: results},
	}))
}

func (p *Printer) SearchMany(g audit.Grouped) error {
	if p.format == FormatText {
		return SearchMany(p.w, g)
	}
	return p.encode(newSearchDocument(g))
}

func (p *Printer) encode(doc any) error {
	f, err := structured(p.format)
	if err != nil {
		return err
	}
	return f(p.w, doc)
}
