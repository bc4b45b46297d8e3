package audit

import (
	"context"

	"github.com/open-sspm/ovh-key-audit/internal/connectors/ovh"
)

// Source is the read-only view of the account API the audit runs against.
// *ovh.Client satisfies it.
type Source interface {
	ListCredentialIDs(ctx context.Context) ([]int64, error)
	GetCredential(ctx context.Context, id int64) (ovh.Credential, error)
	ListApplicationIDs(ctx context.Context) ([]int64, error)
	GetApplication(ctx context.Context, id int64) (ovh.Application, error)
}

var _ Source = (*ovh.Client)(nil)
