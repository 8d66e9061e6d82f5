package webhook

//go:generate mockgen -destination=mocks/mock_collaborators.go -package=mocks github.com/tolucodes/vaultpay/internal/webhook ProviderAPI,CardStore,AccountStore,TransactionStore

import (
	"context"

	"github.com/tolucodes/vaultpay/internal/maplerad"
	"github.com/tolucodes/vaultpay/internal/records"
)

// ProviderAPI is the read side of the card/account provider. Handlers fetch
// authoritative detail here rather than trusting pushed payloads.
type ProviderAPI interface {
	GetCard(ctx context.Context, cardID string) (*maplerad.Card, error)
	GetVirtualAccount(ctx context.Context, accountID string) (*maplerad.VirtualAccount, error)
}

// CardStore is the local card record contract.
type CardStore interface {
	// FindByReference looks up by either provider key, first match wins.
	FindByReference(ctx context.Context, ref string) (*records.Card, error)
	ApplyIssuedDetail(ctx context.Context, cardID string, upd records.CardIssuedUpdate) error
}

// AccountStore is the local virtual account record contract.
type AccountStore interface {
	FindByProviderRef(ctx context.Context, ref string) (*records.Account, error)
	Activate(ctx context.Context, accountID string, upd records.AccountActivation) error
}

// TransactionStore is the local transaction record contract.
type TransactionStore interface {
	FindByReference(ctx context.Context, ref string) (*records.Transaction, error)
	MarkSuccessful(ctx context.Context, transactionID string) error
}

// DeliveryRecorder logs accepted deliveries. Logging is best-effort; failures
// never affect the HTTP contract.
type DeliveryRecorder interface {
	Append(ctx context.Context, d records.Delivery) (string, error)
	Seen(ctx context.Context, deliveryID string) (bool, error)
}
