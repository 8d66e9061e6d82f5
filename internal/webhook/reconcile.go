package webhook

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tolucodes/vaultpay/internal/maplerad"
	"github.com/tolucodes/vaultpay/internal/records"
)

// Event kinds this gateway reconciles. Everything else is acknowledged and
// ignored so the sender does not retry events we intentionally skip.
const (
	EventCardIssued       = "issuing.created.successful"
	EventAccountActivated = "account.creation.successful"
	EventTransferSettled  = "transfer.successful"
)

// accountEventCurrency is the only currency governed by the account-activated
// event. Other currencies are provisioned synchronously and must not be
// touched by this handler.
const accountEventCurrency = "USD"

// Outcome describes what reconciliation did with a delivery. Failures stay
// internal; the sender is acknowledged either way.
type Outcome string

const (
	// OutcomeReconciled: the local record was transitioned.
	OutcomeReconciled Outcome = "reconciled"
	// OutcomeSkipped: no matching local record, or a guard declined the update.
	OutcomeSkipped Outcome = "skipped"
	// OutcomeIgnored: unknown event kind.
	OutcomeIgnored Outcome = "ignored"
	// OutcomeFailed: provider or store error; logged, never propagated.
	OutcomeFailed Outcome = "failed"
)

// Reconciler applies provider events to local records. Every handler is
// idempotent: a duplicate delivery re-applies equivalent authoritative data
// and converges to the same record state.
type Reconciler struct {
	provider     ProviderAPI
	cards        CardStore
	accounts     AccountStore
	transactions TransactionStore
	logger       *slog.Logger
}

func NewReconciler(provider ProviderAPI, cards CardStore, accounts AccountStore, transactions TransactionStore, logger *slog.Logger) *Reconciler {
	return &Reconciler{
		provider:     provider,
		cards:        cards,
		accounts:     accounts,
		transactions: transactions,
		logger:       logger,
	}
}

// Handle routes a verified envelope to its reconciliation handler. Handler
// errors are logged and folded into OutcomeFailed here; they never propagate,
// so a single bad event cannot change the HTTP contract.
func (r *Reconciler) Handle(ctx context.Context, env *Envelope) Outcome {
	logger := r.logger.With("event", env.Event)

	var (
		outcome Outcome
		err     error
	)
	switch env.Event {
	case EventCardIssued:
		logger = logger.With("reference", env.Reference)
		outcome, err = r.reconcileCardIssued(ctx, logger, env)
	case EventAccountActivated:
		logger = logger.With("reference", env.Reference, "account_id", env.ID)
		outcome, err = r.reconcileAccountActivated(ctx, logger, env)
	case EventTransferSettled:
		logger = logger.With("reference", env.ID)
		outcome, err = r.reconcileTransferSettled(ctx, logger, env)
	default:
		logger.Info("unhandled webhook event")
		return OutcomeIgnored
	}

	if err != nil {
		logger.Error("reconciliation failed", "error", err)
		return OutcomeFailed
	}
	return outcome
}

// reconcileCardIssued applies provider-confirmed card detail to the pending
// local card. A card no longer known locally is not an error: one stale
// delivery must not fail the webhook.
func (r *Reconciler) reconcileCardIssued(ctx context.Context, logger *slog.Logger, env *Envelope) (Outcome, error) {
	detail, err := r.provider.GetCard(ctx, env.Reference)
	if err != nil {
		return OutcomeFailed, fmt.Errorf("fetch card detail: %w", err)
	}
	if detail == nil {
		logger.Warn("provider returned no card detail")
		return OutcomeSkipped, nil
	}

	card, err := r.cards.FindByReference(ctx, env.Reference)
	if err != nil {
		return OutcomeFailed, fmt.Errorf("find local card: %w", err)
	}
	if card == nil {
		logger.Warn("no local card for reference")
		return OutcomeSkipped, nil
	}

	if err := r.cards.ApplyIssuedDetail(ctx, card.ID, cardUpdateFromDetail(detail)); err != nil {
		return OutcomeFailed, fmt.Errorf("apply card detail: %w", err)
	}
	logger.Info("card reconciled", "card_id", card.ID)
	return OutcomeReconciled, nil
}

// reconcileAccountActivated activates a pending USD virtual account with the
// provider's bank detail. The pending+currency guard keeps duplicate or
// out-of-order deliveries from reactivating an account that already moved on.
func (r *Reconciler) reconcileAccountActivated(ctx context.Context, logger *slog.Logger, env *Envelope) (Outcome, error) {
	account, err := r.accounts.FindByProviderRef(ctx, env.Reference)
	if err != nil {
		return OutcomeFailed, fmt.Errorf("find local account: %w", err)
	}
	if account == nil {
		logger.Warn("no local account for reference")
		return OutcomeSkipped, nil
	}
	if account.Status != records.StatusPending || account.Currency != accountEventCurrency {
		logger.Debug("account not eligible for activation",
			"status", account.Status, "currency", account.Currency)
		return OutcomeSkipped, nil
	}

	detail, err := r.provider.GetVirtualAccount(ctx, env.ID)
	if err != nil {
		// Leave the record pending; a later duplicate delivery or a
		// reconciliation sweep can retry.
		return OutcomeFailed, fmt.Errorf("fetch account detail: %w", err)
	}
	if detail == nil {
		logger.Warn("provider returned no account detail")
		return OutcomeSkipped, nil
	}

	err = r.accounts.Activate(ctx, account.ID, records.AccountActivation{
		AccountHolder: detail.AccountName,
		BankName:      detail.BankName,
		AccountNumber: detail.AccountNumber,
		AccountType:   "checkings",
		Meta:          detail.Raw,
	})
	if err != nil {
		return OutcomeFailed, fmt.Errorf("activate account: %w", err)
	}
	logger.Info("account activated", "account_id", account.ID)
	return OutcomeReconciled, nil
}

// reconcileTransferSettled marks the correlated transaction successful. The
// envelope's id correlates against the transaction's provider reference, not
// its primary key.
func (r *Reconciler) reconcileTransferSettled(ctx context.Context, logger *slog.Logger, env *Envelope) (Outcome, error) {
	txn, err := r.transactions.FindByReference(ctx, env.ID)
	if err != nil {
		return OutcomeFailed, fmt.Errorf("find local transaction: %w", err)
	}
	if txn == nil {
		// The transfer may belong to another subsystem or have been purged.
		logger.Debug("no local transaction for reference")
		return OutcomeSkipped, nil
	}

	if err := r.transactions.MarkSuccessful(ctx, txn.ID); err != nil {
		return OutcomeFailed, fmt.Errorf("mark transaction successful: %w", err)
	}
	logger.Info("transaction settled", "transaction_id", txn.ID)
	return OutcomeReconciled, nil
}

// cardUpdateFromDetail shapes the authoritative provider detail into the local
// card update: masked-PAN auxiliaries sliced from the full PAN, status
// lower-cased for local consistency, and the MM/YY expiry split into fields.
func cardUpdateFromDetail(detail *maplerad.Card) records.CardIssuedUpdate {
	upd := records.CardIssuedUpdate{
		Status:     strings.ToLower(detail.Status),
		CardNumber: detail.CardNumber,
		MaskedPan:  detail.MaskedPan,
		Expiry:     detail.Expiry,
		CVV:        detail.CVV,
		Balance:    detail.Balance,
	}

	if pan := detail.CardNumber; pan != "" {
		if len(pan) >= 6 {
			upd.FirstSix = pan[:6]
		}
		if len(pan) >= 4 {
			upd.LastFour = pan[len(pan)-4:]
		}
	}

	if detail.Expiry != "" {
		month, year, _ := strings.Cut(detail.Expiry, "/")
		upd.ExpiryMonth = month
		upd.ExpiryYear = year
	}

	if a := detail.Address; a != nil {
		upd.Address = &records.Address{
			Street:     a.Street,
			City:       a.City,
			State:      a.State,
			Country:    a.Country,
			PostalCode: a.PostalCode,
		}
	}
	return upd
}
