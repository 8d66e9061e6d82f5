package webhook

import (
	"context"
	"fmt"
	"log/slog"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/tolucodes/vaultpay/internal/maplerad"
	"github.com/tolucodes/vaultpay/internal/records"
	"github.com/tolucodes/vaultpay/internal/webhook/mocks"
)

type reconcilerMocks struct {
	provider     *mocks.MockProviderAPI
	cards        *mocks.MockCardStore
	accounts     *mocks.MockAccountStore
	transactions *mocks.MockTransactionStore
}

func newTestReconciler(t *testing.T) (*Reconciler, reconcilerMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)
	m := reconcilerMocks{
		provider:     mocks.NewMockProviderAPI(ctrl),
		cards:        mocks.NewMockCardStore(ctrl),
		accounts:     mocks.NewMockAccountStore(ctrl),
		transactions: mocks.NewMockTransactionStore(ctrl),
	}
	r := NewReconciler(m.provider, m.cards, m.accounts, m.transactions, slog.Default())
	return r, m
}

func issuedCardDetail() *maplerad.Card {
	balance := int64(1500)
	return &maplerad.Card{
		ID:         "card_prov",
		Status:     "ACTIVE",
		CardNumber: "5123450000001234",
		MaskedPan:  "512345******1234",
		Expiry:     "09/28",
		CVV:        "123",
		Balance:    &balance,
		Address: &maplerad.Address{
			Street: "1 Main St", City: "Lagos", State: "LA", Country: "NG", PostalCode: "100001",
		},
	}
}

func TestCardIssuedReconciles(t *testing.T) {
	r, m := newTestReconciler(t)
	ctx := context.Background()
	env := &Envelope{Event: EventCardIssued, Reference: "ref-a"}

	m.provider.EXPECT().GetCard(ctx, "ref-a").Return(issuedCardDetail(), nil)
	m.cards.EXPECT().FindByReference(ctx, "ref-a").Return(&records.Card{ID: "card-1", Status: records.StatusPending}, nil)

	var applied records.CardIssuedUpdate
	m.cards.EXPECT().ApplyIssuedDetail(ctx, "card-1", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, upd records.CardIssuedUpdate) error {
			applied = upd
			return nil
		})

	if got := r.Handle(ctx, env); got != OutcomeReconciled {
		t.Fatalf("outcome = %v, want reconciled", got)
	}

	if applied.Status != "active" {
		t.Errorf("status not lower-cased: %q", applied.Status)
	}
	if applied.FirstSix != "512345" || applied.LastFour != "1234" {
		t.Errorf("masked-PAN auxiliaries wrong: %q / %q", applied.FirstSix, applied.LastFour)
	}
	if applied.ExpiryMonth != "09" || applied.ExpiryYear != "28" {
		t.Errorf("expiry not split: %q / %q", applied.ExpiryMonth, applied.ExpiryYear)
	}
	if applied.Address == nil || applied.Address.PostalCode != "100001" {
		t.Errorf("address not mapped: %+v", applied.Address)
	}
}

func TestCardIssuedIdempotent(t *testing.T) {
	// A duplicate delivery re-fetches the same authoritative detail and
	// applies the same update; the final state converges.
	r, m := newTestReconciler(t)
	ctx := context.Background()
	env := &Envelope{Event: EventCardIssued, Reference: "ref-a"}

	m.provider.EXPECT().GetCard(ctx, "ref-a").Return(issuedCardDetail(), nil).Times(2)
	m.cards.EXPECT().FindByReference(ctx, "ref-a").Return(&records.Card{ID: "card-1"}, nil).Times(2)

	var updates []records.CardIssuedUpdate
	m.cards.EXPECT().ApplyIssuedDetail(ctx, "card-1", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, upd records.CardIssuedUpdate) error {
			updates = append(updates, upd)
			return nil
		}).Times(2)

	for i := 0; i < 2; i++ {
		if got := r.Handle(ctx, env); got != OutcomeReconciled {
			t.Fatalf("delivery %d: outcome = %v", i, got)
		}
	}

	if len(updates) != 2 {
		t.Fatalf("expected 2 updates, got %d", len(updates))
	}
	first, second := updates[0], updates[1]
	first.Address, second.Address = nil, nil // pointers differ; compared below
	if first != second {
		t.Errorf("duplicate deliveries applied different updates: %+v vs %+v", updates[0], updates[1])
	}
	if *updates[0].Address != *updates[1].Address {
		t.Errorf("duplicate deliveries applied different addresses")
	}
}

func TestCardIssuedNoLocalCard(t *testing.T) {
	r, m := newTestReconciler(t)
	ctx := context.Background()

	m.provider.EXPECT().GetCard(ctx, "ref-gone").Return(issuedCardDetail(), nil)
	m.cards.EXPECT().FindByReference(ctx, "ref-gone").Return(nil, nil)

	// No ApplyIssuedDetail expectation: a card no longer known locally exits
	// gracefully without failing the webhook.
	if got := r.Handle(ctx, &Envelope{Event: EventCardIssued, Reference: "ref-gone"}); got != OutcomeSkipped {
		t.Fatalf("outcome = %v, want skipped", got)
	}
}

func TestCardIssuedProviderUnknownCard(t *testing.T) {
	r, m := newTestReconciler(t)
	ctx := context.Background()

	m.provider.EXPECT().GetCard(ctx, "ref-a").Return(nil, nil)

	if got := r.Handle(ctx, &Envelope{Event: EventCardIssued, Reference: "ref-a"}); got != OutcomeSkipped {
		t.Fatalf("outcome = %v, want skipped", got)
	}
}

func TestCardIssuedProviderError(t *testing.T) {
	r, m := newTestReconciler(t)
	ctx := context.Background()

	m.provider.EXPECT().GetCard(ctx, "ref-a").Return(nil, fmt.Errorf("provider timeout"))

	if got := r.Handle(ctx, &Envelope{Event: EventCardIssued, Reference: "ref-a"}); got != OutcomeFailed {
		t.Fatalf("outcome = %v, want failed", got)
	}
}

func TestAccountActivated(t *testing.T) {
	r, m := newTestReconciler(t)
	ctx := context.Background()
	env := &Envelope{Event: EventAccountActivated, Reference: "req_1", ID: "acct_prov"}

	m.accounts.EXPECT().FindByProviderRef(ctx, "req_1").
		Return(&records.Account{ID: "acct-1", Status: records.StatusPending, Currency: "USD"}, nil)
	m.provider.EXPECT().GetVirtualAccount(ctx, "acct_prov").Return(&maplerad.VirtualAccount{
		ID:            "acct_prov",
		AccountName:   "Ada Obi",
		AccountNumber: "0123456789",
		BankName:      "Test Bank",
		Raw:           []byte(`{"id":"acct_prov"}`),
	}, nil)

	var applied records.AccountActivation
	m.accounts.EXPECT().Activate(ctx, "acct-1", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, upd records.AccountActivation) error {
			applied = upd
			return nil
		})

	if got := r.Handle(ctx, env); got != OutcomeReconciled {
		t.Fatalf("outcome = %v, want reconciled", got)
	}
	if applied.AccountHolder != "Ada Obi" || applied.BankName != "Test Bank" || applied.AccountNumber != "0123456789" {
		t.Errorf("activation not mapped: %+v", applied)
	}
	if len(applied.Meta) == 0 {
		t.Error("provider payload should be preserved in meta")
	}
}

func TestAccountActivatedGuards(t *testing.T) {
	tests := []struct {
		name    string
		account *records.Account
	}{
		{
			name:    "already active",
			account: &records.Account{ID: "acct-1", Status: records.StatusActive, Currency: "USD"},
		},
		{
			name:    "non-governed currency",
			account: &records.Account{ID: "acct-1", Status: records.StatusPending, Currency: "NGN"},
		},
		{
			name:    "no local account",
			account: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, m := newTestReconciler(t)
			ctx := context.Background()

			m.accounts.EXPECT().FindByProviderRef(ctx, "req_1").Return(tt.account, nil)
			// Neither the provider fetch nor Activate may run: the guard
			// keeps duplicate and out-of-order deliveries from touching a
			// record that already moved on.

			env := &Envelope{Event: EventAccountActivated, Reference: "req_1", ID: "acct_prov"}
			if got := r.Handle(ctx, env); got != OutcomeSkipped {
				t.Fatalf("outcome = %v, want skipped", got)
			}
		})
	}
}

func TestAccountActivatedFetchFailureLeavesPending(t *testing.T) {
	r, m := newTestReconciler(t)
	ctx := context.Background()

	m.accounts.EXPECT().FindByProviderRef(ctx, "req_1").
		Return(&records.Account{ID: "acct-1", Status: records.StatusPending, Currency: "USD"}, nil)
	m.provider.EXPECT().GetVirtualAccount(ctx, "acct_prov").Return(nil, fmt.Errorf("gateway timeout"))

	// No Activate expectation: the record stays pending so a later duplicate
	// delivery can retry.
	env := &Envelope{Event: EventAccountActivated, Reference: "req_1", ID: "acct_prov"}
	if got := r.Handle(ctx, env); got != OutcomeFailed {
		t.Fatalf("outcome = %v, want failed", got)
	}
}

func TestTransferSettled(t *testing.T) {
	r, m := newTestReconciler(t)
	ctx := context.Background()

	m.transactions.EXPECT().FindByReference(ctx, "txn_abc").
		Return(&records.Transaction{ID: "txn-1", Status: records.StatusPending}, nil)
	m.transactions.EXPECT().MarkSuccessful(ctx, "txn-1").Return(nil)

	env := &Envelope{Event: EventTransferSettled, ID: "txn_abc"}
	if got := r.Handle(ctx, env); got != OutcomeReconciled {
		t.Fatalf("outcome = %v, want reconciled", got)
	}
}

func TestTransferSettledUnknownReference(t *testing.T) {
	r, m := newTestReconciler(t)
	ctx := context.Background()

	m.transactions.EXPECT().FindByReference(ctx, "txn_other").Return(nil, nil)

	env := &Envelope{Event: EventTransferSettled, ID: "txn_other"}
	if got := r.Handle(ctx, env); got != OutcomeSkipped {
		t.Fatalf("outcome = %v, want skipped", got)
	}
}

func TestUnknownEventIgnored(t *testing.T) {
	r, _ := newTestReconciler(t)

	env := &Envelope{Event: "some.other.event"}
	if got := r.Handle(context.Background(), env); got != OutcomeIgnored {
		t.Fatalf("outcome = %v, want ignored", got)
	}
}

func TestCardUpdateFromDetailEdgeCases(t *testing.T) {
	t.Run("short pan", func(t *testing.T) {
		upd := cardUpdateFromDetail(&maplerad.Card{CardNumber: "12345", Status: "ACTIVE"})
		if upd.FirstSix != "" {
			t.Errorf("firstSix from short PAN: %q", upd.FirstSix)
		}
		if upd.LastFour != "2345" {
			t.Errorf("lastFour = %q", upd.LastFour)
		}
	})

	t.Run("expiry without slash", func(t *testing.T) {
		upd := cardUpdateFromDetail(&maplerad.Card{Expiry: "0928"})
		if upd.ExpiryMonth != "0928" || upd.ExpiryYear != "" {
			t.Errorf("expiry split = %q / %q", upd.ExpiryMonth, upd.ExpiryYear)
		}
	})

	t.Run("no address", func(t *testing.T) {
		upd := cardUpdateFromDetail(&maplerad.Card{Status: "ACTIVE"})
		if upd.Address != nil {
			t.Errorf("address should be nil, got %+v", upd.Address)
		}
	})
}
