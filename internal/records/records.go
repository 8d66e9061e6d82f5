// Package records implements the local record store the webhook pipeline
// reconciles against: virtual cards, virtual bank accounts, transactions, and
// the delivery log. Records are created elsewhere in the system in a pending
// state; reconciliation only ever moves them toward a terminal state.
package records

import (
	"encoding/json"
	"time"
)

// Record statuses. Transitions are one-way: pending/in_progress toward a
// terminal status, never back.
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusActive     = "active"
	StatusSuccessful = "successful"
)

// Card is a locally provisioned virtual card.
type Card struct {
	ID            string
	UserID        string
	HolderName    string
	Reference     string
	CardReference string
	Status        string
	CardNumber    string
	MaskedPan     string
	FirstSix      string
	LastFour      string
	Expiry        string
	ExpiryMonth   string
	ExpiryYear    string
	CVV           string
	Balance       *int64
	CreatedAt     time.Time
}

// Address is the card's owned billing address.
type Address struct {
	Street     string
	City       string
	State      string
	Country    string
	PostalCode string
}

// CardIssuedUpdate carries the authoritative card detail applied when the
// provider confirms issuance.
type CardIssuedUpdate struct {
	Status      string
	CardNumber  string
	MaskedPan   string
	FirstSix    string
	LastFour    string
	Expiry      string
	ExpiryMonth string
	ExpiryYear  string
	CVV         string
	Balance     *int64
	Address     *Address
}

// Account is a locally provisioned virtual bank account.
type Account struct {
	ID            string
	UserID        string
	ProviderRef   string
	Currency      string
	Status        string
	AccountHolder string
	BankName      string
	AccountNumber string
	CreatedAt     time.Time
}

// AccountActivation carries the authoritative account detail applied when the
// provider confirms creation.
type AccountActivation struct {
	AccountHolder string
	BankName      string
	AccountNumber string
	RoutingNumber string
	AccountType   string
	Meta          json.RawMessage
}

// Transaction is an initiated transfer awaiting settlement.
type Transaction struct {
	ID        string
	UserID    string
	Reference string
	Status    string
	Amount    *int64
	Currency  string
	CreatedAt time.Time
}

// Delivery is one logged webhook delivery attempt.
type Delivery struct {
	ID         string    `json:"id"`
	DeliveryID string    `json:"delivery_id"`
	Event      string    `json:"event"`
	Reference  string    `json:"reference,omitempty"`
	Outcome    string    `json:"outcome"`
	ReceivedAt time.Time `json:"received_at"`
}
