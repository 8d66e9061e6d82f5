package maplerad

import "encoding/json"

// Card is the authoritative card detail returned by GET /issuing/{id}.
type Card struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Status     string   `json:"status"`
	CardNumber string   `json:"card_number"`
	MaskedPan  string   `json:"masked_pan"`
	Expiry     string   `json:"expiry"`
	CVV        string   `json:"cvv"`
	Currency   string   `json:"currency"`
	Balance    *int64   `json:"balance"`
	Address    *Address `json:"address"`
}

// Address is the card billing address as the provider reports it.
type Address struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	Country    string `json:"country"`
	PostalCode string `json:"postal_code"`
}

// VirtualAccount is the detail returned by GET /collections/virtual-account/{id}.
type VirtualAccount struct {
	ID            string `json:"id"`
	AccountName   string `json:"account_name"`
	AccountNumber string `json:"account_number"`
	BankName      string `json:"bank_name"`
	BankCode      string `json:"bank_code"`
	Currency      string `json:"currency"`

	// Raw preserves the provider payload verbatim for storage in the
	// account's meta column.
	Raw json.RawMessage `json:"-"`
}

// AccountRequestStatus is the detail returned by
// GET /collections/virtual-account/status/{reference}.
type AccountRequestStatus struct {
	Status string `json:"status"`
}

// envelope is the outer shape of every v1 API response.
type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}
