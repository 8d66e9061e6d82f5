package webhook

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/tolucodes/vaultpay/internal/maplerad"
	"github.com/tolucodes/vaultpay/internal/records"
	"github.com/tolucodes/vaultpay/internal/storage"
)

type fixture struct {
	server       *Server
	db           *sql.DB
	cards        *records.CardStore
	accounts     *records.AccountStore
	transactions *records.TransactionStore
	deliveries   *records.DeliveryLog
}

// newFixture wires a webhook server against real SQLite stores and an
// httptest provider.
func newFixture(t *testing.T, cfg Config, provider http.HandlerFunc) *fixture {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "vaultpay.db")
	db, err := storage.OpenSQLite(context.Background(), dbPath)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if provider == nil {
		provider = func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"status":false,"message":"not found"}`, http.StatusNotFound)
		}
	}
	providerSrv := httptest.NewServer(provider)
	t.Cleanup(providerSrv.Close)

	f := &fixture{
		db:           db,
		cards:        records.NewCardStore(db),
		accounts:     records.NewAccountStore(db),
		transactions: records.NewTransactionStore(db),
		deliveries:   records.NewDeliveryLog(db),
	}

	client := maplerad.New(maplerad.Config{BaseURL: providerSrv.URL, SecretKey: "sk_test"}, slog.Default())
	reconciler := NewReconciler(client, f.cards, f.accounts, f.transactions, slog.Default())

	if cfg.Path == "" {
		cfg.Path = "/webhooks/maplerad"
	}
	f.server = New(cfg, reconciler, f.deliveries, slog.Default())
	return f
}

// post sends a signed (or deliberately broken) delivery through the router.
func (f *fixture) post(t *testing.T, body []byte, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, f.server.config.Path, bytes.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	f.server.setupRoutes().ServeHTTP(w, req)
	return w
}

func signedHeaders(t *testing.T, deliveryID, timestamp string, body []byte, secret string) map[string]string {
	t.Helper()
	sig, err := Sign(deliveryID, timestamp, body, secret)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	return map[string]string{
		HeaderDeliveryID: deliveryID,
		HeaderTimestamp:  timestamp,
		HeaderSignature:  "v1," + sig,
	}
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp
}

func TestTransferSettledEndToEnd(t *testing.T) {
	f := newFixture(t, Config{Secret: testSecret}, nil)
	ctx := context.Background()

	if err := f.transactions.Create(ctx, records.Transaction{ID: "txn-1", Reference: "txn_abc"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	body := []byte(`{"event":"transfer.successful","id":"txn_abc"}`)
	w := f.post(t, body, signedHeaders(t, "msg_1", "1700000000", body, testSecret))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	resp := decodeResponse(t, w)
	if !resp.Success || resp.Message != "Webhook received successfully" {
		t.Fatalf("unexpected response: %+v", resp)
	}

	txn, err := f.transactions.FindByReference(ctx, "txn_abc")
	if err != nil {
		t.Fatalf("FindByReference: %v", err)
	}
	if txn.Status != records.StatusSuccessful {
		t.Fatalf("transaction status = %q, want successful", txn.Status)
	}

	// The delivery landed in the log with its outcome.
	recent, err := f.deliveries.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recent) != 1 || recent[0].DeliveryID != "msg_1" || recent[0].Outcome != string(OutcomeReconciled) {
		t.Fatalf("unexpected delivery log: %+v", recent)
	}
}

func TestMissingHeaders(t *testing.T) {
	f := newFixture(t, Config{Secret: testSecret}, nil)
	body := []byte(`{"event":"transfer.successful","id":"txn_abc"}`)

	headers := signedHeaders(t, "msg_1", "1700000000", body, testSecret)
	for _, missing := range []string{HeaderDeliveryID, HeaderTimestamp, HeaderSignature} {
		t.Run(missing, func(t *testing.T) {
			partial := make(map[string]string)
			for k, v := range headers {
				if k != missing {
					partial[k] = v
				}
			}
			w := f.post(t, body, partial)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", w.Code)
			}
			// Must name the missing headers, not claim a signature mismatch.
			resp := decodeResponse(t, w)
			if resp.Message != "Missing required Svix headers" {
				t.Fatalf("message = %q", resp.Message)
			}
		})
	}
}

func TestNoV1SignatureToken(t *testing.T) {
	f := newFixture(t, Config{Secret: testSecret}, nil)
	body := []byte(`{"event":"transfer.successful","id":"txn_abc"}`)

	headers := signedHeaders(t, "msg_1", "1700000000", body, testSecret)
	headers[HeaderSignature] = "v2," + headers[HeaderSignature][3:]

	w := f.post(t, body, headers)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if resp := decodeResponse(t, w); resp.Message != "Missing v1 signature" {
		t.Fatalf("message = %q", resp.Message)
	}
}

func TestInvalidSignature(t *testing.T) {
	f := newFixture(t, Config{Secret: testSecret}, nil)
	body := []byte(`{"event":"transfer.successful","id":"txn_abc"}`)

	// Signed over a different body.
	headers := signedHeaders(t, "msg_1", "1700000000", []byte(`{"event":"forged"}`), testSecret)

	w := f.post(t, body, headers)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if resp := decodeResponse(t, w); resp.Message != "Invalid signature" {
		t.Fatalf("message = %q", resp.Message)
	}
}

func TestSecretNotConfigured(t *testing.T) {
	f := newFixture(t, Config{Secret: ""}, nil)
	body := []byte(`{"event":"transfer.successful","id":"txn_abc"}`)

	headers := signedHeaders(t, "msg_1", "1700000000", body, testSecret)
	w := f.post(t, body, headers)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
}

func TestMalformedJSONBody(t *testing.T) {
	f := newFixture(t, Config{Secret: testSecret}, nil)
	body := []byte(`{"event": not json`)

	w := f.post(t, body, signedHeaders(t, "msg_1", "1700000000", body, testSecret))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if resp := decodeResponse(t, w); resp.Message != "Invalid JSON body" {
		t.Fatalf("message = %q", resp.Message)
	}
}

func TestUnknownEventAcknowledged(t *testing.T) {
	f := newFixture(t, Config{Secret: testSecret}, nil)
	ctx := context.Background()

	if err := f.transactions.Create(ctx, records.Transaction{ID: "txn-1", Reference: "txn_abc"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	body := []byte(`{"event":"some.other.event","id":"txn_abc"}`)
	w := f.post(t, body, signedHeaders(t, "msg_1", "1700000000", body, testSecret))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	// No record mutation for an intentionally ignored event.
	txn, err := f.transactions.FindByReference(ctx, "txn_abc")
	if err != nil {
		t.Fatalf("FindByReference: %v", err)
	}
	if txn.Status != records.StatusPending {
		t.Fatalf("transaction status = %q, want pending", txn.Status)
	}
}

func TestReconciliationFailureStillAcknowledged(t *testing.T) {
	// Provider is down; the account stays pending but the sender is still
	// acknowledged so it does not retry forever.
	provider := func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"status":false,"message":"maintenance"}`, http.StatusServiceUnavailable)
	}
	f := newFixture(t, Config{Secret: testSecret}, provider)
	ctx := context.Background()

	if err := f.accounts.Create(ctx, records.Account{ID: "acct-1", ProviderRef: "req_1", Currency: "USD"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	body := []byte(`{"event":"account.creation.successful","reference":"req_1","id":"acct_prov"}`)
	w := f.post(t, body, signedHeaders(t, "msg_1", "1700000000", body, testSecret))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	account, err := f.accounts.FindByProviderRef(ctx, "req_1")
	if err != nil {
		t.Fatalf("FindByProviderRef: %v", err)
	}
	if account.Status != records.StatusPending {
		t.Fatalf("account status = %q, want pending (retryable)", account.Status)
	}
}

func TestAccountActivationEndToEnd(t *testing.T) {
	provider := func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/collections/virtual-account/acct_prov" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{"status":true,"data":{"id":"acct_prov","account_name":"Ada Obi","account_number":"0123456789","bank_name":"Test Bank","currency":"USD"}}`))
	}
	f := newFixture(t, Config{Secret: testSecret}, provider)
	ctx := context.Background()

	if err := f.accounts.Create(ctx, records.Account{ID: "acct-1", ProviderRef: "req_1", Currency: "USD"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	body := []byte(`{"event":"account.creation.successful","reference":"req_1","id":"acct_prov"}`)
	headers := signedHeaders(t, "msg_1", "1700000000", body, testSecret)

	// Deliver twice: the duplicate finds the account already active and must
	// not touch it again.
	for i := 0; i < 2; i++ {
		w := f.post(t, body, headers)
		if w.Code != http.StatusOK {
			t.Fatalf("delivery %d: status = %d", i, w.Code)
		}
	}

	account, err := f.accounts.FindByProviderRef(ctx, "req_1")
	if err != nil {
		t.Fatalf("FindByProviderRef: %v", err)
	}
	if account.Status != records.StatusActive || account.BankName != "Test Bank" {
		t.Fatalf("unexpected account: %+v", account)
	}

	recent, err := f.deliveries.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected both deliveries logged, got %d", len(recent))
	}
	if recent[1].Outcome != string(OutcomeReconciled) || recent[0].Outcome != string(OutcomeSkipped) {
		t.Fatalf("unexpected outcomes: first=%s second=%s", recent[1].Outcome, recent[0].Outcome)
	}
}

func TestStaleTimestampRejected(t *testing.T) {
	f := newFixture(t, Config{Secret: testSecret, MaxSkew: 5 * time.Minute}, nil)
	body := []byte(`{"event":"transfer.successful","id":"txn_abc"}`)

	old := strconv.FormatInt(time.Now().Add(-time.Hour).Unix(), 10)
	w := f.post(t, body, signedHeaders(t, "msg_1", old, body, testSecret))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}

	fresh := strconv.FormatInt(time.Now().Unix(), 10)
	w = f.post(t, body, signedHeaders(t, "msg_2", fresh, body, testSecret))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 for fresh timestamp", w.Code)
	}
}

func TestPayloadTooLarge(t *testing.T) {
	f := newFixture(t, Config{Secret: testSecret, MaxBodySize: 64}, nil)
	body := bytes.Repeat([]byte("a"), 128)

	w := f.post(t, body, signedHeaders(t, "msg_1", "1700000000", body, testSecret))
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, want 413", w.Code)
	}
}
