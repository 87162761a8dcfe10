package request

import (
	"encoding/json"
	"testing"
	"time"
)

func TestReceiptPayloadToDomain(t *testing.T) {
	body := `{
		"transactionId": "TXN-1",
		"timestamp": "2025-08-31T18:30:00Z",
		"items": [{"name": "Milk", "quantity": 3, "price": 120}],
		"subtotal": 360,
		"taxPercent": 5,
		"total": 377,
		"paymentMethod": "cash"
	}`
	var p ReceiptPayload
	if err := json.Unmarshal([]byte(body), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	d := p.ToDomain()
	if d.TransactionID != "TXN-1" || len(d.Items) != 1 {
		t.Fatalf("domain data = %+v", d)
	}
	if d.Total == nil || *d.Total != 377 {
		t.Fatalf("supplied total not carried: %v", d.Total)
	}
	want := time.Date(2025, 8, 31, 18, 30, 0, 0, time.UTC)
	if !d.Timestamp.Equal(want) {
		t.Fatalf("timestamp = %v, want %v", d.Timestamp, want)
	}
}

func TestReceiptPayloadToDomainOmittedTotal(t *testing.T) {
	var p ReceiptPayload
	if err := json.Unmarshal([]byte(`{"transactionId":"TXN-2","subtotal":100}`), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if d := p.ToDomain(); d.Total != nil {
		t.Fatalf("omitted total must stay nil, got %v", *d.Total)
	}
}

func TestReceiptPayloadToDomainBadTimestamp(t *testing.T) {
	p := ReceiptPayload{TransactionID: "TXN-3", Timestamp: "yesterday"}
	if d := p.ToDomain(); !d.Timestamp.IsZero() {
		t.Fatalf("unparseable timestamp must stay zero, got %v", d.Timestamp)
	}
}
