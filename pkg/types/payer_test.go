package types

import "testing"

func TestPayerRoundTrip(t *testing.T) {
	in := Payer{
		Name:    "Rajesh Kumar",
		Phone:   "+91 9876543210",
		Email:   "customer42@email.com",
		Address: "Mumbai Area",
		Channel: "UPI",
	}

	value, err := in.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}

	var out Payer
	if err := out.Scan(value); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if out != in {
		t.Fatalf("round trip mismatch: %+v != %+v", out, in)
	}
}

func TestPayerScanNil(t *testing.T) {
	payer := Payer{Name: "stale"}
	if err := payer.Scan(nil); err != nil {
		t.Fatalf("Scan(nil): %v", err)
	}
	if payer != (Payer{}) {
		t.Fatalf("expected zero payer, got %+v", payer)
	}
}

func TestPayerScanRejectsUnknownType(t *testing.T) {
	var payer Payer
	if err := payer.Scan(42); err == nil {
		t.Fatal("expected error for unsupported scan type")
	}
}
