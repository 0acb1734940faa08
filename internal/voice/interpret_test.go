package voice

import (
	"reflect"
	"testing"
)

func TestInterpret(t *testing.T) {
	tests := []struct {
		name       string
		transcript string
		amount     string
		actions    []Action
	}{
		{
			name:       "qr with amount",
			transcript: "qr 500",
			amount:     "500",
			actions:    []Action{ActionGenerateQR},
		},
		{
			name:       "cash with amount",
			transcript: "cash 200",
			amount:     "200",
			actions:    []Action{ActionRecordCash},
		},
		{
			name:       "code keyword triggers qr",
			transcript: "show me the code for 75 rupees",
			amount:     "75",
			actions:    []Action{ActionGenerateQR},
		},
		{
			name:       "both keywords trigger both, qr first",
			transcript: "cash or qr 150",
			amount:     "150",
			actions:    []Action{ActionGenerateQR, ActionRecordCash},
		},
		{
			name:       "no digits no keywords",
			transcript: "hello",
			amount:     "",
			actions:    nil,
		},
		{
			name:       "uppercase transcript",
			transcript: "QR 300",
			amount:     "300",
			actions:    []Action{ActionGenerateQR},
		},
		{
			name:       "first digit run wins",
			transcript: "collect 120 not 450 cash",
			amount:     "120",
			actions:    []Action{ActionRecordCash},
		},
		{
			name:       "digits split by punctuation",
			transcript: "qr 1,500",
			amount:     "1",
			actions:    []Action{ActionGenerateQR},
		},
		{
			name:       "amount without keyword",
			transcript: "600 rupees please",
			amount:     "600",
			actions:    nil,
		},
		{
			name:       "trailing digits",
			transcript: "cash 42",
			amount:     "42",
			actions:    []Action{ActionRecordCash},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cmd := Interpret(tc.transcript)
			if cmd.Amount != tc.amount {
				t.Fatalf("amount: got %q want %q", cmd.Amount, tc.amount)
			}
			if !reflect.DeepEqual(cmd.Actions, tc.actions) {
				t.Fatalf("actions: got %v want %v", cmd.Actions, tc.actions)
			}
			if cmd.Transcript != tc.transcript {
				t.Fatalf("transcript should be echoed back, got %q", cmd.Transcript)
			}
		})
	}
}
