package voice

import (
	"strings"
)

// Action is a payment flow a spoken command asks for.
type Action string

const (
	ActionGenerateQR Action = "generate_qr"
	ActionRecordCash Action = "record_cash"
)

// Command is the structured reading of one transcript. Amount is the first
// unbroken run of digits, empty when the transcript has none. Keyword checks
// are independent, so a transcript naming both channels yields both actions
// with QR ordered first.
type Command struct {
	Transcript string   `json:"transcript"`
	Amount     string   `json:"amount,omitempty"`
	Actions    []Action `json:"actions"`
}

// Interpret extracts the amount and requested actions from a transcript.
// Matching is case-insensitive substring search; unknown text is ignored
// rather than rejected.
func Interpret(transcript string) Command {
	lowered := strings.ToLower(transcript)

	cmd := Command{
		Transcript: transcript,
		Amount:     firstDigitRun(lowered),
	}
	if strings.Contains(lowered, "qr") || strings.Contains(lowered, "code") {
		cmd.Actions = append(cmd.Actions, ActionGenerateQR)
	}
	if strings.Contains(lowered, "cash") {
		cmd.Actions = append(cmd.Actions, ActionRecordCash)
	}
	return cmd
}

func firstDigitRun(s string) string {
	start := -1
	for i, r := range s {
		if r >= '0' && r <= '9' {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			return s[start:i]
		}
	}
	if start >= 0 {
		return s[start:]
	}
	return ""
}
