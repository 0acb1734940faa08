package enums

import "fmt"

// VoiceState describes a voice recognition session.
type VoiceState string

const (
	VoiceStateIdle      VoiceState = "idle"
	VoiceStateListening VoiceState = "listening"
)

var validVoiceStates = []VoiceState{
	VoiceStateIdle,
	VoiceStateListening,
}

// String implements fmt.Stringer.
func (v VoiceState) String() string {
	return string(v)
}

// IsValid reports whether the value is a known VoiceState.
func (v VoiceState) IsValid() bool {
	for _, candidate := range validVoiceStates {
		if candidate == v {
			return true
		}
	}
	return false
}

// ParseVoiceState converts raw input into a VoiceState.
func ParseVoiceState(value string) (VoiceState, error) {
	for _, candidate := range validVoiceStates {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid voice session state %q", value)
}
