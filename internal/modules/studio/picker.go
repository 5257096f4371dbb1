package studio

import (
	"fmt"

	"github.com/nfrund/portfolio/internal/domain"
)

// PickerState is the state of the asset picker for one image field.
type PickerState string

const (
	PickerIdle      PickerState = "idle"
	PickerUploading PickerState = "uploading"
	PickerSuccess   PickerState = "success"
	PickerError     PickerState = "error"
)

// PickerEvent moves the picker between states.
type PickerEvent string

const (
	// EventSelect is sent when the author chooses a file.
	EventSelect PickerEvent = "select"
	// EventSucceed is sent once the blob is stored and the completion posted.
	EventSucceed PickerEvent = "succeed"
	// EventFail is sent when any upload step fails.
	EventFail PickerEvent = "fail"
	// EventRetry is the manual way back from an error.
	EventRetry PickerEvent = "retry"
)

var pickerTransitions = map[PickerState]map[PickerEvent]PickerState{
	PickerIdle:      {EventSelect: PickerUploading},
	PickerUploading: {EventSucceed: PickerSuccess, EventFail: PickerError},
	PickerError:     {EventRetry: PickerIdle},
}

// Valid reports whether s is a known state.
func (s PickerState) Valid() bool {
	switch s {
	case PickerIdle, PickerUploading, PickerSuccess, PickerError:
		return true
	}
	return false
}

// Next returns the state reached from s on event. Success is terminal; a
// new upload opens a fresh picker.
func (s PickerState) Next(event PickerEvent) (PickerState, error) {
	if next, ok := pickerTransitions[s][event]; ok {
		return next, nil
	}
	return s, fmt.Errorf("%w: %s on %s", domain.ErrInvalidPickerTransition, event, s)
}
