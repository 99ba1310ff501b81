package lifecycle

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/morgancollado/mocingbird-task-manager/internal/pkg/apperr"
	"github.com/morgancollado/mocingbird-task-manager/internal/types"
)

// Event is a named trigger that moves a task between lifecycle states.
type Event string

const (
	EventStart    Event = "start"
	EventComplete Event = "complete"
	EventCancel   Event = "cancel"
)

// IsTerminal reports whether no event can leave the state.
func IsTerminal(s types.TaskStatus) bool {
	switch s {
	case types.TaskCompleted, types.TaskCancelled:
		return true
	default:
		return false
	}
}

// Transition validates event against the current state and returns the
// resulting state. It never mutates anything; persisting the result is the
// caller's job, and only after this function succeeds.
//
// The cancel event is owner-only: actorID must equal ownerID. The acting user
// is always an explicit parameter, never read from ambient state.
func Transition(current types.TaskStatus, event Event, actorID, ownerID uuid.UUID) (types.TaskStatus, error) {
	switch event {
	case EventStart:
		if current == types.TaskPending {
			return types.TaskInProgress, nil
		}
	case EventComplete:
		if current == types.TaskPending || current == types.TaskInProgress {
			return types.TaskCompleted, nil
		}
	case EventCancel:
		if current == types.TaskPending || current == types.TaskInProgress {
			if actorID != ownerID {
				return current, fmt.Errorf("cancel task owned by %s: %w", ownerID, apperr.ErrForbidden)
			}
			return types.TaskCancelled, nil
		}
	default:
		return current, fmt.Errorf("unknown event %q: %w", event, apperr.ErrInvalidTransition)
	}
	return current, fmt.Errorf("cannot %s a %s task: %w", event, current, apperr.ErrInvalidTransition)
}

// EventFor maps a requested target state to the single event that reaches it
// from current. A target equal to current yields noop=true with no event.
func EventFor(current, target types.TaskStatus) (event Event, noop bool, err error) {
	if !types.ValidTaskStatus(target) {
		return "", false, fmt.Errorf("status %q: %w", target, apperr.ErrUnknownStatus)
	}
	if target == current {
		return "", true, nil
	}
	switch target {
	case types.TaskInProgress:
		event = EventStart
	case types.TaskCompleted:
		event = EventComplete
	case types.TaskCancelled:
		event = EventCancel
	default:
		// pending is the initial state; nothing transitions back into it
		return "", false, fmt.Errorf("cannot return a %s task to %s: %w", current, target, apperr.ErrInvalidTransition)
	}
	return event, false, nil
}
