package lifecycle

import (
	"errors"
	"fmt"
)

// Action is a lifecycle-advancing operation on an article.
type Action string

const (
	ActionRequest  Action = "request"  // author asks for publication
	ActionReview   Action = "review"   // publisher starts working the request
	ActionReject   Action = "reject"   // publisher returns the draft
	ActionPublish  Action = "publish"  // publisher promotes the draft
	ActionEdit     Action = "edit"     // author or publisher saves the draft
	ActionDelete   Action = "delete"   // soft-delete of a live article
	ActionTransfer Action = "transfer" // admin rehomes a deleted live article
)

var (
	// ErrInvalidTransition is returned when an action is not legal from the
	// article's current status. Callers reject the operation instead of
	// silently succeeding.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrAlreadyRequested distinguishes the request-spam guard from other
	// invalid transitions, so handlers can word the denial differently.
	ErrAlreadyRequested = errors.New("a request to publish has already been made")
)

// transitions is the closed transition table. Validity is decided here,
// centrally, never re-derived in handlers.
var transitions = map[Action]map[Status]Status{
	ActionRequest: {
		StatusDraft:     StatusRequested,
		StatusPublished: StatusPubRequested,
		StatusPubDraft:  StatusPubRequested,
	},
	ActionReview: {
		StatusRequested:    StatusPending,
		StatusPubRequested: StatusPubPending,
	},
	ActionReject: {
		StatusPending: StatusDraft,
		// A live twin still exists, so the draft reverts to published,
		// not draft.
		StatusPubPending: StatusPubDraft,
	},
	ActionPublish: {
		StatusPending:    StatusPublished,
		StatusPubPending: StatusPublished,
	},
	ActionEdit: {
		StatusDraft:     StatusDraft,
		StatusRequested: StatusRequested,
		StatusPublished: StatusPubDraft,
		StatusPubDraft:  StatusPubDraft,
	},
	ActionDelete: {
		StatusPubLive: StatusPubDeleted,
	},
	ActionTransfer: {
		// Rehoming a live article keeps it live; transferring a deleted
		// one republishes it.
		StatusPubLive:    StatusPubLive,
		StatusPubDeleted: StatusPubLive,
	},
}

// Transition returns the status an article moves to when action is applied,
// or an error if the action is not legal from the current status.
func Transition(from Status, action Action) (Status, error) {
	if action == ActionRequest && from.IsRequested() {
		return from, ErrAlreadyRequested
	}
	table, ok := transitions[action]
	if !ok {
		return from, fmt.Errorf("%w: unknown action %q", ErrInvalidTransition, action)
	}
	next, ok := table[from]
	if !ok {
		return from, fmt.Errorf("%w: cannot %s from %s", ErrInvalidTransition, action, from)
	}
	return next, nil
}
