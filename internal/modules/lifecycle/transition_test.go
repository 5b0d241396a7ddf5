package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransitionTable(t *testing.T) {
	tests := []struct {
		name   string
		from   Status
		action Action
		want   Status
	}{
		{"request draft", StatusDraft, ActionRequest, StatusRequested},
		{"request published", StatusPublished, ActionRequest, StatusPubRequested},
		{"request edited published", StatusPubDraft, ActionRequest, StatusPubRequested},
		{"review new", StatusRequested, ActionReview, StatusPending},
		{"review published", StatusPubRequested, ActionReview, StatusPubPending},
		{"reject new", StatusPending, ActionReject, StatusDraft},
		{"reject published", StatusPubPending, ActionReject, StatusPubDraft},
		{"publish first time", StatusPending, ActionPublish, StatusPublished},
		{"republish", StatusPubPending, ActionPublish, StatusPublished},
		{"edit draft", StatusDraft, ActionEdit, StatusDraft},
		{"edit requested", StatusRequested, ActionEdit, StatusRequested},
		{"edit published drifts", StatusPublished, ActionEdit, StatusPubDraft},
		{"soft delete live", StatusPubLive, ActionDelete, StatusPubDeleted},
		{"transfer deleted", StatusPubDeleted, ActionTransfer, StatusPubLive},
		{"transfer live", StatusPubLive, ActionTransfer, StatusPubLive},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Transition(tt.from, tt.action)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTransitionRejectsIllegalMoves(t *testing.T) {
	tests := []struct {
		name   string
		from   Status
		action Action
	}{
		{"publish without review", StatusDraft, ActionPublish},
		{"publish a request", StatusRequested, ActionPublish},
		{"review without request", StatusDraft, ActionReview},
		{"review while pending", StatusPending, ActionReview},
		{"delete a draft", StatusDraft, ActionDelete},
		{"transfer a draft", StatusDraft, ActionTransfer},
		{"edit under review", StatusPending, ActionEdit},
		{"request while pending", StatusPending, ActionRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Transition(tt.from, tt.action)
			assert.ErrorIs(t, err, ErrInvalidTransition)
		})
	}
}

func TestTransitionSpamGuard(t *testing.T) {
	for _, from := range []Status{StatusRequested, StatusPubRequested} {
		_, err := Transition(from, ActionRequest)
		assert.ErrorIs(t, err, ErrAlreadyRequested, "from %s", from)
	}
}

func TestStatusPredicates(t *testing.T) {
	assert.True(t, StatusPending.UnderReview())
	assert.True(t, StatusPubPending.UnderReview())
	assert.False(t, StatusRequested.UnderReview())

	assert.True(t, StatusPending.FrozenForAuthor())
	assert.True(t, StatusPubLive.FrozenForAuthor())
	assert.False(t, StatusPubDraft.FrozenForAuthor())

	assert.True(t, StatusPubLive.Live())
	assert.True(t, StatusPubDeleted.Live())
	assert.False(t, StatusPublished.Live())

	assert.True(t, StatusPublished.HasLiveTwin())
	assert.True(t, StatusPubPending.HasLiveTwin())
	assert.False(t, StatusDraft.HasLiveTwin())

	assert.True(t, Valid(StatusDraft))
	assert.False(t, Valid(Status("zombie")))
}
