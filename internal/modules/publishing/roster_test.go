package publishing

import (
	"testing"

	"github.com/easy-read/core/internal/modules/lifecycle"
	"github.com/stretchr/testify/assert"
)

func TestDemoteDrainsEveryStatus(t *testing.T) {
	tests := []struct {
		name       string
		status     lifecycle.Status
		wantStatus lifecycle.Status
		reassign   bool
	}{
		{"requested returns to author", lifecycle.StatusRequested, lifecycle.StatusDraft, false},
		{"pending returns to author", lifecycle.StatusPending, lifecycle.StatusDraft, false},
		{"re-request follows twin to admin", lifecycle.StatusPubRequested, lifecycle.StatusPubDraft, true},
		{"re-review follows twin to admin", lifecycle.StatusPubPending, lifecycle.StatusPubDraft, true},
		{"assigned draft is released", lifecycle.StatusDraft, "", false},
		{"published twin to admin", lifecycle.StatusPublished, "", true},
		{"edited twin to admin", lifecycle.StatusPubDraft, "", true},
		{"live article to admin", lifecycle.StatusPubLive, "", true},
		{"soft-deleted article to admin", lifecycle.StatusPubDeleted, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := demote(tt.status)
			assert.Equal(t, tt.wantStatus, d.status)
			assert.Equal(t, tt.reassign, d.reassign)
		})
	}
}
