package lifecycle

// Status is an article's position in the publishing lifecycle.
//
// Draft-track statuses describe the author-owned working copy; live-track
// statuses (pub_live, pub_deleted) describe the published twin. Statuses
// prefixed pub_ imply a live twin exists.
type Status string

const (
	// Draft track.
	StatusDraft        Status = "draft"
	StatusRequested    Status = "requested"
	StatusPending      Status = "pending"
	StatusPublished    Status = "published"
	StatusPubDraft     Status = "pub_draft"
	StatusPubRequested Status = "pub_requested"
	StatusPubPending   Status = "pub_pending"

	// Live track.
	StatusPubLive    Status = "pub_live"
	StatusPubDeleted Status = "pub_deleted"
)

var allStatuses = map[Status]struct{}{
	StatusDraft:        {},
	StatusRequested:    {},
	StatusPending:      {},
	StatusPublished:    {},
	StatusPubDraft:     {},
	StatusPubRequested: {},
	StatusPubPending:   {},
	StatusPubLive:      {},
	StatusPubDeleted:   {},
}

// Valid reports whether s is a known status.
func Valid(s Status) bool {
	_, ok := allStatuses[s]
	return ok
}

// IsRequested reports whether the article has an outstanding publication
// request (used to stop authors spamming requests).
func (s Status) IsRequested() bool {
	return s == StatusRequested || s == StatusPubRequested
}

// UnderReview reports whether a publisher is actively working the article.
// Entering review is the lock-acquire that freezes the author out; leaving it
// (reject or publish) is the release.
func (s Status) UnderReview() bool {
	return s == StatusPending || s == StatusPubPending
}

// FrozenForAuthor reports whether the author is denied write access: while a
// review is in flight, and permanently for live content.
func (s Status) FrozenForAuthor() bool {
	return s.UnderReview() || s == StatusPubLive
}

// Live reports whether s belongs to the live track.
func (s Status) Live() bool {
	return s == StatusPubLive || s == StatusPubDeleted
}

// HasLiveTwin reports whether a draft-track status implies a published twin.
func (s Status) HasLiveTwin() bool {
	switch s {
	case StatusPublished, StatusPubDraft, StatusPubRequested, StatusPubPending:
		return true
	}
	return false
}
