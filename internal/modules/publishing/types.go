package publishing

import (
	"time"

	"github.com/easy-read/core/internal/models"
)

// EmailDTO selects a user by address for roster changes and transfers.
type EmailDTO struct {
	Email string `json:"email" binding:"required,email"`
}

// publisherItem is one row in the admin's publisher roster.
type publisherItem struct {
	PublisherID string `json:"publisherId"`
	UserID      string `json:"userId"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	Writers     int    `json:"writers"`
	Published   int    `json:"published"`
}

// writerItem is one row in a publisher's writer roster.
type writerItem struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Email    string `json:"email"`
	// Published marks writers with articles published by this publisher;
	// removing them keeps the published assignments intact.
	Published bool `json:"published"`
}

// requestItem is one publication request awaiting review.
type requestItem struct {
	ArticleID   string             `json:"articleId"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Status      string             `json:"status"`
	Image       *models.ImageModel `json:"image,omitempty"`
	AuthorID    string             `json:"authorId"`
	AuthorName  string             `json:"authorName"`
}

// requestInbox groups requests by the author's standing with the publisher.
// Associated authors are the publisher's recruited writers; disassociated
// authors are related through an assigned article only; unassociated authors
// have no publisher at all and can be recruited by reviewing.
type requestInbox struct {
	Associated    []requestItem `json:"associated"`
	Disassociated []requestItem `json:"disassociated"`
	Unassociated  []requestItem `json:"unassociated"`
}

// publishedItem is one row in the publisher's or admin's published listing.
type publishedItem struct {
	ArticleID     string             `json:"articleId"`
	Title         string             `json:"title"`
	Description   string             `json:"description"`
	Status        string             `json:"status"`
	Image         *models.ImageModel `json:"image,omitempty"`
	AuthorID      string             `json:"authorId"`
	NoteID        *string            `json:"noteId,omitempty"`
	Slug          *string            `json:"slug,omitempty"`
	IsActive      *bool              `json:"isActive,omitempty"`
	DatePublished *time.Time         `json:"datePublished,omitempty"`
	DateUpdated   *time.Time         `json:"dateUpdated,omitempty"`
}
