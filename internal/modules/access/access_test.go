package access

import (
	"testing"

	"github.com/easy-read/core/internal/modules/lifecycle"
	"github.com/stretchr/testify/assert"
)

var (
	admin     = Actor{UserID: "u-admin", IsAdmin: true}
	author    = Actor{UserID: "u-author"}
	publisher = Actor{UserID: "u-pub", PublisherID: "p-1"}
	stranger  = Actor{UserID: "u-other"}
)

func article(status lifecycle.Status) Article {
	return Article{
		AuthorID:        "u-author",
		PublisherID:     "p-1",
		PublisherUserID: "u-pub",
		Status:          status,
	}
}

func TestAdminOnly(t *testing.T) {
	assert.True(t, AdminOnly(admin).Allowed)

	d := AdminOnly(publisher)
	assert.False(t, d.Allowed)
	assert.Equal(t, "You must have administrative access to do that.", d.Reason)
	assert.Equal(t, RedirectAuthorArticles, d.Redirect)
}

func TestPublisherOrAdmin(t *testing.T) {
	assert.True(t, PublisherOrAdmin(admin).Allowed)
	assert.True(t, PublisherOrAdmin(publisher).Allowed)

	d := PublisherOrAdmin(author)
	assert.False(t, d.Allowed)
	assert.Equal(t, "You must have publishing access to do that.", d.Reason)
}

func TestArticleAccessAdminBypassesEverything(t *testing.T) {
	for _, status := range []lifecycle.Status{
		lifecycle.StatusDraft, lifecycle.StatusPending, lifecycle.StatusPubLive,
	} {
		assert.True(t, ArticleAccess(admin, article(status), OriginDefault).Allowed, "status %s", status)
	}
}

func TestArticleAccessUnassignedArticle(t *testing.T) {
	art := Article{AuthorID: "u-author", Status: lifecycle.StatusDraft}

	assert.True(t, ArticleAccess(author, art, OriginDefault).Allowed)

	d := ArticleAccess(publisher, art, OriginDefault)
	assert.False(t, d.Allowed)
	assert.Equal(t, "You do not have access to that article.", d.Reason)
}

func TestArticleAccessStranger(t *testing.T) {
	d := ArticleAccess(stranger, article(lifecycle.StatusDraft), OriginDefault)
	assert.False(t, d.Allowed)
	assert.Equal(t, RedirectAuthorArticles, d.Redirect)
}

func TestArticleAccessRequestsOriginOffersReview(t *testing.T) {
	d := ArticleAccess(stranger, article(lifecycle.StatusRequested), OriginRequests)
	assert.False(t, d.Allowed)
	assert.Equal(t, `You do not have access to that article. To gain access, click "Review".`, d.Reason)
	assert.Equal(t, RedirectRequests, d.Redirect)
	assert.True(t, d.Gated)
}

func TestArticleAccessAuthorFrozenDuringReview(t *testing.T) {
	for _, status := range []lifecycle.Status{lifecycle.StatusPending, lifecycle.StatusPubPending} {
		d := ArticleAccess(author, article(status), OriginDefault)
		assert.False(t, d.Allowed, "status %s", status)
		assert.Equal(t, "That article is currently being reviewed. Changes cannot be made at this time.", d.Reason)
		assert.True(t, d.Gated)
	}
}

func TestArticleAccessAuthorDeniedOnLiveCopy(t *testing.T) {
	d := ArticleAccess(author, article(lifecycle.StatusPubLive), OriginDefault)
	assert.False(t, d.Allowed)
	assert.Equal(t, "You do not have access to that article.", d.Reason)
	assert.False(t, d.Gated)
}

func TestArticleAccessPublisherKeepsAccessDuringReview(t *testing.T) {
	for _, status := range []lifecycle.Status{
		lifecycle.StatusPending, lifecycle.StatusPubPending, lifecycle.StatusPubLive,
	} {
		assert.True(t, ArticleAccess(publisher, article(status), OriginDefault).Allowed, "status %s", status)
	}
}

func TestArticleAccessAuthorRegainsAccessAfterResolution(t *testing.T) {
	for _, status := range []lifecycle.Status{
		lifecycle.StatusDraft, lifecycle.StatusRequested,
		lifecycle.StatusPublished, lifecycle.StatusPubDraft,
	} {
		assert.True(t, ArticleAccess(author, article(status), OriginDefault).Allowed, "status %s", status)
	}
}
