// Package access centralizes the authorization rules that were previously
// scattered across request handlers. Every predicate is a pure function over
// an actor snapshot and an article snapshot; handlers translate the returned
// Decision into a flash-and-redirect response.
package access

import "github.com/easy-read/core/internal/modules/lifecycle"

// Actor is the authenticated identity evaluated by the policy.
type Actor struct {
	UserID      string
	Email       string
	IsAdmin     bool
	PublisherID string // empty if the user holds no publisher role
}

// Article is the authorization-relevant projection of an article row.
type Article struct {
	AuthorID        string
	PublisherID     string // empty if unassigned
	PublisherUserID string // user behind the assigned publisher role
	Status          lifecycle.Status
}

// Origin identifies the view a request came from; denial copy differs when
// the actor arrived from the pending-requests inbox.
type Origin string

const (
	OriginDefault  Origin = ""
	OriginRequests Origin = "requests"
)

// Redirect targets for denials. These are listing pages, never bare errors.
const (
	RedirectAuthorArticles    = "/articles/mine"
	RedirectPublisherArticles = "/publishing/articles"
	RedirectAdminArticles     = "/publishing/admin/articles"
	RedirectRequests          = "/publishing/requests"
	RedirectIndex             = "/"
)

// Decision is the outcome of an authorization check.
type Decision struct {
	Allowed  bool
	Reason   string
	Redirect string
	// Gated marks denials caused by the article's current lifecycle state
	// rather than a lack of standing; user-facing copy differs.
	Gated bool
}

func allow() Decision { return Decision{Allowed: true} }

func deny(reason, redirect string) Decision {
	return Decision{Reason: reason, Redirect: redirect}
}

func denyGated(reason, redirect string) Decision {
	return Decision{Reason: reason, Redirect: redirect, Gated: true}
}

// AdminOnly grants access to the fixed admin allow-list only.
func AdminOnly(actor Actor) Decision {
	if actor.IsAdmin {
		return allow()
	}
	return deny("You must have administrative access to do that.", RedirectAuthorArticles)
}

// PublisherOrAdmin grants access to publishers and admin only.
func PublisherOrAdmin(actor Actor) Decision {
	if actor.IsAdmin || actor.PublisherID != "" {
		return allow()
	}
	return deny("You must have publishing access to do that.", RedirectAuthorArticles)
}

// ArticleAccess grants access to the article's author, its assigned
// publisher, and admin.
//
// Authors are further frozen out of drafts undergoing review (preventing the
// race where unchecked changes ride along with an approved request) and out
// of live content entirely.
func ArticleAccess(actor Actor, article Article, origin Origin) Decision {
	if actor.IsAdmin {
		return allow()
	}

	isAuthor := actor.UserID == article.AuthorID

	if article.PublisherID == "" {
		// Unassigned: author only.
		if isAuthor {
			return allow()
		}
		return denyNoAccess(origin)
	}

	isPublisher := actor.UserID == article.PublisherUserID
	if !isAuthor && !isPublisher {
		return denyNoAccess(origin)
	}

	if article.Status.FrozenForAuthor() && !isPublisher {
		if article.Status.UnderReview() {
			return denyGated("That article is currently being reviewed. Changes cannot be made at this time.", RedirectAuthorArticles)
		}
		return deny("You do not have access to that article.", RedirectAuthorArticles)
	}

	return allow()
}

func denyNoAccess(origin Origin) Decision {
	if origin == OriginRequests {
		return denyGated(`You do not have access to that article. To gain access, click "Review".`, RedirectRequests)
	}
	return deny("You do not have access to that article.", RedirectAuthorArticles)
}
