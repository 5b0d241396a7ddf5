package publishing

import (
	"errors"

	"github.com/easy-read/core/internal/models"
	"github.com/easy-read/core/internal/modules/access"
	"github.com/easy-read/core/internal/modules/lifecycle"
	"github.com/easy-read/core/internal/pkg/mail"
	"github.com/easy-read/core/internal/pkg/pagination"
	"github.com/easy-read/core/internal/pkg/response"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrAlreadyPublisher = errors.New("that user is already a publisher")
	ErrWriterTaken      = errors.New("that writer already has a publisher")
	ErrNotYourWriter    = errors.New("you are not the publisher of that writer")
)

// ListPublishers returns the publisher roster, excluding admin accounts.
func (s *Service) ListPublishers() ([]publisherItem, error) {
	var publishers []models.PublisherModel
	err := s.db.Preload("User").Preload("Writers").Preload("PublishedArticles").
		Find(&publishers).Error
	if err != nil {
		return nil, err
	}

	items := make([]publisherItem, 0, len(publishers))
	for _, p := range publishers {
		if p.User == nil || s.cfg.IsAdmin(p.User.Email) {
			continue
		}
		items = append(items, publisherItem{
			PublisherID: p.ID,
			UserID:      p.UserID,
			Username:    p.User.Username,
			Email:       p.User.Email,
			Writers:     len(p.Writers),
			Published:   len(p.PublishedArticles),
		})
	}
	return items, nil
}

// AddPublisher promotes the user behind email to publisher. Promotion grants
// self-publishing: the new publisher receives their own publication requests.
func (s *Service) AddPublisher(email string) error {
	var user models.UserModel
	err := s.db.Preload("PublisherRole").First(&user, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserUnknown
		}
		return err
	}
	if user.PublisherRole != nil {
		return ErrAlreadyPublisher
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		publisher := models.PublisherModel{UserID: user.ID}
		if err := tx.Create(&publisher).Error; err != nil {
			return err
		}
		return tx.Model(&user).Update("published_by", publisher.ID).Error
	})
	if err != nil {
		return err
	}

	s.notify(mail.Message{
		To:      []string{user.Email},
		ReplyTo: s.cfg.PrimaryAdminEmail(),
		Subject: "Invitation to become a publisher",
		HTML:    mail.PublisherInviteHTML(),
	})

	s.logger.Info("publisher added", zap.String("user_id", user.ID))
	return nil
}

// demotion is the outcome for one of a demoted publisher's articles: the
// status it drains to (empty leaves it unchanged) and whether its assignment
// transfers to the admin publisher instead of being cleared.
type demotion struct {
	status   lifecycle.Status
	reassign bool
}

// demote maps an article's status to its outcome when its publisher is
// removed. In-flight requests return to their authors; anything tied to a
// live twin follows that twin into admin stewardship. Every article loses
// its reference to the removed publisher, one way or the other.
func demote(status lifecycle.Status) demotion {
	switch status {
	case lifecycle.StatusRequested, lifecycle.StatusPending:
		return demotion{status: lifecycle.StatusDraft}
	case lifecycle.StatusPubRequested, lifecycle.StatusPubPending:
		return demotion{status: lifecycle.StatusPubDraft, reassign: true}
	case lifecycle.StatusDraft:
		return demotion{}
	default:
		// published, pub_draft, pub_live, pub_deleted.
		return demotion{reassign: true}
	}
}

// RemovePublisher demotes the user behind userID back to author.
//
// The publisher's in-flight reviews and requests are returned to their
// authors, articles tied to a live twin are reassigned to admin, and their
// writers are released. Published content itself stays live; permanent
// deletion and transference remain admin operations.
func (s *Service) RemovePublisher(userID string) error {
	var user models.UserModel
	err := s.db.Preload("PublisherRole").First(&user, "id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserUnknown
		}
		return err
	}
	if user.PublisherRole == nil {
		return ErrNotAPublisher
	}
	publisher := user.PublisherRole

	adminPub, err := s.adminPublisher()
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var articles []models.ArticleModel
		if err := tx.Select("id", "status").
			Where("publisher_id = ?", publisher.ID).
			Find(&articles).Error; err != nil {
			return err
		}
		for _, art := range articles {
			d := demote(lifecycle.Status(art.Status))
			values := map[string]interface{}{"publisher_id": nil}
			if d.reassign {
				values["publisher_id"] = adminPub.ID
			}
			if d.status != "" {
				values["status"] = string(d.status)
			}
			if err := tx.Model(&models.ArticleModel{}).
				Where("id = ?", art.ID).
				Updates(values).Error; err != nil {
				return err
			}
		}
		if err := tx.Model(&models.UserModel{}).
			Where("published_by = ?", publisher.ID).
			Update("published_by", nil).Error; err != nil {
			return err
		}
		return tx.Delete(publisher).Error
	})
	if err != nil {
		return err
	}

	s.logger.Info("publisher removed", zap.String("user_id", userID))
	return nil
}

// ListWriters returns the acting publisher's writers, marking those who have
// published with them. The publisher themself is omitted.
func (s *Service) ListWriters(actor access.Actor) ([]writerItem, error) {
	var writers []models.UserModel
	err := s.db.Preload("AuthoredArticles").
		Where("published_by = ?", actor.PublisherID).
		Find(&writers).Error
	if err != nil {
		return nil, err
	}

	items := make([]writerItem, 0, len(writers))
	for _, w := range writers {
		if w.ID == actor.UserID {
			continue
		}
		item := writerItem{UserID: w.ID, Username: w.Username, Email: w.Email}
		for _, a := range w.AuthoredArticles {
			if !lifecycle.Status(a.Status).HasLiveTwin() {
				continue
			}
			if a.PublisherID != nil && *a.PublisherID == actor.PublisherID {
				item.Published = true
				break
			}
		}
		items = append(items, item)
	}
	return items, nil
}

// AddWriter associates the author behind email with the acting publisher,
// routing the author's future publication requests to them. Association alone
// grants no article access; that takes a request or a transfer.
func (s *Service) AddWriter(actor access.Actor, actorEmail string, email string) error {
	var user models.UserModel
	err := s.db.First(&user, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserUnknown
		}
		return err
	}
	if user.PublishedBy != nil {
		return ErrWriterTaken
	}

	if err := s.db.Model(&user).Update("published_by", actor.PublisherID).Error; err != nil {
		return err
	}

	var publisherName string
	var publisherUser models.UserModel
	if err := s.db.First(&publisherUser, "id = ?", actor.UserID).Error; err == nil {
		publisherName = publisherUser.Username
	}
	s.notify(mail.Message{
		To:      []string{user.Email},
		ReplyTo: actorEmail,
		Subject: "Invitation to become a writer",
		HTML:    mail.WriterInviteHTML(publisherName),
	})

	s.logger.Info("writer added",
		zap.String("writer_id", user.ID),
		zap.String("publisher_id", actor.PublisherID))
	return nil
}

// RemoveWriter releases the writer from the acting publisher. Unpublished
// assignments and in-flight requests are handed back to the writer; articles
// already published with the publisher stay assigned, so the publisher keeps
// access and keeps receiving their re-requests.
func (s *Service) RemoveWriter(actor access.Actor, writerID string) error {
	var writer models.UserModel
	err := s.db.First(&writer, "id = ?", writerID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserUnknown
		}
		return err
	}
	if writer.PublishedBy == nil || *writer.PublishedBy != actor.PublisherID {
		return ErrNotYourWriter
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var assigned []models.ArticleModel
		err := tx.Where("author_id = ? AND publisher_id = ?", writer.ID, actor.PublisherID).
			Find(&assigned).Error
		if err != nil {
			return err
		}
		for i := range assigned {
			a := &assigned[i]
			if lifecycle.Status(a.Status).HasLiveTwin() || lifecycle.Status(a.Status).Live() {
				continue
			}
			updates := map[string]interface{}{"publisher_id": nil}
			switch lifecycle.Status(a.Status) {
			case lifecycle.StatusRequested, lifecycle.StatusPending:
				updates["status"] = string(lifecycle.StatusDraft)
			}
			if err := tx.Model(a).Updates(updates).Error; err != nil {
				return err
			}
		}
		return tx.Model(&writer).Update("published_by", nil).Error
	})
}

// ListRequests triages open publication requests for the acting publisher.
func (s *Service) ListRequests(actor access.Actor) (*requestInbox, error) {
	var articles []models.ArticleModel
	err := s.db.Preload("Image").Preload("Author").
		Where("status IN ?", []string{
			string(lifecycle.StatusRequested),
			string(lifecycle.StatusPubRequested),
		}).
		Find(&articles).Error
	if err != nil {
		return nil, err
	}

	inbox := &requestInbox{
		Associated:    []requestItem{},
		Disassociated: []requestItem{},
		Unassociated:  []requestItem{},
	}
	for i := range articles {
		a := &articles[i]
		if a.Author == nil {
			continue
		}
		item := requestItem{
			ArticleID:   a.ID,
			Title:       a.Title,
			Description: a.Description,
			Status:      a.Status,
			Image:       a.Image,
			AuthorID:    a.AuthorID,
			AuthorName:  a.Author.Username,
		}

		authorMine := a.Author.PublishedBy != nil && *a.Author.PublishedBy == actor.PublisherID
		articleMine := a.PublisherID != nil && *a.PublisherID == actor.PublisherID
		articleUnassigned := a.PublisherID == nil

		switch {
		case authorMine && (articleUnassigned || articleMine):
			inbox.Associated = append(inbox.Associated, item)
		case !authorMine && articleMine:
			inbox.Disassociated = append(inbox.Disassociated, item)
		case a.Author.PublishedBy == nil && articleUnassigned:
			inbox.Unassociated = append(inbox.Unassociated, item)
		}
	}
	return inbox, nil
}

// ListPublisherArticles returns the acting publisher's live and in-review
// articles, newest publication first.
func (s *Service) ListPublisherArticles(actor access.Actor) ([]publishedItem, error) {
	return s.listPublished(func(db *gorm.DB) *gorm.DB {
		return db.Where("publisher_id = ? AND status IN ?", actor.PublisherID, []string{
			string(lifecycle.StatusPending),
			string(lifecycle.StatusPubPending),
			string(lifecycle.StatusPubLive),
		})
	})
}

// ListAdminArticles returns live and soft-deleted articles for governance:
// activation, transference, permanent deletion. The listing spans every
// publisher, so it is paginated, newest publication first.
func (s *Service) ListAdminArticles(q pagination.Query) ([]publishedItem, response.Pagination, error) {
	query := s.db.Model(&models.ArticleModel{}).Preload("Image").
		Joins("LEFT JOIN publishing_notes ON publishing_notes.published_article_id = articles.id").
		Where("articles.status IN ?", []string{
			string(lifecycle.StatusPubLive),
			string(lifecycle.StatusPubDeleted),
		}).
		Order("publishing_notes.date_published DESC")

	var articles []models.ArticleModel
	meta, err := pagination.Paginate(query, q, &articles)
	if err != nil {
		return nil, response.Pagination{}, err
	}

	items, err := s.decoratePublished(articles)
	if err != nil {
		return nil, response.Pagination{}, err
	}
	return items, meta, nil
}

func (s *Service) listPublished(scope func(*gorm.DB) *gorm.DB) ([]publishedItem, error) {
	var articles []models.ArticleModel
	if err := scope(s.db.Preload("Image")).Find(&articles).Error; err != nil {
		return nil, err
	}

	items, err := s.decoratePublished(articles)
	if err != nil {
		return nil, err
	}

	// Newest publication first; rows still awaiting a note sink to the end.
	for i := 1; i < len(items); i++ {
		for j := i; j > 0 && publishedLess(items[j], items[j-1]); j-- {
			items[j], items[j-1] = items[j-1], items[j]
		}
	}
	return items, nil
}

func (s *Service) decoratePublished(articles []models.ArticleModel) ([]publishedItem, error) {
	items := make([]publishedItem, 0, len(articles))
	for i := range articles {
		a := &articles[i]
		item := publishedItem{
			ArticleID:   a.ID,
			Title:       a.Title,
			Description: a.Description,
			Status:      a.Status,
			Image:       a.Image,
			AuthorID:    a.AuthorID,
		}
		if note, err := noteByPublished(s.db, a.ID); err != nil {
			return nil, err
		} else if note != nil {
			item.NoteID = &note.ID
			item.Slug = &note.Slug
			item.IsActive = &note.IsActive
			item.DatePublished = &note.DatePublished
			item.DateUpdated = note.DateUpdated
		}
		items = append(items, item)
	}
	return items, nil
}

func publishedLess(a, b publishedItem) bool {
	switch {
	case a.DatePublished != nil && b.DatePublished != nil:
		return a.DatePublished.After(*b.DatePublished)
	case a.DatePublished != nil:
		return true
	default:
		return false
	}
}
