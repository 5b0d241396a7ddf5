package publishing

import (
	"context"
	"errors"
	"time"

	"github.com/easy-read/core/internal/config"
	"github.com/easy-read/core/internal/models"
	"github.com/easy-read/core/internal/modules/access"
	"github.com/easy-read/core/internal/modules/article"
	"github.com/easy-read/core/internal/modules/lifecycle"
	"github.com/easy-read/core/internal/modules/storage/image"
	"github.com/easy-read/core/internal/pkg/mail"
	"github.com/easy-read/core/internal/pkg/slug"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrConflict is returned when a conditional status update captures no
	// row: another actor moved the article first.
	ErrConflict = errors.New("the article was changed by another user")

	// ErrNotAssignedPublisher guards re-requests on published articles,
	// which only the assigned publisher may review.
	ErrNotAssignedPublisher = errors.New("only the assigned publisher can review that article")

	// ErrLiveTwinExists guards permanent deletion of a draft whose
	// published twin still exists: the twin shares the draft's image rows
	// and its note would be orphaned.
	ErrLiveTwinExists = errors.New("that article still has a published version")

	ErrEmailNotConfirmed = errors.New("email address not confirmed")
	ErrUserUnknown       = errors.New("no user is associated with that email address")
	ErrNotAPublisher     = errors.New("no publisher is associated with that email address")
)

type Service struct {
	db       *gorm.DB
	cfg      *config.AppConfig
	articles *article.Service
	images   *image.Service
	mailer   *mail.Sender
	logger   *zap.Logger
}

func NewService(db *gorm.DB, cfg *config.AppConfig, articles *article.Service, images *image.Service, mailer *mail.Sender, logger *zap.Logger) *Service {
	return &Service{db: db, cfg: cfg, articles: articles, images: images, mailer: mailer, logger: logger}
}

// advance applies a lifecycle action with a conditional update. The WHERE
// clause pins the status read before the write, so two concurrent actors
// cannot both capture the same article; the loser sees ErrConflict.
func advance(tx *gorm.DB, art *models.ArticleModel, action lifecycle.Action, extra map[string]interface{}) (lifecycle.Status, error) {
	from := lifecycle.Status(art.Status)
	next, err := lifecycle.Transition(from, action)
	if err != nil {
		return from, err
	}

	values := map[string]interface{}{"status": string(next)}
	for k, v := range extra {
		values[k] = v
	}
	res := tx.Model(&models.ArticleModel{}).
		Where("id = ? AND status = ?", art.ID, string(from)).
		Updates(values)
	if res.Error != nil {
		return from, res.Error
	}
	if res.RowsAffected == 0 {
		return from, ErrConflict
	}
	art.Status = string(next)
	return next, nil
}

// Request asks a publisher to publish the article. Notification falls back
// through the assigned publisher, then the author's associated publisher,
// then admin, so a request is never silently dropped.
func (s *Service) Request(actor *models.UserModel, art *models.ArticleModel) error {
	if !actor.EmailConfirmed {
		return ErrEmailNotConfirmed
	}

	var author models.UserModel
	if err := s.db.First(&author, "id = ?", art.AuthorID).Error; err != nil {
		return err
	}

	if _, err := advance(s.db, art, lifecycle.ActionRequest, nil); err != nil {
		return err
	}

	recipient := s.cfg.PrimaryAdminEmail()
	if email, ok := s.publisherEmail(art.PublisherID); ok {
		recipient = email
	} else if email, ok := s.publisherEmail(author.PublishedBy); ok {
		recipient = email
	}

	s.notify(mail.Message{
		To:      []string{recipient},
		Bcc:     s.cfg.AdminEmails,
		ReplyTo: author.Email,
		Subject: "Request to publish article",
		HTML:    mail.PublishRequestHTML(art.Title, author.Username),
	})

	s.logger.Info("publication requested",
		zap.String("article_id", art.ID),
		zap.String("status", art.Status),
		zap.String("recipient", recipient))
	return nil
}

// ReviewOutcome reports what accepting a review changed, for user-facing copy.
type ReviewOutcome int

const (
	ReviewedNew ReviewOutcome = iota
	ReviewedNewWithWriter
	ReviewedPublished
)

// Review captures a requested article for the acting publisher. Moving to
// pending freezes the author out until the review resolves, so unchecked
// changes cannot ride along with an approval. Reviewing a new author's
// article also recruits them as a writer.
func (s *Service) Review(actor access.Actor, art *models.ArticleModel) (ReviewOutcome, error) {
	status := lifecycle.Status(art.Status)
	if status.HasLiveTwin() {
		if art.PublisherID == nil || *art.PublisherID != actor.PublisherID {
			return 0, ErrNotAssignedPublisher
		}
	}

	var author models.UserModel
	if err := s.db.First(&author, "id = ?", art.AuthorID).Error; err != nil {
		return 0, err
	}

	outcome := ReviewedPublished
	err := s.db.Transaction(func(tx *gorm.DB) error {
		_, err := advance(tx, art, lifecycle.ActionReview, map[string]interface{}{
			"publisher_id": actor.PublisherID,
		})
		if err != nil {
			return err
		}
		art.PublisherID = &actor.PublisherID

		if status.HasLiveTwin() {
			return nil
		}
		outcome = ReviewedNew
		if author.PublishedBy == nil || *author.PublishedBy != actor.PublisherID {
			outcome = ReviewedNewWithWriter
			return tx.Model(&author).Update("published_by", actor.PublisherID).Error
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("review started",
		zap.String("article_id", art.ID),
		zap.String("publisher_id", actor.PublisherID))
	return outcome, nil
}

// Reject returns a pending article to its author unpublished. The assigned
// publisher and the author's association are kept, for continuity.
func (s *Service) Reject(art *models.ArticleModel) error {
	if _, err := advance(s.db, art, lifecycle.ActionReject, nil); err != nil {
		return err
	}
	s.logger.Info("article rejected", zap.String("article_id", art.ID), zap.String("status", art.Status))
	return nil
}

// Publish materializes a live copy of the draft under the acting publisher's
// control.
//
// The draft's whole tree is copied into a fresh row; categories are shared by
// reference. A first publication creates the publishing note; republication
// writes the replacement row, deletes the outdated one, and repoints the note
// in the same transaction, preserving the original publication date. Either
// way the note comes out inactive, awaiting admin approval.
func (s *Service) Publish(actor access.Actor, draft *models.ArticleModel) (*models.PublishingNoteModel, error) {
	if !lifecycle.Status(draft.Status).UnderReview() {
		return nil, ErrConflict
	}

	var note *models.PublishingNoteModel
	err := s.db.Transaction(func(tx *gorm.DB) error {
		live := models.ArticleModel{
			Title:       draft.Title,
			Description: draft.Description,
			Status:      string(lifecycle.StatusPubLive),
			AuthorID:    draft.AuthorID,
			PublisherID: &actor.PublisherID,
			ImageID:     draft.ImageID,
		}
		if err := tx.Create(&live).Error; err != nil {
			return err
		}
		if err := copyTree(tx, draft, &live); err != nil {
			return err
		}

		existing, err := noteByDraft(tx, draft.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			// Republication: swap the live row behind the note.
			if err := tx.Where("id = ?", existing.PublishedArticleID).
				Delete(&models.ArticleModel{}).Error; err != nil {
				return err
			}
			now := time.Now()
			updates := map[string]interface{}{
				"published_article_id": live.ID,
				"date_updated":         now,
				"slug":                 slug.Make(live.Title),
				"is_active":            false,
			}
			if err := tx.Model(existing).Updates(updates).Error; err != nil {
				return err
			}
			note = existing
		} else {
			note = &models.PublishingNoteModel{
				DraftArticleID:     draft.ID,
				PublishedArticleID: live.ID,
				Slug:               slug.Make(live.Title),
				DatePublished:      time.Now(),
				IsActive:           false,
			}
			if err := tx.Create(note).Error; err != nil {
				return err
			}
		}

		_, err = advance(tx, draft, lifecycle.ActionPublish, map[string]interface{}{
			"publisher_id": actor.PublisherID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("article published",
		zap.String("draft_article_id", draft.ID),
		zap.String("published_article_id", note.PublishedArticleID),
		zap.String("slug", note.Slug))
	return note, nil
}

// UpdateDraft overwrites the draft with the content of its live twin,
// discarding unpublished changes. The draft returns to published.
func (s *Service) UpdateDraft(draft *models.ArticleModel) error {
	note, err := noteByDraft(s.db, draft.ID)
	if err != nil {
		return err
	}
	if note == nil {
		return lifecycle.ErrInvalidTransition
	}
	live, err := s.articles.GetByID(note.PublishedArticleID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(draft).Updates(map[string]interface{}{
			"title":       live.Title,
			"description": live.Description,
			"image_id":    live.ImageID,
			"status":      string(lifecycle.StatusPublished),
		}).Error; err != nil {
			return err
		}
		draft.Status = string(lifecycle.StatusPublished)

		if live.Source != nil {
			if err := tx.Model(&models.SourceModel{}).Where("article_id = ?", draft.ID).
				Updates(map[string]interface{}{
					"title":   live.Source.Title,
					"author":  live.Source.Author,
					"link":    live.Source.Link,
					"name":    live.Source.Name,
					"contact": live.Source.Contact,
				}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("article_id = ?", draft.ID).Delete(&models.SummaryModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("article_id = ?", draft.ID).Delete(&models.ParagraphModel{}).Error; err != nil {
			return err
		}
		if err := tx.Model(draft).Association("Categories").Clear(); err != nil {
			return err
		}
		return copyCollections(tx, live, draft)
	})
}

// Transfer rehomes a published article to the publisher behind targetEmail
// and brings it back online. Both the live row and its draft twin move; the
// author's association is left alone.
func (s *Service) Transfer(live *models.ArticleModel, targetEmail string) error {
	var user models.UserModel
	err := s.db.Preload("PublisherRole").First(&user, "email = ?", targetEmail).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserUnknown
		}
		return err
	}
	if user.PublisherRole == nil {
		return ErrNotAPublisher
	}

	note, err := noteByPublished(s.db, live.ID)
	if err != nil {
		return err
	}
	if note == nil {
		return lifecycle.ErrInvalidTransition
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := advance(tx, live, lifecycle.ActionTransfer, map[string]interface{}{
			"publisher_id": user.PublisherRole.ID,
		}); err != nil {
			return err
		}
		if err := tx.Model(&models.ArticleModel{}).
			Where("id = ?", note.DraftArticleID).
			Update("publisher_id", user.PublisherRole.ID).Error; err != nil {
			return err
		}
		return tx.Model(note).Update("is_active", true).Error
	})
	if err != nil {
		return err
	}

	s.logger.Info("article transferred",
		zap.String("article_id", live.ID),
		zap.String("publisher_id", user.PublisherRole.ID))
	return nil
}

// Delete removes the article. Live articles are only soft-deleted: taken
// offline, marked pub_deleted, and reassigned to admin, protecting published
// work from accidental or malicious loss. Drafts are removed outright, along
// with their images when no live twin still references them.
func (s *Service) Delete(ctx context.Context, art *models.ArticleModel) error {
	note, err := noteByPublished(s.db, art.ID)
	if err != nil {
		return err
	}

	if note != nil {
		adminPub, err := s.adminPublisher()
		if err != nil {
			return err
		}
		return s.db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&models.ArticleModel{}).
				Where("id = ?", note.DraftArticleID).
				Update("publisher_id", adminPub.ID).Error; err != nil {
				return err
			}
			if _, err := advance(tx, art, lifecycle.ActionDelete, map[string]interface{}{
				"publisher_id": adminPub.ID,
			}); err != nil {
				return err
			}
			return tx.Model(note).Update("is_active", false).Error
		})
	}

	draftNote, err := noteByDraft(s.db, art.ID)
	if err != nil {
		return err
	}
	if draftNote == nil {
		// No twin shares these images.
		if err := s.deleteImages(ctx, art); err != nil {
			return err
		}
	}
	return s.db.Select(clause.Associations).Delete(art).Error
}

// Permadelete removes a soft-deleted live article for good. Its draft twin,
// if any, is reset to a fresh unassigned draft and the publishing note
// removed, so the author can start over. Called on a draft whose published
// twin still exists, it refuses with ErrLiveTwinExists.
func (s *Service) Permadelete(ctx context.Context, art *models.ArticleModel) error {
	note, err := noteByPublished(s.db, art.ID)
	if err != nil {
		return err
	}

	if note != nil {
		err := s.db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&models.ArticleModel{}).
				Where("id = ?", note.DraftArticleID).
				Updates(map[string]interface{}{
					"status":       string(lifecycle.StatusDraft),
					"publisher_id": nil,
				}).Error; err != nil {
				return err
			}
			return tx.Delete(note).Error
		})
		if err != nil {
			return err
		}
	} else {
		// Image rows are shared with a live twin; refuse until the twin
		// is permanently deleted, which resets this draft.
		draftNote, err := noteByDraft(s.db, art.ID)
		if err != nil {
			return err
		}
		if draftNote != nil {
			return ErrLiveTwinExists
		}
		if err := s.deleteImages(ctx, art); err != nil {
			return err
		}
	}

	if err := s.db.Select(clause.Associations).Delete(art).Error; err != nil {
		return err
	}
	s.logger.Info("article permanently deleted", zap.String("article_id", art.ID))
	return nil
}

// SetActive flips public visibility of a published article.
func (s *Service) SetActive(publishedArticleID string, active bool) error {
	note, err := noteByPublished(s.db, publishedArticleID)
	if err != nil {
		return err
	}
	if note == nil {
		return gorm.ErrRecordNotFound
	}
	return s.db.Model(note).Update("is_active", active).Error
}

func (s *Service) deleteImages(ctx context.Context, art *models.ArticleModel) error {
	if art.ImageID != nil {
		if err := s.images.DeleteWithBlob(ctx, *art.ImageID); err != nil {
			return err
		}
	}
	var paragraphs []models.ParagraphModel
	if err := s.db.Where("article_id = ?", art.ID).Find(&paragraphs).Error; err != nil {
		return err
	}
	for _, p := range paragraphs {
		if p.ImageID == nil {
			continue
		}
		if err := s.images.DeleteWithBlob(ctx, *p.ImageID); err != nil {
			return err
		}
	}
	return nil
}

// adminPublisher resolves the primary admin's publisher role, the fallback
// owner of soft-deleted content.
func (s *Service) adminPublisher() (*models.PublisherModel, error) {
	var user models.UserModel
	err := s.db.Preload("PublisherRole").
		First(&user, "email = ?", s.cfg.PrimaryAdminEmail()).Error
	if err != nil {
		return nil, err
	}
	if user.PublisherRole == nil {
		return nil, errors.New("the admin account holds no publisher role")
	}
	return user.PublisherRole, nil
}

func (s *Service) publisherEmail(publisherID *string) (string, bool) {
	if publisherID == nil || *publisherID == "" {
		return "", false
	}
	var publisher models.PublisherModel
	err := s.db.Preload("User").First(&publisher, "id = ?", *publisherID).Error
	if err != nil || publisher.User == nil {
		return "", false
	}
	return publisher.User.Email, true
}

// notify dispatches in the background; the triggering operation has already
// committed and never waits on the mail provider.
func (s *Service) notify(msg mail.Message) {
	go func() {
		if err := s.mailer.Send(msg); err != nil {
			s.logger.Warn("failed to send notification", zap.Error(err), zap.String("subject", msg.Subject))
		}
	}()
}

func noteByDraft(db *gorm.DB, draftArticleID string) (*models.PublishingNoteModel, error) {
	var note models.PublishingNoteModel
	err := db.First(&note, "draft_article_id = ?", draftArticleID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &note, nil
}

func noteByPublished(db *gorm.DB, publishedArticleID string) (*models.PublishingNoteModel, error) {
	var note models.PublishingNoteModel
	err := db.First(&note, "published_article_id = ?", publishedArticleID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &note, nil
}

// copyTree copies the draft's source, categories, paragraphs, and summaries
// onto the freshly created live row.
func copyTree(tx *gorm.DB, from, to *models.ArticleModel) error {
	var src models.SourceModel
	err := tx.First(&src, "article_id = ?", from.ID).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if err == nil {
		copySrc := src
		copySrc.ArticleID = to.ID
		if err := tx.Create(&copySrc).Error; err != nil {
			return err
		}
	}
	return copyCollections(tx, from, to)
}

func copyCollections(tx *gorm.DB, from, to *models.ArticleModel) error {
	var cats []models.CategoryModel
	if err := tx.Model(from).Association("Categories").Find(&cats); err != nil {
		return err
	}
	for i := range cats {
		if err := tx.Model(to).Association("Categories").Append(&cats[i]); err != nil {
			return err
		}
	}

	var paragraphs []models.ParagraphModel
	if err := tx.Where("article_id = ?", from.ID).Order("paragraphs.index ASC").Find(&paragraphs).Error; err != nil {
		return err
	}
	for _, p := range paragraphs {
		if err := tx.Create(&models.ParagraphModel{
			ArticleID: to.ID,
			Index:     p.Index,
			Header:    p.Header,
			ImageID:   p.ImageID,
		}).Error; err != nil {
			return err
		}
	}

	var summaries []models.SummaryModel
	if err := tx.Where("article_id = ?", from.ID).Find(&summaries).Error; err != nil {
		return err
	}
	for _, sum := range summaries {
		if err := tx.Create(&models.SummaryModel{
			ArticleID:      to.ID,
			ParagraphIndex: sum.ParagraphIndex,
			Level:          sum.Level,
			Text:           sum.Text,
		}).Error; err != nil {
			return err
		}
	}
	return nil
}
