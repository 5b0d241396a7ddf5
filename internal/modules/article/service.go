package article

import (
	"errors"

	"github.com/easy-read/core/internal/models"
	"github.com/easy-read/core/internal/modules/lifecycle"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrArticleNotFound = errors.New("article not found")

	// ErrLiveTwinBusy guards edits to a live article while its draft twin is
	// moving through a publication request. The requested changes must be
	// published or rejected first.
	ErrLiveTwinBusy = errors.New("draft twin has an open publication request")
)

type Service struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewService(db *gorm.DB, logger *zap.Logger) *Service {
	return &Service{db: db, logger: logger}
}

// GetByID loads an article with its full content tree.
func (s *Service) GetByID(id string) (*models.ArticleModel, error) {
	var article models.ArticleModel
	err := s.db.
		Preload("Image").
		Preload("Source").
		Preload("Categories").
		Preload("Paragraphs", func(db *gorm.DB) *gorm.DB { return db.Order("paragraphs.index ASC") }).
		Preload("Paragraphs.Image").
		Preload("Summaries").
		First(&article, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrArticleNotFound
		}
		return nil, err
	}
	return &article, nil
}

// Create stores a new draft owned by authorID.
func (s *Service) Create(authorID string, dto *ArticleDTO) (*models.ArticleModel, error) {
	article := models.ArticleModel{
		Title:       dto.Title,
		Description: dto.Description,
		Status:      string(lifecycle.StatusDraft),
		AuthorID:    authorID,
		ImageID:     dto.ImageID,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&article).Error; err != nil {
			return err
		}
		if err := claimImage(tx, dto.ImageID, dto.ImageAlt, dto.ImageCite); err != nil {
			return err
		}
		if err := tx.Create(&models.SourceModel{
			ArticleID: article.ID,
			Title:     dto.Source.Title,
			Author:    dto.Source.Author,
			Link:      dto.Source.Link,
			Name:      dto.Source.Name,
			Contact:   dto.Source.Contact,
		}).Error; err != nil {
			return err
		}
		if err := attachCategories(tx, &article, dto.Categories); err != nil {
			return err
		}
		return insertContent(tx, article.ID, dto.Paragraphs)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("article created",
		zap.String("article_id", article.ID),
		zap.String("author_id", authorID))
	return s.GetByID(article.ID)
}

// Save replaces the article's fields and collections with the submitted
// tree. Collections are deleted and reinserted wholesale, so content can be
// removed as well as added.
//
// Saving has lifecycle side effects: a published draft drifts to pub_draft,
// and saving a live article takes it offline for admin review and marks its
// draft twin pub_draft.
func (s *Service) Save(article *models.ArticleModel, dto *ArticleDTO) error {
	status := lifecycle.Status(article.Status)

	if status.Live() {
		// The draft twin owns any in-flight request; direct live edits
		// would race it.
		twinStatus, err := s.draftTwinStatus(article.ID)
		if err != nil {
			return err
		}
		if twinStatus.IsRequested() || twinStatus.UnderReview() {
			return ErrLiveTwinBusy
		}
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if status == lifecycle.StatusPubLive {
			if err := s.takeOffline(tx, article.ID); err != nil {
				return err
			}
		} else if next, err := lifecycle.Transition(status, lifecycle.ActionEdit); err == nil {
			article.Status = string(next)
		}

		article.Title = dto.Title
		article.Description = dto.Description
		article.ImageID = dto.ImageID
		if err := tx.Model(article).Select("title", "description", "image_id", "status").
			Updates(map[string]interface{}{
				"title":       article.Title,
				"description": article.Description,
				"image_id":    article.ImageID,
				"status":      article.Status,
			}).Error; err != nil {
			return err
		}
		if err := claimImage(tx, dto.ImageID, dto.ImageAlt, dto.ImageCite); err != nil {
			return err
		}

		if err := tx.Model(&models.SourceModel{}).Where("article_id = ?", article.ID).
			Updates(map[string]interface{}{
				"title":   dto.Source.Title,
				"author":  dto.Source.Author,
				"link":    dto.Source.Link,
				"name":    dto.Source.Name,
				"contact": dto.Source.Contact,
			}).Error; err != nil {
			return err
		}

		// Deletions must land before the reinserts below.
		if err := tx.Where("article_id = ?", article.ID).Delete(&models.SummaryModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("article_id = ?", article.ID).Delete(&models.ParagraphModel{}).Error; err != nil {
			return err
		}
		if err := tx.Model(article).Association("Categories").Clear(); err != nil {
			return err
		}

		if err := attachCategories(tx, article, dto.Categories); err != nil {
			return err
		}
		return insertContent(tx, article.ID, dto.Paragraphs)
	})
	if err != nil {
		return err
	}

	s.logger.Info("article saved",
		zap.String("article_id", article.ID),
		zap.String("status", article.Status))
	return nil
}

// takeOffline deactivates the live article's publishing note and reverts its
// draft twin to pub_draft, pending admin reactivation.
func (s *Service) takeOffline(tx *gorm.DB, publishedArticleID string) error {
	var note models.PublishingNoteModel
	err := tx.First(&note, "published_article_id = ?", publishedArticleID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if err := tx.Model(&note).Updates(map[string]interface{}{
		"is_active":    false,
		"date_updated": tx.NowFunc(),
	}).Error; err != nil {
		return err
	}
	return tx.Model(&models.ArticleModel{}).
		Where("id = ?", note.DraftArticleID).
		Update("status", string(lifecycle.StatusPubDraft)).Error
}

func (s *Service) draftTwinStatus(publishedArticleID string) (lifecycle.Status, error) {
	var note models.PublishingNoteModel
	err := s.db.First(&note, "published_article_id = ?", publishedArticleID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	var twin models.ArticleModel
	if err := s.db.Select("status").First(&twin, "id = ?", note.DraftArticleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	return lifecycle.Status(twin.Status), nil
}

// ListByAuthor returns the author's working copies, most recently published
// first. Live-track rows belong to the publisher's listing and are omitted.
func (s *Service) ListByAuthor(authorID string) ([]listItem, error) {
	var articles []models.ArticleModel
	err := s.db.Preload("Image").
		Where("author_id = ?", authorID).
		Where("status NOT IN ?", []string{string(lifecycle.StatusPubLive), string(lifecycle.StatusPubDeleted)}).
		Find(&articles).Error
	if err != nil {
		return nil, err
	}

	items := make([]listItem, 0, len(articles))
	for i := range articles {
		a := &articles[i]
		item := listItem{
			ID:          a.ID,
			Title:       a.Title,
			Description: a.Description,
			Status:      a.Status,
			Image:       a.Image,
		}
		var note models.PublishingNoteModel
		if err := s.db.First(&note, "draft_article_id = ?", a.ID).Error; err == nil {
			item.NoteID = &note.ID
			item.Slug = &note.Slug
			item.IsActive = &note.IsActive
			item.DatePublished = &note.DatePublished
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		items = append(items, item)
	}

	// Published articles first, newest publication on top, then unpublished
	// drafts newest first.
	sortListing(items)
	return items, nil
}

func sortListing(items []listItem) {
	for i := 1; i < len(items); i++ {
		for j := i; j > 0 && listingLess(items[j], items[j-1]); j-- {
			items[j], items[j-1] = items[j-1], items[j]
		}
	}
}

func listingLess(a, b listItem) bool {
	switch {
	case a.DatePublished != nil && b.DatePublished != nil:
		return a.DatePublished.After(*b.DatePublished)
	case a.DatePublished != nil:
		return true
	case b.DatePublished != nil:
		return false
	default:
		return a.ID > b.ID
	}
}

// claimImage marks an uploaded image as referenced and records its caption
// fields, keeping it clear of the abandoned-upload sweep.
func claimImage(tx *gorm.DB, imageID *string, alt, cite string) error {
	if imageID == nil || *imageID == "" {
		return nil
	}
	return tx.Model(&models.ImageModel{}).Where("id = ?", *imageID).
		Updates(map[string]interface{}{"alt": alt, "cite": cite, "used": true}).Error
}

func attachCategories(tx *gorm.DB, article *models.ArticleModel, names []string) error {
	for _, name := range names {
		if name == "" {
			continue
		}
		var cat models.CategoryModel
		err := tx.Where("name = ?", name).First(&cat).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			cat = models.CategoryModel{Name: name}
			err = tx.Create(&cat).Error
		}
		if err != nil {
			return err
		}
		if err := tx.Model(article).Association("Categories").Append(&cat); err != nil {
			return err
		}
	}
	return nil
}

func insertContent(tx *gorm.DB, articleID string, paragraphs []ParagraphDTO) error {
	for _, p := range paragraphs {
		if err := tx.Create(&models.ParagraphModel{
			ArticleID: articleID,
			Index:     p.Index,
			Header:    p.Header,
			ImageID:   p.ImageID,
		}).Error; err != nil {
			return err
		}
		if err := claimImage(tx, p.ImageID, p.ImageAlt, p.ImageCite); err != nil {
			return err
		}
		for _, sum := range p.Summaries {
			if err := tx.Create(&models.SummaryModel{
				ArticleID:      articleID,
				ParagraphIndex: p.Index,
				Level:          sum.Level,
				Text:           sum.Text,
			}).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
