package models

import "time"

// PublishingNoteModel links a draft article to its published twin.
//
// It is created exactly once per publication event and repointed, never
// recreated, when the same draft is republished. IsActive gates public
// visibility independently of the article's own status; publication always
// leaves it false pending admin approval.
type PublishingNoteModel struct {
	Base
	DraftArticleID     string     `json:"draft_article_id"     gorm:"type:char(36);uniqueIndex;not null"`
	PublishedArticleID string     `json:"published_article_id" gorm:"type:char(36);uniqueIndex;not null"`
	Slug               string     `json:"slug"                 gorm:"index;not null"`
	DatePublished      time.Time  `json:"date_published"`
	DateUpdated        *time.Time `json:"date_updated"`
	IsActive           bool       `json:"is_active" gorm:"default:false"`
}

func (PublishingNoteModel) TableName() string { return "publishing_notes" }
