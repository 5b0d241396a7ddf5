package models

// ArticleModel is the central entity. A draft row is owned by its author; a
// publisher gains co-equal access once assigned via PublisherID. Publishing
// materializes a second, independent row (the live copy) linked to the draft
// through a PublishingNote.
//
// Deleting an article cascades to its Source, Paragraphs, and Summaries but
// never to Categories, which are shared vocabulary.
type ArticleModel struct {
	Base
	Title       string  `json:"title"        gorm:"not null"`
	Description string  `json:"description"`
	Status      string  `json:"status"       gorm:"size:32;index;not null"`
	AuthorID    string  `json:"author_id"    gorm:"type:char(36);index;not null"`
	PublisherID *string `json:"publisher_id" gorm:"type:char(36);index"`
	ImageID     *string `json:"image_id"     gorm:"type:char(36)"`

	Author     *UserModel       `json:"author,omitempty"     gorm:"foreignKey:AuthorID"`
	Publisher  *PublisherModel  `json:"publisher,omitempty"  gorm:"foreignKey:PublisherID"`
	Image      *ImageModel      `json:"image,omitempty"      gorm:"foreignKey:ImageID"`
	Source     *SourceModel     `json:"source,omitempty"     gorm:"foreignKey:ArticleID;constraint:OnDelete:CASCADE"`
	Paragraphs []ParagraphModel `json:"paragraphs,omitempty" gorm:"foreignKey:ArticleID;constraint:OnDelete:CASCADE"`
	Summaries  []SummaryModel   `json:"summaries,omitempty"  gorm:"foreignKey:ArticleID;constraint:OnDelete:CASCADE"`
	Categories []CategoryModel  `json:"categories,omitempty" gorm:"many2many:article_categories"`
}

func (ArticleModel) TableName() string { return "articles" }

// SourceModel stores the metadata of an article's source content.
type SourceModel struct {
	ArticleID string `json:"-"       gorm:"type:char(36);primaryKey"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	Link      string `json:"link"`
	Name      string `json:"name"`
	Contact   string `json:"contact"`
}

func (SourceModel) TableName() string { return "sources" }

// CategoryModel labels an article's genre. Categories are shared between
// articles and are never cascade-deleted with them.
type CategoryModel struct {
	Base
	Name string `json:"name" gorm:"uniqueIndex;not null"`

	Articles []ArticleModel `json:"-" gorm:"many2many:article_categories"`
}

func (CategoryModel) TableName() string { return "categories" }

// ParagraphModel is one positional unit of article content. Index is the
// paragraph's position within its article.
type ParagraphModel struct {
	ArticleID string  `json:"-"        gorm:"type:char(36);primaryKey"`
	Index     int     `json:"index"    gorm:"primaryKey;autoIncrement:false"`
	Header    string  `json:"header"`
	ImageID   *string `json:"image_id" gorm:"type:char(36)"`

	Image *ImageModel `json:"image,omitempty" gorm:"foreignKey:ImageID"`
}

func (ParagraphModel) TableName() string { return "paragraphs" }

// SummaryModel is an alternate rendering of a paragraph's text. Level
// indicates the depth of summarisation: low levels carry more of the
// original text and so read at a higher level.
type SummaryModel struct {
	ArticleID      string `json:"-"     gorm:"type:char(36);primaryKey"`
	ParagraphIndex int    `json:"paragraph_index" gorm:"primaryKey;autoIncrement:false"`
	Level          int    `json:"level" gorm:"primaryKey;autoIncrement:false"`
	Text           string `json:"text"  gorm:"type:longtext"`
}

func (SummaryModel) TableName() string { return "summaries" }
