package models

// UserModel represents an author account. Users write and save articles
// privately and may request that they be published.
type UserModel struct {
	Base
	Username       string  `json:"username"        gorm:"uniqueIndex;not null"`
	Email          string  `json:"email"           gorm:"uniqueIndex;not null"`
	EmailConfirmed bool    `json:"email_confirmed" gorm:"default:false"`
	Password       string  `json:"-"               gorm:"not null"`
	PublishedBy    *string `json:"published_by"    gorm:"type:char(36);index"`

	// Set when the user has been promoted to publisher.
	PublisherRole    *PublisherModel `json:"publisher,omitempty" gorm:"foreignKey:UserID"`
	AuthoredArticles []ArticleModel  `json:"-"                   gorm:"foreignKey:AuthorID"`
}

func (UserModel) TableName() string { return "users" }

// IsPublisher reports whether the user holds a publisher role.
func (u *UserModel) IsPublisher() bool { return u.PublisherRole != nil }

// PublisherModel is a role record wrapping a user. It is created on promotion
// and deleted on demotion; the underlying user always survives.
type PublisherModel struct {
	Base
	UserID string     `json:"user_id" gorm:"type:char(36);uniqueIndex;not null"`
	User   *UserModel `json:"user,omitempty" gorm:"foreignKey:UserID"`

	// Writers are users whose publication requests route to this publisher.
	Writers           []UserModel    `json:"writers,omitempty"            gorm:"foreignKey:PublishedBy"`
	PublishedArticles []ArticleModel `json:"published_articles,omitempty" gorm:"foreignKey:PublisherID"`
}

func (PublisherModel) TableName() string { return "publishers" }
