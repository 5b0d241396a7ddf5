package access

import (
	"errors"

	"github.com/easy-read/core/internal/config"
	"github.com/easy-read/core/internal/models"
	"github.com/easy-read/core/internal/modules/lifecycle"
	"gorm.io/gorm"
)

// ErrUserNotFound is returned when the authenticated user id no longer
// resolves to a row. Ids come from signed tokens, so this is a revoked or
// deleted account, not a caller mistake.
var ErrUserNotFound = errors.New("user not found")

// LoadActor resolves an authenticated user id into a policy Actor.
func LoadActor(db *gorm.DB, cfg *config.AppConfig, userID string) (Actor, *models.UserModel, error) {
	var user models.UserModel
	err := db.Preload("PublisherRole").First(&user, "id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Actor{}, nil, ErrUserNotFound
		}
		return Actor{}, nil, err
	}

	actor := Actor{
		UserID:  user.ID,
		Email:   user.Email,
		IsAdmin: cfg.IsAdmin(user.Email),
	}
	if user.PublisherRole != nil {
		actor.PublisherID = user.PublisherRole.ID
	}
	return actor, &user, nil
}

// Snapshot projects an article row into the policy's Article shape,
// resolving the user behind the assigned publisher when present.
func Snapshot(db *gorm.DB, article *models.ArticleModel) (Article, error) {
	snap := Article{
		AuthorID: article.AuthorID,
		Status:   lifecycle.Status(article.Status),
	}
	if article.PublisherID != nil {
		snap.PublisherID = *article.PublisherID
		var publisher models.PublisherModel
		err := db.First(&publisher, "id = ?", *article.PublisherID).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return Article{}, err
		}
		if err == nil {
			snap.PublisherUserID = publisher.UserID
		}
	}
	return snap, nil
}
