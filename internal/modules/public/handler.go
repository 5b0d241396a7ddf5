// Package public serves published articles to unauthenticated readers.
package public

import (
	"errors"
	"time"

	"github.com/easy-read/core/internal/models"
	"github.com/easy-read/core/internal/modules/access"
	"github.com/easy-read/core/internal/modules/article"
	"github.com/easy-read/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Handler struct {
	db       *gorm.DB
	articles *article.Service
}

func NewHandler(db *gorm.DB, articles *article.Service) *Handler {
	return &Handler{db: db, articles: articles}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/view/:id", h.view)
	rg.GET("/view/:id/:slug", h.view)
}

// view resolves an article by publishing note id. A partial, misspelt, or
// missing slug redirects to the canonical address. Articles taken offline
// are announced rather than 404ed; the address stays valid in case the
// article returns.
func (h *Handler) view(c *gin.Context) {
	var note models.PublishingNoteModel
	err := h.db.First(&note, "id = ?", c.Param("id")).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c)
		} else {
			response.InternalError(c, err)
		}
		return
	}

	if c.Param("slug") != note.Slug {
		response.Redirect(c, "/view/"+note.ID+"/"+note.Slug)
		return
	}

	if !note.IsActive {
		response.Denied(c, "That article is currently offline.", access.RedirectIndex)
		return
	}

	art, err := h.articles.GetByID(note.PublishedArticleID)
	if err != nil {
		response.InternalError(c, err)
		return
	}

	response.OK(c, gin.H{
		"article":        article.ToResponse(art),
		"datePublished":  note.DatePublished.Format(time.RFC3339),
		"dateUpdated":    formatUpdated(note.DateUpdated),
		"canonicalPath":  "/view/" + note.ID + "/" + note.Slug,
	})
}

func formatUpdated(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
