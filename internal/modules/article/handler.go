package article

import (
	"errors"

	"github.com/easy-read/core/internal/config"
	"github.com/easy-read/core/internal/middleware"
	"github.com/easy-read/core/internal/models"
	"github.com/easy-read/core/internal/modules/access"
	"github.com/easy-read/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Handler struct {
	svc *Service
	db  *gorm.DB
	cfg *config.AppConfig
}

func NewHandler(svc *Service, db *gorm.DB, cfg *config.AppConfig) *Handler {
	return &Handler{svc: svc, db: db, cfg: cfg}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	articles := rg.Group("/articles", authMW)
	articles.GET("/mine", h.listMine)
	articles.POST("", h.create)
	articles.GET("/:id", h.get)
	articles.PUT("/:id", h.save)
	articles.GET("/:id/preview", h.preview)
}

// guard loads the article and checks the caller's standing on it. A nil
// article means the response has already been written.
func (h *Handler) guard(c *gin.Context) (*models.ArticleModel, access.Actor) {
	actor, _, err := access.LoadActor(h.db, h.cfg, middleware.CurrentUserID(c))
	if err != nil {
		if errors.Is(err, access.ErrUserNotFound) {
			response.Unauthorized(c)
		} else {
			response.InternalError(c, err)
		}
		return nil, access.Actor{}
	}

	art, err := h.svc.GetByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrArticleNotFound) {
			response.NotFound(c)
		} else {
			response.InternalError(c, err)
		}
		return nil, actor
	}

	snap, err := access.Snapshot(h.db, art)
	if err != nil {
		response.InternalError(c, err)
		return nil, actor
	}
	if d := access.ArticleAccess(actor, snap, access.Origin(c.Query("from"))); !d.Allowed {
		response.Denied(c, d.Reason, d.Redirect)
		return nil, actor
	}
	return art, actor
}

func (h *Handler) listMine(c *gin.Context) {
	items, err := h.svc.ListByAuthor(middleware.CurrentUserID(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, items)
}

func (h *Handler) create(c *gin.Context) {
	var dto ArticleDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	art, err := h.svc.Create(middleware.CurrentUserID(c), &dto)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Created(c, ToResponse(art))
}

func (h *Handler) get(c *gin.Context) {
	art, _ := h.guard(c)
	if art == nil {
		return
	}
	response.OK(c, ToResponse(art))
}

func (h *Handler) save(c *gin.Context) {
	art, _ := h.guard(c)
	if art == nil {
		return
	}

	var dto ArticleDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.svc.Save(art, &dto); err != nil {
		if errors.Is(err, ErrLiveTwinBusy) {
			h.flashTwinBusy(c, art.ID)
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Flash(c, "Article successfully saved.", access.RedirectAuthorArticles)
}

// preview renders the article exactly as it would appear live.
func (h *Handler) preview(c *gin.Context) {
	art, _ := h.guard(c)
	if art == nil {
		return
	}
	response.OK(c, ToResponse(art))
}

// flashTwinBusy words the live-edit refusal by what the draft twin is doing.
func (h *Handler) flashTwinBusy(c *gin.Context, publishedArticleID string) {
	status, err := h.svc.draftTwinStatus(publishedArticleID)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if status.UnderReview() {
		response.Flash(c, "You are currently reviewing that article. Please publish or reject the requested changes.", access.RedirectPublisherArticles)
		return
	}
	response.Flash(c, "The author of that article has requested an update. Please review the request before making changes.", access.RedirectPublisherArticles)
}
