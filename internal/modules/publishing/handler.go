package publishing

import (
	"errors"

	"github.com/easy-read/core/internal/config"
	"github.com/easy-read/core/internal/middleware"
	"github.com/easy-read/core/internal/models"
	"github.com/easy-read/core/internal/modules/access"
	"github.com/easy-read/core/internal/modules/lifecycle"
	"github.com/easy-read/core/internal/pkg/pagination"
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
	articles.POST("/:id/request", h.request)
	articles.POST("/:id/review", h.review)
	articles.POST("/:id/reject", h.reject)
	articles.POST("/:id/publish", h.publish)
	articles.POST("/:id/update", h.updateDraft)
	articles.POST("/:id/transfer", h.transfer)
	articles.POST("/:id/activate", h.activate)
	articles.POST("/:id/deactivate", h.deactivate)
	articles.DELETE("/:id", h.delete)
	articles.DELETE("/:id/permanent", h.permadelete)

	pub := rg.Group("/publishing", authMW)
	pub.GET("/requests", h.listRequests)
	pub.GET("/articles", h.listPublisherArticles)
	pub.GET("/admin/articles", h.listAdminArticles)
	pub.GET("/publishers", h.listPublishers)
	pub.POST("/publishers", h.addPublisher)
	pub.DELETE("/publishers/:userId", h.removePublisher)
	pub.GET("/writers", h.listWriters)
	pub.POST("/writers", h.addWriter)
	pub.DELETE("/writers/:userId", h.removeWriter)
}

// actor resolves the authenticated caller. A zero UserID means the response
// has been written.
func (h *Handler) actor(c *gin.Context) (access.Actor, *models.UserModel) {
	actor, user, err := access.LoadActor(h.db, h.cfg, middleware.CurrentUserID(c))
	if err != nil {
		if errors.Is(err, access.ErrUserNotFound) {
			response.Unauthorized(c)
		} else {
			response.InternalError(c, err)
		}
		return access.Actor{}, nil
	}
	return actor, user
}

func (h *Handler) loadArticle(c *gin.Context) *models.ArticleModel {
	var art models.ArticleModel
	err := h.db.First(&art, "id = ?", c.Param("id")).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c)
		} else {
			response.InternalError(c, err)
		}
		return nil
	}
	return &art
}

// guardArticle loads the article and applies the shared-access policy.
func (h *Handler) guardArticle(c *gin.Context, actor access.Actor) *models.ArticleModel {
	art := h.loadArticle(c)
	if art == nil {
		return nil
	}
	snap, err := access.Snapshot(h.db, art)
	if err != nil {
		response.InternalError(c, err)
		return nil
	}
	if d := access.ArticleAccess(actor, snap, access.Origin(c.Query("from"))); !d.Allowed {
		response.Denied(c, d.Reason, d.Redirect)
		return nil
	}
	return art
}

func (h *Handler) requirePublisher(c *gin.Context, actor access.Actor) bool {
	if d := access.PublisherOrAdmin(actor); !d.Allowed {
		response.Denied(c, d.Reason, d.Redirect)
		return false
	}
	return true
}

func (h *Handler) requireAdmin(c *gin.Context, actor access.Actor) bool {
	if d := access.AdminOnly(actor); !d.Allowed {
		response.Denied(c, d.Reason, d.Redirect)
		return false
	}
	return true
}

func (h *Handler) request(c *gin.Context) {
	actor, user := h.actor(c)
	if user == nil {
		return
	}
	art := h.guardArticle(c, actor)
	if art == nil {
		return
	}

	err := h.svc.Request(user, art)
	switch {
	case err == nil:
		response.Flash(c, "Your article has been sent to a publisher for approval.", access.RedirectAuthorArticles)
	case errors.Is(err, ErrEmailNotConfirmed):
		response.Flash(c, "Please confirm your email address before requesting publication.", access.RedirectAuthorArticles)
	case errors.Is(err, lifecycle.ErrAlreadyRequested):
		response.Flash(c, "A request to publish has already been made.", access.RedirectAuthorArticles)
	default:
		h.protocolError(c, err, access.RedirectAuthorArticles)
	}
}

func (h *Handler) review(c *gin.Context) {
	actor, user := h.actor(c)
	if user == nil {
		return
	}
	if !h.requirePublisher(c, actor) {
		return
	}
	art := h.loadArticle(c)
	if art == nil {
		return
	}

	outcome, err := h.svc.Review(actor, art)
	switch {
	case err == nil:
		switch outcome {
		case ReviewedNewWithWriter:
			response.Flash(c, "You are now reviewing a new article. You have also recruited a new writer.", access.RedirectRequests)
		case ReviewedNew:
			response.Flash(c, "You are now reviewing a new article.", access.RedirectRequests)
		default:
			response.Flash(c, "You are now reviewing a published article.", access.RedirectRequests)
		}
	case errors.Is(err, ErrNotAssignedPublisher), errors.Is(err, lifecycle.ErrInvalidTransition):
		response.Denied(c, "You do not have access to do that.", access.RedirectRequests)
	default:
		h.protocolError(c, err, access.RedirectRequests)
	}
}

func (h *Handler) reject(c *gin.Context) {
	actor, user := h.actor(c)
	if user == nil {
		return
	}
	art := h.guardArticle(c, actor)
	if art == nil {
		return
	}

	if err := h.svc.Reject(art); err != nil {
		h.protocolError(c, err, access.RedirectPublisherArticles)
		return
	}
	response.Flash(c, "Article successfully rejected.", access.RedirectPublisherArticles)
}

func (h *Handler) publish(c *gin.Context) {
	actor, user := h.actor(c)
	if user == nil {
		return
	}
	if !h.requirePublisher(c, actor) {
		return
	}
	art := h.guardArticle(c, actor)
	if art == nil {
		return
	}

	if _, err := h.svc.Publish(actor, art); err != nil {
		h.protocolError(c, err, access.RedirectRequests)
		return
	}
	response.Flash(c, "Article successfully published. Please await activation.", access.RedirectPublisherArticles)
}

func (h *Handler) updateDraft(c *gin.Context) {
	actor, user := h.actor(c)
	if user == nil {
		return
	}
	art := h.guardArticle(c, actor)
	if art == nil {
		return
	}

	if err := h.svc.UpdateDraft(art); err != nil {
		h.protocolError(c, err, access.RedirectAuthorArticles)
		return
	}
	response.Flash(c, "Article successfully updated.", access.RedirectAuthorArticles)
}

func (h *Handler) transfer(c *gin.Context) {
	actor, user := h.actor(c)
	if user == nil {
		return
	}
	if !h.requireAdmin(c, actor) {
		return
	}
	art := h.loadArticle(c)
	if art == nil {
		return
	}

	var dto EmailDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	err := h.svc.Transfer(art, dto.Email)
	switch {
	case err == nil:
		response.Flash(c, "Article successfully transferred.", access.RedirectAdminArticles)
	case errors.Is(err, ErrUserUnknown):
		response.Flash(c, "No user is associated with that email address.", access.RedirectAdminArticles)
	case errors.Is(err, ErrNotAPublisher):
		response.Flash(c, "No publisher is associated with that email address.", access.RedirectAdminArticles)
	default:
		h.protocolError(c, err, access.RedirectAdminArticles)
	}
}

func (h *Handler) activate(c *gin.Context)   { h.setActive(c, true, "Article successfully activated.") }
func (h *Handler) deactivate(c *gin.Context) { h.setActive(c, false, "Article successfully deactivated.") }

func (h *Handler) setActive(c *gin.Context, active bool, message string) {
	actor, user := h.actor(c)
	if user == nil {
		return
	}
	if !h.requireAdmin(c, actor) {
		return
	}
	if err := h.svc.SetActive(c.Param("id"), active); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c)
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Flash(c, message, access.RedirectAdminArticles)
}

func (h *Handler) delete(c *gin.Context) {
	actor, user := h.actor(c)
	if user == nil {
		return
	}
	art := h.guardArticle(c, actor)
	if art == nil {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), art); err != nil {
		h.protocolError(c, err, access.RedirectAuthorArticles)
		return
	}
	response.Flash(c, "Article successfully deleted.", access.RedirectAuthorArticles)
}

func (h *Handler) permadelete(c *gin.Context) {
	actor, user := h.actor(c)
	if user == nil {
		return
	}
	if !h.requireAdmin(c, actor) {
		return
	}
	art := h.loadArticle(c)
	if art == nil {
		return
	}

	if err := h.svc.Permadelete(c.Request.Context(), art); err != nil {
		h.protocolError(c, err, access.RedirectAdminArticles)
		return
	}
	response.Flash(c, "Article successfully deleted.", access.RedirectAdminArticles)
}

func (h *Handler) listRequests(c *gin.Context) {
	actor, user := h.actor(c)
	if user == nil {
		return
	}
	if !h.requirePublisher(c, actor) {
		return
	}
	inbox, err := h.svc.ListRequests(actor)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, inbox)
}

func (h *Handler) listPublisherArticles(c *gin.Context) {
	actor, user := h.actor(c)
	if user == nil {
		return
	}
	if !h.requirePublisher(c, actor) {
		return
	}
	items, err := h.svc.ListPublisherArticles(actor)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, items)
}

func (h *Handler) listAdminArticles(c *gin.Context) {
	actor, user := h.actor(c)
	if user == nil {
		return
	}
	if !h.requireAdmin(c, actor) {
		return
	}
	items, meta, err := h.svc.ListAdminArticles(pagination.FromContext(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, items, meta)
}

func (h *Handler) listPublishers(c *gin.Context) {
	actor, user := h.actor(c)
	if user == nil {
		return
	}
	if !h.requireAdmin(c, actor) {
		return
	}
	items, err := h.svc.ListPublishers()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, items)
}

func (h *Handler) addPublisher(c *gin.Context) {
	actor, user := h.actor(c)
	if user == nil {
		return
	}
	if !h.requireAdmin(c, actor) {
		return
	}
	var dto EmailDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	err := h.svc.AddPublisher(dto.Email)
	switch {
	case err == nil:
		response.Flash(c, "Publisher successfully added.", "/publishing/publishers")
	case errors.Is(err, ErrUserUnknown):
		response.Flash(c, "No user is associated with that email address.", "/publishing/publishers")
	case errors.Is(err, ErrAlreadyPublisher):
		response.Conflict(c, "That user is already a publisher.")
	default:
		response.InternalError(c, err)
	}
}

func (h *Handler) removePublisher(c *gin.Context) {
	actor, user := h.actor(c)
	if user == nil {
		return
	}
	if !h.requireAdmin(c, actor) {
		return
	}

	err := h.svc.RemovePublisher(c.Param("userId"))
	switch {
	case err == nil:
		response.Flash(c, "Publisher successfully removed.", "/publishing/publishers")
	case errors.Is(err, ErrUserUnknown), errors.Is(err, ErrNotAPublisher):
		response.NotFoundMsg(c, "No publisher is associated with that user.")
	default:
		response.InternalError(c, err)
	}
}

func (h *Handler) listWriters(c *gin.Context) {
	actor, user := h.actor(c)
	if user == nil {
		return
	}
	if !h.requirePublisher(c, actor) {
		return
	}
	items, err := h.svc.ListWriters(actor)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, items)
}

func (h *Handler) addWriter(c *gin.Context) {
	actor, user := h.actor(c)
	if user == nil {
		return
	}
	if !h.requirePublisher(c, actor) {
		return
	}
	var dto EmailDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	err := h.svc.AddWriter(actor, user.Email, dto.Email)
	switch {
	case err == nil:
		response.Flash(c, "Writer successfully added.", "/publishing/writers")
	case errors.Is(err, ErrUserUnknown):
		response.Flash(c, "No user is associated with that email address.", "/publishing/writers")
	case errors.Is(err, ErrWriterTaken):
		response.Denied(c, "You do not have access to add that writer.", "/publishing/writers")
	default:
		response.InternalError(c, err)
	}
}

func (h *Handler) removeWriter(c *gin.Context) {
	actor, user := h.actor(c)
	if user == nil {
		return
	}
	if !h.requirePublisher(c, actor) {
		return
	}

	err := h.svc.RemoveWriter(actor, c.Param("userId"))
	switch {
	case err == nil:
		response.Flash(c, "Writer successfully removed.", "/publishing/writers")
	case errors.Is(err, ErrUserUnknown):
		response.NotFound(c)
	case errors.Is(err, ErrNotYourWriter):
		response.Denied(c, "You are not the publisher of that writer.", "/publishing/writers")
	default:
		response.InternalError(c, err)
	}
}

// protocolError maps shared lifecycle failures onto responses.
func (h *Handler) protocolError(c *gin.Context, err error, redirect string) {
	switch {
	case errors.Is(err, ErrConflict):
		response.Conflict(c, "That article was just changed by someone else. Please try again.")
	case errors.Is(err, ErrLiveTwinExists):
		response.Conflict(c, "That article still has a published version. Permanently delete the published version instead.")
	case errors.Is(err, lifecycle.ErrInvalidTransition):
		response.Denied(c, "You do not have access to do that.", redirect)
	default:
		response.InternalError(c, err)
	}
}
