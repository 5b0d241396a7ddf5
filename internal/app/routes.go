package app

import (
	"github.com/easy-read/core/internal/middleware"
	"github.com/easy-read/core/internal/modules/article"
	"github.com/easy-read/core/internal/modules/auth"
	"github.com/easy-read/core/internal/modules/public"
	"github.com/easy-read/core/internal/modules/publishing"
	"github.com/easy-read/core/internal/modules/storage/blob"
	"github.com/easy-read/core/internal/modules/storage/image"
	pkgcron "github.com/easy-read/core/internal/pkg/cron"
	"github.com/easy-read/core/internal/pkg/mail"
	pkgredis "github.com/easy-read/core/internal/pkg/redis"
	"github.com/easy-read/core/internal/pkg/response"
	"github.com/easy-read/core/internal/pkg/taskqueue"
	"github.com/gin-gonic/gin"
)

func (a *App) registerRoutes(rc *pkgredis.Client, store *blob.Store) *pkgcron.Scheduler {
	r := a.router
	db := a.db
	cfg := a.cfg
	logger := a.logger
	authMW := middleware.Auth()

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c)
	})
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	r.Use(middleware.RateLimit(rc.Raw()))

	mailer := mail.New(mail.Config{
		Enable:    cfg.Mail.Enable,
		Host:      cfg.Mail.Host,
		Port:      cfg.Mail.Port,
		User:      cfg.Mail.User,
		Pass:      cfg.Mail.Pass,
		From:      cfg.Mail.From,
		ReplyTo:   cfg.Mail.ReplyTo,
		UseResend: cfg.Mail.UseResend,
		ResendKey: cfg.Mail.ResendKey,
	})

	taskSvc := taskqueue.NewService(rc)
	imageSvc := image.NewService(db, store, taskSvc, cfg, logger.Named("image"))
	articleSvc := article.NewService(db, logger.Named("article"))
	publishingSvc := publishing.NewService(db, cfg, articleSvc, imageSvc, mailer, logger.Named("publishing"))
	authSvc := auth.NewService(db, cfg, mailer, logger.Named("auth"))

	root := r.Group("")
	root.Use(middleware.OptionalAuth())

	auth.NewHandler(authSvc, db).RegisterRoutes(root, authMW)
	article.NewHandler(articleSvc, db, cfg).RegisterRoutes(root, authMW)
	publishing.NewHandler(publishingSvc, db, cfg).RegisterRoutes(root, authMW)
	image.NewHandler(imageSvc).RegisterRoutes(root, authMW)
	public.NewHandler(db, articleSvc).RegisterRoutes(root)

	return a.buildScheduler(imageSvc, taskSvc)
}
