package app

import (
	"time"

	"github.com/easy-read/core/internal/modules/storage/image"
	pkgcron "github.com/easy-read/core/internal/pkg/cron"
	"github.com/easy-read/core/internal/pkg/taskqueue"
)

// buildScheduler wires the background jobs. The janitor drains the durable
// queue every few minutes; the sweep backstops it by re-enqueueing unused
// uploads whose scheduled task went missing.
func (a *App) buildScheduler(imageSvc *image.Service, taskSvc *taskqueue.Service) *pkgcron.Scheduler {
	sched := pkgcron.New()
	janitor := image.NewJanitor(imageSvc, taskSvc, a.logger.Named("janitor"))

	sched.Register(pkgcron.Job{
		Name:        "image_gc",
		Description: "delete uploads that no article claimed",
		Interval:    5 * time.Minute,
		Fn:          janitor.Run,
	})
	sched.Register(pkgcron.Job{
		Name:        "image_gc_sweep",
		Description: "re-enqueue stale unused uploads",
		Interval:    time.Hour,
		Fn:          imageSvc.SweepStale,
	})
	return sched
}
