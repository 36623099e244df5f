package cron

import (
	"context"

	"github.com/Manakin-Wraith/MyJubilee/internal/jobs"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// StartReminderCronJobs schedules the daily stale-wishlist scan.
func StartReminderCronJobs(notifier *jobs.StaleListNotifier) {
	c := cron.New()

	// Morning scan for wishlists nobody has touched in a month
	c.AddFunc("0 9 * * *", func() {
		if err := notifier.RunDailyScan(context.Background()); err != nil {
			logrus.WithError(err).Error("Stale wishlist scan failed")
		}
	})

	c.Start()
}
