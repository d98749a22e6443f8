package app

import (
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/merabestie/sellerhub/internal/domain"
)

// AuditRetention is how long operation_log entries are kept.
const AuditRetention = 365 * 24 * time.Hour

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

func (a *Application) initJob() {
	loc, err := time.LoadLocation(a.appConfig.System.Location)
	if err != nil {
		loc = time.Local
	}
	a.sched = cron.New(cron.WithLocation(loc), cron.WithParser(cronParser))

	_, err = a.sched.AddFunc("@daily", a.SchedClearExpireData)
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	a.sched.Start()
}

// SchedClearExpireData purges audit entries past retention.
func (a *Application) SchedClearExpireData() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()
	n, err := a.PurgeAudit(time.Now().Add(-AuditRetention))
	if err != nil {
		zap.L().Error("purge operation log failed", zap.String("namespace", "jobs"), zap.Error(err))
		return
	}
	if n > 0 {
		zap.L().Info("purged operation log", zap.String("namespace", "jobs"), zap.Int64("rows", n))
	}
}

// PurgeAudit deletes operation log entries older than before.
func (a *Application) PurgeAudit(before time.Time) (int64, error) {
	res := a.gormDB.Where("opt_time < ?", before).Delete(&domain.OperationLog{})
	return res.RowsAffected, res.Error
}
