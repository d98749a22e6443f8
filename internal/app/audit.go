package app

import (
	"time"

	"go.uber.org/zap"

	"github.com/merabestie/sellerhub/internal/domain"
	"github.com/merabestie/sellerhub/pkg/common"
)

// TopicAudit is the event bus topic carrying AuditEvent values.
const TopicAudit = "audit"

// AuditEvent is one operator action to be written to operation_log.
type AuditEvent struct {
	Actor  string
	Ip     string
	Action string
	Desc   string
}

// Audit publishes ev; the write happens on the bus goroutine.
func (a *Application) Audit(ev AuditEvent) {
	if a.bus == nil {
		return
	}
	a.bus.Publish(TopicAudit, ev)
}

// FlushAudit blocks until every published event has been written.
func (a *Application) FlushAudit() {
	if a.bus != nil {
		a.bus.WaitAsync()
	}
}

func (a *Application) writeAudit(ev AuditEvent) {
	if common.IsEmptyOrNA(ev.Actor) {
		ev.Actor = common.NA
	}
	entry := domain.OperationLog{
		ID:      common.UUIDint64(),
		Actor:   ev.Actor,
		Ip:      ev.Ip,
		Action:  ev.Action,
		Desc:    ev.Desc,
		OptTime: time.Now(),
	}
	if err := a.gormDB.Create(&entry).Error; err != nil {
		zap.L().Error("write audit log failed",
			zap.String("namespace", "audit"),
			zap.String("action", ev.Action),
			zap.Error(err))
	}
}

// RecentAudit returns the newest operation log entries first.
func (a *Application) RecentAudit(limit int) ([]domain.OperationLog, error) {
	var list []domain.OperationLog
	err := a.gormDB.Order("opt_time desc").Limit(limit).Find(&list).Error
	return list, err
}
