package app

import (
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/merabestie/sellerhub/config"
	"github.com/merabestie/sellerhub/internal/coupon"
	"github.com/merabestie/sellerhub/internal/domain"
	"github.com/merabestie/sellerhub/internal/mailer"
	"github.com/merabestie/sellerhub/internal/seller"
)

// DBProvider provides database access
type DBProvider interface {
	DB() *gorm.DB
}

// ConfigProvider provides application configuration
type ConfigProvider interface {
	Config() *config.AppConfig
}

// SchedulerProvider provides task scheduling capability
type SchedulerProvider interface {
	Scheduler() *cron.Cron
}

// MailProvider provides the shared mail transport and broadcaster
type MailProvider interface {
	Mailer() mailer.Sender
	Broadcaster() *mailer.Broadcaster
}

// AuditProvider records operator actions asynchronously
type AuditProvider interface {
	Audit(ev AuditEvent)
	RecentAudit(limit int) ([]domain.OperationLog, error)
}

// AppContext combines all provider interfaces for full application context.
// Handlers depend on this interface, never on *Application.
type AppContext interface {
	DBProvider
	ConfigProvider
	SchedulerProvider
	MailProvider
	AuditProvider

	Sellers() *seller.Service
	Coupons() *coupon.Service
	MigrateDB(track bool) error
}
