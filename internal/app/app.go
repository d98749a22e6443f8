package app

import (
	"os"
	"runtime/debug"
	"time"
	_ "time/tzdata"

	"github.com/asaskevich/EventBus"
	"github.com/panjf2000/ants/v2"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
	"gorm.io/gorm"

	"github.com/merabestie/sellerhub/config"
	"github.com/merabestie/sellerhub/internal/coupon"
	"github.com/merabestie/sellerhub/internal/domain"
	"github.com/merabestie/sellerhub/internal/mailer"
	"github.com/merabestie/sellerhub/internal/seller"
	"github.com/merabestie/sellerhub/internal/sms"
)

type Application struct {
	appConfig   *config.AppConfig
	gormDB      *gorm.DB
	sched       *cron.Cron
	mail        mailer.Sender
	sms         sms.Sender
	pool        *ants.Pool
	broadcaster *mailer.Broadcaster
	bus         EventBus.Bus
	bcryptCost  int
}

// Ensure Application implements all interfaces
var (
	_ DBProvider        = (*Application)(nil)
	_ ConfigProvider    = (*Application)(nil)
	_ SchedulerProvider = (*Application)(nil)
	_ MailProvider      = (*Application)(nil)
	_ AuditProvider     = (*Application)(nil)
	_ AppContext        = (*Application)(nil)
)

func NewApplication(appConfig *config.AppConfig) *Application {
	return &Application{appConfig: appConfig}
}

func (a *Application) Config() *config.AppConfig {
	return a.appConfig
}

func (a *Application) DB() *gorm.DB {
	return a.gormDB
}

// OverrideDB replaces the application's database handle (used in tests).
func (a *Application) OverrideDB(db *gorm.DB) {
	a.gormDB = db
}

// OverrideMailer replaces the mail transport (used in tests).
func (a *Application) OverrideMailer(s mailer.Sender) {
	a.mail = s
}

// OverrideSms replaces the SMS transport; nil disables SMS.
func (a *Application) OverrideSms(s sms.Sender) {
	a.sms = s
}

// OverrideBcryptCost lowers the hashing cost in tests.
func (a *Application) OverrideBcryptCost(cost int) {
	a.bcryptCost = cost
}

// Init sets up logging, the database and every shared service.
func (a *Application) Init(cfg *config.AppConfig) error {
	a.appConfig = cfg
	loc, err := time.LoadLocation(cfg.System.Location)
	if err != nil {
		zap.S().Error("timezone config error")
	} else {
		time.Local = loc
	}

	if err := initLogger(cfg.Logger); err != nil {
		return err
	}

	if cfg.Database.Type == "" {
		cfg.Database.Type = "postgres"
	}
	a.gormDB, err = getDatabase(cfg.Database, cfg.GetDataDir())
	if err != nil {
		return err
	}
	zap.S().Infof("Database connection successful, type: %s", cfg.Database.Type)

	if err := a.MigrateDB(false); err != nil {
		zap.S().Errorf("database migration failed: %v", err)
	}

	if a.mail == nil {
		a.mail = newMailSender(cfg.Mail)
	}
	if a.sms == nil {
		a.sms = sms.New(cfg.Sms)
	}
	if err := a.StartServices(); err != nil {
		return err
	}

	if cfg.System.SeedDemo {
		go a.checkProducts()
	}

	a.initJob()
	return nil
}

func initLogger(cfg config.LogConfig) error {
	var zapConfig zap.Config
	if cfg.Mode == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}
	zapConfig.OutputPaths = []string{"stdout"}

	var logger *zap.Logger
	if cfg.FileEnable {
		lumberJackLogger := &lumberjack.Logger{
			Filename:   cfg.Filename,
			MaxSize:    64,
			MaxBackups: 7,
			MaxAge:     7,
			Compress:   false,
		}

		core := zapcore.NewTee(
			zapcore.NewCore(
				zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
				zapcore.AddSync(lumberJackLogger),
				zapConfig.Level,
			),
			zapcore.NewCore(
				zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
				zapcore.AddSync(os.Stdout),
				zapConfig.Level,
			),
		)
		logger = zap.New(core, zap.AddCaller())
	} else {
		var err error
		logger, err = zapConfig.Build(zap.AddCaller())
		if err != nil {
			return errors.Wrap(err, "build logger")
		}
	}

	zap.ReplaceGlobals(logger)
	return nil
}

// newMailSender returns the SMTP transport, or a logging stand-in when no
// account is configured.
func newMailSender(cfg config.MailConfig) mailer.Sender {
	if cfg.User == "" || cfg.Password == "" {
		zap.L().Warn("mail account not configured, messages will only be logged",
			zap.String("namespace", "mailer"))
		return mailer.LogSender{}
	}
	s := mailer.NewSMTPSender(cfg)
	go func() {
		if err := s.Verify(); err != nil {
			zap.L().Error("smtp verification failed", zap.String("namespace", "mailer"), zap.Error(err))
			return
		}
		zap.L().Info("smtp server ready", zap.String("namespace", "mailer"), zap.String("host", cfg.Host))
	}()
	return s
}

// StartServices creates the broadcast pool and the audit bus. Init calls it;
// tests call it after the Override methods.
func (a *Application) StartServices() error {
	if a.mail == nil {
		a.mail = mailer.LogSender{}
	}
	workers := a.appConfig.Mail.Workers
	if workers <= 0 {
		workers = config.DefaultAppConfig.Mail.Workers
	}
	pool, err := ants.NewPool(workers)
	if err != nil {
		return errors.Wrap(err, "mail worker pool")
	}
	a.pool = pool
	a.broadcaster = mailer.NewBroadcaster(a.mail, pool)

	a.bus = EventBus.New()
	if err := a.bus.SubscribeAsync(TopicAudit, a.writeAudit, false); err != nil {
		return errors.Wrap(err, "subscribe audit")
	}
	return nil
}

func (a *Application) MigrateDB(track bool) (err error) {
	defer func() {
		if err1 := recover(); err1 != nil {
			if os.Getenv("GO_DEGUB_TRACE") != "" {
				debug.PrintStack()
			}
			err2, ok := err1.(error)
			if ok {
				err = err2
				zap.S().Error(err2.Error())
			}
		}
	}()
	db := a.gormDB
	if track {
		db = db.Debug()
	}
	return db.Migrator().AutoMigrate(domain.Tables...)
}

// Scheduler returns the cron scheduler
func (a *Application) Scheduler() *cron.Cron {
	return a.sched
}

func (a *Application) Mailer() mailer.Sender {
	return a.mail
}

func (a *Application) Broadcaster() *mailer.Broadcaster {
	return a.broadcaster
}

// Sellers returns the seller identity service bound to the current database.
func (a *Application) Sellers() *seller.Service {
	return seller.NewService(seller.NewGormRepository(a.gormDB), a.mail, a.sms, seller.Options{
		IdPrefix:   a.appConfig.Seller.IdPrefix,
		BcryptCost: a.bcryptCost,
		Brand:      a.appConfig.Mail.FromName,
	})
}

// Coupons returns the coupon service bound to the current database.
func (a *Application) Coupons() *coupon.Service {
	return coupon.NewService(coupon.NewGormRepository(a.gormDB), a.broadcaster, a.appConfig.Mail.FromName)
}

// Release releases application resources
func (a *Application) Release() {
	if a.sched != nil {
		<-a.sched.Stop().Done()
	}
	if a.bus != nil {
		a.bus.WaitAsync()
	}
	if a.pool != nil {
		a.pool.Release()
	}
	_ = zap.L().Sync()
}
