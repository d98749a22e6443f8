package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/merabestie/sellerhub/config"
	"github.com/merabestie/sellerhub/internal/dbtest"
	"github.com/merabestie/sellerhub/internal/domain"
	"github.com/merabestie/sellerhub/internal/mailer"
)

func newTestApp(t *testing.T) *Application {
	cfg := *config.DefaultAppConfig
	a := NewApplication(&cfg)
	a.OverrideDB(dbtest.Open(t))
	require.NoError(t, a.StartServices())
	t.Cleanup(a.Release)
	return a
}

func TestStartServicesDefaults(t *testing.T) {
	a := newTestApp(t)
	assert.IsType(t, mailer.LogSender{}, a.Mailer())
	assert.NotNil(t, a.Broadcaster())
	assert.NotNil(t, a.Sellers())
	assert.NotNil(t, a.Coupons())
}

func TestAuditIsWrittenAsync(t *testing.T) {
	a := newTestApp(t)

	a.Audit(AuditEvent{Actor: "MBSLR12345", Ip: "10.0.0.1", Action: "login", Desc: "seller logged in"})
	a.Audit(AuditEvent{Action: "coupon.create", Desc: "SAVE10"})
	a.FlushAudit()

	list, err := a.RecentAudit(10)
	require.NoError(t, err)
	require.Len(t, list, 2)

	byAction := map[string]domain.OperationLog{}
	for _, l := range list {
		byAction[l.Action] = l
	}
	assert.Equal(t, "MBSLR12345", byAction["login"].Actor)
	assert.Equal(t, "10.0.0.1", byAction["login"].Ip)
	assert.Equal(t, "N/A", byAction["coupon.create"].Actor)
}

func TestPurgeAudit(t *testing.T) {
	a := newTestApp(t)
	old := time.Now().Add(-AuditRetention - 24*time.Hour)
	require.NoError(t, a.DB().Create(&domain.OperationLog{ID: 1, Action: "old", OptTime: old}).Error)
	require.NoError(t, a.DB().Create(&domain.OperationLog{ID: 2, Action: "new", OptTime: time.Now()}).Error)

	a.SchedClearExpireData()

	list, err := a.RecentAudit(10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "new", list[0].Action)
}

func TestCheckProductsIsIdempotent(t *testing.T) {
	a := newTestApp(t)
	a.checkProducts()
	a.checkProducts()

	var count int64
	require.NoError(t, a.DB().Model(&domain.Product{}).Count(&count).Error)
	assert.EqualValues(t, 4, count)

	var p domain.Product
	require.NoError(t, a.DB().Where("product_id = ?", "demo-mug-bestie").First(&p).Error)
	assert.Equal(t, "299.5", p.Price.String())
	assert.Equal(t, domain.VisibilityOn, p.Visibility)
}

func TestCheckProductsSkipsOnStoreError(t *testing.T) {
	a := newTestApp(t)
	require.NoError(t, a.DB().Migrator().DropTable(&domain.ProductImage{}, &domain.Product{}))

	core, logs := observer.New(zapcore.InfoLevel)
	defer zap.ReplaceGlobals(zap.New(core))()

	a.checkProducts()

	assert.Equal(t, 4, logs.FilterMessage("failed to check default product").Len())
	assert.Zero(t, logs.FilterMessage("failed to create default product").Len())
}

func TestGetDatabase(t *testing.T) {
	dir := t.TempDir()
	db, err := getDatabase(config.DBConfig{Type: "sqlite", Name: "unit"}, dir)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	defer sqlDB.Close()
	assert.FileExists(t, dir+"/unit.db")

	_, err = getDatabase(config.DBConfig{Type: "oracle"}, dir)
	assert.ErrorContains(t, err, "unsupported database type")
}

func TestMigrateDB(t *testing.T) {
	a := newTestApp(t)
	require.NoError(t, a.MigrateDB(false))
	assert.True(t, a.DB().Migrator().HasTable(&domain.Seller{}))
	assert.True(t, a.DB().Migrator().HasTable("operation_log"))
}
