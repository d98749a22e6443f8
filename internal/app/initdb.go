package app

import (
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/merabestie/sellerhub/internal/domain"
	"github.com/merabestie/sellerhub/pkg/common"
)

// checkProducts seeds a few demo catalog entries when they are missing
func (a *Application) checkProducts() {
	defaultProducts := []domain.Product{
		{ProductId: "demo-teddy-classic", Name: "Classic Teddy Bear", Price: decimal.RequireFromString("499.00"),
			Category: "Soft Toys", Rating: 4.5, InStockValue: 40, Description: "Plush bear, 30cm"},
		{ProductId: "demo-mug-bestie", Name: "Bestie Mug", Price: decimal.RequireFromString("299.50"),
			Category: "Mugs", Rating: 4.2, InStockValue: 120, Description: "Ceramic mug, 350ml"},
		{ProductId: "demo-frame-memories", Name: "Memories Photo Frame", Price: decimal.RequireFromString("749.00"),
			Category: "Photo Frames", Rating: 4.8, InStockValue: 25, Description: "Wooden frame, 6x8in"},
		{ProductId: "demo-hamper-birthday", Name: "Birthday Hamper", Price: decimal.RequireFromString("1299.00"),
			Category: "Gift Hampers", Rating: 4.0, InStockValue: 10, Description: "Assorted birthday gifts"},
	}

	for _, p := range defaultProducts {
		var count int64
		err := a.gormDB.Model(&domain.Product{}).Where("product_id = ?", p.ProductId).Count(&count).Error
		if err != nil {
			zap.L().Error("failed to check default product", zap.String("name", p.Name), zap.Error(err))
			continue
		}
		if count == 0 {
			p.ID = common.UUIDint64()
			p.Visibility = domain.VisibilityOn
			p.CreatedAt = time.Now()
			p.UpdatedAt = time.Now()
			if err := a.gormDB.Create(&p).Error; err != nil {
				zap.L().Error("failed to create default product", zap.String("name", p.Name), zap.Error(err))
			} else {
				zap.L().Info("initialized default product", zap.String("name", p.Name))
			}
		}
	}
}
