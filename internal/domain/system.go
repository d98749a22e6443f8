package domain

import (
	"time"
)

// OperationLog records who did what from where.
type OperationLog struct {
	ID      int64     `json:"id,string"`
	Actor   string    `gorm:"size:64;index" json:"actor"`
	Ip      string    `gorm:"size:64" json:"ip"`
	Action  string    `gorm:"size:64;index" json:"action"`
	Desc    string    `json:"desc"`
	OptTime time.Time `gorm:"index" json:"opt_time"`
}

// TableName Specify table name
func (OperationLog) TableName() string {
	return "operation_log"
}
