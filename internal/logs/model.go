package logs

import (
	"time"
)

const (
	LevelInfo = "INFO"
	LevelWarn = "WARN"
)

type SystemLog struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Level      string    `gorm:"size:20;not null" json:"level"`
	Service    string    `gorm:"size:100;not null;index" json:"service"`
	UserID     *uint     `gorm:"index" json:"user_id,omitempty"`
	Action     string    `gorm:"size:255;not null" json:"action"`
	Message    string    `gorm:"type:text;not null" json:"message"`
	ResourceID *uint     `gorm:"index" json:"resource_id,omitempty"`
	Metadata   *string   `gorm:"type:text" json:"metadata,omitempty"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type LogFilterInput struct {
	UserID     *uint   `json:"user_id"`
	Level      *string `json:"level"`
	Service    *string `json:"service"`
	Action     *string `json:"action"`
	ResourceID *uint   `json:"resource_id"`

	StartDate *string `json:"start_date"` // "YYYY-MM-DD" or RFC3339
	EndDate   *string `json:"end_date"`

	Search   *string `json:"search"`
	Page     int     `json:"page"`
	PageSize int     `json:"page_size"`
}

type AggItem struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

type LogAggregates struct {
	ByService []AggItem `json:"by_service"`
	ByAction  []AggItem `json:"by_action"`
	ByLevel   []AggItem `json:"by_level"`
}

func (SystemLog) TableName() string {
	return "logs"
}
