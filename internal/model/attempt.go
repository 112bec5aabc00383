package model

import "time"

// Attempt 一次测验提交记录，只插入，不更新不删除
// swagger:model Attempt
type Attempt struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	MaterialID string    `gorm:"type:varchar(36);not null;index:idx_attempt_material_passed,priority:1" json:"materialId"`
	Score      int       `gorm:"not null" json:"score"`
	Passed     bool      `gorm:"not null;index:idx_attempt_material_passed,priority:2" json:"passed"`
	CreatedAt  time.Time `gorm:"index:idx_attempt_material_passed,priority:3" json:"createdAt"`
}

func (Attempt) TableName() string {
	return "attempts"
}
