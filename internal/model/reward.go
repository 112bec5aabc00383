package model

import "time"

// Reward 每个材料至多一条，由 material_id 唯一索引保证
// swagger:model Reward
type Reward struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	MaterialID string    `gorm:"type:varchar(36);not null;uniqueIndex" json:"materialId"`
	Minutes    int       `gorm:"not null" json:"minutes"`
	Claimed    bool      `gorm:"not null;default:false" json:"claimed"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (Reward) TableName() string {
	return "rewards"
}
