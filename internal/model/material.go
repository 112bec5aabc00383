package model

type MaterialType string

const (
	MaterialVideo    MaterialType = "video"
	MaterialDocument MaterialType = "document"
)

func (t MaterialType) Valid() bool {
	return t == MaterialVideo || t == MaterialDocument
}

// Material 学习材料，ContentText 同时用于时长估算与测验生成
// swagger:model Material
type Material struct {
	UUIDBase
	Title         string       `gorm:"size:255;not null" json:"title"`
	Type          MaterialType `gorm:"size:20;not null" json:"type"`
	ContentText   string       `gorm:"type:longtext;not null" json:"contentText"`
	SourceURL     *string      `gorm:"size:1024" json:"sourceUrl"`
	StorageKey    string       `gorm:"size:512" json:"-"`
	StartOffset   int          `gorm:"not null;default:0" json:"startOffset"` // 秒
	EndOffset     *int         `json:"endOffset"`                             // 秒
	RewardMinutes *int         `json:"rewardMinutes"`                         // 固定奖励，覆盖估算值
}

func (Material) TableName() string {
	return "materials"
}

// FixedReward 返回管理员设置的固定奖励（仅正数有效）
func (m *Material) FixedReward() (int, bool) {
	if m.RewardMinutes != nil && *m.RewardMinutes > 0 {
		return *m.RewardMinutes, true
	}
	return 0, false
}
