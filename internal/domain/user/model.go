package user

import "time"

type Profile struct {
	UserID    string    `gorm:"type:text;primaryKey"`
	Email     *string   `gorm:"type:text"`
	Phone     *string   `gorm:"type:text;index"`
	AvatarURL *string   `gorm:"type:text"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}
