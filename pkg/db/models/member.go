package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/ubqurrotul/koperasi-backend/pkg/enums"
)

// Member is a cooperative member account. Rows are never hard-deleted;
// deactivation flips Status to INACTIVE.
type Member struct {
	ID           uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	FullName     string             `gorm:"column:full_name;not null" json:"full_name"`
	Email        string             `gorm:"column:email;uniqueIndex;not null" json:"email"`
	PasswordHash string             `gorm:"column:password_hash;not null" json:"-"`
	Phone        *string            `gorm:"column:phone" json:"phone,omitempty"`
	Address      *string            `gorm:"column:address" json:"address,omitempty"`
	Role         enums.MemberRole   `gorm:"column:role;not null;default:ORDINARY_MEMBER" json:"role"`
	Status       enums.MemberStatus `gorm:"column:status;not null;default:ACTIVE" json:"status"`
	JoinDate     time.Time          `gorm:"column:join_date;type:date;not null" json:"join_date"`
	AvatarURL    *string            `gorm:"column:avatar_url" json:"avatar_url,omitempty"`
	CreatedAt    time.Time          `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time          `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
