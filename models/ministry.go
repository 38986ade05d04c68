package models

import (
	"context"
	"time"

	"bitbucket.org/mmdatafocus/budget_backend/config"
	"bitbucket.org/mmdatafocus/budget_backend/utils"
)

// Ministry is immutable once created: there is no update path.
type Ministry struct {
	ID          int       `gorm:"primary_key" json:"id"`
	Name        string    `gorm:"size:255;not null" json:"name" binding:"required"`
	Description string    `gorm:"type:text;not null" json:"description" binding:"required"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type NewMinistry struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description" binding:"required"`
}

func CreateMinistry(ctx context.Context, role Role, input *NewMinistry) (*Ministry, error) {
	if role != RoleAdmin {
		return nil, utils.AuthorizationError("only Admins can add ministries")
	}
	if input.Name == "" || input.Description == "" {
		return nil, utils.ValidationError("name and description are required")
	}

	ministry := Ministry{
		Name:        input.Name,
		Description: input.Description,
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&ministry).Error; err != nil {
		return nil, err
	}
	return &ministry, nil
}

func ListMinistries(ctx context.Context) ([]Ministry, error) {
	var ministries []Ministry
	db := config.GetDB()
	if err := db.WithContext(ctx).Order("id").Find(&ministries).Error; err != nil {
		return nil, err
	}
	return ministries, nil
}
