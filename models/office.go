package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bitbucket.org/mmdatafocus/budget_backend/config"
	"bitbucket.org/mmdatafocus/budget_backend/utils"
	"gorm.io/gorm"
)

type Office struct {
	ID         int       `gorm:"primary_key" json:"id"`
	MinistryId int       `gorm:"index;not null" json:"ministry_id" binding:"required"`
	Name       string    `gorm:"size:255;not null" json:"name" binding:"required"`
	Location   string    `gorm:"size:255;not null" json:"location" binding:"required"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type NewOffice struct {
	MinistryId int    `json:"ministry_id" binding:"required"`
	Name       string `json:"name" binding:"required"`
	Location   string `json:"location" binding:"required"`
}

type OfficeWithMinistry struct {
	Office
	MinistryName string `json:"ministry_name"`
}

/*
caches:
	OfficeMinistry:$officeId
*/

func CreateOffice(ctx context.Context, role Role, input *NewOffice) (*Office, error) {
	if role != RoleAdmin {
		return nil, utils.AuthorizationError("only Admins can add offices")
	}
	if err := utils.ValidateResourceId[Ministry](ctx, input.MinistryId); err != nil {
		if errors.Is(err, utils.ErrorRecordNotFound) {
			return nil, utils.NotFoundError("ministry %d", input.MinistryId)
		}
		return nil, err
	}

	office := Office{
		MinistryId: input.MinistryId,
		Name:       input.Name,
		Location:   input.Location,
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&office).Error; err != nil {
		return nil, err
	}
	return &office, nil
}

func ListOffices(ctx context.Context) ([]OfficeWithMinistry, error) {
	var offices []OfficeWithMinistry
	db := config.GetDB()
	err := db.WithContext(ctx).Model(&Office{}).
		Select("offices.*, ministries.name AS ministry_name").
		Joins("JOIN ministries ON offices.ministry_id = ministries.id").
		Order("offices.id").
		Scan(&offices).Error
	if err != nil {
		return nil, err
	}
	return offices, nil
}

func ListOfficesByMinistry(ctx context.Context, ministryId int) ([]Office, error) {
	var offices []Office
	db := config.GetDB()
	if err := db.WithContext(ctx).Where("ministry_id = ?", ministryId).Order("id").Find(&offices).Error; err != nil {
		return nil, err
	}
	return offices, nil
}

// GetOfficeMinistryId resolves the owning ministry of an office, redis or db.
// The mapping is immutable so the cache never needs invalidation.
func GetOfficeMinistryId(ctx context.Context, tx *gorm.DB, officeId int) (int, error) {
	var ministryId int
	redisKey := "OfficeMinistry:" + fmt.Sprint(officeId)
	exists, err := config.GetRedisObject(redisKey, &ministryId)
	if err != nil {
		return 0, err
	}
	if exists {
		return ministryId, nil
	}

	if err := tx.WithContext(ctx).Model(&Office{}).
		Where("id = ?", officeId).Select("ministry_id").Take(&ministryId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, utils.NotFoundError("office %d", officeId)
		}
		return 0, err
	}

	if err := config.SetRedisObject(redisKey, &ministryId, 0); err != nil {
		return 0, err
	}
	return ministryId, nil
}
