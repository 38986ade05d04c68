package models

import (
	"context"
	"time"

	"bitbucket.org/mmdatafocus/budget_backend/config"
	"github.com/shopspring/decimal"
)

// Transfer is the append-only audit record of a completed budget-to-office
// movement. Exactly one exists per transferred FundRequest; the workflow
// consumes the request in the same transaction that creates the record.
type Transfer struct {
	ID            int             `gorm:"primary_key" json:"id"`
	FundRequestId int             `gorm:"uniqueIndex;not null" json:"fund_request_id"`
	OfficeId      int             `gorm:"index;not null" json:"office_id"`
	MinistryId    int             `gorm:"index;not null" json:"ministry_id"`
	Amount        decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"amount"`
	TransferDate  time.Time       `gorm:"autoCreateTime" json:"transfer_date"`
}

type TransferWithNames struct {
	Transfer
	OfficeName   string `json:"office_name"`
	MinistryName string `json:"ministry_name"`
}

// ListTransfers is a read-only view for the report collaborator.
func ListTransfers(ctx context.Context) ([]TransferWithNames, error) {
	var transfers []TransferWithNames
	db := config.GetDB()
	err := db.WithContext(ctx).Model(&Transfer{}).
		Select("transfers.*, offices.name AS office_name, ministries.name AS ministry_name").
		Joins("JOIN offices ON transfers.office_id = offices.id").
		Joins("JOIN ministries ON transfers.ministry_id = ministries.id").
		Order("transfers.id").
		Scan(&transfers).Error
	if err != nil {
		return nil, err
	}
	return transfers, nil
}
