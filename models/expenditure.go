package models

import (
	"context"
	"time"

	"bitbucket.org/mmdatafocus/budget_backend/config"
	"github.com/shopspring/decimal"
)

// Expenditure is the append-only audit record of office fund debits, written
// only by the spend workflow.
type Expenditure struct {
	ID          int             `gorm:"primary_key" json:"id"`
	OfficeId    int             `gorm:"index;not null" json:"office_id"`
	Heading     string          `gorm:"size:100;not null" json:"heading"`
	FiscalYear  string          `gorm:"size:20;not null" json:"fiscal_year"`
	Amount      decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"amount"`
	Description string          `gorm:"type:text;not null" json:"description"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

// ListExpenditures is a read-only view for the report collaborator.
func ListExpenditures(ctx context.Context, officeId int, fiscalYear string) ([]Expenditure, error) {
	var expenditures []Expenditure
	db := config.GetDB()
	err := db.WithContext(ctx).
		Where("office_id = ? AND fiscal_year = ?", officeId, fiscalYear).
		Order("id").
		Find(&expenditures).Error
	if err != nil {
		return nil, err
	}
	return expenditures, nil
}
