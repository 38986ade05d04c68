package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/mmdatafocus/budget_backend/config"
	"bitbucket.org/mmdatafocus/budget_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OfficeFund holds one balance per (office_id, heading, fiscal_year).
// Credited by the transfer workflow, debited by the spend workflow; the
// balance must stay >= 0.
type OfficeFund struct {
	ID         int             `gorm:"primary_key" json:"id"`
	OfficeId   int             `gorm:"uniqueIndex:idx_office_fund_key;not null" json:"office_id"`
	Heading    string          `gorm:"uniqueIndex:idx_office_fund_key;size:100;not null" json:"heading"`
	FiscalYear string          `gorm:"uniqueIndex:idx_office_fund_key;size:20;not null" json:"fiscal_year"`
	Balance    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"balance"`
	CreatedAt  time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type OfficeFundBalance struct {
	Heading string          `json:"heading"`
	Balance decimal.Decimal `json:"balance"`
}

// CreditOfficeFund creates the (office, heading, fiscal_year) row with the
// given amount, or adds to the existing balance. The row is taken FOR UPDATE
// so a concurrent credit/debit on the same key cannot interleave. Must be
// called on a transaction handle.
func CreditOfficeFund(tx *gorm.DB, officeId int, heading string, fiscalYear string, amount decimal.Decimal) (decimal.Decimal, error) {
	fund := OfficeFund{
		OfficeId:   officeId,
		Heading:    heading,
		FiscalYear: fiscalYear,
	}
	result := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("office_id = ? AND heading = ? AND fiscal_year = ?", officeId, heading, fiscalYear).
		FirstOrCreate(&fund)
	if result.Error != nil {
		return decimal.Zero, result.Error
	}

	newBalance := fund.Balance.Add(amount)
	if err := tx.Model(&OfficeFund{}).Where("id = ?", fund.ID).
		Update("balance", newBalance).Error; err != nil {
		return decimal.Zero, err
	}
	return newBalance, nil
}

// DebitOfficeFundIfSufficient has the same check-then-act contract as
// DebitBudgetIfSufficient: balance read FOR UPDATE, compared, debited, all
// inside the caller's transaction.
func DebitOfficeFundIfSufficient(tx *gorm.DB, officeId int, heading string, fiscalYear string, amount decimal.Decimal) (decimal.Decimal, error) {
	var fund OfficeFund
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("office_id = ? AND heading = ? AND fiscal_year = ?", officeId, heading, fiscalYear).
		Take(&fund).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, utils.InsufficientFundsError(
				"no funds for office %d under %s in %s", officeId, heading, fiscalYear)
		}
		return decimal.Zero, err
	}

	if fund.Balance.LessThan(amount) {
		return decimal.Zero, utils.InsufficientFundsError(
			"office %d balance %s under %s is less than %s", officeId, fund.Balance, heading, amount)
	}

	newBalance := fund.Balance.Sub(amount)
	if err := tx.Model(&OfficeFund{}).Where("id = ?", fund.ID).
		Update("balance", newBalance).Error; err != nil {
		return decimal.Zero, err
	}
	return newBalance, nil
}

func GetOfficeFundBalance(ctx context.Context, officeId int, heading string, fiscalYear string) (decimal.Decimal, error) {
	var fund OfficeFund
	db := config.GetDB()
	if err := db.WithContext(ctx).
		Where("office_id = ? AND heading = ? AND fiscal_year = ?", officeId, heading, fiscalYear).
		Take(&fund).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, utils.NotFoundError(
				"no funds for office %d under %s in %s", officeId, heading, fiscalYear)
		}
		return decimal.Zero, err
	}
	return fund.Balance, nil
}

func ListOfficeFundsByYear(ctx context.Context, role Role, officeId int, fiscalYear string) ([]OfficeFundBalance, error) {
	if role != RoleAdmin && role != RoleOffice {
		return nil, utils.AuthorizationError("only Admins or Office users can view office funds")
	}

	var balances []OfficeFundBalance
	db := config.GetDB()
	err := db.WithContext(ctx).Model(&OfficeFund{}).
		Select("heading, balance").
		Where("office_id = ? AND fiscal_year = ?", officeId, fiscalYear).
		Order("heading").
		Scan(&balances).Error
	if err != nil {
		return nil, err
	}
	if len(balances) == 0 {
		return nil, utils.NotFoundError("no funds for office %d in %s", officeId, fiscalYear)
	}
	return balances, nil
}
