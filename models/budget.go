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

// Budget holds one ministry balance per (ministry_id, fiscal_year).
// Amount is mutated only by AddBudget and DebitBudgetIfSufficient and must
// never go below zero.
type Budget struct {
	ID         int             `gorm:"primary_key" json:"id"`
	MinistryId int             `gorm:"uniqueIndex:idx_budget_key;not null" json:"ministry_id" binding:"required"`
	FiscalYear string          `gorm:"uniqueIndex:idx_budget_key;size:20;not null" json:"fiscal_year" binding:"required,fiscalyear"`
	Amount     decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"amount"`
	CreatedAt  time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewBudget struct {
	MinistryId int             `json:"ministry_id" binding:"required"`
	FiscalYear string          `json:"fiscal_year" binding:"required,fiscalyear"`
	Amount     decimal.Decimal `json:"amount" binding:"required"`
}

type BudgetWithMinistry struct {
	Budget
	MinistryName string `json:"ministry_name"`
}

// AddBudget creates the (ministry, fiscal_year) row or adds to an existing
// one. Upsert-add keeps a single base figure per key so the conservation
// check has one reference amount.
func AddBudget(ctx context.Context, role Role, input *NewBudget) (*Budget, error) {
	if role != RoleAdmin {
		return nil, utils.AuthorizationError("only Admins can add budgets")
	}
	if !input.Amount.IsPositive() {
		return nil, utils.ValidationError("amount must be greater than zero")
	}
	if err := utils.ValidateResourceId[Ministry](ctx, input.MinistryId); err != nil {
		if errors.Is(err, utils.ErrorRecordNotFound) {
			return nil, utils.NotFoundError("ministry %d", input.MinistryId)
		}
		return nil, err
	}

	budget := Budget{
		MinistryId: input.MinistryId,
		FiscalYear: input.FiscalYear,
	}
	db := config.GetDB()
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("ministry_id = ? AND fiscal_year = ?", input.MinistryId, input.FiscalYear).
			FirstOrCreate(&budget)
		if result.Error != nil {
			return result.Error
		}
		budget.Amount = budget.Amount.Add(input.Amount)
		return tx.Model(&Budget{}).Where("id = ?", budget.ID).
			Update("amount", budget.Amount).Error
	})
	if err != nil {
		return nil, err
	}
	return &budget, nil
}

func ListBudgets(ctx context.Context) ([]BudgetWithMinistry, error) {
	var budgets []BudgetWithMinistry
	db := config.GetDB()
	err := db.WithContext(ctx).Model(&Budget{}).
		Select("budgets.*, ministries.name AS ministry_name").
		Joins("JOIN ministries ON budgets.ministry_id = ministries.id").
		Order("budgets.id").
		Scan(&budgets).Error
	if err != nil {
		return nil, err
	}
	return budgets, nil
}

func GetBudgetBalance(ctx context.Context, role Role, ministryId int, fiscalYear string) (decimal.Decimal, error) {
	if role != RoleAdmin {
		return decimal.Zero, utils.AuthorizationError("only Admins can view ministry budgets")
	}

	var budget Budget
	db := config.GetDB()
	if err := db.WithContext(ctx).
		Where("ministry_id = ? AND fiscal_year = ?", ministryId, fiscalYear).
		Take(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, utils.NotFoundError("no budget for ministry %d in %s", ministryId, fiscalYear)
		}
		return decimal.Zero, err
	}
	return budget.Amount, nil
}

// DebitBudgetIfSufficient reads the balance under SELECT ... FOR UPDATE and
// debits it in the same transaction. The row lock serializes concurrent
// debits on the same (ministry, fiscal_year) key; distinct keys do not
// contend. Must be called on a transaction handle.
func DebitBudgetIfSufficient(tx *gorm.DB, ministryId int, fiscalYear string, amount decimal.Decimal) (decimal.Decimal, error) {
	var budget Budget
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("ministry_id = ? AND fiscal_year = ?", ministryId, fiscalYear).
		Take(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, utils.NotFoundError("no budget for ministry %d in %s", ministryId, fiscalYear)
		}
		return decimal.Zero, err
	}

	if budget.Amount.LessThan(amount) {
		return decimal.Zero, utils.InsufficientFundsError(
			"ministry %d budget %s is less than %s", ministryId, budget.Amount, amount)
	}

	newBalance := budget.Amount.Sub(amount)
	if err := tx.Model(&Budget{}).Where("id = ?", budget.ID).
		Update("amount", newBalance).Error; err != nil {
		return decimal.Zero, err
	}
	return newBalance, nil
}
