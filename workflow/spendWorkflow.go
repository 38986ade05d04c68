package workflow

import (
	"context"

	"bitbucket.org/mmdatafocus/budget_backend/config"
	"bitbucket.org/mmdatafocus/budget_backend/models"
	"bitbucket.org/mmdatafocus/budget_backend/utils"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type SpendInput struct {
	OfficeId    int             `json:"office_id" binding:"required"`
	Heading     string          `json:"heading" binding:"required"`
	FiscalYear  string          `json:"fiscal_year" binding:"required,fiscalyear"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description" binding:"required"`
}

type SpendResult struct {
	ExpenditureId int             `json:"expenditure_id"`
	Balance       decimal.Decimal `json:"balance"`
}

// ProcessSpend debits the office fund and appends the expenditure record in
// one transaction. The balance check and the debit share the same row lock,
// so two concurrent spends on one key cannot both pass the check.
func ProcessSpend(ctx context.Context, logger *logrus.Logger, role models.Role, input *SpendInput) (*SpendResult, error) {
	if role != models.RoleOffice {
		return nil, utils.AuthorizationError("only Office users can spend funds")
	}
	if input.OfficeId == 0 || input.Heading == "" || input.FiscalYear == "" || input.Description == "" {
		return nil, utils.ValidationError("all fields are required")
	}
	if !input.Amount.IsPositive() {
		return nil, utils.ValidationError("amount must be greater than zero")
	}

	var result *SpendResult
	db := config.GetDB()
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		balance, err := models.DebitOfficeFundIfSufficient(tx, input.OfficeId, input.Heading, input.FiscalYear, input.Amount)
		if err != nil {
			if !utils.IsBusinessError(err) {
				config.LogError(logger, "spendWorkflow.go", "ProcessSpend", "DebitOfficeFundIfSufficient", input, err)
			}
			return err
		}

		expenditure := models.Expenditure{
			OfficeId:    input.OfficeId,
			Heading:     input.Heading,
			FiscalYear:  input.FiscalYear,
			Amount:      input.Amount,
			Description: input.Description,
		}
		if err := tx.Create(&expenditure).Error; err != nil {
			config.LogError(logger, "spendWorkflow.go", "ProcessSpend", "CreateExpenditure", expenditure, err)
			return err
		}

		result = &SpendResult{
			ExpenditureId: expenditure.ID,
			Balance:       balance,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
