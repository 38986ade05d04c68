package workflow

import (
	"context"
	"fmt"

	"bitbucket.org/mmdatafocus/budget_backend/config"
	"bitbucket.org/mmdatafocus/budget_backend/models"
	"bitbucket.org/mmdatafocus/budget_backend/utils"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type TransferResult struct {
	TransferId    int             `json:"transfer_id"`
	FundRequestId int             `json:"fund_request_id"`
	MinistryId    int             `json:"ministry_id"`
	OfficeId      int             `json:"office_id"`
	Amount        decimal.Decimal `json:"amount"`
	BudgetBalance decimal.Decimal `json:"budget_balance"`
	OfficeBalance decimal.Decimal `json:"office_balance"`
}

// ProcessFundTransfer executes the approved-request -> funded-office posting
// as one transaction:
//  1. load the request FOR UPDATE, require status approved
//  2. resolve the owning ministry from the office
//  3. debit the ministry budget (insufficient budget aborts, no mutation)
//  4. append the transfer record
//  5. credit the office fund
//  6. consume the request (approved -> transferred)
// A failure at any step rolls back every step; no observer sees a debited
// budget without its transfer record and office credit.
func ProcessFundTransfer(ctx context.Context, logger *logrus.Logger, role models.Role, requestId int) (*TransferResult, error) {
	if role != models.RoleAdmin {
		return nil, utils.AuthorizationError("only Admins can perform fund transfers")
	}

	var result *TransferResult
	db := config.GetDB()
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		request, err := models.GetFundRequestForTransfer(tx, requestId)
		if err != nil {
			config.LogError(logger, "transferWorkflow.go", "ProcessFundTransfer", "GetFundRequestForTransfer", requestId, err)
			return err
		}
		if request.Status != models.FundRequestStatusApproved {
			return utils.ConflictError("fund request %d is %s, not approved", requestId, request.Status)
		}

		ministryId, err := models.GetOfficeMinistryId(ctx, tx, request.OfficeId)
		if err != nil {
			config.LogError(logger, "transferWorkflow.go", "ProcessFundTransfer", "GetOfficeMinistryId", request.OfficeId, err)
			return err
		}

		// Belt and braces on top of the row lock: serialize postings per
		// budget key even against readers that skip row locks.
		budgetKey := fmt.Sprintf("budget:%d:%s", ministryId, request.FiscalYear)
		if err := AcquireLedgerPostingLock(tx, budgetKey); err != nil {
			config.LogError(logger, "transferWorkflow.go", "ProcessFundTransfer", "AcquireLedgerPostingLock", budgetKey, err)
			return err
		}
		defer ReleaseLedgerPostingLock(tx, budgetKey)

		budgetBalance, err := models.DebitBudgetIfSufficient(tx, ministryId, request.FiscalYear, request.Amount)
		if err != nil {
			if !utils.IsBusinessError(err) {
				config.LogError(logger, "transferWorkflow.go", "ProcessFundTransfer", "DebitBudgetIfSufficient", request, err)
			}
			return err
		}

		transfer := models.Transfer{
			FundRequestId: request.ID,
			OfficeId:      request.OfficeId,
			MinistryId:    ministryId,
			Amount:        request.Amount,
		}
		if err := tx.Create(&transfer).Error; err != nil {
			config.LogError(logger, "transferWorkflow.go", "ProcessFundTransfer", "CreateTransfer", transfer, err)
			return fmt.Errorf("transfer log failed: %w", err)
		}

		officeBalance, err := models.CreditOfficeFund(tx, request.OfficeId, request.Heading, request.FiscalYear, request.Amount)
		if err != nil {
			config.LogError(logger, "transferWorkflow.go", "ProcessFundTransfer", "CreditOfficeFund", request, err)
			return fmt.Errorf("office fund credit failed: %w", err)
		}

		if err := models.ConsumeApprovedFundRequest(tx, request.ID); err != nil {
			config.LogError(logger, "transferWorkflow.go", "ProcessFundTransfer", "ConsumeApprovedFundRequest", request.ID, err)
			return err
		}

		result = &TransferResult{
			TransferId:    transfer.ID,
			FundRequestId: request.ID,
			MinistryId:    ministryId,
			OfficeId:      request.OfficeId,
			Amount:        request.Amount,
			BudgetBalance: budgetBalance,
			OfficeBalance: officeBalance,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
