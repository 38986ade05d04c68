package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"bitbucket.org/mmdatafocus/budget_backend/config"
	"bitbucket.org/mmdatafocus/budget_backend/models"
	"bitbucket.org/mmdatafocus/budget_backend/workflow"
	"github.com/gin-gonic/gin"
)

func CreateFundRequestHandler(c *gin.Context) {
	role, err := roleFromRequest(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var input models.NewFundRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "all fields are required"})
		return
	}

	request, err := models.CreateFundRequest(c.Request.Context(), role, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "fund request submitted", "request_id": request.ID})
}

func listFundRequests(c *gin.Context, status models.FundRequestStatus) {
	role, err := roleFromRequest(c)
	if err != nil {
		respondError(c, err)
		return
	}

	requests, err := models.ListFundRequestsByStatus(c.Request.Context(), role, status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, requests)
}

func ListPendingRequestsHandler(c *gin.Context) {
	listFundRequests(c, models.FundRequestStatusPending)
}

func ListApprovedRequestsHandler(c *gin.Context) {
	listFundRequests(c, models.FundRequestStatusApproved)
}

func ListRejectedRequestsHandler(c *gin.Context) {
	listFundRequests(c, models.FundRequestStatusRejected)
}

func setFundRequestStatus(c *gin.Context, status models.FundRequestStatus) {
	role, err := roleFromRequest(c)
	if err != nil {
		respondError(c, err)
		return
	}

	requestId, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request id"})
		return
	}

	if err := models.SetFundRequestStatus(c.Request.Context(), role, requestId, status); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("fund request %s", status), "request_id": requestId})
}

func ApproveRequestHandler(c *gin.Context) {
	setFundRequestStatus(c, models.FundRequestStatusApproved)
}

func RejectRequestHandler(c *gin.Context) {
	setFundRequestStatus(c, models.FundRequestStatusRejected)
}

func BulkApproveHandler(c *gin.Context) {
	role, err := roleFromRequest(c)
	if err != nil {
		respondError(c, err)
		return
	}

	count, err := models.BulkApproveFundRequests(c.Request.Context(), role)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("%d pending request(s) approved", count), "count": count})
}

func TransferHandler(c *gin.Context) {
	role, err := roleFromRequest(c)
	if err != nil {
		respondError(c, err)
		return
	}

	requestId, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request id"})
		return
	}

	result, err := workflow.ProcessFundTransfer(c.Request.Context(), config.GetLogger(), role, requestId)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":        "fund transferred, budget deducted and office fund credited",
		"transfer_id":    result.TransferId,
		"budget_balance": result.BudgetBalance,
		"office_balance": result.OfficeBalance,
	})
}

func BudgetBalanceHandler(c *gin.Context) {
	role, err := roleFromRequest(c)
	if err != nil {
		respondError(c, err)
		return
	}

	ministryId, err := strconv.Atoi(c.Param("ministry_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid ministry id"})
		return
	}
	fiscalYear := c.Param("fiscal_year")

	balance, err := models.GetBudgetBalance(c.Request.Context(), role, ministryId, fiscalYear)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"ministry_id":      ministryId,
		"fiscal_year":      fiscalYear,
		"remaining_budget": balance,
	})
}

func OfficeFundsHandler(c *gin.Context) {
	role, err := roleFromRequest(c)
	if err != nil {
		respondError(c, err)
		return
	}

	officeId, err := strconv.Atoi(c.Param("office_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid office id"})
		return
	}
	fiscalYear := c.Param("fiscal_year")

	balances, err := models.ListOfficeFundsByYear(c.Request.Context(), role, officeId, fiscalYear)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, balances)
}

func ListTransfersHandler(c *gin.Context) {
	transfers, err := models.ListTransfers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, transfers)
}

func ListExpendituresHandler(c *gin.Context) {
	officeId, err := strconv.Atoi(c.Param("office_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid office id"})
		return
	}
	fiscalYear := c.Param("fiscal_year")

	expenditures, err := models.ListExpenditures(c.Request.Context(), officeId, fiscalYear)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, expenditures)
}

func SpendHandler(c *gin.Context) {
	role, err := roleFromRequest(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var input workflow.SpendInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "all fields are required"})
		return
	}

	result, err := workflow.ProcessSpend(c.Request.Context(), config.GetLogger(), role, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":        "expenditure recorded and fund updated",
		"expenditure_id": result.ExpenditureId,
		"balance":        result.Balance,
	})
}

func SalaryRequestHandler(c *gin.Context) {
	role, err := roleFromRequest(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var input workflow.SalaryRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "all fields are required"})
		return
	}

	request, err := workflow.ProcessMonthlySalaryRequest(c.Request.Context(), config.GetLogger(), role, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":    "salary fund request generated successfully",
		"request_id": request.ID,
		"amount":     request.Amount,
	})
}
