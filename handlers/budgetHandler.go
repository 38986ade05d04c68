package handlers

import (
	"net/http"

	"bitbucket.org/mmdatafocus/budget_backend/models"
	"github.com/gin-gonic/gin"
)

func ListBudgetsHandler(c *gin.Context) {
	budgets, err := models.ListBudgets(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, budgets)
}

func AddBudgetHandler(c *gin.Context) {
	role, err := roleFromRequest(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var input models.NewBudget
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "all fields are required"})
		return
	}

	budget, err := models.AddBudget(c.Request.Context(), role, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "budget added successfully", "id": budget.ID, "amount": budget.Amount})
}
