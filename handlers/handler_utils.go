package handlers

import (
	"errors"
	"net/http"

	"bitbucket.org/mmdatafocus/budget_backend/config"
	"bitbucket.org/mmdatafocus/budget_backend/middlewares"
	"bitbucket.org/mmdatafocus/budget_backend/models"
	"bitbucket.org/mmdatafocus/budget_backend/utils"
	"github.com/gin-gonic/gin"
)

// roleFromRequest maps the authenticated claim onto the Role enum. Missing
// token or unknown role id both fail authorization.
func roleFromRequest(c *gin.Context) (models.Role, error) {
	claim := middlewares.CtxValue(c.Request.Context())
	if claim == nil {
		return "", utils.AuthorizationError("authentication required")
	}
	role, err := models.RoleFromId(claim.RoleId)
	if err != nil {
		return "", utils.AuthorizationError("unknown role")
	}
	return role, nil
}

// respondError maps error kinds onto HTTP statuses. System errors are logged
// and surfaced as a generic failure.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, utils.ErrorValidation):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	case errors.Is(err, utils.ErrorAuthorization):
		c.JSON(http.StatusForbidden, gin.H{"message": err.Error()})
	case errors.Is(err, utils.ErrorRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
	case errors.Is(err, utils.ErrorConflict):
		c.JSON(http.StatusConflict, gin.H{"message": err.Error()})
	case errors.Is(err, utils.ErrorInsufficientFunds):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	default:
		config.LogError(config.GetLogger(), "handler_utils.go", "respondError", c.FullPath(), nil, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
	}
}
