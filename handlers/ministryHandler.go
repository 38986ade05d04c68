package handlers

import (
	"net/http"
	"strconv"

	"bitbucket.org/mmdatafocus/budget_backend/models"
	"github.com/gin-gonic/gin"
)

func ListMinistriesHandler(c *gin.Context) {
	ministries, err := models.ListMinistries(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ministries)
}

func AddMinistryHandler(c *gin.Context) {
	role, err := roleFromRequest(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var input models.NewMinistry
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "name and description are required"})
		return
	}

	ministry, err := models.CreateMinistry(c.Request.Context(), role, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "ministry added successfully", "id": ministry.ID})
}

func ListOfficesHandler(c *gin.Context) {
	offices, err := models.ListOffices(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, offices)
}

func ListOfficesByMinistryHandler(c *gin.Context) {
	ministryId, err := strconv.Atoi(c.Param("ministry_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid ministry id"})
		return
	}

	offices, err := models.ListOfficesByMinistry(c.Request.Context(), ministryId)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, offices)
}

func AddOfficeHandler(c *gin.Context) {
	role, err := roleFromRequest(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var input models.NewOffice
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "all fields are required"})
		return
	}

	office, err := models.CreateOffice(c.Request.Context(), role, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "office added successfully", "id": office.ID})
}
