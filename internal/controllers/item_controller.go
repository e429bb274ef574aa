package controllers

import (
	"math"
	"net/http"

	"github.com/gin-gonic/gin"

	"eld_logbook/internal/config"
	"eld_logbook/internal/models"
)

type itemInput struct {
	Name        string   `json:"name" binding:"required,max=255"`
	Description string   `json:"description" binding:"required"`
	Price       *float64 `json:"price" binding:"required,gte=0"`
}

type itemPatchInput struct {
	Name        *string  `json:"name" binding:"omitnil,min=1,max=255"`
	Description *string  `json:"description" binding:"omitnil,min=1"`
	Price       *float64 `json:"price" binding:"omitnil,gte=0"`
}

// roundCents matches the numeric(10,2) column.
func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

func ListItems(c *gin.Context) {
	items := make([]models.Item, 0)
	if err := config.DB.Order("created_at desc").Order("id desc").Find(&items).Error; err != nil {
		respondInternal(c, err, "ListItems: query failed")
		return
	}
	c.JSON(http.StatusOK, items)
}

func CreateItem(c *gin.Context) {
	var input itemInput
	if !bindJSON(c, &input) {
		return
	}

	item := models.Item{
		Name:        input.Name,
		Description: input.Description,
		Price:       roundCents(*input.Price),
	}
	if err := config.DB.Create(&item).Error; err != nil {
		respondInternal(c, err, "CreateItem: insert failed")
		return
	}
	c.JSON(http.StatusCreated, item)
}

func GetItem(c *gin.Context) {
	item, ok := loadItem(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, item)
}

func UpdateItem(c *gin.Context) {
	item, ok := loadItem(c)
	if !ok {
		return
	}
	var input itemInput
	if !bindJSON(c, &input) {
		return
	}

	item.Name = input.Name
	item.Description = input.Description
	item.Price = roundCents(*input.Price)
	saveItem(c, &item)
}

func PatchItem(c *gin.Context) {
	item, ok := loadItem(c)
	if !ok {
		return
	}
	var input itemPatchInput
	if !bindJSON(c, &input) {
		return
	}

	if input.Name != nil {
		item.Name = *input.Name
	}
	if input.Description != nil {
		item.Description = *input.Description
	}
	if input.Price != nil {
		item.Price = roundCents(*input.Price)
	}
	saveItem(c, &item)
}

func DeleteItem(c *gin.Context) {
	item, ok := loadItem(c)
	if !ok {
		return
	}
	if err := config.DB.Delete(&models.Item{}, item.ID).Error; err != nil {
		respondInternal(c, err, "DeleteItem: delete failed")
		return
	}
	c.Status(http.StatusNoContent)
}

func loadItem(c *gin.Context) (models.Item, bool) {
	var item models.Item
	id, ok := parseID(c, "id", "Item")
	if !ok {
		return item, false
	}
	if err := config.DB.First(&item, id).Error; err != nil {
		respondLookup(c, err, "Item")
		return item, false
	}
	return item, true
}

func saveItem(c *gin.Context, item *models.Item) {
	if err := config.DB.Save(item).Error; err != nil {
		respondInternal(c, err, "saveItem: update failed")
		return
	}
	c.JSON(http.StatusOK, item)
}
