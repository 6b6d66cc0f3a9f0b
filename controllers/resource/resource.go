package resourceController

import (
	"otms/database"
	"otms/middleware"
	"otms/models"
	resourceValidator "otms/validators/resource"

	"github.com/gofiber/fiber/v2"
)

func CreateResource(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedResource").(*resourceValidator.ResourceRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	availability := true
	if reqData.Availability != nil {
		availability = *reqData.Availability
	}

	resource := models.Resource{
		Name:                  reqData.Name,
		Type:                  reqData.Type,
		Capacity:              reqData.Capacity,
		Location:              reqData.Location,
		Availability:          availability,
		OrganizationID:        reqData.OrganizationID,
		AccessibilityFeatures: reqData.AccessibilityFeatures,
	}

	if err := database.Database.Db.Create(&resource).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create resource!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Resource created successfully!", resource)
}

func GetResources(c *fiber.Ctx) error {
	db := database.Database.Db.Model(&models.Resource{}).Where("is_deleted = ?", false)

	if t := c.Query("type"); t != "" {
		db = db.Where("type = ?", t)
	}
	if orgID := c.QueryInt("organization_id"); orgID > 0 {
		db = db.Where("organization_id = ?", orgID)
	}
	if c.Query("available") == "true" {
		db = db.Where("availability = ?", true)
	}

	var resources []models.Resource
	if err := db.Order("name asc").Find(&resources).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch resources!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Resources fetched successfully!", fiber.Map{
		"resources": resources,
		"count":     len(resources),
	})
}

func GetResource(c *fiber.Ctx) error {
	resourceID := c.Locals("resourceID").(int)

	var resource models.Resource
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", resourceID, false).First(&resource).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Resource not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Resource fetched successfully!", resource)
}

func UpdateResource(c *fiber.Ctx) error {
	resourceID := c.Locals("resourceID").(int)

	reqData, ok := c.Locals("validatedResourceUpdate").(*resourceValidator.UpdateResourceRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	db := database.Database.Db

	var resource models.Resource
	if err := db.Where("id = ? AND is_deleted = ?", resourceID, false).First(&resource).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Resource not found!", nil)
	}

	if reqData.Name != nil {
		resource.Name = *reqData.Name
	}
	if reqData.Type != nil {
		resource.Type = *reqData.Type
	}
	if reqData.Capacity != nil {
		resource.Capacity = *reqData.Capacity
	}
	if reqData.Location != nil {
		resource.Location = *reqData.Location
	}
	if reqData.Availability != nil {
		resource.Availability = *reqData.Availability
	}
	if reqData.OrganizationID != nil {
		resource.OrganizationID = reqData.OrganizationID
	}
	if reqData.AccessibilityFeatures != nil {
		resource.AccessibilityFeatures = *reqData.AccessibilityFeatures
	}

	if err := db.Save(&resource).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update resource!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Resource updated successfully!", resource)
}

func DeleteResource(c *fiber.Ctx) error {
	resourceID := c.Locals("resourceID").(int)

	db := database.Database.Db

	var resource models.Resource
	if err := db.Where("id = ? AND is_deleted = ?", resourceID, false).First(&resource).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Resource not found!", nil)
	}

	resource.IsDeleted = true
	if err := db.Save(&resource).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete resource!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Resource deleted successfully!", nil)
}
