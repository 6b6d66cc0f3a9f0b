package organizationController

import (
	"otms/database"
	"otms/middleware"
	"otms/models"
	organizationValidator "otms/validators/organization"

	"github.com/gofiber/fiber/v2"
)

func CreateOrganization(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedOrganization").(*organizationValidator.OrganizationRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	db := database.Database.Db

	// Organization names are unique
	if err := db.Where("name = ? AND is_deleted = ?", reqData.Name, false).First(&models.Organization{}).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Organization name already exists!", nil)
	}

	org := models.Organization{
		Name:         reqData.Name,
		Description:  reqData.Description,
		Address:      reqData.Address,
		ContactEmail: reqData.ContactEmail,
		ContactPhone: reqData.ContactPhone,
	}

	if err := db.Create(&org).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create organization!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Organization created successfully!", org)
}

func GetOrganizations(c *fiber.Ctx) error {
	var orgs []models.Organization
	if err := database.Database.Db.Where("is_deleted = ?", false).Order("name asc").Find(&orgs).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch organizations!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Organizations fetched successfully!", fiber.Map{
		"organizations": orgs,
		"count":         len(orgs),
	})
}

func GetOrganization(c *fiber.Ctx) error {
	orgID := c.Locals("orgID").(int)

	var org models.Organization
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", orgID, false).First(&org).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Organization not found!", nil)
	}

	// Member and course counts are computed, not stored
	var userCount, courseCount int64
	database.Database.Db.Model(&models.User{}).Where("organization_id = ? AND is_deleted = ?", orgID, false).Count(&userCount)
	database.Database.Db.Model(&models.Course{}).Where("organization_id = ? AND is_deleted = ?", orgID, false).Count(&courseCount)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Organization fetched successfully!", fiber.Map{
		"organization": org,
		"user_count":   userCount,
		"course_count": courseCount,
	})
}

func UpdateOrganization(c *fiber.Ctx) error {
	orgID := c.Locals("orgID").(int)

	reqData, ok := c.Locals("validatedOrganizationUpdate").(*organizationValidator.UpdateOrganizationRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	db := database.Database.Db

	var org models.Organization
	if err := db.Where("id = ? AND is_deleted = ?", orgID, false).First(&org).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Organization not found!", nil)
	}

	if reqData.Name != nil && *reqData.Name != org.Name {
		if err := db.Where("name = ? AND is_deleted = ?", *reqData.Name, false).First(&models.Organization{}).Error; err == nil {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Organization name already exists!", nil)
		}
		org.Name = *reqData.Name
	}
	if reqData.Description != nil {
		org.Description = *reqData.Description
	}
	if reqData.Address != nil {
		org.Address = *reqData.Address
	}
	if reqData.ContactEmail != nil {
		org.ContactEmail = *reqData.ContactEmail
	}
	if reqData.ContactPhone != nil {
		org.ContactPhone = *reqData.ContactPhone
	}

	if err := db.Save(&org).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update organization!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Organization updated successfully!", org)
}

func DeleteOrganization(c *fiber.Ctx) error {
	orgID := c.Locals("orgID").(int)

	db := database.Database.Db

	var org models.Organization
	if err := db.Where("id = ? AND is_deleted = ?", orgID, false).First(&org).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Organization not found!", nil)
	}

	org.IsDeleted = true
	if err := db.Save(&org).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete organization!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Organization deleted successfully!", nil)
}
