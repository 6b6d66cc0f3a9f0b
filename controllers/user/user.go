package userController

import (
	"otms/database"
	"otms/middleware"
	"otms/models"
	userValidator "otms/validators/user"

	"github.com/gofiber/fiber/v2"
)

func GetUsers(c *fiber.Ctx) error {
	reqData, _ := c.Locals("validatedUserList").(*userValidator.UserListQuery)

	page := 1
	limit := 10
	if reqData != nil && reqData.Page != nil && *reqData.Page > 0 {
		page = *reqData.Page
	}
	if reqData != nil && reqData.Limit != nil && *reqData.Limit > 0 {
		limit = *reqData.Limit
	}
	offset := (page - 1) * limit

	db := database.Database.Db.Model(&models.User{}).Where("is_deleted = ?", false)

	if reqData != nil {
		if reqData.Role != "" {
			db = db.Where("role = ?", reqData.Role)
		}
		if reqData.OrganizationID != nil {
			db = db.Where("organization_id = ?", *reqData.OrganizationID)
		}
		if reqData.Search != "" {
			like := "%" + reqData.Search + "%"
			db = db.Where("first_name LIKE ? OR last_name LIKE ? OR email LIKE ?", like, like, like)
		}
	}

	var total int64
	db.Count(&total)

	var users []models.User
	if err := db.Offset(offset).Limit(limit).Order("created_at desc").Find(&users).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch users!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Users fetched successfully!", fiber.Map{
		"users": users,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

func GetUser(c *fiber.Ctx) error {
	targetUserID := c.Locals("targetUserID").(int)

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", targetUserID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User fetched successfully!", user)
}

// UpdateUser is the admin mutation path: the only way a role or organization
// assignment can change
func UpdateUser(c *fiber.Ctx) error {
	targetUserID := c.Locals("targetUserID").(int)

	reqData, ok := c.Locals("validatedUserUpdate").(*userValidator.UpdateUserRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", targetUserID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	if reqData.FirstName != nil {
		user.FirstName = *reqData.FirstName
	}
	if reqData.LastName != nil {
		user.LastName = *reqData.LastName
	}
	if reqData.Role != nil {
		user.Role = *reqData.Role
	}
	if reqData.OrganizationID != nil {
		if err := db.Where("id = ? AND is_deleted = ?", *reqData.OrganizationID, false).First(&models.Organization{}).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Organization not found!", nil)
		}
		user.OrganizationID = reqData.OrganizationID
	}
	if reqData.HasDisability != nil {
		user.HasDisability = *reqData.HasDisability
	}
	if reqData.DisabilityType != nil {
		user.DisabilityType = *reqData.DisabilityType
	}
	if reqData.AccessibilityNeeds != nil {
		user.AccessibilityNeeds = *reqData.AccessibilityNeeds
	}

	if err := db.Save(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update user!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User updated successfully!", user)
}

func DeleteUser(c *fiber.Ctx) error {
	targetUserID := c.Locals("targetUserID").(int)

	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", targetUserID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	user.IsDeleted = true
	if err := db.Save(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete user!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User deleted successfully!", nil)
}
