package authController

import (
	"log"
	"otms/config"
	"otms/database"
	"otms/middleware"
	"otms/models"
	"otms/utils"
	authValidator "otms/validators/auth"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

// Register creates a trainee account. The role is always server-assigned:
// self-registration can never produce anything but a trainee.
func Register(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedRegister").(*authValidator.RegisterRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	db := database.Database.Db

	// Check if email already exists
	if err := db.Where("email = ?", reqData.Email).First(&models.User{}).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Email is already registered!", nil)
	}

	// Hash password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.Password), config.AppConfig.SaltRound)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	disabilityType := reqData.DisabilityType
	if disabilityType == "" {
		disabilityType = models.DisabilityNone
	}

	token := utils.GenerateToken()
	expiry := time.Now().Add(24 * time.Hour)

	newUser := models.User{
		FirstName:          reqData.FirstName,
		LastName:           reqData.LastName,
		Email:              reqData.Email,
		Password:           string(hashedPassword),
		Role:               models.RoleTrainee,
		OrganizationID:     reqData.OrganizationID,
		HasDisability:      reqData.HasDisability,
		DisabilityType:     disabilityType,
		AccessibilityNeeds: reqData.AccessibilityNeeds,
		VerificationToken:  token,
		VerificationExpiry: &expiry,
	}

	if err := db.Create(&newUser).Error; err != nil {
		log.Printf("Error saving user to database: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to register user!", nil)
	}

	utils.SendVerificationEmail(newUser.Email, newUser.FullName(), token)

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "User registered successfully. Please verify your email.", newUser)
}

// Login checks credentials and either returns a JWT or, when 2FA is enabled,
// emails a one-time code and waits for verify2fa
func Login(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedLogin").(*authValidator.LoginRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("email = ? AND is_deleted = ?", reqData.Email, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid credentials!", nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(reqData.Password)); err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid credentials!", nil)
	}

	if user.TwoFAStatus {
		code := utils.GenerateOTP()
		expiry := time.Now().Add(10 * time.Minute)
		user.TwoFACode = code
		user.TwoFAExpiry = &expiry
		if err := db.Save(&user).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to start 2FA!", nil)
		}
		utils.Send2FACodeEmail(user.Email, user.FullName(), code)
		return middleware.JsonResponse(c, fiber.StatusOK, true, "2FA code sent to your email.", fiber.Map{
			"two_fa_required": true,
		})
	}

	token, err := middleware.GenerateJWT(user.ID, user.FullName(), user.Role, user.Email)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate token!", nil)
	}

	now := time.Now()
	user.LastLogin = &now
	db.Save(&user)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Logged in successfully!", fiber.Map{
		"token": token,
		"user":  user,
	})
}

// Verify2FA exchanges a valid one-time code for a JWT
func Verify2FA(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validated2FA").(*authValidator.TwoFARequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("email = ? AND is_deleted = ?", reqData.Email, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid credentials!", nil)
	}

	if user.TwoFACode == "" || user.TwoFACode != reqData.Code {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid verification code!", nil)
	}
	if user.TwoFAExpiry == nil || time.Now().After(*user.TwoFAExpiry) {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Verification code expired!", nil)
	}

	user.TwoFACode = ""
	user.TwoFAExpiry = nil
	now := time.Now()
	user.LastLogin = &now
	db.Save(&user)

	token, err := middleware.GenerateJWT(user.ID, user.FullName(), user.Role, user.Email)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate token!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Logged in successfully!", fiber.Map{
		"token": token,
		"user":  user,
	})
}

// VerifyEmail activates an account from the emailed token
func VerifyEmail(c *fiber.Ctx) error {
	token := c.Params("token")
	if token == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Verification token is required!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("verification_token = ? AND is_deleted = ?", token, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Invalid verification token!", nil)
	}

	if user.VerificationExpiry == nil || time.Now().After(*user.VerificationExpiry) {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Verification token expired!", nil)
	}

	user.IsVerified = true
	user.VerificationToken = ""
	user.VerificationExpiry = nil
	if err := db.Save(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to verify email!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Email verified successfully!", nil)
}

// ForgotPassword emails a reset token. Responds identically whether or not
// the address exists.
func ForgotPassword(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedForgotPassword").(*authValidator.ForgotPasswordRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("email = ? AND is_deleted = ?", reqData.Email, false).First(&user).Error; err == nil {
		token := utils.GenerateToken()
		expiry := time.Now().Add(1 * time.Hour)
		user.ResetToken = token
		user.ResetExpiry = &expiry
		if err := db.Save(&user).Error; err == nil {
			utils.SendPasswordResetEmail(user.Email, user.FullName(), token)
		} else {
			log.Printf("Error saving reset token: %v", err)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "If the email exists, a reset link has been sent.", nil)
}

// ResetPassword sets a new password from a valid reset token
func ResetPassword(c *fiber.Ctx) error {
	token := c.Params("token")
	if token == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Reset token is required!", nil)
	}

	reqData, ok := c.Locals("validatedResetPassword").(*authValidator.ResetPasswordRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("reset_token = ? AND is_deleted = ?", token, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Invalid reset token!", nil)
	}

	if user.ResetExpiry == nil || time.Now().After(*user.ResetExpiry) {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Reset token expired!", nil)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.Password), config.AppConfig.SaltRound)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	user.Password = string(hashedPassword)
	user.ResetToken = ""
	user.ResetExpiry = nil
	if err := db.Save(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to reset password!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Password reset successfully!", nil)
}

// Me returns the authenticated user's profile
func Me(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile fetched successfully!", user)
}

// UpdateProfile lets users edit their own name and disability fields. Role
// and organization changes go through the admin user endpoints.
func UpdateProfile(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedUpdateProfile").(*authValidator.UpdateProfileRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	if reqData.FirstName != nil {
		user.FirstName = *reqData.FirstName
	}
	if reqData.LastName != nil {
		user.LastName = *reqData.LastName
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
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update profile!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile updated successfully!", user)
}

// Toggle2FA enables or disables email two-factor authentication
func Toggle2FA(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedToggle2FA").(*authValidator.Toggle2FARequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	user.TwoFAStatus = reqData.Enabled
	if !reqData.Enabled {
		user.TwoFACode = ""
		user.TwoFAExpiry = nil
	}
	if err := db.Save(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update 2FA settings!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "2FA settings updated!", fiber.Map{
		"two_fa_status": user.TwoFAStatus,
	})
}
