package middleware

import (
	"otms/models"

	"github.com/gofiber/fiber/v2"
)

// Actions understood by the policy table
const (
	ActionCreate  = "create"
	ActionRead    = "read"
	ActionUpdate  = "update"
	ActionDelete  = "delete"
	ActionApprove = "approve"
)

// policy maps resource -> action -> roles allowed to perform it. Ownership
// rules (a trainee reading their own enrollment) are handled in the
// controllers; this table covers the role dimension only.
var policy = map[string]map[string][]string{
	"organizations": {
		ActionCreate: {models.RoleAdmin},
		ActionRead:   {models.RoleTrainee, models.RoleTrainer, models.RoleManager, models.RoleAdmin},
		ActionUpdate: {models.RoleAdmin},
		ActionDelete: {models.RoleAdmin},
	},
	"users": {
		ActionRead:   {models.RoleManager, models.RoleAdmin},
		ActionUpdate: {models.RoleAdmin},
		ActionDelete: {models.RoleAdmin},
	},
	"courses": {
		ActionCreate: {models.RoleTrainer, models.RoleAdmin},
		ActionRead:   {models.RoleTrainee, models.RoleTrainer, models.RoleManager, models.RoleAdmin},
		ActionUpdate: {models.RoleTrainer, models.RoleAdmin},
		ActionDelete: {models.RoleAdmin},
	},
	"enrollments": {
		ActionCreate: {models.RoleTrainee, models.RoleTrainer, models.RoleManager, models.RoleAdmin},
		ActionRead:   {models.RoleTrainee, models.RoleTrainer, models.RoleManager, models.RoleAdmin},
		ActionUpdate: {models.RoleTrainer, models.RoleAdmin},
		ActionDelete: {models.RoleAdmin},
	},
	"schedules": {
		ActionCreate: {models.RoleTrainer, models.RoleAdmin},
		ActionRead:   {models.RoleTrainee, models.RoleTrainer, models.RoleManager, models.RoleAdmin},
		ActionUpdate: {models.RoleTrainer, models.RoleAdmin},
		ActionDelete: {models.RoleTrainer, models.RoleAdmin},
	},
	"resources": {
		ActionCreate: {models.RoleManager, models.RoleAdmin},
		ActionRead:   {models.RoleTrainee, models.RoleTrainer, models.RoleManager, models.RoleAdmin},
		ActionUpdate: {models.RoleManager, models.RoleAdmin},
		ActionDelete: {models.RoleManager, models.RoleAdmin},
	},
	"attendance": {
		ActionCreate: {models.RoleTrainer, models.RoleAdmin},
		ActionRead:   {models.RoleTrainee, models.RoleTrainer, models.RoleManager, models.RoleAdmin},
		ActionUpdate: {models.RoleTrainer, models.RoleAdmin},
		ActionDelete: {models.RoleAdmin},
	},
	"feedback": {
		ActionCreate: {models.RoleTrainee, models.RoleTrainer, models.RoleManager, models.RoleAdmin},
		ActionRead:   {models.RoleTrainee, models.RoleTrainer, models.RoleManager, models.RoleAdmin},
		ActionDelete: {models.RoleAdmin},
	},
	"certificates": {
		ActionRead:   {models.RoleTrainee, models.RoleTrainer, models.RoleManager, models.RoleAdmin},
		ActionUpdate: {models.RoleAdmin}, // revoke
	},
	"requests": {
		ActionCreate:  {models.RoleTrainee, models.RoleTrainer, models.RoleManager, models.RoleAdmin},
		ActionRead:    {models.RoleTrainee, models.RoleTrainer, models.RoleManager, models.RoleAdmin},
		ActionUpdate:  {models.RoleTrainee, models.RoleTrainer, models.RoleManager, models.RoleAdmin},
		ActionDelete:  {models.RoleTrainee, models.RoleManager, models.RoleAdmin},
		ActionApprove: {models.RoleManager, models.RoleAdmin},
	},
	"analytics": {
		ActionRead:   {models.RoleManager, models.RoleAdmin},
		ActionCreate: {models.RoleManager, models.RoleAdmin}, // report generation / export
	},
}

// Can reports whether the role may perform action on resource
func Can(role, resource, action string) bool {
	actions, ok := policy[resource]
	if !ok {
		return false
	}
	roles, ok := actions[action]
	if !ok {
		return false
	}
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

// RequirePermission returns a middleware that checks the policy table for the
// role stored by JWTMiddleware
func RequirePermission(resource, action string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("role").(string)
		if !ok || role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"status":  false,
				"message": "Unauthorized: role not found",
				"data":    nil,
			})
		}

		if !Can(role, resource, action) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"status":  false,
				"message": "You do not have permission to access this resource!",
				"data":    nil,
			})
		}

		return c.Next()
	}
}
