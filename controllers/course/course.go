package courseController

import (
	"otms/config"
	"otms/database"
	"otms/middleware"
	"otms/models"
	"otms/utils"
	courseValidator "otms/validators/course"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

func CreateCourse(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedCourse").(*courseValidator.CourseRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	db := database.Database.Db

	// Instructor must be a trainer or admin
	var instructor models.User
	if err := db.Where("id = ? AND is_deleted = ?", reqData.InstructorID, false).First(&instructor).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Instructor not found!", nil)
	}
	if instructor.Role != models.RoleTrainer && instructor.Role != models.RoleAdmin {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Instructor must be a trainer!", nil)
	}

	course := models.Course{
		Title:                 reqData.Title,
		Description:           reqData.Description,
		Thumbnail:             reqData.Thumbnail,
		Duration:              reqData.Duration,
		Capacity:              reqData.Capacity,
		StartDate:             reqData.StartDate,
		EndDate:               reqData.EndDate,
		Location:              reqData.Location,
		IsVirtual:             reqData.IsVirtual,
		MeetingLink:           reqData.MeetingLink,
		InstructorID:          reqData.InstructorID,
		OrganizationID:        reqData.OrganizationID,
		Prerequisites:         reqData.Prerequisites,
		Status:                models.CourseScheduled,
		AccessibilityFeatures: reqData.AccessibilityFeatures,
		Tags:                  reqData.Tags,
	}

	if err := db.Create(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully!", course)
}

func GetCourses(c *fiber.Ctx) error {
	reqData, _ := c.Locals("validatedCourseList").(*courseValidator.CourseListQuery)

	page := 1
	limit := 10
	if reqData != nil && reqData.Page != nil && *reqData.Page > 0 {
		page = *reqData.Page
	}
	if reqData != nil && reqData.Limit != nil && *reqData.Limit > 0 {
		limit = *reqData.Limit
	}
	offset := (page - 1) * limit

	db := database.Database.Db.Model(&models.Course{}).Where("is_deleted = ?", false)

	if reqData != nil {
		if reqData.Status != "" {
			db = db.Where("status = ?", reqData.Status)
		}
		if reqData.OrganizationID != nil {
			db = db.Where("organization_id = ?", *reqData.OrganizationID)
		}
		if reqData.Search != "" {
			like := "%" + reqData.Search + "%"
			db = db.Where("title LIKE ? OR description LIKE ? OR tags LIKE ?", like, like, like)
		}
	}

	var total int64
	db.Count(&total)

	var courses []models.Course
	if err := db.Offset(offset).Limit(limit).Order("start_date desc").Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", fiber.Map{
		"courses": courses,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

func GetCourse(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	db := database.Database.Db

	var course models.Course
	if err := db.Preload("Materials", "is_deleted = ?", false).
		Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	// Enrollment count is a computed relation, never persisted on the course
	var enrolledCount int64
	db.Model(&models.Enrollment{}).
		Where("course_id = ? AND status IN ? AND is_deleted = ?", courseID,
			[]string{models.EnrollmentEnrolled, models.EnrollmentCompleted}, false).
		Count(&enrolledCount)

	var instructor models.User
	db.Select("id, first_name, last_name, email").Where("id = ?", course.InstructorID).First(&instructor)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course fetched successfully!", fiber.Map{
		"course":          course,
		"enrolled_count":  enrolledCount,
		"available_seats": course.Capacity - int(enrolledCount),
		"instructor": fiber.Map{
			"id":    instructor.ID,
			"name":  instructor.FullName(),
			"email": instructor.Email,
		},
	})
}

func UpdateCourse(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	reqData, ok := c.Locals("validatedCourseUpdate").(*courseValidator.UpdateCourseRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	db := database.Database.Db

	var course models.Course
	if err := db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	if reqData.Title != nil {
		course.Title = *reqData.Title
	}
	if reqData.Description != nil {
		course.Description = *reqData.Description
	}
	if reqData.Thumbnail != nil {
		course.Thumbnail = *reqData.Thumbnail
	}
	if reqData.Duration != nil {
		course.Duration = *reqData.Duration
	}
	if reqData.Capacity != nil && *reqData.Capacity > 0 {
		course.Capacity = *reqData.Capacity
	}
	if reqData.StartDate != nil {
		course.StartDate = *reqData.StartDate
	}
	if reqData.EndDate != nil {
		course.EndDate = *reqData.EndDate
	}
	if !course.EndDate.After(course.StartDate) {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "End date must be after start date!", nil)
	}
	if reqData.Location != nil {
		course.Location = *reqData.Location
	}
	if reqData.IsVirtual != nil {
		course.IsVirtual = *reqData.IsVirtual
	}
	if reqData.MeetingLink != nil {
		course.MeetingLink = *reqData.MeetingLink
	}
	if reqData.InstructorID != nil {
		course.InstructorID = *reqData.InstructorID
	}
	if reqData.OrganizationID != nil {
		course.OrganizationID = reqData.OrganizationID
	}
	if reqData.Prerequisites != nil {
		course.Prerequisites = *reqData.Prerequisites
	}
	if reqData.Status != nil {
		course.Status = *reqData.Status
	}
	if reqData.AccessibilityFeatures != nil {
		course.AccessibilityFeatures = *reqData.AccessibilityFeatures
	}
	if reqData.Tags != nil {
		course.Tags = *reqData.Tags
	}

	if err := db.Save(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course updated successfully!", course)
}

func DeleteCourse(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	db := database.Database.Db

	var course models.Course
	if err := db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	course.IsDeleted = true
	if err := db.Save(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course deleted successfully!", nil)
}

// AddMaterial attaches a document reference to a course
func AddMaterial(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	reqData, ok := c.Locals("validatedMaterial").(*courseValidator.MaterialRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	db := database.Database.Db

	var course models.Course
	if err := db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	material := models.CourseMaterial{
		CourseID:   course.ID,
		Title:      reqData.Title,
		FileURL:    reqData.FileURL,
		FileType:   reqData.FileType,
		UploadDate: time.Now(),
	}

	if err := db.Create(&material).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to add material!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Material added successfully!", material)
}

// UploadMaterial stores an uploaded document on local disk and attaches
// it to the course. The saved file is served from the static uploads tree.
func UploadMaterial(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	db := database.Database.Db

	var course models.Course
	if err := db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	file, err := c.FormFile("file")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Material file is required!", nil)
	}

	title := strings.TrimSpace(c.FormValue("title"))
	if title == "" {
		title = file.Filename
	}

	path, err := utils.SaveUploadedFile(file, filepath.Join(config.AppConfig.UploadDir, "materials"))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to store material file!", nil)
	}

	material := models.CourseMaterial{
		CourseID:   course.ID,
		Title:      title,
		FileURL:    utils.GetFileURL(path),
		FileType:   strings.TrimPrefix(filepath.Ext(file.Filename), "."),
		UploadDate: time.Now(),
	}

	if err := db.Create(&material).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to add material!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Material uploaded successfully!", material)
}
