package analyticsController

import (
	"fmt"
	"otms/models"
	"otms/utils"
	analyticsValidator "otms/validators/analytics"
	"sort"
	"time"

	"gorm.io/gorm"
)

const monthKeyFormat = "2006-01"

// window resolves the reporting range: explicit bounds win, otherwise a
// trailing window of the given number of months ending now
func window(f *analyticsValidator.Filter, months int) (time.Time, time.Time) {
	end := time.Now()
	if f != nil && f.EndDate != nil {
		end = f.EndDate.AddDate(0, 0, 1) // inclusive end day
	}
	start := end.AddDate(0, -months, 0)
	if f != nil && f.StartDate != nil {
		start = *f.StartDate
	}
	return start, end
}

func periodOf(f *analyticsValidator.Filter) string {
	if f == nil {
		return ""
	}
	return f.Period
}

// bucketKey derives the series bucket for a timestamp: ISO week, calendar
// month or year depending on the requested period
func bucketKey(t time.Time, period string) string {
	switch period {
	case analyticsValidator.PeriodWeek:
		year, week := t.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	case analyticsValidator.PeriodYear:
		return t.Format("2006")
	default:
		return t.Format(monthKeyFormat)
	}
}

// bucketKeys lists every bucket between start and end so a series carries
// zero buckets instead of skipping them
func bucketKeys(start, end time.Time, period string) []string {
	keys := []string{}
	last := ""
	for cursor := start; cursor.Before(end); cursor = cursor.AddDate(0, 0, 1) {
		if key := bucketKey(cursor, period); key != last {
			keys = append(keys, key)
			last = key
		}
	}
	if len(keys) == 0 {
		keys = append(keys, bucketKey(start, period))
	}
	return keys
}

// orgUserIDs resolves an organization filter to its member user IDs
func orgUserIDs(db *gorm.DB, orgID uint) ([]uint, error) {
	var ids []uint
	err := db.Model(&models.User{}).
		Where("organization_id = ? AND is_deleted = ?", orgID, false).
		Pluck("id", &ids).Error
	return ids, err
}

func scopedEnrollments(db *gorm.DB, f *analyticsValidator.Filter) (*gorm.DB, error) {
	query := db.Model(&models.Enrollment{}).Where("is_deleted = ?", false)
	if f == nil {
		return query, nil
	}
	if f.CourseID != nil {
		query = query.Where("course_id = ?", *f.CourseID)
	}
	if f.OrganizationID != nil {
		ids, err := orgUserIDs(db, *f.OrganizationID)
		if err != nil {
			return nil, err
		}
		query = query.Where("user_id IN ?", ids)
	}
	return query, nil
}

type TrendPoint struct {
	Bucket    string `json:"period"`
	Count     int    `json:"count"`
	Completed int    `json:"completed"`
	Dropped   int    `json:"dropped"`
}

// EnrollmentTrendSeries buckets enrollments over the window, monthly by
// default or per the requested period. Rows are fetched once and bucketed
// in Go so the math is identical on every SQL backend.
func EnrollmentTrendSeries(db *gorm.DB, f *analyticsValidator.Filter) ([]TrendPoint, error) {
	start, end := window(f, 12)
	period := periodOf(f)

	query, err := scopedEnrollments(db, f)
	if err != nil {
		return nil, err
	}

	var enrollments []models.Enrollment
	if err := query.Where("enrollment_date >= ? AND enrollment_date < ?", start, end).
		Find(&enrollments).Error; err != nil {
		return nil, err
	}

	buckets := make(map[string]*TrendPoint)
	keys := bucketKeys(start, end, period)
	for _, key := range keys {
		buckets[key] = &TrendPoint{Bucket: key}
	}

	for _, e := range enrollments {
		point, ok := buckets[bucketKey(e.EnrollmentDate, period)]
		if !ok {
			continue
		}
		point.Count++
		switch e.Status {
		case models.EnrollmentCompleted:
			point.Completed++
		case models.EnrollmentDropped:
			point.Dropped++
		}
	}

	series := make([]TrendPoint, 0, len(keys))
	for _, key := range keys {
		series = append(series, *buckets[key])
	}
	return series, nil
}

type CourseCompletion struct {
	CourseID       uint    `json:"course_id"`
	Title          string  `json:"title"`
	Total          int64   `json:"total"`
	Completed      int64   `json:"completed"`
	CompletionRate float64 `json:"completion_rate"`
}

type OrgCompletion struct {
	OrganizationID uint    `json:"organization_id"`
	Name           string  `json:"name"`
	Total          int64   `json:"total"`
	Completed      int64   `json:"completed"`
	CompletionRate float64 `json:"completion_rate"`
}

type CompletionRates struct {
	Total          int64              `json:"total_enrollments"`
	Completed      int64              `json:"completed"`
	OverallRate    float64            `json:"overall_rate"`
	ByCourse       []CourseCompletion `json:"by_course"`
	ByOrganization []OrgCompletion    `json:"by_organization"`
}

// CompletionRateData computes overall, per-course and per-organization
// completion percentages. Empty denominators yield 0, never NaN.
func CompletionRateData(db *gorm.DB, f *analyticsValidator.Filter) (*CompletionRates, error) {
	query, err := scopedEnrollments(db, f)
	if err != nil {
		return nil, err
	}
	if f != nil && f.StartDate != nil {
		query = query.Where("enrollment_date >= ?", *f.StartDate)
	}
	if f != nil && f.EndDate != nil {
		query = query.Where("enrollment_date < ?", f.EndDate.AddDate(0, 0, 1))
	}

	var enrollments []models.Enrollment
	if err := query.Find(&enrollments).Error; err != nil {
		return nil, err
	}

	result := &CompletionRates{Total: int64(len(enrollments))}

	perCourse := make(map[uint]*CourseCompletion)
	userIDs := make(map[uint]bool)
	for _, e := range enrollments {
		if e.Status == models.EnrollmentCompleted {
			result.Completed++
		}
		entry, ok := perCourse[e.CourseID]
		if !ok {
			entry = &CourseCompletion{CourseID: e.CourseID}
			perCourse[e.CourseID] = entry
		}
		entry.Total++
		if e.Status == models.EnrollmentCompleted {
			entry.Completed++
		}
		userIDs[e.UserID] = true
	}
	result.OverallRate = utils.Percentage(result.Completed, result.Total)

	for courseID, entry := range perCourse {
		var course models.Course
		if err := db.Select("title").Where("id = ?", courseID).First(&course).Error; err == nil {
			entry.Title = course.Title
		}
		entry.CompletionRate = utils.Percentage(entry.Completed, entry.Total)
		result.ByCourse = append(result.ByCourse, *entry)
	}
	sort.Slice(result.ByCourse, func(i, j int) bool {
		return result.ByCourse[i].CompletionRate > result.ByCourse[j].CompletionRate
	})

	// Organization split goes through the enrolled users' membership
	userOrg := make(map[uint]*uint)
	for userID := range userIDs {
		var user models.User
		if err := db.Select("organization_id").Where("id = ?", userID).First(&user).Error; err == nil {
			userOrg[userID] = user.OrganizationID
		}
	}
	perOrg := make(map[uint]*OrgCompletion)
	for _, e := range enrollments {
		orgID := userOrg[e.UserID]
		if orgID == nil {
			continue
		}
		entry, ok := perOrg[*orgID]
		if !ok {
			entry = &OrgCompletion{OrganizationID: *orgID}
			perOrg[*orgID] = entry
		}
		entry.Total++
		if e.Status == models.EnrollmentCompleted {
			entry.Completed++
		}
	}
	for orgID, entry := range perOrg {
		var org models.Organization
		if err := db.Select("name").Where("id = ?", orgID).First(&org).Error; err == nil {
			entry.Name = org.Name
		}
		entry.CompletionRate = utils.Percentage(entry.Completed, entry.Total)
		result.ByOrganization = append(result.ByOrganization, *entry)
	}
	sort.Slice(result.ByOrganization, func(i, j int) bool {
		return result.ByOrganization[i].CompletionRate > result.ByOrganization[j].CompletionRate
	})

	return result, nil
}

type RatingPoint struct {
	Bucket        string  `json:"period"`
	AverageRating float64 `json:"average_rating"`
	Count         int     `json:"count"`
}

type CourseRating struct {
	CourseID      uint    `json:"course_id"`
	Title         string  `json:"title"`
	AverageRating float64 `json:"average_rating"`
	Count         int     `json:"count"`
}

type FeedbackTrends struct {
	Monthly       []RatingPoint  `json:"monthly"`
	Histogram     map[int]int64  `json:"histogram"`
	TopCourses    []CourseRating `json:"top_courses"`
	AverageRating float64        `json:"average_rating"`
	TotalFeedback int            `json:"total_feedback"`
}

// FeedbackTrendData aggregates ratings over a trailing six month window:
// per-bucket averages, a 1-5 histogram and the five best rated courses
func FeedbackTrendData(db *gorm.DB, f *analyticsValidator.Filter) (*FeedbackTrends, error) {
	start, end := window(f, 6)
	period := periodOf(f)

	query := db.Model(&models.Feedback{}).
		Where("is_deleted = ? AND created_at >= ? AND created_at < ?", false, start, end)
	if f != nil && f.CourseID != nil {
		query = query.Where("course_id = ?", *f.CourseID)
	}
	if f != nil && f.OrganizationID != nil {
		ids, err := orgUserIDs(db, *f.OrganizationID)
		if err != nil {
			return nil, err
		}
		query = query.Where("user_id IN ?", ids)
	}

	var feedbacks []models.Feedback
	if err := query.Find(&feedbacks).Error; err != nil {
		return nil, err
	}

	result := &FeedbackTrends{
		Histogram:     map[int]int64{1: 0, 2: 0, 3: 0, 4: 0, 5: 0},
		TotalFeedback: len(feedbacks),
	}

	type bucket struct {
		sum   int
		count int
	}
	monthly := make(map[string]*bucket)
	keys := bucketKeys(start, end, period)
	for _, key := range keys {
		monthly[key] = &bucket{}
	}
	perCourse := make(map[uint]*bucket)

	totalSum := 0
	for _, fb := range feedbacks {
		totalSum += fb.OverallRating
		if fb.OverallRating >= 1 && fb.OverallRating <= 5 {
			result.Histogram[fb.OverallRating]++
		}
		if b, ok := monthly[bucketKey(fb.CreatedAt, period)]; ok {
			b.sum += fb.OverallRating
			b.count++
		}
		cb, ok := perCourse[fb.CourseID]
		if !ok {
			cb = &bucket{}
			perCourse[fb.CourseID] = cb
		}
		cb.sum += fb.OverallRating
		cb.count++
	}

	if len(feedbacks) > 0 {
		result.AverageRating = utils.Round2(float64(totalSum) / float64(len(feedbacks)))
	}

	for _, key := range keys {
		b := monthly[key]
		point := RatingPoint{Bucket: key, Count: b.count}
		if b.count > 0 {
			point.AverageRating = utils.Round2(float64(b.sum) / float64(b.count))
		}
		result.Monthly = append(result.Monthly, point)
	}

	for courseID, b := range perCourse {
		rating := CourseRating{
			CourseID:      courseID,
			AverageRating: utils.Round2(float64(b.sum) / float64(b.count)),
			Count:         b.count,
		}
		var course models.Course
		if err := db.Select("title").Where("id = ?", courseID).First(&course).Error; err == nil {
			rating.Title = course.Title
		}
		result.TopCourses = append(result.TopCourses, rating)
	}
	sort.Slice(result.TopCourses, func(i, j int) bool {
		if result.TopCourses[i].AverageRating == result.TopCourses[j].AverageRating {
			return result.TopCourses[i].Count > result.TopCourses[j].Count
		}
		return result.TopCourses[i].AverageRating > result.TopCourses[j].AverageRating
	})
	if len(result.TopCourses) > 5 {
		result.TopCourses = result.TopCourses[:5]
	}

	return result, nil
}

type GrowthPoint struct {
	Bucket     string `json:"period"`
	NewUsers   int    `json:"new_users"`
	Cumulative int64  `json:"cumulative"`
}

// UserGrowthSeries reports registrations per bucket with a running total.
// The cumulative line starts from the user count before the window.
func UserGrowthSeries(db *gorm.DB, f *analyticsValidator.Filter) ([]GrowthPoint, error) {
	start, end := window(f, 12)
	period := periodOf(f)

	query := db.Model(&models.User{}).Where("is_deleted = ?", false)
	if f != nil && f.OrganizationID != nil {
		query = query.Where("organization_id = ?", *f.OrganizationID)
	}

	var before int64
	if err := query.Session(&gorm.Session{}).Where("created_at < ?", start).Count(&before).Error; err != nil {
		return nil, err
	}

	var users []models.User
	if err := query.Session(&gorm.Session{}).
		Where("created_at >= ? AND created_at < ?", start, end).
		Find(&users).Error; err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, u := range users {
		counts[bucketKey(u.CreatedAt, period)]++
	}

	series := []GrowthPoint{}
	running := before
	for _, key := range bucketKeys(start, end, period) {
		running += int64(counts[key])
		series = append(series, GrowthPoint{Bucket: key, NewUsers: counts[key], Cumulative: running})
	}
	return series, nil
}

type CoursePerformance struct {
	CourseID       uint    `json:"course_id"`
	Title          string  `json:"title"`
	Status         string  `json:"status"`
	Enrollments    int64   `json:"enrollments"`
	CompletionRate float64 `json:"completion_rate"`
	AverageRating  float64 `json:"average_rating"`
	AttendanceRate float64 `json:"attendance_rate"`
	NeedsAttention bool    `json:"needs_attention"`
}

// CoursePerformanceData ranks courses by completion rate and flags the
// ones that need attention: completion below 70% or rating below 3.0
func CoursePerformanceData(db *gorm.DB, f *analyticsValidator.Filter) ([]CoursePerformance, error) {
	courseQuery := db.Model(&models.Course{}).Where("is_deleted = ?", false)
	if f != nil && f.CourseID != nil {
		courseQuery = courseQuery.Where("id = ?", *f.CourseID)
	}
	if f != nil && f.OrganizationID != nil {
		courseQuery = courseQuery.Where("organization_id = ?", *f.OrganizationID)
	}

	var courses []models.Course
	if err := courseQuery.Find(&courses).Error; err != nil {
		return nil, err
	}

	result := make([]CoursePerformance, 0, len(courses))
	for _, course := range courses {
		perf := CoursePerformance{CourseID: course.ID, Title: course.Title, Status: course.Status}

		var total, completed int64
		db.Model(&models.Enrollment{}).
			Where("course_id = ? AND is_deleted = ?", course.ID, false).Count(&total)
		db.Model(&models.Enrollment{}).
			Where("course_id = ? AND status = ? AND is_deleted = ?", course.ID, models.EnrollmentCompleted, false).
			Count(&completed)
		perf.Enrollments = total
		perf.CompletionRate = utils.Percentage(completed, total)

		var feedbacks []models.Feedback
		db.Where("course_id = ? AND is_deleted = ?", course.ID, false).Find(&feedbacks)
		if len(feedbacks) > 0 {
			sum := 0
			for _, fb := range feedbacks {
				sum += fb.OverallRating
			}
			perf.AverageRating = utils.Round2(float64(sum) / float64(len(feedbacks)))
		}

		var sessions, present int64
		db.Model(&models.Attendance{}).
			Joins("JOIN enrollments ON enrollments.id = attendances.enrollment_id").
			Where("enrollments.course_id = ? AND attendances.is_deleted = ?", course.ID, false).
			Count(&sessions)
		db.Model(&models.Attendance{}).
			Joins("JOIN enrollments ON enrollments.id = attendances.enrollment_id").
			Where("enrollments.course_id = ? AND attendances.status = ? AND attendances.is_deleted = ?",
				course.ID, models.AttendancePresent, false).
			Count(&present)
		perf.AttendanceRate = utils.Percentage(present, sessions)

		perf.NeedsAttention = (total > 0 && perf.CompletionRate < 70) ||
			(len(feedbacks) > 0 && perf.AverageRating < 3.0)

		result = append(result, perf)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CompletionRate > result[j].CompletionRate
	})
	return result, nil
}

type DisabilityGroup struct {
	DisabilityType string  `json:"disability_type"`
	Users          int64   `json:"users"`
	Enrollments    int64   `json:"enrollments"`
	Completed      int64   `json:"completed"`
	CompletionRate float64 `json:"completion_rate"`
}

type DisabilityStats struct {
	TotalUsers          int64             `json:"total_users"`
	UsersWithDisability int64             `json:"users_with_disability"`
	ParticipationRate   float64           `json:"participation_rate"`
	ByType              []DisabilityGroup `json:"by_type"`
}

// DisabilityStatsData segments enrollment outcomes by disability type
func DisabilityStatsData(db *gorm.DB, f *analyticsValidator.Filter) (*DisabilityStats, error) {
	userQuery := db.Model(&models.User{}).Where("is_deleted = ?", false)
	if f != nil && f.OrganizationID != nil {
		userQuery = userQuery.Where("organization_id = ?", *f.OrganizationID)
	}

	var users []models.User
	if err := userQuery.Find(&users).Error; err != nil {
		return nil, err
	}

	result := &DisabilityStats{TotalUsers: int64(len(users))}

	groups := make(map[string]*DisabilityGroup)
	for _, u := range users {
		if !u.HasDisability {
			continue
		}
		result.UsersWithDisability++
		dtype := u.DisabilityType
		if dtype == "" {
			dtype = models.DisabilityOther
		}
		group, ok := groups[dtype]
		if !ok {
			group = &DisabilityGroup{DisabilityType: dtype}
			groups[dtype] = group
		}
		group.Users++

		var total, completed int64
		totalQuery := db.Model(&models.Enrollment{}).
			Where("user_id = ? AND is_deleted = ?", u.ID, false)
		completedQuery := db.Model(&models.Enrollment{}).
			Where("user_id = ? AND status = ? AND is_deleted = ?", u.ID, models.EnrollmentCompleted, false)
		if f != nil && f.CourseID != nil {
			totalQuery = totalQuery.Where("course_id = ?", *f.CourseID)
			completedQuery = completedQuery.Where("course_id = ?", *f.CourseID)
		}
		totalQuery.Count(&total)
		completedQuery.Count(&completed)
		group.Enrollments += total
		group.Completed += completed
	}
	result.ParticipationRate = utils.Percentage(result.UsersWithDisability, result.TotalUsers)

	for _, group := range groups {
		group.CompletionRate = utils.Percentage(group.Completed, group.Enrollments)
		result.ByType = append(result.ByType, *group)
	}
	sort.Slice(result.ByType, func(i, j int) bool {
		return result.ByType[i].DisabilityType < result.ByType[j].DisabilityType
	})

	return result, nil
}

type CertificatePoint struct {
	Bucket string `json:"period"`
	Issued int    `json:"issued"`
}

type CertificateTrends struct {
	Monthly           []CertificatePoint `json:"monthly"`
	TotalIssued       int64              `json:"total_issued"`
	TotalRevoked      int64              `json:"total_revoked"`
	AccessibilityRate float64            `json:"accessibility_rate"`
}

// CertificateTrendData reports issuance per bucket plus the share of
// certificates earned by users with disabilities
func CertificateTrendData(db *gorm.DB, f *analyticsValidator.Filter) (*CertificateTrends, error) {
	start, end := window(f, 12)
	period := periodOf(f)

	query := db.Model(&models.Certificate{}).Where("is_deleted = ?", false)
	if f != nil && f.CourseID != nil {
		query = query.Where("course_id = ?", *f.CourseID)
	}
	if f != nil && f.OrganizationID != nil {
		ids, err := orgUserIDs(db, *f.OrganizationID)
		if err != nil {
			return nil, err
		}
		query = query.Where("user_id IN ?", ids)
	}

	var certificates []models.Certificate
	if err := query.Find(&certificates).Error; err != nil {
		return nil, err
	}

	result := &CertificateTrends{}
	counts := make(map[string]int)
	var withDisability int64
	for _, cert := range certificates {
		switch cert.Status {
		case models.CertificateRevoked:
			result.TotalRevoked++
		default:
			result.TotalIssued++
		}
		if !cert.IssueDate.Before(start) && cert.IssueDate.Before(end) {
			counts[bucketKey(cert.IssueDate, period)]++
		}
		var user models.User
		if err := db.Select("has_disability").Where("id = ?", cert.UserID).First(&user).Error; err == nil && user.HasDisability {
			withDisability++
		}
	}
	result.AccessibilityRate = utils.Percentage(withDisability, int64(len(certificates)))

	for _, key := range bucketKeys(start, end, period) {
		result.Monthly = append(result.Monthly, CertificatePoint{Bucket: key, Issued: counts[key]})
	}
	return result, nil
}

type AttendanceMethods struct {
	Total            int64            `json:"total_records"`
	ByMethod         map[string]int64 `json:"by_method"`
	ByStatus         map[string]int64 `json:"by_status"`
	ManualPercentage float64          `json:"manual_percentage"`
	PresenceRate     float64          `json:"presence_rate"`
}

// AttendanceMethodData breaks attendance down by verification method and
// status. A high manual share signals QR check-in is underused.
func AttendanceMethodData(db *gorm.DB, f *analyticsValidator.Filter) (*AttendanceMethods, error) {
	query := db.Model(&models.Attendance{}).Where("attendances.is_deleted = ?", false)
	if f != nil && f.CourseID != nil {
		query = query.Joins("JOIN enrollments ON enrollments.id = attendances.enrollment_id").
			Where("enrollments.course_id = ?", *f.CourseID)
	}
	if f != nil && f.StartDate != nil {
		query = query.Where("attendances.date >= ?", *f.StartDate)
	}
	if f != nil && f.EndDate != nil {
		query = query.Where("attendances.date < ?", f.EndDate.AddDate(0, 0, 1))
	}

	var records []models.Attendance
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}

	result := &AttendanceMethods{
		Total:    int64(len(records)),
		ByMethod: map[string]int64{},
		ByStatus: map[string]int64{},
	}
	var present int64
	for _, record := range records {
		result.ByMethod[record.VerificationMethod]++
		result.ByStatus[record.Status]++
		if record.Status == models.AttendancePresent || record.Status == models.AttendanceLate {
			present++
		}
	}
	result.ManualPercentage = utils.Percentage(result.ByMethod[models.VerificationManual], result.Total)
	result.PresenceRate = utils.Percentage(present, result.Total)
	return result, nil
}

type FeedbackPreview struct {
	FeedbackID    uint      `json:"feedback_id"`
	CourseTitle   string    `json:"course_title"`
	Author        string    `json:"author"`
	OverallRating int       `json:"overall_rating"`
	Comments      string    `json:"comments"`
	CreatedAt     time.Time `json:"created_at"`
}

type CoursePreview struct {
	CourseID  uint      `json:"course_id"`
	Title     string    `json:"title"`
	StartDate time.Time `json:"start_date"`
	Status    string    `json:"status"`
	Location  string    `json:"location"`
	IsVirtual bool      `json:"is_virtual"`
}

type DashboardSummary struct {
	TotalUsers        int64             `json:"total_users"`
	TotalCourses      int64             `json:"total_courses"`
	ActiveCourses     int64             `json:"active_courses"`
	TotalEnrollments  int64             `json:"total_enrollments"`
	ActiveEnrollments int64             `json:"active_enrollments"`
	CompletionRate    float64           `json:"completion_rate"`
	CertificatesCount int64             `json:"certificates_issued"`
	PendingRequests   int64             `json:"pending_requests"`
	AverageRating     float64           `json:"average_rating"`
	RecentFeedback    []FeedbackPreview `json:"recent_feedback"`
	UpcomingCourses   []CoursePreview   `json:"upcoming_courses"`
}

// DashboardData is the admin landing summary: aggregate counters plus the
// five most recent feedback entries and the next five courses to start
func DashboardData(db *gorm.DB) (*DashboardSummary, error) {
	summary := &DashboardSummary{}

	if err := db.Model(&models.User{}).Where("is_deleted = ?", false).Count(&summary.TotalUsers).Error; err != nil {
		return nil, err
	}
	db.Model(&models.Course{}).Where("is_deleted = ?", false).Count(&summary.TotalCourses)
	db.Model(&models.Course{}).Where("status = ? AND is_deleted = ?", models.CourseActive, false).
		Count(&summary.ActiveCourses)

	var completed int64
	db.Model(&models.Enrollment{}).Where("is_deleted = ?", false).Count(&summary.TotalEnrollments)
	db.Model(&models.Enrollment{}).Where("status = ? AND is_deleted = ?", models.EnrollmentEnrolled, false).
		Count(&summary.ActiveEnrollments)
	db.Model(&models.Enrollment{}).Where("status = ? AND is_deleted = ?", models.EnrollmentCompleted, false).
		Count(&completed)
	summary.CompletionRate = utils.Percentage(completed, summary.TotalEnrollments)

	db.Model(&models.Certificate{}).Where("status = ? AND is_deleted = ?", models.CertificateIssued, false).
		Count(&summary.CertificatesCount)
	db.Model(&models.TrainingRequest{}).Where("status = ? AND is_deleted = ?", models.RequestPending, false).
		Count(&summary.PendingRequests)

	var feedbacks []models.Feedback
	db.Where("is_deleted = ?", false).Find(&feedbacks)
	if len(feedbacks) > 0 {
		sum := 0
		for _, fb := range feedbacks {
			sum += fb.OverallRating
		}
		summary.AverageRating = utils.Round2(float64(sum) / float64(len(feedbacks)))
	}

	var recent []models.Feedback
	db.Where("is_deleted = ?", false).Order("created_at desc").Limit(5).Find(&recent)
	for _, fb := range recent {
		preview := FeedbackPreview{
			FeedbackID:    fb.ID,
			Author:        "Anonymous",
			OverallRating: fb.OverallRating,
			Comments:      fb.Comments,
			CreatedAt:     fb.CreatedAt,
		}
		var course models.Course
		if err := db.Select("title").Where("id = ?", fb.CourseID).First(&course).Error; err == nil {
			preview.CourseTitle = course.Title
		}
		if !fb.IsAnonymous {
			var user models.User
			if err := db.Select("first_name, last_name").Where("id = ?", fb.UserID).First(&user).Error; err == nil {
				preview.Author = user.FullName()
			}
		}
		summary.RecentFeedback = append(summary.RecentFeedback, preview)
	}

	var upcoming []models.Course
	db.Where("start_date > ? AND status IN ? AND is_deleted = ?",
		time.Now(), []string{models.CourseScheduled, models.CourseActive}, false).
		Order("start_date asc").Limit(5).Find(&upcoming)
	for _, course := range upcoming {
		summary.UpcomingCourses = append(summary.UpcomingCourses, CoursePreview{
			CourseID:  course.ID,
			Title:     course.Title,
			StartDate: course.StartDate,
			Status:    course.Status,
			Location:  course.Location,
			IsVirtual: course.IsVirtual,
		})
	}

	return summary, nil
}

type RealtimeStats struct {
	EnrollmentsToday     int64 `json:"enrollments_today"`
	EnrollmentsThisWeek  int64 `json:"enrollments_this_week"`
	EnrollmentsThisMonth int64 `json:"enrollments_this_month"`
	CheckInsToday        int64 `json:"check_ins_today"`
	ActiveCourses        int64 `json:"active_courses"`
	SessionsToday        int64 `json:"sessions_today"`
}

// RealtimeData covers today, the last 7 days and the last 30 days
func RealtimeData(db *gorm.DB) (*RealtimeStats, error) {
	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekStart := dayStart.AddDate(0, 0, -7)
	monthStart := dayStart.AddDate(0, -1, 0)

	stats := &RealtimeStats{}
	if err := db.Model(&models.Enrollment{}).
		Where("enrollment_date >= ? AND is_deleted = ?", dayStart, false).
		Count(&stats.EnrollmentsToday).Error; err != nil {
		return nil, err
	}
	db.Model(&models.Enrollment{}).
		Where("enrollment_date >= ? AND is_deleted = ?", weekStart, false).
		Count(&stats.EnrollmentsThisWeek)
	db.Model(&models.Enrollment{}).
		Where("enrollment_date >= ? AND is_deleted = ?", monthStart, false).
		Count(&stats.EnrollmentsThisMonth)
	db.Model(&models.Attendance{}).
		Where("check_in_time >= ? AND is_deleted = ?", dayStart, false).
		Count(&stats.CheckInsToday)
	db.Model(&models.Course{}).
		Where("status = ? AND is_deleted = ?", models.CourseActive, false).
		Count(&stats.ActiveCourses)
	db.Model(&models.Schedule{}).
		Where("start_time >= ? AND start_time < ? AND is_deleted = ?", dayStart, dayStart.AddDate(0, 0, 1), false).
		Count(&stats.SessionsToday)

	return stats, nil
}

type OrgDashboard struct {
	Organization     models.Organization `json:"organization"`
	MemberCount      int64               `json:"member_count"`
	TotalEnrollments int64               `json:"total_enrollments"`
	CompletionRate   float64             `json:"completion_rate"`
	Certificates     int64               `json:"certificates"`
	AverageRating    float64             `json:"average_rating"`
	TopCourses       []CourseRating      `json:"top_courses"`
}

// OrgDashboardData is the per-organization composite view
func OrgDashboardData(db *gorm.DB, orgID uint) (*OrgDashboard, error) {
	var org models.Organization
	if err := db.Where("id = ? AND is_deleted = ?", orgID, false).First(&org).Error; err != nil {
		return nil, err
	}

	dashboard := &OrgDashboard{Organization: org}

	memberIDs, err := orgUserIDs(db, orgID)
	if err != nil {
		return nil, err
	}
	dashboard.MemberCount = int64(len(memberIDs))

	if len(memberIDs) == 0 {
		return dashboard, nil
	}

	var completed int64
	db.Model(&models.Enrollment{}).
		Where("user_id IN ? AND is_deleted = ?", memberIDs, false).
		Count(&dashboard.TotalEnrollments)
	db.Model(&models.Enrollment{}).
		Where("user_id IN ? AND status = ? AND is_deleted = ?", memberIDs, models.EnrollmentCompleted, false).
		Count(&completed)
	dashboard.CompletionRate = utils.Percentage(completed, dashboard.TotalEnrollments)

	db.Model(&models.Certificate{}).
		Where("user_id IN ? AND is_deleted = ?", memberIDs, false).
		Count(&dashboard.Certificates)

	var feedbacks []models.Feedback
	db.Where("user_id IN ? AND is_deleted = ?", memberIDs, false).Find(&feedbacks)
	if len(feedbacks) > 0 {
		sum := 0
		perCourse := make(map[uint][]int)
		for _, fb := range feedbacks {
			sum += fb.OverallRating
			perCourse[fb.CourseID] = append(perCourse[fb.CourseID], fb.OverallRating)
		}
		dashboard.AverageRating = utils.Round2(float64(sum) / float64(len(feedbacks)))

		for courseID, ratings := range perCourse {
			courseSum := 0
			for _, r := range ratings {
				courseSum += r
			}
			rating := CourseRating{
				CourseID:      courseID,
				AverageRating: utils.Round2(float64(courseSum) / float64(len(ratings))),
				Count:         len(ratings),
			}
			var course models.Course
			if err := db.Select("title").Where("id = ?", courseID).First(&course).Error; err == nil {
				rating.Title = course.Title
			}
			dashboard.TopCourses = append(dashboard.TopCourses, rating)
		}
		sort.Slice(dashboard.TopCourses, func(i, j int) bool {
			return dashboard.TopCourses[i].AverageRating > dashboard.TopCourses[j].AverageRating
		})
		if len(dashboard.TopCourses) > 5 {
			dashboard.TopCourses = dashboard.TopCourses[:5]
		}
	}

	return dashboard, nil
}
