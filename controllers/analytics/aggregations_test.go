package analyticsController

import (
	"otms/database"
	"otms/models"
	analyticsValidator "otms/validators/analytics"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	database.RunMigrations(db)
	return db
}

func monthStart(offset int) time.Time {
	now := time.Now()
	first := time.Date(now.Year(), now.Month(), 1, 12, 0, 0, 0, time.UTC)
	return first.AddDate(0, offset, 0)
}

func TestEnrollmentTrendSeriesBuckets(t *testing.T) {
	db := setupTestDB(t)

	course := models.Course{Title: "Course", Capacity: 20, Status: models.CourseActive}
	require.NoError(t, db.Create(&course).Error)

	rows := []models.Enrollment{
		{UserID: 1, CourseID: course.ID, EnrollmentDate: monthStart(0), Status: models.EnrollmentEnrolled},
		{UserID: 2, CourseID: course.ID, EnrollmentDate: monthStart(0), Status: models.EnrollmentCompleted},
		{UserID: 3, CourseID: course.ID, EnrollmentDate: monthStart(-1), Status: models.EnrollmentDropped},
	}
	for i := range rows {
		require.NoError(t, db.Create(&rows[i]).Error)
	}

	series, err := EnrollmentTrendSeries(db, nil)
	require.NoError(t, err)
	require.NotEmpty(t, series)

	byMonth := make(map[string]TrendPoint)
	for _, point := range series {
		byMonth[point.Bucket] = point
	}

	current := byMonth[monthStart(0).Format(monthKeyFormat)]
	assert.Equal(t, 2, current.Count)
	assert.Equal(t, 1, current.Completed)
	assert.Equal(t, 0, current.Dropped)

	previous := byMonth[monthStart(-1).Format(monthKeyFormat)]
	assert.Equal(t, 1, previous.Count)
	assert.Equal(t, 1, previous.Dropped)
}

func TestEnrollmentTrendSeriesCourseFilter(t *testing.T) {
	db := setupTestDB(t)

	a := models.Course{Title: "A", Capacity: 20, Status: models.CourseActive}
	b := models.Course{Title: "B", Capacity: 20, Status: models.CourseActive}
	require.NoError(t, db.Create(&a).Error)
	require.NoError(t, db.Create(&b).Error)

	require.NoError(t, db.Create(&models.Enrollment{
		UserID: 1, CourseID: a.ID, EnrollmentDate: monthStart(0), Status: models.EnrollmentEnrolled,
	}).Error)
	require.NoError(t, db.Create(&models.Enrollment{
		UserID: 1, CourseID: b.ID, EnrollmentDate: monthStart(0), Status: models.EnrollmentEnrolled,
	}).Error)

	series, err := EnrollmentTrendSeries(db, &analyticsValidator.Filter{CourseID: &a.ID})
	require.NoError(t, err)

	total := 0
	for _, point := range series {
		total += point.Count
	}
	assert.Equal(t, 1, total)
}

func TestCompletionRateData(t *testing.T) {
	db := setupTestDB(t)

	org := models.Organization{Name: "Acme"}
	require.NoError(t, db.Create(&org).Error)

	users := make([]models.User, 4)
	for i := range users {
		users[i] = models.User{
			Email:          string(rune('a'+i)) + "@example.com",
			Password:       "x",
			OrganizationID: &org.ID,
		}
		require.NoError(t, db.Create(&users[i]).Error)
	}

	course := models.Course{Title: "Course", Capacity: 20, Status: models.CourseActive}
	require.NoError(t, db.Create(&course).Error)

	statuses := []string{
		models.EnrollmentCompleted,
		models.EnrollmentCompleted,
		models.EnrollmentEnrolled,
		models.EnrollmentDropped,
	}
	for i, status := range statuses {
		require.NoError(t, db.Create(&models.Enrollment{
			UserID:         users[i].ID,
			CourseID:       course.ID,
			EnrollmentDate: time.Now(),
			Status:         status,
		}).Error)
	}

	rates, err := CompletionRateData(db, nil)
	require.NoError(t, err)

	assert.Equal(t, int64(4), rates.Total)
	assert.Equal(t, int64(2), rates.Completed)
	assert.Equal(t, 50.0, rates.OverallRate)

	require.Len(t, rates.ByCourse, 1)
	assert.Equal(t, "Course", rates.ByCourse[0].Title)
	assert.Equal(t, 50.0, rates.ByCourse[0].CompletionRate)

	require.Len(t, rates.ByOrganization, 1)
	assert.Equal(t, "Acme", rates.ByOrganization[0].Name)
	assert.Equal(t, 50.0, rates.ByOrganization[0].CompletionRate)
}

func TestCompletionRateDataEmpty(t *testing.T) {
	db := setupTestDB(t)

	rates, err := CompletionRateData(db, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), rates.Total)
	assert.Equal(t, 0.0, rates.OverallRate)
}

func TestFeedbackTrendData(t *testing.T) {
	db := setupTestDB(t)

	good := models.Course{Title: "Good", Capacity: 20, Status: models.CourseActive}
	poor := models.Course{Title: "Poor", Capacity: 20, Status: models.CourseActive}
	require.NoError(t, db.Create(&good).Error)
	require.NoError(t, db.Create(&poor).Error)

	feedbacks := []models.Feedback{
		{UserID: 1, CourseID: good.ID, OverallRating: 5},
		{UserID: 2, CourseID: good.ID, OverallRating: 4},
		{UserID: 1, CourseID: poor.ID, OverallRating: 2},
	}
	for i := range feedbacks {
		require.NoError(t, db.Create(&feedbacks[i]).Error)
	}

	trends, err := FeedbackTrendData(db, nil)
	require.NoError(t, err)

	assert.Equal(t, 3, trends.TotalFeedback)
	assert.Equal(t, 3.67, trends.AverageRating)
	assert.Equal(t, int64(1), trends.Histogram[5])
	assert.Equal(t, int64(1), trends.Histogram[4])
	assert.Equal(t, int64(1), trends.Histogram[2])
	assert.Equal(t, int64(0), trends.Histogram[1])

	require.Len(t, trends.TopCourses, 2)
	assert.Equal(t, "Good", trends.TopCourses[0].Title)
	assert.Equal(t, 4.5, trends.TopCourses[0].AverageRating)
}

func TestUserGrowthCumulative(t *testing.T) {
	db := setupTestDB(t)

	for i := 0; i < 3; i++ {
		require.NoError(t, db.Create(&models.User{
			Email:    string(rune('a'+i)) + "@example.com",
			Password: "x",
		}).Error)
	}

	series, err := UserGrowthSeries(db, nil)
	require.NoError(t, err)
	require.NotEmpty(t, series)

	last := series[len(series)-1]
	assert.Equal(t, int64(3), last.Cumulative)

	// cumulative never decreases
	prev := int64(0)
	for _, point := range series {
		assert.GreaterOrEqual(t, point.Cumulative, prev)
		prev = point.Cumulative
	}
}

func TestCoursePerformanceNeedsAttention(t *testing.T) {
	db := setupTestDB(t)

	course := models.Course{Title: "Struggling", Capacity: 20, Status: models.CourseActive}
	require.NoError(t, db.Create(&course).Error)

	// one completion out of three, 33% completion rate
	statuses := []string{models.EnrollmentCompleted, models.EnrollmentDropped, models.EnrollmentFailed}
	for i, status := range statuses {
		require.NoError(t, db.Create(&models.Enrollment{
			UserID: uint(i + 1), CourseID: course.ID, EnrollmentDate: time.Now(), Status: status,
		}).Error)
	}

	performance, err := CoursePerformanceData(db, nil)
	require.NoError(t, err)
	require.Len(t, performance, 1)

	perf := performance[0]
	assert.Equal(t, int64(3), perf.Enrollments)
	assert.Equal(t, 33.33, perf.CompletionRate)
	assert.True(t, perf.NeedsAttention)
}

func TestCoursePerformanceHealthyCourse(t *testing.T) {
	db := setupTestDB(t)

	course := models.Course{Title: "Healthy", Capacity: 20, Status: models.CourseActive}
	require.NoError(t, db.Create(&course).Error)

	for i := 0; i < 4; i++ {
		status := models.EnrollmentCompleted
		if i == 3 {
			status = models.EnrollmentEnrolled
		}
		require.NoError(t, db.Create(&models.Enrollment{
			UserID: uint(i + 1), CourseID: course.ID, EnrollmentDate: time.Now(), Status: status,
		}).Error)
	}
	require.NoError(t, db.Create(&models.Feedback{UserID: 1, CourseID: course.ID, OverallRating: 5}).Error)

	performance, err := CoursePerformanceData(db, nil)
	require.NoError(t, err)
	require.Len(t, performance, 1)
	assert.Equal(t, 75.0, performance[0].CompletionRate)
	assert.False(t, performance[0].NeedsAttention)
}

func TestDisabilityStatsData(t *testing.T) {
	db := setupTestDB(t)

	users := []models.User{
		{Email: "a@example.com", Password: "x", HasDisability: true, DisabilityType: models.DisabilityVisual},
		{Email: "b@example.com", Password: "x", HasDisability: true, DisabilityType: models.DisabilityVisual},
		{Email: "c@example.com", Password: "x"},
		{Email: "d@example.com", Password: "x"},
	}
	for i := range users {
		require.NoError(t, db.Create(&users[i]).Error)
	}

	require.NoError(t, db.Create(&models.Enrollment{
		UserID: users[0].ID, CourseID: 1, EnrollmentDate: time.Now(), Status: models.EnrollmentCompleted,
	}).Error)
	require.NoError(t, db.Create(&models.Enrollment{
		UserID: users[1].ID, CourseID: 1, EnrollmentDate: time.Now(), Status: models.EnrollmentEnrolled,
	}).Error)

	stats, err := DisabilityStatsData(db, nil)
	require.NoError(t, err)

	assert.Equal(t, int64(4), stats.TotalUsers)
	assert.Equal(t, int64(2), stats.UsersWithDisability)
	assert.Equal(t, 50.0, stats.ParticipationRate)

	require.Len(t, stats.ByType, 1)
	group := stats.ByType[0]
	assert.Equal(t, models.DisabilityVisual, group.DisabilityType)
	assert.Equal(t, int64(2), group.Users)
	assert.Equal(t, int64(2), group.Enrollments)
	assert.Equal(t, int64(1), group.Completed)
	assert.Equal(t, 50.0, group.CompletionRate)
}

func TestAttendanceMethodData(t *testing.T) {
	db := setupTestDB(t)

	records := []models.Attendance{
		{EnrollmentID: 1, Date: time.Now(), SessionNumber: 1, Status: models.AttendancePresent, VerificationMethod: models.VerificationQR},
		{EnrollmentID: 1, Date: time.Now().AddDate(0, 0, 1), SessionNumber: 2, Status: models.AttendanceLate, VerificationMethod: models.VerificationQR},
		{EnrollmentID: 2, Date: time.Now(), SessionNumber: 1, Status: models.AttendanceAbsent, VerificationMethod: models.VerificationManual},
		{EnrollmentID: 3, Date: time.Now(), SessionNumber: 1, Status: models.AttendancePresent, VerificationMethod: models.VerificationManual},
	}
	for i := range records {
		require.NoError(t, db.Create(&records[i]).Error)
	}

	methods, err := AttendanceMethodData(db, nil)
	require.NoError(t, err)

	assert.Equal(t, int64(4), methods.Total)
	assert.Equal(t, int64(2), methods.ByMethod[models.VerificationQR])
	assert.Equal(t, int64(2), methods.ByMethod[models.VerificationManual])
	assert.Equal(t, 50.0, methods.ManualPercentage)
	assert.Equal(t, 75.0, methods.PresenceRate) // late counts as presence
}

func TestDashboardData(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, db.Create(&models.User{Email: "a@example.com", Password: "x"}).Error)
	require.NoError(t, db.Create(&models.Course{Title: "C", Capacity: 20, Status: models.CourseActive}).Error)
	require.NoError(t, db.Create(&models.Enrollment{
		UserID: 1, CourseID: 1, EnrollmentDate: time.Now(), Status: models.EnrollmentCompleted,
	}).Error)
	require.NoError(t, db.Create(&models.TrainingRequest{
		UserID: 1, CourseID: 1, RequestDate: time.Now(), Status: models.RequestPending, Justification: "needed",
	}).Error)

	summary, err := DashboardData(db)
	require.NoError(t, err)

	assert.Equal(t, int64(1), summary.TotalUsers)
	assert.Equal(t, int64(1), summary.ActiveCourses)
	assert.Equal(t, int64(1), summary.TotalEnrollments)
	assert.Equal(t, 100.0, summary.CompletionRate)
	assert.Equal(t, int64(1), summary.PendingRequests)
}

func TestOrgDashboardData(t *testing.T) {
	db := setupTestDB(t)

	org := models.Organization{Name: "Acme"}
	require.NoError(t, db.Create(&org).Error)

	user := models.User{Email: "a@example.com", Password: "x", OrganizationID: &org.ID}
	require.NoError(t, db.Create(&user).Error)

	course := models.Course{Title: "C", Capacity: 20, Status: models.CourseActive}
	require.NoError(t, db.Create(&course).Error)

	require.NoError(t, db.Create(&models.Enrollment{
		UserID: user.ID, CourseID: course.ID, EnrollmentDate: time.Now(), Status: models.EnrollmentCompleted,
	}).Error)
	require.NoError(t, db.Create(&models.Feedback{UserID: user.ID, CourseID: course.ID, OverallRating: 4}).Error)

	dashboard, err := OrgDashboardData(db, org.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(1), dashboard.MemberCount)
	assert.Equal(t, int64(1), dashboard.TotalEnrollments)
	assert.Equal(t, 100.0, dashboard.CompletionRate)
	assert.Equal(t, 4.0, dashboard.AverageRating)
	require.Len(t, dashboard.TopCourses, 1)
	assert.Equal(t, "C", dashboard.TopCourses[0].Title)
}

func TestOrgDashboardMissingOrganization(t *testing.T) {
	db := setupTestDB(t)
	_, err := OrgDashboardData(db, 42)
	assert.Error(t, err)
}

func TestBuildReportComprehensive(t *testing.T) {
	db := setupTestDB(t)

	course := models.Course{Title: "C", Capacity: 20, Status: models.CourseActive}
	require.NoError(t, db.Create(&course).Error)
	require.NoError(t, db.Create(&models.Enrollment{
		UserID: 1, CourseID: course.ID, EnrollmentDate: time.Now(), Status: models.EnrollmentCompleted,
	}).Error)
	require.NoError(t, db.Create(&models.Feedback{UserID: 1, CourseID: course.ID, OverallRating: 5}).Error)

	report, err := buildReport(db, "comprehensive", nil)
	require.NoError(t, err)
	assert.Equal(t, "Comprehensive Training Report", report.Title)

	titles := make([]string, 0, len(report.Sections))
	for _, section := range report.Sections {
		titles = append(titles, section.Title)
	}
	assert.Contains(t, titles, "Enrollment Trends")
	assert.Contains(t, titles, "Overall Completion")
	assert.Contains(t, titles, "Rating Distribution")
}

func TestBuildReportUnknownType(t *testing.T) {
	db := setupTestDB(t)
	_, err := buildReport(db, "payroll", nil)
	assert.Error(t, err)
}

func TestEnrollmentTrendSeriesYearlyBuckets(t *testing.T) {
	db := setupTestDB(t)

	course := models.Course{Title: "Course", Capacity: 20, Status: models.CourseActive}
	require.NoError(t, db.Create(&course).Error)

	rows := []models.Enrollment{
		{UserID: 1, CourseID: course.ID, EnrollmentDate: time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC), Status: models.EnrollmentEnrolled},
		{UserID: 2, CourseID: course.ID, EnrollmentDate: time.Date(2025, 7, 15, 12, 0, 0, 0, time.UTC), Status: models.EnrollmentCompleted},
		{UserID: 3, CourseID: course.ID, EnrollmentDate: time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC), Status: models.EnrollmentEnrolled},
	}
	for i := range rows {
		require.NoError(t, db.Create(&rows[i]).Error)
	}

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)
	series, err := EnrollmentTrendSeries(db, &analyticsValidator.Filter{
		StartDate: &start, EndDate: &end, Period: analyticsValidator.PeriodYear,
	})
	require.NoError(t, err)
	require.Len(t, series, 2)

	assert.Equal(t, "2024", series[0].Bucket)
	assert.Equal(t, 1, series[0].Count)
	assert.Equal(t, "2025", series[1].Bucket)
	assert.Equal(t, 2, series[1].Count)
	assert.Equal(t, 1, series[1].Completed)
}

func TestEnrollmentTrendSeriesWeeklyBuckets(t *testing.T) {
	db := setupTestDB(t)

	course := models.Course{Title: "Course", Capacity: 20, Status: models.CourseActive}
	require.NoError(t, db.Create(&course).Error)

	monday := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	rows := []models.Enrollment{
		{UserID: 1, CourseID: course.ID, EnrollmentDate: monday, Status: models.EnrollmentEnrolled},
		{UserID: 2, CourseID: course.ID, EnrollmentDate: monday.AddDate(0, 0, 2), Status: models.EnrollmentEnrolled},
		{UserID: 3, CourseID: course.ID, EnrollmentDate: monday.AddDate(0, 0, 7), Status: models.EnrollmentEnrolled},
	}
	for i := range rows {
		require.NoError(t, db.Create(&rows[i]).Error)
	}

	start := monday
	end := monday.AddDate(0, 0, 13)
	series, err := EnrollmentTrendSeries(db, &analyticsValidator.Filter{
		StartDate: &start, EndDate: &end, Period: analyticsValidator.PeriodWeek,
	})
	require.NoError(t, err)
	require.Len(t, series, 2)

	assert.Equal(t, "2026-W10", series[0].Bucket)
	assert.Equal(t, 2, series[0].Count)
	assert.Equal(t, "2026-W11", series[1].Bucket)
	assert.Equal(t, 1, series[1].Count)
}

func TestDashboardPreviews(t *testing.T) {
	db := setupTestDB(t)

	user := models.User{FirstName: "Dana", LastName: "Reyes", Email: "a@example.com", Password: "x"}
	require.NoError(t, db.Create(&user).Error)

	past := models.Course{Title: "Past", Capacity: 20, Status: models.CourseCompleted, StartDate: time.Now().AddDate(0, -2, 0)}
	next := models.Course{Title: "Next", Capacity: 20, Status: models.CourseScheduled, StartDate: time.Now().AddDate(0, 0, 7)}
	later := models.Course{Title: "Later", Capacity: 20, Status: models.CourseScheduled, StartDate: time.Now().AddDate(0, 0, 14)}
	for _, course := range []*models.Course{&past, &next, &later} {
		require.NoError(t, db.Create(course).Error)
	}

	require.NoError(t, db.Create(&models.Feedback{
		UserID: user.ID, CourseID: past.ID, OverallRating: 4, Comments: "solid",
	}).Error)
	require.NoError(t, db.Create(&models.Feedback{
		UserID: user.ID, CourseID: next.ID, OverallRating: 2, IsAnonymous: true,
	}).Error)

	summary, err := DashboardData(db)
	require.NoError(t, err)

	require.Len(t, summary.RecentFeedback, 2)
	authors := []string{summary.RecentFeedback[0].Author, summary.RecentFeedback[1].Author}
	assert.Contains(t, authors, "Dana Reyes")
	assert.Contains(t, authors, "Anonymous")

	require.Len(t, summary.UpcomingCourses, 2)
	assert.Equal(t, "Next", summary.UpcomingCourses[0].Title)
	assert.Equal(t, "Later", summary.UpcomingCourses[1].Title)
}
