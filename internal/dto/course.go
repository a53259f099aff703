package dto

// ── 课程目录模块 DTO ──

// CourseListRequest 目录列表查询参数
type CourseListRequest struct {
	Semester      string `form:"semester"       binding:"omitempty,oneof=WS SS Both"`
	DegreeProgram string `form:"degree_program"`
	SemesterLevel *int   `form:"semester_level" binding:"omitempty,min=1"`
	CourseType    string `form:"type"`
	Instructor    string `form:"instructor"`
	DayOfWeek     *int   `form:"day"            binding:"omitempty,min=0,max=6"`
	Search        string `form:"search"`
	Page          int    `form:"page"           binding:"omitempty,min=1"`
	PageSize      int    `form:"page_size"      binding:"omitempty,min=1"`
}

// TimeRangeFilter 起止时间过滤条件（"HH:MM"）
type TimeRangeFilter struct {
	Start string `json:"start" binding:"required"`
	End   string `json:"end"   binding:"required"`
}

// SearchCoursesRequest 多条件组合搜索请求
type SearchCoursesRequest struct {
	Search         string           `json:"search"`
	DegreePrograms []string         `json:"degree_programs"`
	SemesterLevels []int            `json:"semester_levels"`
	CourseTypes    []string         `json:"course_types"`
	Instructors    []string         `json:"instructors"`
	DaysOfWeek     []int            `json:"days_of_week"   binding:"omitempty,dive,min=0,max=6"`
	TimeRange      *TimeRangeFilter `json:"time_range"`
	Credits        *int             `json:"credits"        binding:"omitempty,min=0"`
}

// CreateSessionRequest 创建课程场次请求
type CreateSessionRequest struct {
	SessionType string `json:"session_type" binding:"omitempty,max=50"`
	GroupName   string `json:"group_name"   binding:"omitempty,max=50"`
	DayOfWeek   *int   `json:"day_of_week"  binding:"required,min=0,max=6"` // 0=周一
	StartTime   string `json:"start_time"   binding:"required"`             // "HH:MM"
	EndTime     string `json:"end_time"     binding:"required"`
	Room        string `json:"room"         binding:"omitempty,max=50"`
	Weeks       []int  `json:"weeks"`
	Color       string `json:"color"        binding:"omitempty,max=20"`
}

// CreateCourseRequest 创建课程请求（管理员）
type CreateCourseRequest struct {
	Name            string                 `json:"name"             binding:"required,min=2,max=200"`
	Code            string                 `json:"code"             binding:"required,min=2,max=50"`
	Instructor      string                 `json:"instructor"       binding:"omitempty,max=100"`
	Description     string                 `json:"description"`
	Credits         *int                   `json:"credits"          binding:"omitempty,min=0"`
	CourseType      string                 `json:"course_type"      binding:"omitempty,max=50"`
	SemesterOffered string                 `json:"semester_offered" binding:"omitempty,oneof=WS SS Both"`
	DegreeProgram   string                 `json:"degree_program"   binding:"omitempty,max=100"`
	SemesterLevel   *int                   `json:"semester_level"   binding:"omitempty,min=1"`
	MoodleURL       string                 `json:"moodle_url"       binding:"omitempty,max=500"`
	SyllabusURL     string                 `json:"syllabus_url"     binding:"omitempty,max=500"`
	ExternalURL     string                 `json:"external_url"     binding:"omitempty,max=500"`
	Sessions        []CreateSessionRequest `json:"sessions"         binding:"omitempty,dive"`
}

// UpdateCourseRequest 更新课程请求（管理员，仅更新出现的字段）
type UpdateCourseRequest struct {
	Name            *string `json:"name"             binding:"omitempty,min=2,max=200"`
	Code            *string `json:"code"             binding:"omitempty,min=2,max=50"`
	Instructor      *string `json:"instructor"`
	Description     *string `json:"description"`
	Credits         *int    `json:"credits"          binding:"omitempty,min=0"`
	CourseType      *string `json:"course_type"`
	SemesterOffered *string `json:"semester_offered" binding:"omitempty,oneof=WS SS Both"`
	DegreeProgram   *string `json:"degree_program"`
	SemesterLevel   *int    `json:"semester_level"   binding:"omitempty,min=1"`
	MoodleURL       *string `json:"moodle_url"`
	SyllabusURL     *string `json:"syllabus_url"`
	ExternalURL     *string `json:"external_url"`
	IsActive        *bool   `json:"is_active"`
}

// SessionResponse 课程场次响应
type SessionResponse struct {
	ID          string `json:"id"`
	CourseID    string `json:"course_id"`
	SessionType string `json:"session_type"`
	GroupName   string `json:"group_name,omitempty"`
	DayOfWeek   int    `json:"day_of_week"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	Room        string `json:"room,omitempty"`
	Weeks       []int  `json:"weeks,omitempty"`
	Color       string `json:"color"`
}

// CourseResponse 课程详情响应
type CourseResponse struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	Code            string            `json:"code"`
	Instructor      string            `json:"instructor,omitempty"`
	Description     string            `json:"description,omitempty"`
	Credits         *int              `json:"credits,omitempty"`
	CourseType      string            `json:"course_type"`
	SemesterOffered string            `json:"semester_offered,omitempty"`
	DegreeProgram   string            `json:"degree_program,omitempty"`
	SemesterLevel   *int              `json:"semester_level,omitempty"`
	MoodleURL       string            `json:"moodle_url,omitempty"`
	SyllabusURL     string            `json:"syllabus_url,omitempty"`
	ExternalURL     string            `json:"external_url,omitempty"`
	IsActive        bool              `json:"is_active"`
	Sessions        []SessionResponse `json:"sessions,omitempty"`
	EnrollmentCount int64             `json:"enrollment_count,omitempty"`
	CreatedAt       string            `json:"created_at"`
	UpdatedAt       string            `json:"updated_at"`
}

// CourseBrief 课程简要信息（嵌入课表明细等响应）
type CourseBrief struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Code       string `json:"code"`
	Instructor string `json:"instructor,omitempty"`
	CourseType string `json:"course_type"`
}
