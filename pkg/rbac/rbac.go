package rbac

// Permission 权限代码，系统内封闭集合
type Permission string

// Resource 资源代码，一组关联权限的功能域
type Resource string

// Role 用户角色
type Role string

// 系统角色常量
const (
	RoleAdmin   Role = "admin"
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
	RoleParent  Role = "parent"
)

// ========== 权限常量定义 ==========

// 用户管理
const (
	CreateUser Permission = "create_user"
	ReadUser   Permission = "read_user"
	UpdateUser Permission = "update_user"
	DeleteUser Permission = "delete_user"
)

// 学生管理
const (
	CreateStudent   Permission = "create_student"
	ReadStudent     Permission = "read_student"
	UpdateStudent   Permission = "update_student"
	DeleteStudent   Permission = "delete_student"
	EnrollStudent   Permission = "enroll_student"
	UnenrollStudent Permission = "unenroll_student"
)

// 教师管理
const (
	CreateTeacher Permission = "create_teacher"
	ReadTeacher   Permission = "read_teacher"
	UpdateTeacher Permission = "update_teacher"
	DeleteTeacher Permission = "delete_teacher"
	AssignTeacher Permission = "assign_teacher"
)

// 班级管理
const (
	CreateClass           Permission = "create_class"
	ReadClass             Permission = "read_class"
	UpdateClass           Permission = "update_class"
	DeleteClass           Permission = "delete_class"
	ManageClassEnrollment Permission = "manage_class_enrollment"
)

// 科目管理
const (
	CreateSubject Permission = "create_subject"
	ReadSubject   Permission = "read_subject"
	UpdateSubject Permission = "update_subject"
	DeleteSubject Permission = "delete_subject"
)

// 考勤管理
const (
	MarkAttendance        Permission = "mark_attendance"
	ReadAttendance        Permission = "read_attendance"
	UpdateAttendance      Permission = "update_attendance"
	DeleteAttendance      Permission = "delete_attendance"
	ViewAttendanceReports Permission = "view_attendance_reports"
)

// 成绩管理
const (
	CreateGrade        Permission = "create_grade"
	ReadGrade          Permission = "read_grade"
	UpdateGrade        Permission = "update_grade"
	DeleteGrade        Permission = "delete_grade"
	ViewGradeReports   Permission = "view_grade_reports"
	GenerateReportCard Permission = "generate_report_card"
)

// 家长管理
const (
	CreateParent      Permission = "create_parent"
	ReadParent        Permission = "read_parent"
	UpdateParent      Permission = "update_parent"
	DeleteParent      Permission = "delete_parent"
	LinkParentStudent Permission = "link_parent_student"
)

// 通知消息管理
const (
	CreateNotification Permission = "create_notification"
	ReadNotification   Permission = "read_notification"
	UpdateNotification Permission = "update_notification"
	DeleteNotification Permission = "delete_notification"
	SendNotification   Permission = "send_notification"
)

// 系统管理
const (
	ViewSystemLogs       Permission = "view_system_logs"
	ManageSystemSettings Permission = "manage_system_settings"
	BackupData           Permission = "backup_data"
	RestoreData          Permission = "restore_data"
)

// 报表与分析
const (
	ViewAnalytics   Permission = "view_analytics"
	ExportData      Permission = "export_data"
	GenerateReports Permission = "generate_reports"
)

// ========== 资源常量定义 ==========

const (
	ResourceUsers         Resource = "users"
	ResourceStudents      Resource = "students"
	ResourceTeachers      Resource = "teachers"
	ResourceClasses       Resource = "classes"
	ResourceSubjects      Resource = "subjects"
	ResourceAttendance    Resource = "attendance"
	ResourceGrades        Resource = "grades"
	ResourceParents       Resource = "parents"
	ResourceNotifications Resource = "notifications"
	ResourceReports       Resource = "reports"
	ResourceAnalytics     Resource = "analytics"
	ResourceSystem        Resource = "system"
)

// PermissionSet 权限集合
type PermissionSet map[Permission]struct{}

// Contains 判断集合中是否包含指定权限
func (s PermissionSet) Contains(p Permission) bool {
	_, ok := s[p]
	return ok
}

// newPermissionSet 构造权限集合
func newPermissionSet(perms ...Permission) PermissionSet {
	set := make(PermissionSet, len(perms))
	for _, p := range perms {
		set[p] = struct{}{}
	}
	return set
}

// ========== 权限查询方法 ==========
// 纯函数表：表在包初始化后只读，任意并发调用无需加锁。
// 未知角色/资源一律按空集处理，表示"无权限"而不是错误。

// PermissionsForRole 获取角色的全部权限
func PermissionsForRole(role Role) PermissionSet {
	perms, ok := rolePermissions[role]
	if !ok {
		return PermissionSet{}
	}
	return perms
}

// HasPermission 判断角色是否拥有指定权限
func HasPermission(role Role, permission Permission) bool {
	return PermissionsForRole(role).Contains(permission)
}

// HasAnyPermission 判断角色是否拥有任一指定权限
func HasAnyPermission(role Role, permissions []Permission) bool {
	set := PermissionsForRole(role)
	for _, p := range permissions {
		if set.Contains(p) {
			return true
		}
	}
	return false
}

// HasAllPermissions 判断角色是否拥有全部指定权限（空列表恒为true）
func HasAllPermissions(role Role, permissions []Permission) bool {
	set := PermissionsForRole(role)
	for _, p := range permissions {
		if !set.Contains(p) {
			return false
		}
	}
	return true
}

// ResourcePermissions 获取资源对应的权限集合
func ResourcePermissions(resource Resource) PermissionSet {
	perms, ok := resourcePermissions[resource]
	if !ok {
		return PermissionSet{}
	}
	return perms
}

// CanAccessResource 判断角色能否访问资源（角色权限与资源权限有交集即可）
func CanAccessResource(role Role, resource Resource) bool {
	rolePerms := PermissionsForRole(role)
	for p := range ResourcePermissions(resource) {
		if rolePerms.Contains(p) {
			return true
		}
	}
	return false
}

// AccessibleResources 获取角色可访问的全部资源（结果为集合，顺序无意义）
func AccessibleResources(role Role) []Resource {
	var accessible []Resource
	for resource := range resourcePermissions {
		if CanAccessResource(role, resource) {
			accessible = append(accessible, resource)
		}
	}
	return accessible
}

// ========== 路由层快捷判断 ==========

// CanManageStudents 判断是否可以管理学生
func CanManageStudents(role Role) bool {
	return HasAnyPermission(role, []Permission{
		CreateStudent, UpdateStudent, DeleteStudent, EnrollStudent, UnenrollStudent,
	})
}

// CanManageTeachers 判断是否可以管理教师
func CanManageTeachers(role Role) bool {
	return HasAnyPermission(role, []Permission{
		CreateTeacher, UpdateTeacher, DeleteTeacher, AssignTeacher,
	})
}

// CanManageClasses 判断是否可以管理班级
func CanManageClasses(role Role) bool {
	return HasAnyPermission(role, []Permission{
		CreateClass, UpdateClass, DeleteClass, ManageClassEnrollment,
	})
}

// CanManageAttendance 判断是否可以管理考勤
func CanManageAttendance(role Role) bool {
	return HasAnyPermission(role, []Permission{
		MarkAttendance, UpdateAttendance, DeleteAttendance,
	})
}

// CanManageGrades 判断是否可以管理成绩
func CanManageGrades(role Role) bool {
	return HasAnyPermission(role, []Permission{
		CreateGrade, UpdateGrade, DeleteGrade,
	})
}

// CanViewReports 判断是否可以查看报表
func CanViewReports(role Role) bool {
	return HasAnyPermission(role, []Permission{
		ViewAttendanceReports, ViewGradeReports, ViewAnalytics, GenerateReports,
	})
}

// CanManageSystem 判断是否可以管理系统
func CanManageSystem(role Role) bool {
	return HasAnyPermission(role, []Permission{
		ManageSystemSettings, BackupData, RestoreData, ViewSystemLogs,
	})
}
