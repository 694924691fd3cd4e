package rbac

// 角色-权限静态映射表，进程启动时定义，之后只读。
// 约束：admin的权限集合必须覆盖其他所有角色（admin能做任何角色能做的事），
// 且任何被引用的权限至少出现在一个角色的集合中。
var rolePermissions = map[Role]PermissionSet{
	RoleAdmin: newPermissionSet(
		// 全量权限
		CreateUser, ReadUser, UpdateUser, DeleteUser,
		CreateStudent, ReadStudent, UpdateStudent, DeleteStudent,
		EnrollStudent, UnenrollStudent,
		CreateTeacher, ReadTeacher, UpdateTeacher, DeleteTeacher, AssignTeacher,
		CreateClass, ReadClass, UpdateClass, DeleteClass, ManageClassEnrollment,
		CreateSubject, ReadSubject, UpdateSubject, DeleteSubject,
		MarkAttendance, ReadAttendance, UpdateAttendance, DeleteAttendance,
		ViewAttendanceReports,
		CreateGrade, ReadGrade, UpdateGrade, DeleteGrade,
		ViewGradeReports, GenerateReportCard,
		CreateParent, ReadParent, UpdateParent, DeleteParent, LinkParentStudent,
		CreateNotification, ReadNotification, UpdateNotification, DeleteNotification,
		SendNotification,
		ViewSystemLogs, ManageSystemSettings, BackupData, RestoreData,
		ViewAnalytics, ExportData, GenerateReports,
	),

	RoleTeacher: newPermissionSet(
		ReadStudent, UpdateStudent,
		ReadTeacher, UpdateTeacher,
		ReadClass, ManageClassEnrollment,
		ReadSubject,
		MarkAttendance, ReadAttendance, UpdateAttendance, ViewAttendanceReports,
		CreateGrade, ReadGrade, UpdateGrade, DeleteGrade,
		ViewGradeReports, GenerateReportCard,
		ReadParent,
		ReadNotification, SendNotification,
		ViewAnalytics, GenerateReports,
	),

	RoleStudent: newPermissionSet(
		ReadStudent, UpdateStudent,
		ReadClass,
		ReadAttendance,
		ReadGrade, ViewGradeReports,
		ReadParent,
		ReadNotification,
	),

	RoleParent: newPermissionSet(
		ReadStudent,
		ReadClass,
		ReadAttendance, ViewAttendanceReports,
		ReadGrade, ViewGradeReports,
		ReadParent, UpdateParent,
		ReadNotification, SendNotification,
	),
}

// 资源-权限静态映射表
var resourcePermissions = map[Resource]PermissionSet{
	ResourceUsers: newPermissionSet(
		CreateUser, ReadUser, UpdateUser, DeleteUser,
	),
	ResourceStudents: newPermissionSet(
		CreateStudent, ReadStudent, UpdateStudent, DeleteStudent,
		EnrollStudent, UnenrollStudent,
	),
	ResourceTeachers: newPermissionSet(
		CreateTeacher, ReadTeacher, UpdateTeacher, DeleteTeacher, AssignTeacher,
	),
	ResourceClasses: newPermissionSet(
		CreateClass, ReadClass, UpdateClass, DeleteClass, ManageClassEnrollment,
	),
	ResourceSubjects: newPermissionSet(
		CreateSubject, ReadSubject, UpdateSubject, DeleteSubject,
	),
	ResourceAttendance: newPermissionSet(
		MarkAttendance, ReadAttendance, UpdateAttendance, DeleteAttendance,
		ViewAttendanceReports,
	),
	ResourceGrades: newPermissionSet(
		CreateGrade, ReadGrade, UpdateGrade, DeleteGrade,
		ViewGradeReports, GenerateReportCard,
	),
	ResourceParents: newPermissionSet(
		CreateParent, ReadParent, UpdateParent, DeleteParent, LinkParentStudent,
	),
	ResourceNotifications: newPermissionSet(
		CreateNotification, ReadNotification, UpdateNotification,
		DeleteNotification, SendNotification,
	),
	ResourceReports: newPermissionSet(
		ViewAnalytics, ExportData, GenerateReports,
	),
	ResourceAnalytics: newPermissionSet(
		ViewAnalytics, ExportData,
	),
	ResourceSystem: newPermissionSet(
		ViewSystemLogs, ManageSystemSettings, BackupData, RestoreData,
	),
}
