package rbac

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allRoles = []Role{RoleAdmin, RoleTeacher, RoleStudent, RoleParent}

func TestPermissionsForRole(t *testing.T) {
	// 已知角色均有非空权限集
	for _, role := range allRoles {
		assert.NotEmpty(t, PermissionsForRole(role), "role %s", role)
	}

	// 未知角色返回空集而不是错误
	assert.Empty(t, PermissionsForRole("principal"))
	assert.Empty(t, PermissionsForRole(""))
}

func TestHasPermissionConsistentWithPermissionSet(t *testing.T) {
	// HasPermission 与 PermissionsForRole 的成员关系必须一致
	for _, role := range allRoles {
		set := PermissionsForRole(role)
		for resource := range resourcePermissions {
			for p := range ResourcePermissions(resource) {
				assert.Equal(t, set.Contains(p), HasPermission(role, p),
					"role=%s permission=%s", role, p)
			}
		}
	}
}

func TestAdminIsSupersetOfAllRoles(t *testing.T) {
	adminSet := PermissionsForRole(RoleAdmin)
	for _, role := range []Role{RoleTeacher, RoleStudent, RoleParent} {
		for p := range PermissionsForRole(role) {
			assert.True(t, adminSet.Contains(p),
				"admin缺少角色 %s 的权限 %s", role, p)
		}
	}
}

func TestNoOrphanPermission(t *testing.T) {
	// 资源表引用的权限必须至少出现在一个角色的集合中
	for resource, perms := range resourcePermissions {
		for p := range perms {
			found := false
			for _, role := range allRoles {
				if HasPermission(role, p) {
					found = true
					break
				}
			}
			assert.True(t, found, "resource %s 的权限 %s 没有任何角色持有", resource, p)
		}
	}
}

func TestHasAnyPermission(t *testing.T) {
	assert.True(t, HasAnyPermission(RoleStudent, []Permission{DeleteStudent, ReadGrade}))
	assert.False(t, HasAnyPermission(RoleStudent, []Permission{DeleteStudent, CreateTeacher}))
	assert.False(t, HasAnyPermission(RoleStudent, nil))
}

func TestHasAllPermissions(t *testing.T) {
	assert.True(t, HasAllPermissions(RoleTeacher, []Permission{MarkAttendance, CreateGrade}))
	assert.False(t, HasAllPermissions(RoleTeacher, []Permission{MarkAttendance, DeleteUser}))

	// 空列表对任何角色恒为true（空集是任何集合的子集）
	for _, role := range allRoles {
		assert.True(t, HasAllPermissions(role, nil))
		assert.True(t, HasAllPermissions(role, []Permission{}))
	}
	assert.True(t, HasAllPermissions("unknown", nil))
}

func TestCanAccessResource(t *testing.T) {
	// 可访问当且仅当角色权限集与资源权限集有交集
	for _, role := range allRoles {
		roleSet := PermissionsForRole(role)
		for resource, perms := range resourcePermissions {
			intersects := false
			for p := range perms {
				if roleSet.Contains(p) {
					intersects = true
					break
				}
			}
			assert.Equal(t, intersects, CanAccessResource(role, resource),
				"role=%s resource=%s", role, resource)
		}
	}

	// 学生不能访问系统管理资源
	assert.False(t, CanAccessResource(RoleStudent, ResourceSystem))
	assert.True(t, CanAccessResource(RoleAdmin, ResourceSystem))
}

func TestAccessibleResources(t *testing.T) {
	// admin可以访问全部资源
	adminResources := AccessibleResources(RoleAdmin)
	assert.Len(t, adminResources, len(resourcePermissions))

	// 结果与逐个判断一致
	for _, role := range allRoles {
		resources := AccessibleResources(role)
		seen := make(map[Resource]bool, len(resources))
		for _, r := range resources {
			seen[r] = true
		}
		for resource := range resourcePermissions {
			assert.Equal(t, CanAccessResource(role, resource), seen[resource],
				"role=%s resource=%s", role, resource)
		}
	}

	// 未知角色没有可访问资源
	assert.Empty(t, AccessibleResources("visitor"))
}

func TestParentScenario(t *testing.T) {
	// 家长可以查看成绩，但不能删除学生
	require.True(t, HasPermission(RoleParent, ReadGrade))
	require.False(t, HasPermission(RoleParent, DeleteStudent))
}

func TestConveniencePredicates(t *testing.T) {
	tests := []struct {
		name string
		fn   func(Role) bool
		want map[Role]bool
	}{
		{"CanManageStudents", CanManageStudents, map[Role]bool{
			RoleAdmin: true, RoleTeacher: true, RoleStudent: true, RoleParent: false,
		}},
		{"CanManageGrades", CanManageGrades, map[Role]bool{
			RoleAdmin: true, RoleTeacher: true, RoleStudent: false, RoleParent: false,
		}},
		{"CanViewReports", CanViewReports, map[Role]bool{
			RoleAdmin: true, RoleTeacher: true, RoleStudent: true, RoleParent: true,
		}},
		{"CanManageSystem", CanManageSystem, map[Role]bool{
			RoleAdmin: true, RoleTeacher: false, RoleStudent: false, RoleParent: false,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for role, want := range tt.want {
				assert.Equal(t, want, tt.fn(role), "role=%s", role)
			}
		})
	}
}
