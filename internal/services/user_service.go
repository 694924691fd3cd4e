package services

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"schoolhub/internal/database"
	"schoolhub/internal/models"
	"schoolhub/pkg/rbac"

	"gorm.io/gorm"
)

type UserService struct {
	db *gorm.DB
}

// UserStats 用户统计信息
type UserStats struct {
	Total    int64 `json:"total"`
	Active   int64 `json:"active"`
	Inactive int64 `json:"inactive"`
	Locked   int64 `json:"locked"`
	Teachers int64 `json:"teachers"`
	Students int64 `json:"students"`
	Parents  int64 `json:"parents"`
}

func NewUserService() *UserService {
	return &UserService{
		db: database.GetDB(),
	}
}

// ========== 基础CRUD方法 ==========

// Create 创建用户
func (s *UserService) Create(username, email, password, name, role string, phone *string) (*models.User, error) {
	// 验证参数
	if err := s.ValidateCreateParams(username, email, password, name, role); err != nil {
		return nil, err
	}

	// 检查用户名是否重复
	var usernameCount int64
	s.db.Model(&models.User{}).Where("username = ?", username).Count(&usernameCount)
	if usernameCount > 0 {
		return nil, fmt.Errorf("用户名已存在")
	}

	// 检查邮箱是否重复
	var emailCount int64
	s.db.Model(&models.User{}).Where("email = ?", email).Count(&emailCount)
	if emailCount > 0 {
		return nil, fmt.Errorf("邮箱已存在")
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Name:     name,
		Phone:    phone,
		Role:     role,
		Status:   models.UserStatusActive,
	}

	// 设置密码
	if err := user.SetPassword(password); err != nil {
		return nil, fmt.Errorf("密码加密失败: %v", err)
	}

	err := s.db.Create(user).Error
	return user, err
}

// GetByID 根据ID获取用户
func (s *UserService) GetByID(id uint) (*models.User, error) {
	var user models.User
	err := s.db.First(&user, id).Error
	return &user, err
}

// GetByUsername 根据用户名获取用户
func (s *UserService) GetByUsername(username string) (*models.User, error) {
	var user models.User
	err := s.db.Where("username = ?", username).First(&user).Error
	return &user, err
}

// GetWithFiltersAndPage 分页获取用户（支持角色、状态、关键字筛选）
func (s *UserService) GetWithFiltersAndPage(role, status, keyword string, page, pageSize int) ([]*models.User, int64, error) {
	var users []*models.User
	var total int64

	query := s.db.Model(&models.User{})

	if role != "" {
		query = query.Where("role = ?", role)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if keyword != "" {
		like := "%" + keyword + "%"
		query = query.Where("username LIKE ? OR name LIKE ? OR email LIKE ?", like, like, like)
	}

	// 计算总数
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// 分页查询
	offset := (page - 1) * pageSize
	err := query.Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&users).Error
	if err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// Update 更新用户基础信息
func (s *UserService) Update(id uint, name, email string, phone *string, status string) (*models.User, error) {
	if err := s.ValidateUpdateParams(name, email, status); err != nil {
		return nil, err
	}

	user, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	// 邮箱变更时检查重复
	if email != user.Email {
		var emailCount int64
		s.db.Model(&models.User{}).Where("email = ? AND id != ?", email, id).Count(&emailCount)
		if emailCount > 0 {
			return nil, fmt.Errorf("邮箱已存在")
		}
	}

	user.Name = name
	user.Email = email
	user.Phone = phone
	user.Status = status

	err = s.db.Save(user).Error
	return user, err
}

// Delete 删除用户
func (s *UserService) Delete(id uint) error {
	return s.db.Delete(&models.User{}, id).Error
}

// ResetPassword 重置密码
func (s *UserService) ResetPassword(id uint, newPassword string) (*models.User, error) {
	if err := s.ValidatePassword(newPassword); err != nil {
		return nil, err
	}

	user, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if err := user.SetPassword(newPassword); err != nil {
		return nil, fmt.Errorf("密码加密失败: %v", err)
	}

	err = s.db.Save(user).Error
	return user, err
}

// UpdateLastLogin 更新最后登录时间
func (s *UserService) UpdateLastLogin(id uint) error {
	now := time.Now()
	return s.db.Model(&models.User{}).Where("id = ?", id).Update("last_login_at", &now).Error
}

// ========== 认证方法 ==========

// Authenticate 验证用户名和密码，成功返回用户
func (s *UserService) Authenticate(username, password string) (*models.User, error) {
	user, err := s.GetByUsername(username)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("用户名或密码错误")
		}
		return nil, err
	}

	if !user.CheckPassword(password) {
		return nil, fmt.Errorf("用户名或密码错误")
	}

	if user.Status != models.UserStatusActive {
		return nil, fmt.Errorf("账号已被禁用")
	}

	return user, nil
}

// ========== 权限方法 ==========

// HasPermission 检查用户角色是否持有指定权限
func (s *UserService) HasPermission(userID uint, permission rbac.Permission) (bool, error) {
	user, err := s.GetByID(userID)
	if err != nil {
		return false, err
	}
	return rbac.HasPermission(rbac.Role(user.Role), permission), nil
}

// GetUserPermissions 获取用户角色的全部权限
func (s *UserService) GetUserPermissions(userID uint) ([]rbac.Permission, error) {
	user, err := s.GetByID(userID)
	if err != nil {
		return nil, err
	}

	set := rbac.PermissionsForRole(rbac.Role(user.Role))
	permissions := make([]rbac.Permission, 0, len(set))
	for p := range set {
		permissions = append(permissions, p)
	}
	return permissions, nil
}

// ========== 状态管理方法 ==========

// Activate 激活用户
func (s *UserService) Activate(id uint) (*models.User, error) {
	return s.setStatus(id, models.UserStatusActive)
}

// Deactivate 停用用户
func (s *UserService) Deactivate(id uint) (*models.User, error) {
	return s.setStatus(id, models.UserStatusInactive)
}

// Lock 锁定用户
func (s *UserService) Lock(id uint) (*models.User, error) {
	return s.setStatus(id, models.UserStatusLocked)
}

func (s *UserService) setStatus(id uint, status string) (*models.User, error) {
	user, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	user.Status = status
	err = s.db.Save(user).Error
	return user, err
}

// ========== 统计方法 ==========

// GetStats 获取用户统计信息
func (s *UserService) GetStats() (*UserStats, error) {
	stats := &UserStats{}

	if err := s.db.Model(&models.User{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	s.db.Model(&models.User{}).Where("status = ?", models.UserStatusActive).Count(&stats.Active)
	s.db.Model(&models.User{}).Where("status = ?", models.UserStatusInactive).Count(&stats.Inactive)
	s.db.Model(&models.User{}).Where("status = ?", models.UserStatusLocked).Count(&stats.Locked)
	s.db.Model(&models.User{}).Where("role = ?", string(rbac.RoleTeacher)).Count(&stats.Teachers)
	s.db.Model(&models.User{}).Where("role = ?", string(rbac.RoleStudent)).Count(&stats.Students)
	s.db.Model(&models.User{}).Where("role = ?", string(rbac.RoleParent)).Count(&stats.Parents)

	return stats, nil
}

// ========== 验证方法 ==========

// ValidateUsername 验证用户名格式
func (s *UserService) ValidateUsername(username string) bool {
	length := utf8.RuneCountInString(username)
	if length < 3 || length > 50 {
		return false
	}
	return !strings.ContainsAny(username, " \t\n")
}

// ValidateEmail 验证邮箱格式
func (s *UserService) ValidateEmail(email string) bool {
	return strings.Contains(email, "@") && len(email) <= 100
}

// ValidatePassword 验证密码强度
func (s *UserService) ValidatePassword(password string) error {
	if len(password) < 6 {
		return fmt.Errorf("密码长度不能少于6位")
	}
	if len(password) > 72 {
		return fmt.Errorf("密码长度不能超过72位")
	}
	return nil
}

// ValidateRole 验证角色是否合法
func (s *UserService) ValidateRole(role string) bool {
	switch rbac.Role(role) {
	case rbac.RoleAdmin, rbac.RoleTeacher, rbac.RoleStudent, rbac.RoleParent:
		return true
	}
	return false
}

// ValidateCreateParams 验证创建参数
func (s *UserService) ValidateCreateParams(username, email, password, name, role string) error {
	if !s.ValidateUsername(username) {
		return fmt.Errorf("用户名格式不正确")
	}
	if !s.ValidateEmail(email) {
		return fmt.Errorf("邮箱格式不正确")
	}
	if err := s.ValidatePassword(password); err != nil {
		return err
	}
	if utf8.RuneCountInString(name) == 0 || utf8.RuneCountInString(name) > 100 {
		return fmt.Errorf("姓名不能为空且不能超过100个字符")
	}
	if !s.ValidateRole(role) {
		return fmt.Errorf("角色不正确")
	}
	return nil
}

// ValidateUpdateParams 验证更新参数
func (s *UserService) ValidateUpdateParams(name, email, status string) error {
	if utf8.RuneCountInString(name) == 0 || utf8.RuneCountInString(name) > 100 {
		return fmt.Errorf("姓名不能为空且不能超过100个字符")
	}
	if !s.ValidateEmail(email) {
		return fmt.Errorf("邮箱格式不正确")
	}
	switch status {
	case models.UserStatusActive, models.UserStatusInactive, models.UserStatusLocked:
	default:
		return fmt.Errorf("状态不正确")
	}
	return nil
}
