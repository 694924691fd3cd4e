package services

import (
	"fmt"

	"schoolhub/internal/database"
	"schoolhub/internal/models"

	"gorm.io/gorm"
)

type InventoryService struct {
	db *gorm.DB
}

// 库存低于该数量时自动标记为low_stock
const lowStockThreshold = 5

func NewInventoryService() *InventoryService {
	return &InventoryService{
		db: database.GetDB(),
	}
}

// Create 创建库存物品
func (s *InventoryService) Create(name, code, category string, quantity int, unitPrice float64, location string) (*models.InventoryItem, error) {
	switch category {
	case models.InventoryCategoryEquipment, models.InventoryCategoryBook,
		models.InventoryCategoryFurniture, models.InventoryCategoryConsumable:
	default:
		return nil, fmt.Errorf("物品分类不正确")
	}
	if quantity < 0 {
		return nil, fmt.Errorf("数量不能为负数")
	}

	var codeCount int64
	s.db.Model(&models.InventoryItem{}).Where("code = ?", code).Count(&codeCount)
	if codeCount > 0 {
		return nil, fmt.Errorf("物品编码已存在")
	}

	item := &models.InventoryItem{
		Name:      name,
		Code:      code,
		Category:  category,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		Location:  location,
		Status:    statusForQuantity(quantity),
	}

	err := s.db.Create(item).Error
	return item, err
}

// GetByID 根据ID获取物品
func (s *InventoryService) GetByID(id uint) (*models.InventoryItem, error) {
	var item models.InventoryItem
	err := s.db.First(&item, id).Error
	return &item, err
}

// GetWithFiltersAndPage 分页查询物品
func (s *InventoryService) GetWithFiltersAndPage(category, status, keyword string, page, pageSize int) ([]*models.InventoryItem, int64, error) {
	var items []*models.InventoryItem
	var total int64

	query := s.db.Model(&models.InventoryItem{})

	if category != "" {
		query = query.Where("category = ?", category)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if keyword != "" {
		like := "%" + keyword + "%"
		query = query.Where("name LIKE ? OR code LIKE ?", like, like)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Order("code").Offset(offset).Limit(pageSize).Find(&items).Error
	if err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

// Update 更新物品信息
func (s *InventoryService) Update(id uint, name string, unitPrice float64, location string) (*models.InventoryItem, error) {
	item, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	item.Name = name
	item.UnitPrice = unitPrice
	item.Location = location

	err = s.db.Save(item).Error
	return item, err
}

// AdjustQuantity 调整库存数量（正数入库，负数出库），状态随数量自动流转
func (s *InventoryService) AdjustQuantity(id uint, delta int) (*models.InventoryItem, error) {
	item, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if item.Status == models.InventoryStatusRetired {
		return nil, fmt.Errorf("已报废物品不能调整库存")
	}

	newQuantity := item.Quantity + delta
	if newQuantity < 0 {
		return nil, fmt.Errorf("库存不足，当前数量%d", item.Quantity)
	}

	item.Quantity = newQuantity
	item.Status = statusForQuantity(newQuantity)

	err = s.db.Save(item).Error
	return item, err
}

// Retire 报废物品
func (s *InventoryService) Retire(id uint) (*models.InventoryItem, error) {
	item, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	item.Status = models.InventoryStatusRetired
	err = s.db.Save(item).Error
	return item, err
}

// Delete 删除物品
func (s *InventoryService) Delete(id uint) error {
	return s.db.Delete(&models.InventoryItem{}, id).Error
}

func statusForQuantity(quantity int) string {
	switch {
	case quantity == 0:
		return models.InventoryStatusOutOfStock
	case quantity < lowStockThreshold:
		return models.InventoryStatusLowStock
	default:
		return models.InventoryStatusAvailable
	}
}
