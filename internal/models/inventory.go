package models

// InventoryItem 库存物品模型（教学设备、图书等）
type InventoryItem struct {
	BaseModel
	Name      string  `json:"name" gorm:"not null;size:100"`
	Code      string  `json:"code" gorm:"not null;uniqueIndex;size:50"`
	Category  string  `json:"category" gorm:"not null;size:30"` // equipment, book, furniture, consumable
	Quantity  int     `json:"quantity" gorm:"not null;default:0"`
	UnitPrice float64 `json:"unit_price"`
	Location  string  `json:"location" gorm:"size:100"`
	Status    string  `json:"status" gorm:"not null;size:20;default:'available'"` // available, low_stock, out_of_stock, retired
	Remark    string  `json:"remark" gorm:"size:255"`
}

// TableName 表名
func (i *InventoryItem) TableName() string {
	return "inventory_items"
}

// 物品分类常量
const (
	InventoryCategoryEquipment  = "equipment"
	InventoryCategoryBook       = "book"
	InventoryCategoryFurniture  = "furniture"
	InventoryCategoryConsumable = "consumable"
)

// 物品状态常量
const (
	InventoryStatusAvailable  = "available"
	InventoryStatusLowStock   = "low_stock"
	InventoryStatusOutOfStock = "out_of_stock"
	InventoryStatusRetired    = "retired"
)
