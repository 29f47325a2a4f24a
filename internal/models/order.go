package models

import "time"

// Order 订单（上游业务表，本服务只读）
type Order struct {
	ID             uint       `gorm:"primarykey" json:"id"`
	OrderNo        string     `gorm:"type:varchar(64);uniqueIndex;not null" json:"orderNo"`
	OrganizationID uint       `gorm:"not null;index" json:"organizationId"` // 所属门店组织
	VendorID       uint       `gorm:"not null;index" json:"vendorId"`       // 所属商户
	Status         string     `gorm:"type:varchar(20);not null;index" json:"status"`
	TotalAmount    Money      `gorm:"type:decimal(20,2);not null;default:0" json:"totalAmount"`
	Currency       string     `gorm:"type:varchar(8);not null;default:'KRW'" json:"currency"`
	PaidAt         *time.Time `gorm:"index" json:"paidAt"`
	CreatedAt      time.Time  `gorm:"index" json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}

// OrderItem 订单项（上游业务表，本服务只读）
type OrderItem struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	OrderID    uint      `gorm:"not null;index" json:"orderId"`
	ProductID  uint      `gorm:"not null;index" json:"productId"`
	SupplierID uint      `gorm:"not null;index" json:"supplierId"`
	Quantity   int       `gorm:"not null;default:1" json:"quantity"`
	UnitPrice  Money     `gorm:"type:decimal(20,2);not null;default:0" json:"unitPrice"`  // 售价
	UnitCost   Money     `gorm:"type:decimal(20,2);not null;default:0" json:"unitCost"`   // 供货成本
	TotalPrice Money     `gorm:"type:decimal(20,2);not null;default:0" json:"totalPrice"` // 小计
	CreatedAt  time.Time `json:"createdAt"`
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "order_items"
}
