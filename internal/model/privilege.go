package model

// Privilege represents a permission that can be assigned to users
type Privilege struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // e.g., "product:create"
	Name string `gorm:"type:varchar(100)" json:"name"`                     // e.g., "Create Product"
}

// Default privileges for the system
var DefaultPrivileges = []Privilege{
	// User management
	{Code: "user:view", Name: "View User"},
	{Code: "user:create", Name: "Create User"},
	{Code: "user:update", Name: "Update User"},
	{Code: "user:delete", Name: "Delete User"},
	{Code: "user:update_privilege", Name: "Update User Privileges"},
	// Product management
	{Code: "product:view", Name: "View Product"},
	{Code: "product:create", Name: "Create Product"},
	{Code: "product:update", Name: "Update Product"},
	{Code: "product:delete", Name: "Delete Product"},
	// Stock ledger
	{Code: "stock:adjust", Name: "Adjust Stock"},
	{Code: "stock:view", Name: "View Stock History"},
	// Order management
	{Code: "order:view", Name: "View Order"},
	{Code: "order:create", Name: "Create Order"},
	{Code: "order:update", Name: "Update Order"},
	{Code: "order:delete", Name: "Delete Order"},
	// Customer management
	{Code: "customer:view", Name: "View Customer"},
	{Code: "customer:create", Name: "Create Customer"},
	{Code: "customer:update", Name: "Update Customer"},
	{Code: "customer:delete", Name: "Delete Customer"},
	// Coupons and affiliates
	{Code: "coupon:manage", Name: "Manage Coupons"},
	{Code: "affiliate:manage", Name: "Manage Affiliates"},
	// Bulk import
	{Code: "import:run", Name: "Run Bulk Import"},
	// Dashboard
	{Code: "dashboard:view", Name: "View Dashboard"},
	// Shift management
	{Code: "shift:view", Name: "View Shift"},
	{Code: "shift:create", Name: "Create Shift"},
	{Code: "shift:update", Name: "Update Shift"},
	{Code: "shift:delete", Name: "Delete Shift"},
}
