package models

type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	FirstName string `json:"first_name" binding:"required,min=2"`
	LastName  string `json:"last_name" binding:"required,min=2"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AddCartItemRequest struct {
	ProductID int `json:"product_id" binding:"required"`
	Quantity  int `json:"quantity" binding:"required,min=1"`
}

type DecrementCartItemRequest struct {
	ProductID int `json:"product_id" binding:"required"`
}

type CreateReviewRequest struct {
	ProductID int     `json:"product_id" binding:"required"`
	OrderID   int     `json:"order_id" binding:"required"`
	Rating    float64 `json:"rating" binding:"required,min=1,max=5"`
	Comment   string  `json:"comment"`
}

type LikeProductRequest struct {
	ProductID int `json:"product_id" binding:"required"`
}

type CreateAddressRequest struct {
	FullName    string `json:"full_name" binding:"required"`
	PhoneNumber string `json:"phone_number" binding:"required"`
	Address     string `json:"address" binding:"required"`
	City        string `json:"city" binding:"required"`
	State       string `json:"state"`
	PostalCode  string `json:"postal_code" binding:"required"`
	Country     string `json:"country" binding:"required"`
	AddressType string `json:"address_type" binding:"omitempty,oneof=home work other"`
	IsDefault   bool   `json:"is_default"`
}

type CreateProductRequest struct {
	Title       string   `json:"title" form:"title" binding:"required"`
	Description string   `json:"description" form:"description" binding:"required"`
	CategoryID  int      `json:"category_id" form:"category_id" binding:"required"`
	Price       float64  `json:"price" form:"price" binding:"required,gt=0"`
	SalePrice   *float64 `json:"sale_price" form:"sale_price"`
	StockCount  int      `json:"stock_count" form:"stock_count" binding:"min=0"`
	CargoWeight float64  `json:"cargo_weight" form:"cargo_weight" binding:"required,gt=0"`
	Tags        []string `json:"tags" form:"tags"`
}

type UpdateProductRequest struct {
	Title       string   `json:"title" form:"title"`
	Description string   `json:"description" form:"description"`
	CategoryID  int      `json:"category_id" form:"category_id"`
	Price       float64  `json:"price" form:"price"`
	SalePrice   *float64 `json:"sale_price" form:"sale_price"`
	StockCount  *int     `json:"stock_count" form:"stock_count"`
	CargoWeight float64  `json:"cargo_weight" form:"cargo_weight"`
	Tags        []string `json:"tags" form:"tags"`
}

type CreateSubscriptionRequest struct {
	PaymentMethodID string `json:"payment_method_id" binding:"required"`
}

type StartTrialRequest struct {
	TrialProductID int `json:"trial_product_id" binding:"required"`
}
