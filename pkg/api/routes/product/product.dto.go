package product

type CreateProductRequest struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Description *string `json:"description"`
	Price       float64 `json:"price" validate:"gte=0"`
	Quantity    int     `json:"quantity" validate:"gte=0"`
	CategoryID  uint    `json:"categoryId" validate:"required"`
}

type UpdateProductRequest struct {
	Name        *string  `json:"name" validate:"omitempty,max=255"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
	CategoryID  *uint    `json:"categoryId"`
}

type UpdateStockRequest struct {
	Quantity int `json:"quantity" validate:"gte=0"`
}
