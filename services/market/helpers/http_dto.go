package helpers

// Request/Response DTOs
type RegisterUserRequest struct {
	Email    string `json:"email" binding:"required"`
	Name     string `json:"name"`
	PhotoURL string `json:"photo_url"`
}

type CreateProductRequest struct {
	Email       string  `json:"email"`
	Name        string  `json:"name"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	PriceMin    float64 `json:"price_min"`
	PriceMax    float64 `json:"price_max"`
	Image       string  `json:"image"`
}

// UpdateProductRequest is a partial update: nil fields are left untouched on
// the stored record.
type UpdateProductRequest struct {
	Name  *string  `json:"name"`
	Price *float64 `json:"price"`
}

type CreateBidRequest struct {
	Product    string  `json:"product"`
	BuyerEmail string  `json:"buyer_email"`
	BidPrice   float64 `json:"bid_price"`
}

type RegisterUserResponse struct {
	Inserted bool   `json:"inserted"`
	ID       string `json:"id,omitempty"`
	Email    string `json:"email"`
}

type UpdateResponse struct {
	MatchedCount  int64 `json:"matched_count"`
	ModifiedCount int64 `json:"modified_count"`
}

type DeleteResponse struct {
	DeletedCount int64 `json:"deleted_count"`
}
