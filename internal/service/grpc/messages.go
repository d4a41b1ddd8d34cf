package grpcsvc

import "time"

// Product — товар каталога в ответах API.
type Product struct {
	ID    int    `json:"id"`
	Brand string `json:"brand"`
	Model string `json:"model"`
	Part  string `json:"part"`
	Year  int    `json:"year"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
	Image string `json:"image"`
}

type ListProductsRequest struct {
	Brand string `json:"brand,omitempty"`
	Model string `json:"model,omitempty"`
	Part  string `json:"part,omitempty"`
	Year  string `json:"year,omitempty"`
	Query string `json:"query,omitempty"`
}

type ListProductsResponse struct {
	Products []Product `json:"products"`
	Total    int       `json:"total"`
}

type GetProductRequest struct {
	ID int `json:"id"`
}

type GetProductResponse struct {
	Product Product `json:"product"`
}

// GetFilterOptionsRequest: Models зависят от Brand, Parts от Brand и Model.
type GetFilterOptionsRequest struct {
	Brand string `json:"brand,omitempty"`
	Model string `json:"model,omitempty"`
}

type GetFilterOptionsResponse struct {
	Brands []string `json:"brands"`
	Models []string `json:"models"`
	Parts  []string `json:"parts"`
	Years  []int    `json:"years"`
}

type AddToCartRequest struct {
	ProductID int `json:"product_id"`
}

// SetCartQuantityRequest: если RawQuantity непуст, он разбирается как ввод формы
// и имеет приоритет над Quantity.
type SetCartQuantityRequest struct {
	ProductID   int    `json:"product_id"`
	Quantity    int    `json:"quantity,omitempty"`
	RawQuantity string `json:"raw_quantity,omitempty"`
}

type RemoveFromCartRequest struct {
	ProductID int `json:"product_id"`
}

type ClearCartRequest struct{}

type GetCartRequest struct{}

// CartLine — строка таблицы корзины.
type CartLine struct {
	ProductID int    `json:"product_id"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int    `json:"qty"`
	LineTotal int64  `json:"line_total"`
}

// CartResponse — корзина вместе с расчётом и бейджем.
type CartResponse struct {
	Lines    []CartLine `json:"lines"`
	Subtotal int64      `json:"subtotal"`
	Discount int64      `json:"discount"`
	Tax      int64      `json:"tax"`
	Total    int64      `json:"total"`
	Count    int        `json:"count"`
}

type ConfirmCheckoutRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

type InvoiceItem struct {
	ProductID int    `json:"product_id"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int    `json:"qty"`
}

// Invoice — подтверждённый заказ.
type Invoice struct {
	ID       string        `json:"id"`
	Date     time.Time     `json:"date"`
	Name     string        `json:"name"`
	Address  string        `json:"address"`
	Phone    string        `json:"phone"`
	Items    []InvoiceItem `json:"items"`
	Subtotal int64         `json:"subtotal"`
	Discount int64         `json:"discount"`
	Tax      int64         `json:"tax"`
	Total    int64         `json:"total"`
}

type ConfirmCheckoutResponse struct {
	Invoice Invoice `json:"invoice"`
}

type GetLastInvoiceRequest struct{}

// GetLastInvoiceResponse: Found=false, если заказов ещё не было. Text содержит печатную форму счёта.
type GetLastInvoiceResponse struct {
	Found   bool     `json:"found"`
	Invoice *Invoice `json:"invoice,omitempty"`
	Text    string   `json:"text,omitempty"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
	FullName string `json:"fullname"`
	DOB      string `json:"dob"`
}

type RegisterResponse struct{}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LogoutRequest struct{}

type LogoutResponse struct{}

type CurrentSessionRequest struct{}

type SessionResponse struct {
	LoggedIn bool   `json:"logged_in"`
	Username string `json:"username,omitempty"`
	FullName string `json:"fullname,omitempty"`
	Email    string `json:"email,omitempty"`
}
