package productservice

// Product модель продукта из ProductService (каталог инструментов)
type Product struct {
	ID      int64  `json:"id"`
	OwnerID int64  `json:"owner_id"`
	Name    string `json:"name"`
	Slug    string `json:"slug"`
	// IsPremium признак премиального тарифа владельца продукта
	// Premium-продукты обходят non-premium суб-квоту слота
	IsPremium bool `json:"is_premium"`
	// Published true после фактического запуска
	Published bool `json:"published"`
}

// ErrorResponse модель ошибки от ProductService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
