package models

// Item is one order line. Unknown product ids are reported by the catalog,
// not by validation.
type Item struct {
	ProductID int `json:"productId"`
	Quantity  int `json:"quantity"`
}

// CardData is accepted on checkout and handed to the payment processor
// untouched. It never affects the order result.
type CardData struct {
	Number string `json:"number"`
	Name   string `json:"name"`
	Expiry string `json:"expiry"`
	Cvv    string `json:"cvv"`
}

// Order is the result of a successful checkout. ValorFinal is the sum of
// price × quantity over all items plus freight, rounded to two decimals.
type Order struct {
	UserID        uint    `json:"userId"`
	Items         []Item  `json:"items"`
	Freight       float64 `json:"freight"`
	PaymentMethod string  `json:"paymentMethod"`
	ValorFinal    float64 `json:"valorFinal"`
}
