package upstream

import "encoding/json"

// Wire shapes of the upstream inventory/booking API. Responses arrive in
// a JSON envelope whose status/error pair categorizes the failure.

type envelope struct {
	Data   json.RawMessage `json:"data"`
	Status string          `json:"status"`
	Error  string          `json:"error,omitempty"`
}

type guestPayload struct {
	Adults   int   `json:"adults"`
	Children []int `json:"children"`
}

type pricePayload struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

type paymentOptionPayload struct {
	Current  pricePayload `json:"current"`
	Original pricePayload `json:"original"`
}

type prebookRequest struct {
	Hash                 string       `json:"hash"`
	Guests               guestPayload `json:"guests"`
	Residency            string       `json:"residency"`
	PriceIncreasePercent float64      `json:"price_increase_percent"`
}

type prebookData struct {
	Hash           string                 `json:"hash"`
	PriceChanged   bool                   `json:"price_changed"`
	PaymentOptions []paymentOptionPayload `json:"payment_options"`
}

type bookingFormRequest struct {
	Hash           string `json:"hash"`
	PartnerOrderID string `json:"partner_order_id"`
}

type bookingFormData struct {
	OrderID string          `json:"order_id"`
	ItemID  string          `json:"item_id"`
	Form    json.RawMessage `json:"form"`
}

type finishRequest struct {
	OrderID        string         `json:"order_id"`
	ItemID         string         `json:"item_id"`
	PartnerOrderID string         `json:"partner_order_id"`
	PaymentType    string         `json:"payment_type"`
	Guests         guestPayload   `json:"guests"`
	User           contactPayload `json:"user"`
}

type contactPayload struct {
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

type finishStatusRequest struct {
	OrderID string `json:"order_id"`
}

type finishStatusData struct {
	Status string `json:"status"`
}
