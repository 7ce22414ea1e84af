package model

// An Item represents a surplus inventory listing and the rendered API response.
//
// Username, Contact and PaymentID are denormalized from the creator's profile
// when the item is created. They are creation-time snapshots and are never
// rewritten when the profile changes afterwards.
type Item struct {
	Base `msgpack:",inline" storm:"inline"`

	UserID      string `json:"user_uuid"             msgpack:"user_id"     storm:"index"`
	Name        string `json:"name"                  msgpack:"name"`
	Quantity    string `json:"quantity"              msgpack:"quantity"`
	Price       string `json:"price"                 msgpack:"price"`
	Location    string `json:"location,omitempty"    msgpack:"location"`
	Description string `json:"description,omitempty" msgpack:"description"`
	Username    string `json:"username"              msgpack:"username"`
	Contact     string `json:"contact"               msgpack:"contact"`
	PaymentID   string `json:"payment_id"            msgpack:"payment_id"`
}
