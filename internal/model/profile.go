package model

// A Profile holds the seller details of a user.
// There is at most one per user and its ID is the owning user's ID.
// It does not exist until the first save; saves use merge semantics so that
// updating one field never clears its siblings.
type Profile struct {
	Base `msgpack:",inline" storm:"inline"`

	Username  string `json:"username"   msgpack:"username"`
	Contact   string `json:"contact"    msgpack:"contact"`
	PaymentID string `json:"payment_id" msgpack:"payment_id"`
}
