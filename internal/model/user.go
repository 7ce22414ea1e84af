package model

// A User represents a registered identity.
// Only the attributes the marketplace consumes are kept: a unique email used
// for sign-in and an optional display name used to seed profile defaults.
type User struct {
	Base `msgpack:",inline" storm:"inline"`

	Email       string `json:"email"                  msgpack:"email"        storm:"unique"`
	Password    string `json:"-"                      msgpack:"password"`
	DisplayName string `json:"display_name,omitempty" msgpack:"display_name"`
}
