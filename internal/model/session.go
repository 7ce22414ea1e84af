package model

import (
	"time"
)

// A Session represents a database record.
// Token rotation is handled by the session manager; ExpireAt bounds the
// refresh token lifetime.
type Session struct {
	Base `msgpack:",inline" storm:"inline"`

	ExpireAt     time.Time `json:"expire_at"  msgpack:"expire_at"`
	UserID       string    `json:"user_uuid"  msgpack:"user_id"       storm:"index"`
	UserAgent    string    `json:"user_agent" msgpack:"user_agent"`
	AccessToken  string    `json:"-"          msgpack:"access_token"  storm:"unique"`
	RefreshToken string    `json:"-"          msgpack:"refresh_token" storm:"unique"`
}
