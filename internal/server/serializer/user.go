package serializer

import "github.com/surplusmkt/surplus/internal/model"

// User serializes the render of a user.
func User(m *model.User) map[string]interface{} {
	return map[string]interface{}{
		"uuid":         m.ID,
		"email":        m.Email,
		"display_name": m.DisplayName,
		"created_at":   m.CreatedAt,
		"updated_at":   m.UpdatedAt,
	}
}
