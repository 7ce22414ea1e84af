package serializer

import "github.com/surplusmkt/surplus/internal/model"

// Profile serializes the render of a profile.
func Profile(m *model.Profile) map[string]interface{} {
	return map[string]interface{}{
		"uuid":       m.ID,
		"username":   m.Username,
		"contact":    m.Contact,
		"payment_id": m.PaymentID,
		"updated_at": m.UpdatedAt,
	}
}
