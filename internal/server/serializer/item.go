package serializer

import "github.com/surplusmkt/surplus/internal/model"

// Item serializes the render of an item.
func Item(m *model.Item) map[string]interface{} {
	return map[string]interface{}{
		"uuid":        m.ID,
		"user_uuid":   m.UserID,
		"name":        m.Name,
		"quantity":    m.Quantity,
		"price":       m.Price,
		"location":    m.Location,
		"description": m.Description,
		"username":    m.Username,
		"contact":     m.Contact,
		"payment_id":  m.PaymentID,
		"created_at":  m.CreatedAt,
	}
}

// Items serializes the render of an item collection snapshot.
func Items(m []*model.Item) []map[string]interface{} {
	items := make([]map[string]interface{}, len(m))
	for i, item := range m {
		items[i] = Item(item)
	}
	return items
}
