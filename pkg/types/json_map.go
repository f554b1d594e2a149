package types

// JSONMap holds loosely structured metadata persisted as jsonb.
type JSONMap map[string]any

// GetString returns the string stored under key, or empty when absent or
// not a string.
func (m JSONMap) GetString(key string) string {
	if m == nil {
		return ""
	}
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}
