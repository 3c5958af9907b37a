package events

import (
	"encoding/json"
	"fmt"
)

// Decode разбирает JSON-тело сообщения в T
func Decode[T any](body []byte) (T, error) {
	var t T
	if err := json.Unmarshal(body, &t); err != nil {
		var zero T
		return zero, fmt.Errorf("decode payload failed: %w", err)
	}
	return t, nil
}
