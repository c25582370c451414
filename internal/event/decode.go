package event

import "encoding/json"

// DecodePayload returns the payload as T. Payloads published in process are
// already typed; payloads read back from JSON arrive as maps and are
// converted through a JSON round trip.
func DecodePayload[T any](payload interface{}) (T, error) {
	if typed, ok := payload.(T); ok {
		return typed, nil
	}
	var out T
	raw, err := json.Marshal(payload)
	if err != nil {
		return out, err
	}
	err = json.Unmarshal(raw, &out)
	return out, err
}
