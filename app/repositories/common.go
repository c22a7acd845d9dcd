package repositories

import (
	"encoding/json"
	"fmt"
)

// PostKeyPrefix prefixes every post key; the rest of the key is the slug.
const PostKeyPrefix = "post:"

func postKey(slug string) []byte {
	return []byte(PostKeyPrefix + slug)
}

// marshalEntity marshals an entity to JSON
func marshalEntity(v interface{}) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal entity: %w", err)
	}
	return data, nil
}

// unmarshalEntity unmarshals JSON data into an entity
func unmarshalEntity(data []byte, v interface{}) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to unmarshal entity: %w", err)
	}
	return nil
}
