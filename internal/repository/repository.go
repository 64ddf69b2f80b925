// Package repository holds the persistence layer. Each entity gets its own
// repository over a shared *sql.DB; all SQL lives here and nowhere else.
package repository

import "encoding/json"

// nullIfEmpty maps "" to NULL so the partial unique indexes on recipients
// never collide on empty strings.
func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func marshalStrings(v []string) ([]byte, error) {
	if v == nil {
		v = []string{}
	}
	return json.Marshal(v)
}

func unmarshalStrings(data []byte) []string {
	if len(data) == 0 {
		return nil
	}
	var out []string
	if err := json.Unmarshal(data, &out); err != nil {
		return nil
	}
	return out
}
