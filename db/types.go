package db

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Document is a structured value stored as JSON in a partition.
// It implements the sql.Scanner and driver.Valuer interfaces to handle database serialization.
type Document map[string]any

// Scan implements the sql.Scanner interface, allowing a Document to be read from the database.
func (d *Document) Scan(value interface{}) error {
	if value == nil {
		*d = make(Document)
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T", v)
	}

	if err := json.Unmarshal(data, d); err != nil {
		return fmt.Errorf("unmarshalling document : %w", err)
	}
	return nil
}

// Value implements the driver.Valuer interface, allowing a Document to be written to the database.
func (d Document) Value() (driver.Value, error) {
	if len(d) == 0 {
		return []byte("{}"), nil
	}
	return json.Marshal(d)
}
