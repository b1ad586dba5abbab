package snapshot

import (
	"encoding/json"
	"io"

	"github.com/grendeldb/grendel/internal/db"
)

// WriteJSON writes the whole database as one JSON document.
func WriteJSON(w io.Writer, d *db.Database) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(encode(d))
}

// ReadJSON reconstructs a database from a JSON snapshot.
func ReadJSON(r io.Reader, opts ...db.Option) (*db.Database, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, err
	}
	return decode(doc, opts...)
}
