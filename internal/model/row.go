package model

// Column is one named value of a DatabaseRow.
type Column struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// DatabaseRow is an upsert target: a table, a deterministic primary key, and ordered columns.
type DatabaseRow struct {
	Table   string   `json:"table"`
	PK      string   `json:"pk"`
	Columns []Column `json:"columns"`
}

// Get returns the value of the named column.
func (r DatabaseRow) Get(name string) (string, bool) {
	for _, col := range r.Columns {
		if col.Name == name {
			return col.Value, true
		}
	}
	return "", false
}

// TableSchema lists the fixed column set of a row table, excluding the primary key.
type TableSchema struct {
	Name    string
	Columns []string
}
