package tableview

// record is a row backed by a map, the way the dashboard receives JSON objects.
type record map[string]interface{}

func (r record) RowID() string {
	name, _ := r["name"].(string)
	return name
}

func (r record) FieldValue(field string) (interface{}, bool) {
	v, ok := r[field]
	return v, ok
}

func names(rows []record) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.RowID()
	}
	return out
}

func bac() []record {
	return []record{{"name": "B"}, {"name": "A"}, {"name": "C"}}
}
