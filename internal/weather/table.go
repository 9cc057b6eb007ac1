package weather

// HistoryTable is an ordered, timestamp indexed series of observations. The
// column set is fixed regardless of which attributes were reported.
type HistoryTable struct {
	Records []ObservationRecord `json:"records"`
}

func NewHistoryTable() *HistoryTable {
	return &HistoryTable{Records: []ObservationRecord{}}
}

// BuildTable runs every raw hourly entry through ExtractRecord, keeping the
// received order. Entries without a timestamp are skipped.
func BuildTable(hourly []map[string]interface{}) (*HistoryTable, error) {
	table := &HistoryTable{Records: make([]ObservationRecord, 0, len(hourly))}
	for _, raw := range hourly {
		record, ok, err := ExtractRecord(raw)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		table.Records = append(table.Records, record)
	}
	return table, nil
}

// Append concatenates other onto t.
func (t *HistoryTable) Append(other *HistoryTable) {
	if other == nil {
		return
	}
	t.Records = append(t.Records, other.Records...)
}

func (t *HistoryTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}

func (t *HistoryTable) Columns() []string {
	return Columns()
}
