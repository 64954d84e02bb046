package storage

import "encoding/json"

// JSON payloads keep the sqlite schema stable while the report shape evolves.

func encodeBatchSummary(s BatchSummary) ([]byte, error) {
	return json.Marshal(s)
}

func decodeBatchSummary(payload []byte) (BatchSummary, error) {
	var s BatchSummary
	err := json.Unmarshal(payload, &s)
	return s, err
}

func encodeComparison(r ComparisonRecord) ([]byte, error) {
	return json.Marshal(r)
}

func decodeComparison(payload []byte) (ComparisonRecord, error) {
	var r ComparisonRecord
	err := json.Unmarshal(payload, &r)
	return r, err
}
