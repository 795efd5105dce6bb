package testdata

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

//go:embed corpus.json
var corpusJSON []byte

// CorpusEntry is a collector label with its expected classification.
type CorpusEntry struct {
	Label         string `json:"label"`
	Collector     string `json:"collector"`
	Concurrent    bool   `json:"concurrent"`
	ExpectedCause string `json:"expected_cause"`
	ExpectedPhase string `json:"expected_phase"`
	ExpectedMixed bool   `json:"expected_mixed"`
	Description   string `json:"description"`
}

// LoadCorpus parses the embedded corpus.json and returns all entries.
func LoadCorpus() ([]CorpusEntry, error) {
	var entries []CorpusEntry
	if err := json.Unmarshal(corpusJSON, &entries); err != nil {
		return nil, fmt.Errorf("parse corpus.json: %w", err)
	}
	return entries, nil
}
