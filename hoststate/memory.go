package hoststate

import (
	"encoding/hex"
	"encoding/json"
	"os"
	"sync"

	"github.com/pkg/errors"

	"investment_contract/sdk"
)

// MemoryState keeps every tier in one map. When a snapshot file is set, the full map is
// dumped to it after each Apply so a local run can be inspected or resumed.
type MemoryState struct {
	mu       sync.RWMutex
	db       map[string]sdk.Entry
	filename string
}

type snapshotEntry struct {
	Tier      sdk.Tier `json:"tier"`
	Key       string   `json:"key"`
	Value     string   `json:"value"`
	LiveUntil int64    `json:"live_until"`
}

func NewMemoryState() *MemoryState {
	return &MemoryState{db: make(map[string]sdk.Entry)}
}

// NewMemoryStateWithSnapshot loads filename when it exists and keeps it updated afterwards.
func NewMemoryStateWithSnapshot(filename string) (*MemoryState, error) {
	m := NewMemoryState()
	m.filename = filename
	if err := m.loadFromFile(); err != nil {
		return nil, err
	}
	return m, nil
}

func memKey(tier sdk.Tier, key string) string {
	return string([]byte{byte(tier)}) + key
}

func (m *MemoryState) Get(tier sdk.Tier, key string) (*sdk.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.db[memKey(tier, key)]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

// Apply stages the batch on a copy of the map. The copy replaces the live map only
// after the snapshot (when configured) was written, so a failed write changes nothing.
func (m *MemoryState) Apply(writes []sdk.Write) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	next := make(map[string]sdk.Entry, len(m.db)+len(writes))
	for k, e := range m.db {
		next[k] = e
	}
	for _, w := range writes {
		k := memKey(w.Tier, w.Key)
		if w.Value == nil {
			delete(next, k)
			continue
		}
		next[k] = sdk.Entry{Value: *w.Value, LiveUntil: w.LiveUntil}
	}
	if m.filename != "" {
		if err := saveToFile(m.filename, next); err != nil {
			return err
		}
	}
	m.db = next
	return nil
}

// Len reports how many entries are stored across all tiers.
func (m *MemoryState) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.db)
}

func (m *MemoryState) Close() error {
	return nil
}

// saveToFile writes db to a JSON file. Keys carry packed integers so they are hex encoded.
func saveToFile(filename string, db map[string]sdk.Entry) error {
	out := make([]snapshotEntry, 0, len(db))
	for k, e := range db {
		out = append(out, snapshotEntry{
			Tier:      sdk.Tier(k[0]),
			Key:       hex.EncodeToString([]byte(k[1:])),
			Value:     e.Value,
			LiveUntil: e.LiveUntil,
		})
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode snapshot")
	}
	return errors.Wrap(os.WriteFile(filename, data, 0o644), "failed to write snapshot")
}

func (m *MemoryState) loadFromFile() error {
	data, err := os.ReadFile(m.filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrap(err, "failed to read snapshot")
	}
	var in []snapshotEntry
	if err := json.Unmarshal(data, &in); err != nil {
		return errors.Wrap(err, "failed to decode snapshot")
	}
	for _, e := range in {
		key, err := hex.DecodeString(e.Key)
		if err != nil {
			return errors.Wrapf(err, "bad snapshot key %q", e.Key)
		}
		m.db[memKey(e.Tier, string(key))] = sdk.Entry{Value: e.Value, LiveUntil: e.LiveUntil}
	}
	return nil
}
