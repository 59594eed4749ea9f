package vm

// Entry is one slot of a Table. An empty slot has Key == nil and
// Value == NilVal(); a tombstone (a deleted slot that must not break a
// probe sequence) has Key == nil and Value == BoolVal(true).
type Entry struct {
	Key   *StringObj
	Value Value
}

func (e Entry) isEmpty() bool     { return e.Key == nil && e.Value.Type == ValNil }
func (e Entry) isTombstone() bool { return e.Key == nil && e.Value.Type == ValBool && e.Value.Bool }

const tableMaxLoad = 0.75

// Table is an open-addressed hash table keyed by interned strings.
// Collisions are resolved by linear probing; deletions leave a
// tombstone so later probes don't see a false miss.
type Table struct {
	// occupied counts slots that are live or tombstoned: exactly the
	// quantity the 0.75 load-factor check must bound, since a tombstone
	// still occupies a probe slot.
	occupied int
	entries  []Entry
}

func NewTable() *Table {
	return &Table{}
}

// Count returns the number of live (non-tombstone) entries.
func (t *Table) Count() int {
	live := 0
	for _, e := range t.entries {
		if e.Key != nil {
			live++
		}
	}
	return live
}

// findEntry probes entries for key starting at hash%cap, stopping at
// the first of: a slot whose key matches (hit), a genuinely empty slot
// (definitive miss — returns the first tombstone seen instead, if any),
// or remembers the first tombstone encountered along the way.
func findEntry(entries []Entry, key *StringObj) *Entry {
	capacity := len(entries)
	index := int(key.Hash) % capacity
	var tombstone *Entry

	for {
		entry := &entries[index]
		if entry.Key == nil {
			if entry.isEmpty() {
				if tombstone != nil {
					return tombstone
				}
				return entry
			}
			// Tombstone.
			if tombstone == nil {
				tombstone = entry
			}
		} else if entry.Key == key {
			return entry
		}
		index = (index + 1) % capacity
	}
}

func (t *Table) adjustCapacity(capacity int) {
	entries := make([]Entry, capacity)
	for i := range entries {
		entries[i] = Entry{Value: NilVal()}
	}

	t.occupied = 0
	for _, old := range t.entries {
		if old.Key == nil {
			continue
		}
		dest := findEntry(entries, old.Key)
		dest.Key = old.Key
		dest.Value = old.Value
		t.occupied++
	}

	t.entries = entries
}

// Set stores value under key, growing the table first if the new entry
// would push the load factor past 0.75. Returns true if key was not
// already present.
func (t *Table) Set(key *StringObj, value Value) bool {
	if float64(t.occupied+1) > float64(len(t.entries))*tableMaxLoad {
		capacity := growCapacity(len(t.entries))
		t.adjustCapacity(capacity)
	}

	entry := findEntry(t.entries, key)
	isNewKey := entry.Key == nil
	if isNewKey && entry.isEmpty() {
		t.occupied++
	}

	entry.Key = key
	entry.Value = value
	return isNewKey
}

// Get looks up key, returning (value, true) if present.
func (t *Table) Get(key *StringObj) (Value, bool) {
	if len(t.entries) == 0 {
		return NilVal(), false
	}
	entry := findEntry(t.entries, key)
	if entry.Key == nil {
		return NilVal(), false
	}
	return entry.Value, true
}

// Delete replaces key's entry with a tombstone. occupied is intentionally
// left unchanged: tombstones still occupy a probe slot and must keep
// counting toward the load factor.
func (t *Table) Delete(key *StringObj) bool {
	if len(t.entries) == 0 {
		return false
	}
	entry := findEntry(t.entries, key)
	if entry.Key == nil {
		return false
	}
	entry.Key = nil
	entry.Value = BoolVal(true)
	return true
}

// FindString is the interning primitive: it probes by (length, hash,
// bytes) instead of key identity, so it can find a canonical StringObj
// before one has been allocated for these bytes.
func (t *Table) FindString(chars []byte, hash uint32) *StringObj {
	if len(t.entries) == 0 {
		return nil
	}
	capacity := len(t.entries)
	index := int(hash) % capacity

	for {
		entry := &t.entries[index]
		if entry.Key == nil {
			if entry.isEmpty() {
				return nil
			}
		} else if entry.Key.Hash == hash && len(entry.Key.Chars) == len(chars) && bytesEqual(entry.Key.Chars, chars) {
			return entry.Key
		}
		index = (index + 1) % capacity
	}
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// growCapacity doubles cap, with a floor of 8.
func growCapacity(capacity int) int {
	if capacity < 8 {
		return 8
	}
	return capacity * 2
}
