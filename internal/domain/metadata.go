package domain

// MetadataVersion is the current schema version for Metadata bags.
const MetadataVersion = 1

// Well-known metadata keys. Values are free-form strings; the key documents
// the expected meaning. Unknown keys are carried through untouched as an
// escape hatch for extension fields.
const (
	// MetaKeyReminderList names the external reminder list the item was
	// imported from.
	MetaKeyReminderList = "reminder_list"
	// MetaKeySourceApp names the application that created the item.
	MetaKeySourceApp = "source_app"
	// MetaKeyNote holds a free-form note attached at import time.
	MetaKeyNote = "note"
)

// Metadata is an explicit, versioned key/value bag replacing the loosely
// typed per-record maps of the legacy store.
type Metadata struct {
	Version int
	Fields  map[string]string
}

// NewMetadata returns an empty bag at the current schema version.
func NewMetadata() Metadata {
	return Metadata{Version: MetadataVersion, Fields: map[string]string{}}
}

// Get returns the value for key and whether it was present.
func (m Metadata) Get(key string) (string, bool) {
	if m.Fields == nil {
		return "", false
	}
	v, ok := m.Fields[key]
	return v, ok
}

// Set stores a value, allocating the map on first use.
func (m *Metadata) Set(key, value string) {
	if m.Fields == nil {
		m.Fields = map[string]string{}
	}
	if m.Version == 0 {
		m.Version = MetadataVersion
	}
	m.Fields[key] = value
}
