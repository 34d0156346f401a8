// Package persistence implements the framework's document sink: small
// JSON-shaped documents keyed by (module, owner-id), written atomically via
// temp-file-plus-rename, matching the teacher's SQLite directory-prep
// idiom without taking on a database for what is, per document, a handful
// of fields.
package persistence

// DocumentID composes a module name and an owner identity (a player or
// entity id) into the key a Sink stores under.
type DocumentID struct {
	Module string
	Owner  string
}

// Key returns the filesystem/ledger-safe string form of the id.
func (d DocumentID) Key() string {
	return d.Module + "/" + d.Owner
}

// Document is the envelope every Sink entry is wrapped in. Fields is the
// module-defined payload; SchemaVersion lets a module detect and
// best-effort-repair documents written by an older version of itself.
type Document struct {
	SchemaVersion int            `json:"schema_version"`
	Fields        map[string]any `json:"fields"`
}

// Dirty is one entry of a bulk save_all flush: a document id paired with
// the document to persist under it.
type Dirty struct {
	ID  DocumentID
	Doc Document
}
