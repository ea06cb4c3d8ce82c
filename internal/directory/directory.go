package directory

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
)

// Document is the externally tunable routing configuration: which
// department owns each complaint category and each floor key, who heads
// each department, and the catch-all fallback. It is data, not code.
type Document struct {
	Version            string            `json:"version"`
	FallbackDepartment string            `json:"fallback_department"`
	Departments        []DepartmentEntry `json:"departments"`
}

// DepartmentEntry declares one department's ownership sets.
type DepartmentEntry struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	HeadUserID string   `json:"head_user_id,omitempty"`
	Categories []string `json:"categories"`
	Floors     []string `json:"floors"`
}

// Directory answers routing lookups. All lookups are pure and total over
// the configured keys; unknown keys resolve to the fallback department,
// never an error. Safe for concurrent use; Reload swaps the tables atomically.
type Directory struct {
	mu         sync.RWMutex
	version    string
	fallback   string
	byCategory map[string]string
	byFloor    map[string]string
	heads      map[string]string
	names      map[string]string
}

// New builds a Directory from a document.
func New(doc Document) (*Directory, error) {
	d := &Directory{}
	if err := d.Reload(doc); err != nil {
		return nil, err
	}
	return d, nil
}

// LoadFile reads and parses a directory document from disk.
func LoadFile(path string) (*Directory, error) {
	doc, err := ReadDocument(path)
	if err != nil {
		return nil, err
	}
	return New(doc)
}

// ReadDocument parses a document file without building lookup tables.
func ReadDocument(path string) (Document, error) {
	var doc Document
	content, err := os.ReadFile(path)
	if err != nil {
		return doc, fmt.Errorf("read directory document: %w", err)
	}
	if err := json.Unmarshal(content, &doc); err != nil {
		return doc, fmt.Errorf("parse directory document: %w", err)
	}
	return doc, nil
}

// Reload replaces the routing tables from a new document. The document is
// validated before anything is swapped, so a bad reload leaves the
// previous tables serving.
func (d *Directory) Reload(doc Document) error {
	fallback := strings.TrimSpace(doc.FallbackDepartment)
	if fallback == "" {
		return fmt.Errorf("directory document missing fallback_department")
	}

	byCategory := make(map[string]string)
	byFloor := make(map[string]string)
	heads := make(map[string]string)
	names := make(map[string]string)

	for _, entry := range doc.Departments {
		id := strings.TrimSpace(entry.ID)
		if id == "" {
			return fmt.Errorf("directory document has department with empty id")
		}
		if _, dup := names[id]; dup {
			return fmt.Errorf("duplicate department %q", id)
		}
		names[id] = entry.Name
		if entry.HeadUserID != "" {
			heads[id] = entry.HeadUserID
		}
		for _, cat := range entry.Categories {
			key := normalizeKey(cat)
			if owner, taken := byCategory[key]; taken {
				return fmt.Errorf("category %q owned by both %q and %q", key, owner, id)
			}
			byCategory[key] = id
		}
		for _, floor := range entry.Floors {
			key := normalizeKey(floor)
			if owner, taken := byFloor[key]; taken {
				return fmt.Errorf("floor %q owned by both %q and %q", key, owner, id)
			}
			byFloor[key] = id
		}
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.version = doc.Version
	d.fallback = fallback
	d.byCategory = byCategory
	d.byFloor = byFloor
	d.heads = heads
	d.names = names
	return nil
}

// DepartmentForCategory resolves the department owning a complaint
// category, falling back to the catch-all for unknown categories.
func (d *Directory) DepartmentForCategory(category string) string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if dept, ok := d.byCategory[normalizeKey(category)]; ok {
		return dept
	}
	return d.fallback
}

// HasCategory reports whether a category is explicitly mapped.
func (d *Directory) HasCategory(category string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.byCategory[normalizeKey(category)]
	return ok
}

// DepartmentForFloor resolves the department owning a floor key. The
// second return is false when the floor is not mapped.
func (d *Directory) DepartmentForFloor(floor string) (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	dept, ok := d.byFloor[normalizeKey(floor)]
	return dept, ok
}

// HeadOf returns the responsible head's user id, if one is configured.
// A department without a head is still routable; dashboards surface the gap.
func (d *Directory) HeadOf(department string) (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	head, ok := d.heads[department]
	return head, ok
}

// Fallback returns the catch-all department id.
func (d *Directory) Fallback() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.fallback
}

// Version returns the loaded document's version tag.
func (d *Directory) Version() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.version
}

// Departments lists the configured department ids.
func (d *Directory) Departments() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]string, 0, len(d.names))
	for id := range d.names {
		out = append(out, id)
	}
	return out
}

// NameOf returns the display name for a department id.
func (d *Directory) NameOf(department string) string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.names[department]
}

// CategoriesOf lists the categories a department owns.
func (d *Directory) CategoriesOf(department string) []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var out []string
	for cat, dept := range d.byCategory {
		if dept == department {
			out = append(out, cat)
		}
	}
	return out
}

// FloorsOf lists the floor keys a department owns.
func (d *Directory) FloorsOf(department string) []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var out []string
	for floor, dept := range d.byFloor {
		if dept == department {
			out = append(out, floor)
		}
	}
	return out
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}
