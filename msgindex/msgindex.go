// Package msgindex collects the select-like arguments and tags of a parsed
// message by name, so two independently written messages can be lined up
// against each other.
package msgindex

import (
	"strconv"

	"github.com/minios-linux/icucheck/msgformat"
)

// SelectEntry is one indexed plural, selectordinal or select argument.
type SelectEntry struct {
	// Key is unique within the index: the pivot name, with "#1", "#2", ...
	// appended to later arguments that reuse an earlier pivot.
	Key string
	// Name is the pivot as written.
	Name       string
	Node       *msgformat.Select
	Categories []string
}

// TagEntry is one indexed tag.
type TagEntry struct {
	Key  string
	Name string
	Node *msgformat.Tag
}

// Index maps names to nodes. The key slices keep document order.
type Index struct {
	Selects    map[string]*SelectEntry
	Tags       map[string]*TagEntry
	SelectKeys []string
	TagKeys    []string
}

func newIndex() *Index {
	return &Index{
		Selects: make(map[string]*SelectEntry),
		Tags:    make(map[string]*TagEntry),
	}
}

// Level indexes the arguments and tags that sit directly in nodes. Nothing
// inside a select's categories or a tag's children is included; callers
// that walk two trees side by side recurse into those themselves.
func Level(nodes []msgformat.Node) *Index {
	idx := newIndex()
	for _, n := range nodes {
		switch v := n.(type) {
		case *msgformat.Select:
			idx.addSelect(v)
		case *msgformat.Tag:
			idx.addTag(v)
		}
	}
	return idx
}

// Deep indexes every argument and tag anywhere in the tree, in pre-order.
func Deep(nodes []msgformat.Node) *Index {
	idx := newIndex()
	idx.walk(nodes)
	return idx
}

func (idx *Index) walk(nodes []msgformat.Node) {
	for _, n := range nodes {
		switch v := n.(type) {
		case *msgformat.Select:
			idx.addSelect(v)
			for i := range v.Options {
				idx.walk(v.Options[i].Value)
			}
		case *msgformat.Tag:
			idx.addTag(v)
			idx.walk(v.Children)
		}
	}
}

func uniqueKey(name string, taken func(string) bool) string {
	if !taken(name) {
		return name
	}
	for i := 1; ; i++ {
		k := name + "#" + strconv.Itoa(i)
		if !taken(k) {
			return k
		}
	}
}

func (idx *Index) addSelect(s *msgformat.Select) {
	key := uniqueKey(s.Pivot, func(k string) bool { _, ok := idx.Selects[k]; return ok })
	idx.Selects[key] = &SelectEntry{
		Key:        key,
		Name:       s.Pivot,
		Node:       s,
		Categories: s.Categories(),
	}
	idx.SelectKeys = append(idx.SelectKeys, key)
}

func (idx *Index) addTag(t *msgformat.Tag) {
	key := uniqueKey(t.Name, func(k string) bool { _, ok := idx.Tags[k]; return ok })
	idx.Tags[key] = &TagEntry{Key: key, Name: t.Name, Node: t}
	idx.TagKeys = append(idx.TagKeys, key)
}

// Select returns the entry for key, or nil.
func (idx *Index) Select(key string) *SelectEntry { return idx.Selects[key] }

// Tag returns the entry for key, or nil.
func (idx *Index) Tag(key string) *TagEntry { return idx.Tags[key] }

// OrderedSelects returns the select entries in document order.
func (idx *Index) OrderedSelects() []*SelectEntry {
	out := make([]*SelectEntry, 0, len(idx.SelectKeys))
	for _, k := range idx.SelectKeys {
		out = append(out, idx.Selects[k])
	}
	return out
}

// OrderedTags returns the tag entries in document order.
func (idx *Index) OrderedTags() []*TagEntry {
	out := make([]*TagEntry, 0, len(idx.TagKeys))
	for _, k := range idx.TagKeys {
		out = append(out, idx.Tags[k])
	}
	return out
}
