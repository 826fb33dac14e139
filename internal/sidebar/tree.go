// Package sidebar loads per-version sidebar trees and composes them into the
// path-keyed map the page renderer consumes.
package sidebar

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Item is one sidebar node.
type Item struct {
	Text      string `json:"text"`
	Collapsed *bool  `json:"collapsed,omitempty"`
	Items     Tree   `json:"items,omitempty"`
	Link      string `json:"link,omitempty"`
}

// Tree is an ordered list of items. A single item object is accepted on
// input and read as a one-element tree.
type Tree []Item

func (t *Tree) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var it Item
		if err := json.Unmarshal(data, &it); err != nil {
			return err
		}
		*t = Tree{it}
		return nil
	}
	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	*t = items
	return nil
}

// File is a sidebar file: trees keyed by source path.
type File map[string]Tree

// Kind is the closed set of node shapes.
type Kind int

const (
	LeafWithoutLink Kind = iota
	LeafWithLink
	Branch
)

func (it Item) Kind() Kind {
	switch {
	case len(it.Items) > 0:
		return Branch
	case it.Link != "":
		return LeafWithLink
	default:
		return LeafWithoutLink
	}
}

// RewriteLinks returns a copy of tree in which every link starting with from
// starts with to instead. Nested items are always visited, including under
// items that carry no link. The input is not modified.
func RewriteLinks(tree Tree, from, to string) Tree {
	if tree == nil {
		return nil
	}
	out := make(Tree, len(tree))
	for i, it := range tree {
		out[i] = rewriteItem(it, from, to)
	}
	return out
}

func rewriteItem(it Item, from, to string) Item {
	if it.Collapsed != nil {
		c := *it.Collapsed
		it.Collapsed = &c
	}
	switch it.Kind() {
	case Branch:
		it.Link = rewriteLink(it.Link, from, to)
		it.Items = RewriteLinks(it.Items, from, to)
	case LeafWithLink:
		it.Link = rewriteLink(it.Link, from, to)
	case LeafWithoutLink:
	}
	return it
}

// rewriteLink swaps a leading from for to, joined by exactly one slash.
// The rest of the link is left untouched.
func rewriteLink(link, from, to string) string {
	if link == "" || from == "" || !strings.HasPrefix(link, from) {
		return link
	}
	rest := strings.TrimPrefix(link, from)
	return strings.TrimSuffix(to, "/") + "/" + strings.TrimPrefix(rest, "/")
}
