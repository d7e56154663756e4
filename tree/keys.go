// Copyright © 2025 The PhyloMovie Authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package tree

import "strings"

// KeySeparator is the string used to join terminal names
// into a clade key.
// It is a character that cannot be part
// of an unquoted newick name,
// so a terminal key can never collide
// with a clade key.
const KeySeparator = ","

// Key returns the stable identity of a node:
// for a terminal it is its name;
// for an internal node it is its clade key,
// the sorted names of its descendant terminals
// joined by KeySeparator.
//
// Keys are stable across any two trees
// that share the terminal
// or the clade.
func (n *Node) Key() string {
	if n.IsTerm() {
		return n.Name
	}
	return strings.Join(n.SortedTerms(), KeySeparator)
}

// LinkKey returns the identity of the branch
// that connects a node with its ancestor.
// As any non-root node has a single ancestor,
// the key of the child endpoint
// identifies the branch.
func LinkKey(child *Node) string {
	return child.Key()
}
