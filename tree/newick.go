// Copyright © 2025 The PhyloMovie Authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package tree

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// comments matches bracketed newick comments,
// including nested-free bracket pairs.
var comments = regexp.MustCompile(`\[[^]]*\]`)

// Purify removes bracketed comments
// and trailing blank lines
// from a newick text.
func Purify(nw string) string {
	nw = comments.ReplaceAllString(nw, "")
	return strings.TrimRight(nw, " \t\n\r")
}

// ReadNewick reads one or more newick trees,
// one tree per semicolon-terminated statement.
// Comments in brackets are removed
// before parsing.
//
// A root with a single descendant
// is collapsed into that descendant.
func ReadNewick(r io.Reader) ([]*Node, error) {
	br := bufio.NewReader(r)
	buf, err := io.ReadAll(br)
	if err != nil {
		return nil, err
	}

	var trees []*Node
	tn := 0
	for _, st := range strings.Split(Purify(string(buf)), ";") {
		st = strings.TrimSpace(st)
		if st == "" {
			continue
		}
		tn++
		t, err := parseNewick(st)
		if err != nil {
			return nil, fmt.Errorf("tree %d: %v", tn, err)
		}
		trees = append(trees, t)
	}
	if len(trees) == 0 {
		return nil, errors.New("no trees in input")
	}
	return trees, nil
}

// Newick returns the newick representation of the tree,
// without the terminating semicolon.
func (n *Node) Newick() string {
	var sb strings.Builder
	n.newick(&sb)
	return sb.String()
}

func (n *Node) newick(sb *strings.Builder) {
	if !n.IsTerm() {
		sb.WriteByte('(')
		for i, d := range n.Children {
			if i > 0 {
				sb.WriteByte(',')
			}
			d.newick(sb)
		}
		sb.WriteByte(')')
	}
	sb.WriteString(n.Name)
	sb.WriteByte(':')
	sb.WriteString(strconv.FormatFloat(n.Length, 'g', -1, 64))
}

type newickScanner struct {
	s   string
	pos int
}

func parseNewick(s string) (*Node, error) {
	sc := &newickScanner{s: s}
	n, err := sc.node()
	if err != nil {
		return nil, err
	}
	sc.skipSpaces()
	if sc.pos != len(sc.s) {
		return nil, fmt.Errorf("unexpected character %q at position %d", sc.s[sc.pos], sc.pos)
	}

	// collapse a root with a single descendant
	for len(n.Children) == 1 {
		n = n.Children[0]
	}
	return n, nil
}

func (sc *newickScanner) node() (*Node, error) {
	sc.skipSpaces()
	n := &Node{Length: DefBranchLength}

	if sc.peek() == '(' {
		sc.pos++
		for {
			d, err := sc.node()
			if err != nil {
				return nil, err
			}
			n.Children = append(n.Children, d)

			sc.skipSpaces()
			c := sc.peek()
			if c == ',' {
				sc.pos++
				continue
			}
			if c == ')' {
				sc.pos++
				break
			}
			return nil, fmt.Errorf("unclosed parenthesis at position %d", sc.pos)
		}
	}

	n.Name = sc.label()
	if sc.peek() == ':' {
		sc.pos++
		v, err := sc.length()
		if err != nil {
			return nil, err
		}
		n.Length = v
	}
	return n, nil
}

func (sc *newickScanner) peek() byte {
	if sc.pos >= len(sc.s) {
		return 0
	}
	return sc.s[sc.pos]
}

func (sc *newickScanner) skipSpaces() {
	for sc.pos < len(sc.s) {
		c := sc.s[sc.pos]
		if c != ' ' && c != '\t' && c != '\n' && c != '\r' {
			return
		}
		sc.pos++
	}
}

func (sc *newickScanner) label() string {
	start := sc.pos
	for sc.pos < len(sc.s) {
		c := sc.s[sc.pos]
		if c == ':' || c == ',' || c == '(' || c == ')' || c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			break
		}
		sc.pos++
	}
	return sc.s[start:sc.pos]
}

func (sc *newickScanner) length() (float64, error) {
	start := sc.pos
	for sc.pos < len(sc.s) {
		c := sc.s[sc.pos]
		if c == ',' || c == '(' || c == ')' {
			break
		}
		sc.pos++
	}
	v := strings.TrimSpace(sc.s[start:sc.pos])
	if v == "" {
		return DefBranchLength, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid branch length %q at position %d", v, start)
	}
	return f, nil
}
