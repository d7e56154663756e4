// Copyright © 2025 The PhyloMovie Authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package msa implements the multiple sequence alignment
// collaborator of the tree movie:
// it reads the alignment length
// from the common alignment formats
// and maps anchor trees
// to alignment column regions.
package msa

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ErrInvalidAlignment is returned when an alignment file
// cannot be understood.
var ErrInvalidAlignment = errors.New("invalid alignment")

// A Format is an alignment file format.
type Format string

// Supported alignment formats.
const (
	Fasta   Format = "fasta"
	Phylip  Format = "phylip"
	Clustal Format = "clustal"
)

// DetectFormat guesses the format of an alignment
// from its first non-blank line.
func DetectFormat(first string) (Format, error) {
	first = strings.TrimSpace(first)
	switch {
	case strings.HasPrefix(first, ">"):
		return Fasta, nil
	case strings.HasPrefix(strings.ToUpper(first), "CLUSTAL"):
		return Clustal, nil
	}
	f := strings.Fields(first)
	if len(f) == 2 {
		if _, err := strconv.Atoi(f[0]); err == nil {
			if _, err := strconv.Atoi(f[1]); err == nil {
				return Phylip, nil
			}
		}
	}
	return "", fmt.Errorf("%w: unknown format", ErrInvalidAlignment)
}

// AlignmentLength reads the number of columns
// of an alignment,
// detecting the format from its first line.
func AlignmentLength(r io.Reader) (int, error) {
	sc := bufio.NewScanner(r)

	var first string
	for sc.Scan() {
		if strings.TrimSpace(sc.Text()) == "" {
			continue
		}
		first = sc.Text()
		break
	}
	if err := sc.Err(); err != nil {
		return 0, err
	}
	if first == "" {
		return 0, fmt.Errorf("%w: empty file", ErrInvalidAlignment)
	}

	f, err := DetectFormat(first)
	if err != nil {
		return 0, err
	}
	switch f {
	case Fasta:
		return fastaLength(sc)
	case Phylip:
		return phylipLength(first)
	case Clustal:
		return clustalLength(sc)
	}
	return 0, fmt.Errorf("%w: unknown format", ErrInvalidAlignment)
}

// AlignmentLengthFile reads the number of columns
// of an alignment file.
func AlignmentLengthFile(name string) (int, error) {
	f, err := os.Open(name)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	ln, err := AlignmentLength(f)
	if err != nil {
		return 0, fmt.Errorf("on file %q: %w", name, err)
	}
	return ln, nil
}

// fastaLength sums the sequence lines
// of the first record.
// The header line is already consumed.
func fastaLength(sc *bufio.Scanner) (int, error) {
	ln := 0
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ">") {
			break
		}
		ln += len(line)
	}
	if err := sc.Err(); err != nil {
		return 0, err
	}
	if ln == 0 {
		return 0, fmt.Errorf("%w: empty first record", ErrInvalidAlignment)
	}
	return ln, nil
}

// phylipLength reads the column count
// from the header line.
func phylipLength(first string) (int, error) {
	f := strings.Fields(first)
	ln, err := strconv.Atoi(f[1])
	if err != nil || ln <= 0 {
		return 0, fmt.Errorf("%w: column count %q", ErrInvalidAlignment, f[1])
	}
	return ln, nil
}

// clustalLength sums the aligned chunks
// of the first sequence across all blocks.
// The CLUSTAL header is already consumed.
func clustalLength(sc *bufio.Scanner) (int, error) {
	ln := 0
	name := ""
	for sc.Scan() {
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		// conservation lines start with a space
		if strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t") {
			continue
		}
		f := strings.Fields(line)
		if len(f) < 2 {
			continue
		}
		if name == "" {
			name = f[0]
		}
		if f[0] != name {
			continue
		}
		ln += len(f[1])
	}
	if err := sc.Err(); err != nil {
		return 0, err
	}
	if ln == 0 {
		return 0, fmt.Errorf("%w: no aligned sequences", ErrInvalidAlignment)
	}
	return ln, nil
}
