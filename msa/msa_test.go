// Copyright © 2025 The PhyloMovie Authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package msa_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/phylomovie/phylomovie/msa"
)

var fastaBlob = `>taxon1 some description
ACGTACGTAC
GTACGT
>taxon2
ACGTACGTAC
GTACGT
`

var phylipBlob = ` 3 42
taxon1  ACGTACGTAC
taxon2  ACGTACGTAC
taxon3  ACGTACGTAC
`

var clustalBlob = `CLUSTAL W (1.82) multiple sequence alignment

taxon1  ACGTACGTAC
taxon2  ACGTACGTAC
        **********

taxon1  GTACGT
taxon2  GTACGT
        ******
`

func TestAlignmentLength(t *testing.T) {
	tests := map[string]struct {
		blob string
		want int
	}{
		"fasta":   {fastaBlob, 16},
		"phylip":  {phylipBlob, 42},
		"clustal": {clustalBlob, 16},
	}
	for name, test := range tests {
		got, err := msa.AlignmentLength(strings.NewReader(test.blob))
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if got != test.want {
			t.Errorf("%s: got %d columns, want %d", name, got, test.want)
		}
	}
}

func TestAlignmentLengthErrors(t *testing.T) {
	blobs := map[string]string{
		"empty":        "",
		"unknown":      "not an alignment\n",
		"empty record": ">taxon1\n>taxon2\nACGT\n",
	}
	for name, blob := range blobs {
		if _, err := msa.AlignmentLength(strings.NewReader(blob)); !errors.Is(err, msa.ErrInvalidAlignment) {
			t.Errorf("%s: got error %v, want %v", name, err, msa.ErrInvalidAlignment)
		}
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		first string
		want  msa.Format
	}{
		{">taxon1", msa.Fasta},
		{"CLUSTAL W (1.82)", msa.Clustal},
		{"clustal omega", msa.Clustal},
		{" 5 100", msa.Phylip},
		{"12\t42", msa.Phylip},
	}
	for _, test := range tests {
		got, err := msa.DetectFormat(test.first)
		if err != nil {
			t.Fatalf("%q: %v", test.first, err)
		}
		if got != test.want {
			t.Errorf("%q: got %q, want %q", test.first, got, test.want)
		}
	}
}

func TestInferWindow(t *testing.T) {
	tests := []struct {
		alignLen, anchors int
		want              msa.Window
	}{
		{1000, 10, msa.Window{Size: 100, Step: 100}},
		{105, 10, msa.Window{Size: 10, Step: 10}},
		// floor of one column
		{5, 10, msa.Window{Size: 1, Step: 1}},
		{0, 10, msa.Window{Size: 1, Step: 1}},
	}
	for _, test := range tests {
		if got := msa.InferWindow(test.alignLen, test.anchors); got != test.want {
			t.Errorf("%d columns over %d anchors: got %+v, want %+v", test.alignLen, test.anchors, got, test.want)
		}
	}
}

func TestRegion(t *testing.T) {
	w := msa.Window{Size: 100, Step: 100}
	tests := []struct {
		rank int
		want msa.Region
	}{
		{0, msa.Region{Start: 0, End: 100}},
		{1, msa.Region{Start: 100, End: 200}},
		{7, msa.Region{Start: 700, End: 800}},
	}
	for _, test := range tests {
		if got := w.Region(test.rank); got != test.want {
			t.Errorf("anchor %d: got %+v, want %+v", test.rank, got, test.want)
		}
	}
}

func TestSyncThrottle(t *testing.T) {
	var got []msa.Region
	s := msa.NewSync(msa.Window{Size: 10, Step: 10}, time.Hour, func(r msa.Region) {
		got = append(got, r)
	})

	s.Anchor(0)
	s.Anchor(1)
	s.Anchor(2)

	// only the first notification passes the throttle
	if len(got) != 1 {
		t.Fatalf("got %d notifications, want 1", len(got))
	}
	if got[0] != (msa.Region{Start: 0, End: 10}) {
		t.Errorf("first region: got %+v", got[0])
	}

	// the held region is the latest one
	s.Flush()
	if len(got) != 2 {
		t.Fatalf("got %d notifications after flushing, want 2", len(got))
	}
	if got[1] != (msa.Region{Start: 20, End: 30}) {
		t.Errorf("flushed region: got %+v", got[1])
	}

	// nothing left to deliver
	s.Flush()
	if len(got) != 2 {
		t.Errorf("got %d notifications after an empty flush, want 2", len(got))
	}
}
