// Copyright © 2025 The PhyloMovie Authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package anim

import "time"

// A Clock provides the current time
// to the controller.
// Tests use a manual clock.
type Clock interface {
	Now() time.Time
}

type wallClock struct{}

func (wallClock) Now() time.Time {
	return time.Now()
}
