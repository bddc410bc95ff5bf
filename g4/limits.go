// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package g4

import "github.com/pkg/errors"

// ScanLimits is the configuration record threaded through every core
// component. All other per-scan knobs derive from these four values.
type ScanLimits struct {
	// MinTetrads is the minimum tetrad width for any seed. Must be >= 2.
	MinTetrads int
	// MinScore is the minimum gscore for a raw hit to survive viable.
	MinScore int
	// MaxGRun is the upper bound on the tetrad width used from any single
	// G-run.
	MaxGRun int
	// MaxG4Length is the upper bound on the total span of a complete G4.
	MaxG4Length int
}

// DefaultScanLimits matches the defaults used throughout the test corpus:
// MinTetrads=2, MinScore=17, MaxGRun=10, MaxG4Length=45.
var DefaultScanLimits = ScanLimits{
	MinTetrads:  2,
	MinScore:    17,
	MaxGRun:     10,
	MaxG4Length: 45,
}

// ConfigError reports a ScanLimits that violates a precondition. It is
// raised at scheduler construction; no scan is ever attempted with an
// invalid ScanLimits.
type ConfigError struct {
	cause error
}

func (e *ConfigError) Error() string { return e.cause.Error() }
func (e *ConfigError) Cause() error  { return e.cause }
func (e *ConfigError) Unwrap() error { return e.cause }

// Validate checks the preconditions listed in spec §6: MinTetrads >= 2,
// MaxGRun >= MinTetrads, MaxG4Length >= 4*MinTetrads. MinScore is an
// unconstrained integer.
func (l ScanLimits) Validate() error {
	if l.MinTetrads < 2 {
		return &ConfigError{errors.Errorf("min_tetrads must be >= 2, got %d", l.MinTetrads)}
	}
	if l.MaxGRun < l.MinTetrads {
		return &ConfigError{errors.Errorf("max_g_run (%d) must be >= min_tetrads (%d)", l.MaxGRun, l.MinTetrads)}
	}
	if l.MaxG4Length < 4*l.MinTetrads {
		return &ConfigError{errors.Errorf("max_g4_length (%d) must be >= 4*min_tetrads (%d)", l.MaxG4Length, 4*l.MinTetrads)}
	}
	return nil
}

// maxTAllowed returns min(MaxGRun, MaxG4Length/4), the largest tetrad width
// that could ever be used (§4.3.1).
func (l ScanLimits) maxTAllowed() int {
	t := l.MaxG4Length / 4
	if l.MaxGRun < t {
		return l.MaxGRun
	}
	return t
}
