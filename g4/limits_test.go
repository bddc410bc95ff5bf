// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package g4

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanLimitsValidateDefaults(t *testing.T) {
	require.NoError(t, DefaultScanLimits.Validate())
}

func TestScanLimitsValidateMinTetrads(t *testing.T) {
	l := DefaultScanLimits
	l.MinTetrads = 1
	err := l.Validate()
	require.Error(t, err)
	var ce *ConfigError
	assert.ErrorAs(t, err, &ce)
}

func TestScanLimitsValidateMaxGRun(t *testing.T) {
	l := DefaultScanLimits
	l.MaxGRun = 1
	require.Error(t, l.Validate())
}

func TestScanLimitsValidateMaxG4Length(t *testing.T) {
	l := DefaultScanLimits
	l.MaxG4Length = 4 // 4*MinTetrads(2) == 8 required
	require.Error(t, l.Validate())
}

func TestMaxTAllowed(t *testing.T) {
	l := ScanLimits{MinTetrads: 2, MaxGRun: 10, MaxG4Length: 45}
	assert.Equal(t, 10, l.maxTAllowed()) // min(10, 45/4=11) == 10

	l.MaxGRun = 3
	assert.Equal(t, 3, l.maxTAllowed())
}
