// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chans

import (
	"sync"

	"go.uber.org/zap"
)

var (
	logger   *zap.Logger
	loggerMu sync.RWMutex
)

// Logger returns the logger used for gating-state diagnostics.
// It is a no-op logger unless SetLogger has been called.
func Logger() *zap.Logger {
	loggerMu.RLock()
	lg := logger
	loggerMu.RUnlock()
	if lg == nil {
		return zap.NewNop()
	}
	return lg
}

// SetLogger sets the diagnostics logger; nil restores the no-op logger.
func SetLogger(lg *zap.Logger) {
	loggerMu.Lock()
	logger = lg
	loggerMu.Unlock()
}
