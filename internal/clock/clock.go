package clock

import "time"

// NowFunc returns current time. Override in tests for determinism.
var NowFunc = time.Now

// Now returns NowFunc in UTC so persisted timestamps compare across stores.
func Now() time.Time { return NowFunc().UTC() }
