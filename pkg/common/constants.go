package common

import "time"

const (
	ApiKeyCacheTTL = 5 * time.Minute

	SessionIDHeader = "X-Session-Id"
)
