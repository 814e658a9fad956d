package notifier

import "time"

// Embed colors
const (
	InStockEmbedColor = 0x5CB85C
	InfoEmbedColor    = 0x5BC0DE
)

const (
	maxErrorBodyLength  = 512
	maxRateLimitBackoff = time.Minute
)
