package fx

import (
	"pricewatch/internal/app/health"
	"pricewatch/internal/router"
)

// Module serves GET /health.
var Module = router.Routes(health.NewHandler)
