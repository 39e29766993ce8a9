package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Fetch errors
	ErrFetch      = fmt.Errorf("fetch failed")
	ErrStatus     = fmt.Errorf("unexpected status code")
	ErrDecompress = fmt.Errorf("decompression failed")
	ErrDecode     = fmt.Errorf("decode failed")

	// Catalog errors
	ErrMissingCatalog = fmt.Errorf("catalog unavailable")
	ErrMissingRegion  = fmt.Errorf("region not found in catalog")

	// Input validation errors
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
