package cssinline

import "errors"

// Sentinel errors for library operations.
var (
	// Fatal pipeline boundaries: nothing is written when one of these occurs.
	ErrReadInput       = errors.New("failed to read input HTML")
	ErrParseHTML       = errors.New("failed to parse HTML")
	ErrScan            = errors.New("failed to scan stylesheet links")
	ErrRender          = errors.New("failed to render HTML")
	ErrCreateOutputDir = errors.New("failed to create output directory")
	ErrRemoveOutput    = errors.New("failed to remove previous output")
	ErrWriteOutput     = errors.New("failed to write output HTML")

	// Settings validation errors.
	ErrMissingSetting = errors.New("missing required setting")
	ErrOutputIsInput  = errors.New("output file would overwrite input file")
)
