package model

import "github.com/rotisserie/eris"

// ErrNotInitialized is returned by any aggregation called before a dataset
// has been generated.
var ErrNotInitialized = eris.New("analysis data not initialized")

// ErrMissingInput is returned when profitability is requested without a
// complete generated dataset. It matches ErrNotInitialized.
var ErrMissingInput = eris.Wrap(ErrNotInitialized, "missing input tables")
