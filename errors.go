package anyconf

import (
	"errors"

	"github.com/0xalexb/anyconf/backend"
	"github.com/0xalexb/anyconf/schema"
)

// Errors returned by the loader. Backend parse errors are returned as they come.
var (
	// ErrUnknownFileType means no backend claims the input's extension.
	ErrUnknownFileType = backend.ErrUnknownFileType
	// ErrUnknownProcessorType means a forced type matches no backend.
	ErrUnknownProcessorType = backend.ErrUnknownProcessorType
	// ErrUnknownParserType is an alias of ErrUnknownProcessorType.
	ErrUnknownParserType = backend.ErrUnknownParserType
	// ErrNoInput means neither an input nor a forced type was given.
	ErrNoInput = backend.ErrNoInput
	// ErrValidation is wrapped by schema failures in unsafe mode.
	ErrValidation = schema.ErrValidation
	// ErrQueryResult is returned when a query applied during a load does not yield a mapping.
	ErrQueryResult = errors.New("query result is not a mapping")
)
