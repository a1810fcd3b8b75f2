package httputil

import "errors"

// Errors returned to clients for malformed requests.
var (
	ErrInvalidBody      = errors.New("the request body could not be parsed, please check it and try again")
	ErrRequestBodyEmpty = errors.New("the request body must not be empty")
	ErrInvalidUUID      = errors.New("the specified resource ID is not a valid UUID")
)
