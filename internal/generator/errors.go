package generator

import "errors"

var (
	errMissingAPIKey = errors.New("generator: OPENROUTER_API_KEY must be set when the generator is enabled")
	errMissingModel  = errors.New("generator: model must be set when the generator is enabled")
)
