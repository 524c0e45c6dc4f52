package utils

// Error codes returned in the body of non-GraphQL error responses.
const (
	ErrorTokenAuthFail = 401001
	ErrorInvalidHeader = 401002
)
