package constants

const (
	// ContextTokenData is the echo context key the auth middleware stores claims under.
	ContextTokenData = "token_data"

	AuthorizationHeader = "Authorization"
	BearerPrefix        = "Bearer "
)
