package kb

import "github.com/google/uuid"

// A TokenGenerator mints the run token that tags the log lines of one
// completion run. The token is the correlation key between logs and
// run-log records.
type TokenGenerator func() string

// UUIDTokens mints time-sortable UUIDv7 tokens, so runs listed by
// token are already in start order.
func UUIDTokens() string {
	return uuid.Must(uuid.NewV7()).String()
}

// FixedTokens tags every run with the given token. The CLI stamps the
// engine with the token it records in the run log; tests use it for
// deterministic log output.
func FixedTokens(token string) TokenGenerator {
	return func() string { return token }
}
