package sdk

// TokenRef names the token a contract settles in.
type TokenRef string

const (
	TokenHive TokenRef = "hive"
	TokenHbd  TokenRef = "hbd"
)

// String returns the raw ticker string for logging or host calls.
// Example payload: sdk.TokenHbd.String()
func (t TokenRef) String() string {
	return string(t)
}
