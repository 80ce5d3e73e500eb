package config

// AuthMode distinguishes an unauthenticated webhook from one guarded by a
// shared secret.
type AuthMode int

const (
	// AuthNone accepts every caller.
	AuthNone AuthMode = iota
	// AuthSharedSecret requires the x-webhook-secret header to match.
	AuthSharedSecret
)

func (m AuthMode) String() string {
	switch m {
	case AuthSharedSecret:
		return "shared_secret"
	default:
		return "none"
	}
}

// Auth is the resolved webhook authentication policy.
type Auth struct {
	Mode   AuthMode
	Secret string
}

// NoAuth returns the fail-open policy.
func NoAuth() Auth {
	return Auth{Mode: AuthNone}
}

// SharedSecret returns a policy requiring secret.
func SharedSecret(secret string) Auth {
	return Auth{Mode: AuthSharedSecret, Secret: secret}
}

// Auth resolves the webhook authentication policy from the loaded values.
func (c *Config) Auth() Auth {
	if c.Webhook.Secret == "" {
		return NoAuth()
	}
	return SharedSecret(c.Webhook.Secret)
}
