// Package credential turns passwords into verifiable tokens and rates them.
//
// Tokens are self-describing: an argon2id token embeds its parameters and
// salt, a bcrypt token carries its cost. Verify accepts either, so switching
// Config.Algorithm never locks out existing accounts.
//
// Before hashing, passwords are keyed with an application-wide pepper, so a
// token copied to another installation with a different pepper does not
// verify.
//
// Example usage:
//
//	svc, err := credential.New(credential.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	token, err := svc.Hash("secret1")
//	ok, err := svc.Verify("secret1", token)
package credential

// Algorithm names a hashing scheme.
type Algorithm string

// Supported algorithms.
const (
	AlgorithmArgon2id Algorithm = "argon2id"
	AlgorithmBcrypt   Algorithm = "bcrypt"
)

// MinPasswordLength is the only hard password requirement.
const MinPasswordLength = 6

// Config contains hashing configuration.
type Config struct {
	// Algorithm used for new tokens (default: argon2id).
	Algorithm Algorithm `yaml:"algorithm"`

	// Pepper is the application-wide secret mixed into every password.
	Pepper string `yaml:"pepper"`

	// Argon2 holds argon2id parameters.
	Argon2 Argon2Params `yaml:"argon2"`

	// BcryptCost is the bcrypt work factor.
	BcryptCost int `yaml:"bcrypt_cost"`
}

// Argon2Params are tunable argon2id parameters.
type Argon2Params struct {
	Memory      uint32 `yaml:"memory_kib"`
	Iterations  uint32 `yaml:"iterations"`
	Parallelism uint8  `yaml:"parallelism"`
	SaltLength  uint32 `yaml:"salt_length"`
	KeyLength   uint32 `yaml:"key_length"`
}

// DefaultConfig returns argon2id with interactive-login parameters.
func DefaultConfig() Config {
	return Config{
		Algorithm: AlgorithmArgon2id,
		Pepper:    "watchvault_pepper_2025",
		Argon2: Argon2Params{
			Memory:      64 * 1024,
			Iterations:  3,
			Parallelism: 4,
			SaltLength:  16,
			KeyLength:   32,
		},
		BcryptCost: 12,
	}
}

// StrengthLevel is an advisory password rating.
type StrengthLevel string

// Strength levels.
const (
	StrengthWeak   StrengthLevel = "weak"
	StrengthMedium StrengthLevel = "medium"
	StrengthStrong StrengthLevel = "strong"
)

// Strength is the result of RateStrength.
type Strength struct {
	Level StrengthLevel `json:"strength"`
	Score int           `json:"score"`
}
