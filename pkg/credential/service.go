package credential

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

var emailShape = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Service hashes and verifies passwords.
type Service struct {
	config Config
	pepper []byte
}

// New creates a Service after validating cfg.
func New(cfg Config) (*Service, error) {
	if cfg.Algorithm == "" {
		cfg.Algorithm = AlgorithmArgon2id
	}

	switch cfg.Algorithm {
	case AlgorithmArgon2id:
		if err := validateArgon2Params(cfg.Argon2); err != nil {
			return nil, err
		}
	case AlgorithmBcrypt:
		if cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost {
			return nil, fmt.Errorf("%w: bcrypt cost must be between %d and %d",
				ErrInvalidConfig, bcrypt.MinCost, bcrypt.MaxCost)
		}
	default:
		return nil, fmt.Errorf("%w: unknown algorithm %q", ErrInvalidConfig, cfg.Algorithm)
	}

	return &Service{
		config: cfg,
		pepper: []byte(cfg.Pepper),
	}, nil
}

// Algorithm returns the algorithm used for new tokens.
func (s *Service) Algorithm() Algorithm {
	return s.config.Algorithm
}

// Hash returns a salted token for password.
func (s *Service) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}

	keyed := s.keyed(password)

	switch s.config.Algorithm {
	case AlgorithmBcrypt:
		b, err := bcrypt.GenerateFromPassword(keyed, s.config.BcryptCost)
		if err != nil {
			return "", fmt.Errorf("bcrypt: %w", err)
		}
		return string(b), nil
	default:
		return hashArgon2(keyed, s.config.Argon2)
	}
}

// Verify reports whether password matches token.
//
// A wrong password is (false, nil); an unreadable token is an error.
func (s *Service) Verify(password, token string) (bool, error) {
	if password == "" || token == "" {
		return false, nil
	}

	keyed := s.keyed(password)

	switch {
	case strings.HasPrefix(token, argon2Variant+"$"):
		return verifyArgon2(keyed, token)
	case strings.HasPrefix(token, "$2"):
		err := bcrypt.CompareHashAndPassword([]byte(token), keyed)
		if err == nil {
			return true, nil
		}
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, fmt.Errorf("%w: %v", ErrInvalidTokenFormat, err)
	default:
		return false, ErrUnknownTokenFormat
	}
}

// keyed mixes the pepper into password. The result is a fixed 44 bytes, which
// also keeps bcrypt clear of its 72-byte input limit.
func (s *Service) keyed(password string) []byte {
	mac := hmac.New(sha256.New, s.pepper)
	mac.Write([]byte(password))
	sum := mac.Sum(nil)

	out := make([]byte, base64.StdEncoding.EncodedLen(len(sum)))
	base64.StdEncoding.Encode(out, sum)
	return out
}

// ValidateEmailShape reports whether s looks like local@domain.tld.
func ValidateEmailShape(s string) bool {
	return emailShape.MatchString(s)
}

// RateStrength rates a password for UI feedback.
//
// Length is counted in characters, not bytes.
func RateStrength(password string) Strength {
	length := utf8.RuneCountInString(password)

	switch {
	case length < MinPasswordLength:
		return Strength{Level: StrengthWeak, Score: 0}
	case length < 10:
		return Strength{Level: StrengthMedium, Score: 1}
	}

	var hasUpper, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}

	if hasUpper && hasDigit {
		return Strength{Level: StrengthStrong, Score: 2}
	}
	return Strength{Level: StrengthMedium, Score: 1}
}

// LongEnough reports whether password meets MinPasswordLength.
func LongEnough(password string) bool {
	return utf8.RuneCountInString(password) >= MinPasswordLength
}
