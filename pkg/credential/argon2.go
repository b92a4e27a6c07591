package credential

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	argon2Variant = "argon2id"
	argon2Version = "v=19"
)

func validateArgon2Params(p Argon2Params) error {
	switch {
	case p.Memory < 8*1024:
		return fmt.Errorf("%w: argon2 memory must be at least 8192 KiB", ErrInvalidConfig)
	case p.Iterations == 0:
		return fmt.Errorf("%w: argon2 iterations must be greater than zero", ErrInvalidConfig)
	case p.Parallelism == 0:
		return fmt.Errorf("%w: argon2 parallelism must be greater than zero", ErrInvalidConfig)
	case p.SaltLength < 8:
		return fmt.Errorf("%w: argon2 salt length must be at least 8 bytes", ErrInvalidConfig)
	case p.KeyLength < 16:
		return fmt.Errorf("%w: argon2 key length must be at least 16 bytes", ErrInvalidConfig)
	}
	return nil
}

// hashArgon2 returns argon2id$v=19$m=<kib>,t=<iter>,p=<par>$<salt>$<hash>.
func hashArgon2(secret []byte, p Argon2Params) (string, error) {
	salt := make([]byte, p.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("argon2: generate salt: %w", err)
	}

	sum := argon2.IDKey(secret, salt, p.Iterations, p.Memory, p.Parallelism, p.KeyLength)

	return strings.Join([]string{
		argon2Variant,
		argon2Version,
		fmt.Sprintf("m=%d,t=%d,p=%d", p.Memory, p.Iterations, p.Parallelism),
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(sum),
	}, "$"), nil
}

func verifyArgon2(secret []byte, token string) (bool, error) {
	p, salt, expected, err := decodeArgon2(token)
	if err != nil {
		return false, err
	}

	computed := argon2.IDKey(secret, salt, p.Iterations, p.Memory, p.Parallelism, uint32(len(expected)))
	return subtle.ConstantTimeCompare(computed, expected) == 1, nil
}

func decodeArgon2(token string) (Argon2Params, []byte, []byte, error) {
	parts := strings.Split(token, "$")
	if len(parts) != 5 || parts[0] != argon2Variant {
		return Argon2Params{}, nil, nil, ErrInvalidTokenFormat
	}
	if parts[1] != argon2Version {
		return Argon2Params{}, nil, nil, fmt.Errorf("%w: unsupported version %q", ErrInvalidTokenFormat, parts[1])
	}

	p, err := parseArgon2Params(parts[2])
	if err != nil {
		return Argon2Params{}, nil, nil, err
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[3])
	if err != nil {
		return Argon2Params{}, nil, nil, fmt.Errorf("%w: salt: %v", ErrInvalidTokenFormat, err)
	}

	hash, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return Argon2Params{}, nil, nil, fmt.Errorf("%w: hash: %v", ErrInvalidTokenFormat, err)
	}

	p.SaltLength = uint32(len(salt))
	p.KeyLength = uint32(len(hash))
	if err := validateArgon2Params(p); err != nil {
		return Argon2Params{}, nil, nil, fmt.Errorf("%w: %v", ErrInvalidTokenFormat, err)
	}

	return p, salt, hash, nil
}

func parseArgon2Params(segment string) (Argon2Params, error) {
	var p Argon2Params

	entries := strings.Split(segment, ",")
	if len(entries) != 3 {
		return p, ErrInvalidTokenFormat
	}

	for _, entry := range entries {
		key, value, ok := strings.Cut(entry, "=")
		if !ok {
			return p, ErrInvalidTokenFormat
		}

		switch key {
		case "m":
			v, err := strconv.ParseUint(value, 10, 32)
			if err != nil {
				return p, fmt.Errorf("%w: m: %v", ErrInvalidTokenFormat, err)
			}
			p.Memory = uint32(v)
		case "t":
			v, err := strconv.ParseUint(value, 10, 32)
			if err != nil {
				return p, fmt.Errorf("%w: t: %v", ErrInvalidTokenFormat, err)
			}
			p.Iterations = uint32(v)
		case "p":
			v, err := strconv.ParseUint(value, 10, 8)
			if err != nil {
				return p, fmt.Errorf("%w: p: %v", ErrInvalidTokenFormat, err)
			}
			p.Parallelism = uint8(v)
		default:
			return p, ErrInvalidTokenFormat
		}
	}

	return p, nil
}
