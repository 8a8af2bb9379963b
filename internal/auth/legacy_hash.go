// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MonCacao Contributors

package auth

import (
	"crypto/hmac"
	"crypto/sha1" //nolint:gosec // G505: only used to verify legacy werkzeug hashes
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"hash"
	"strconv"
	"strings"

	"github.com/samber/oops"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/crypto/scrypt"
)

// Accounts imported from the legacy store keep their original hashes until
// the next successful login, when NeedsUpgrade triggers an argon2id rehash.
// Supported formats:
//   - bcrypt: $2a$, $2b$, $2y$
//   - werkzeug pbkdf2: pbkdf2:<digest>:<iterations>$<salt>$<hex>
//   - werkzeug scrypt: scrypt:<n>:<r>:<p>$<salt>$<hex>
//   - werkzeug salted digest: <digest>$<salt>$<hex> (HMAC keyed by salt)

// Upper bounds on legacy cost parameters so a corrupt row cannot stall a login.
const (
	maxLegacyPBKDF2Iterations = 10_000_000
	maxLegacyScryptN          = 1 << 20
)

var legacyDigests = map[string]func() hash.Hash{
	"sha1":   sha1.New,
	"sha256": sha256.New,
	"sha512": sha512.New,
}

func isBcryptHash(encoded string) bool {
	return strings.HasPrefix(encoded, "$2a$") ||
		strings.HasPrefix(encoded, "$2b$") ||
		strings.HasPrefix(encoded, "$2y$")
}

func verifyBcrypt(password, encoded string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(encoded), []byte(password))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, oops.Code("AUTH_INVALID_HASH").With("format", "bcrypt").Wrap(err)
}

func isWerkzeugHash(encoded string) bool {
	method, _, ok := strings.Cut(encoded, "$")
	if !ok {
		return false
	}
	if strings.HasPrefix(method, "pbkdf2:") || strings.HasPrefix(method, "scrypt:") {
		return true
	}
	_, known := legacyDigests[method]
	return known
}

func verifyWerkzeug(password, encoded string) (bool, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 3 {
		return false, oops.Code("AUTH_INVALID_HASH").With("format", "werkzeug").Errorf("invalid hash format")
	}
	method, salt, expectedHex := parts[0], parts[1], parts[2]

	expected, err := hex.DecodeString(expectedHex)
	if err != nil || len(expected) == 0 {
		return false, oops.Code("AUTH_INVALID_HASH").With("format", "werkzeug").Errorf("invalid hash digest")
	}

	var computed []byte
	switch {
	case strings.HasPrefix(method, "pbkdf2:"):
		computed, err = werkzeugPBKDF2(method, password, salt, len(expected))
	case strings.HasPrefix(method, "scrypt:"):
		computed, err = werkzeugScrypt(method, password, salt, len(expected))
	default:
		newDigest := legacyDigests[method]
		mac := hmac.New(newDigest, []byte(salt))
		mac.Write([]byte(password))
		computed = mac.Sum(nil)
	}
	if err != nil {
		return false, err
	}

	return subtle.ConstantTimeCompare(computed, expected) == 1, nil
}

func werkzeugPBKDF2(method, password, salt string, keyLen int) ([]byte, error) {
	fields := strings.Split(method, ":")
	if len(fields) != 3 {
		return nil, oops.Code("AUTH_INVALID_HASH").With("format", "pbkdf2").Errorf("iterations missing from method %q", method)
	}
	newDigest, ok := legacyDigests[fields[1]]
	if !ok {
		return nil, oops.Code("AUTH_INVALID_HASH").With("format", "pbkdf2").Errorf("unsupported digest %q", fields[1])
	}
	iterations, err := strconv.Atoi(fields[2])
	if err != nil || iterations <= 0 || iterations > maxLegacyPBKDF2Iterations {
		return nil, oops.Code("AUTH_INVALID_HASH").With("format", "pbkdf2").Errorf("invalid iteration count %q", fields[2])
	}
	return pbkdf2.Key([]byte(password), []byte(salt), iterations, keyLen, newDigest), nil
}

func werkzeugScrypt(method, password, salt string, keyLen int) ([]byte, error) {
	fields := strings.Split(method, ":")
	if len(fields) != 4 {
		return nil, oops.Code("AUTH_INVALID_HASH").With("format", "scrypt").Errorf("invalid scrypt method %q", method)
	}
	var params [3]int
	for i, f := range fields[1:] {
		v, err := strconv.Atoi(f)
		if err != nil || v <= 0 {
			return nil, oops.Code("AUTH_INVALID_HASH").With("format", "scrypt").Errorf("invalid scrypt parameter %q", f)
		}
		params[i] = v
	}
	if params[0] > maxLegacyScryptN {
		return nil, oops.Code("AUTH_INVALID_HASH").With("format", "scrypt").Errorf("scrypt cost %d too large", params[0])
	}
	key, err := scrypt.Key([]byte(password), []byte(salt), params[0], params[1], params[2], keyLen)
	if err != nil {
		return nil, oops.Code("AUTH_INVALID_HASH").With("format", "scrypt").Wrap(err)
	}
	return key, nil
}
