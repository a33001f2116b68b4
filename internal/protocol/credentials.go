package protocol

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

// Credentials is one login/secret pair. The primary catalog and the
// aftermarket service have separate pairs; a signature computed with the
// wrong pair is rejected exactly like a malformed command.
type Credentials struct {
	Login  string
	Secret string
}

// Sign returns the upper-case hex MD5 of command+secret.
func (c Credentials) Sign(command string) string {
	return Sign(command, c.Secret)
}

func Sign(command, secret string) string {
	sum := md5.Sum([]byte(command + secret))
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}

func (c Credentials) validate(service string) error {
	if strings.TrimSpace(c.Login) == "" {
		return &ConfigurationError{Service: service, Field: "login"}
	}
	if strings.TrimSpace(c.Secret) == "" {
		return &ConfigurationError{Service: service, Field: "password"}
	}
	return nil
}
