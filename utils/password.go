package utils

import (
	"github.com/matthewhartstonge/argon2"
)

// argonCfg is shared so every hash uses the same cost parameters; encoded
// hashes carry their parameters, so tuning it later keeps old hashes valid.
var argonCfg = argon2.DefaultConfig()

func HashPassword(password string) (string, error) {
	encoded, err := argonCfg.HashEncoded([]byte(password))
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

func VerifyPassword(encodedHash, password string) (bool, error) {
	return argon2.VerifyEncoded([]byte(password), []byte(encodedHash))
}
