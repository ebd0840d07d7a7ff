package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
)

// Getenv returns the trimmed env value or def.
func Getenv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

// MustEnv returns the env value or an error naming the missing key.
func MustEnv(k string) (string, error) {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return "", errors.New("missing required env var " + k)
	}
	return v, nil
}

func EnvInt(k string, def int) int {
	if v, err := strconv.Atoi(strings.TrimSpace(os.Getenv(k))); err == nil {
		return v
	}
	return def
}

func EnvBool(k string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(k))) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	}
	return def
}

// Dir returns CONFIG_DIR, defaulting to ./conf.
func Dir() string { return Getenv("CONFIG_DIR", "conf") }

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
