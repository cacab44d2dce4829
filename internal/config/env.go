package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// DefaultEnvFile is loaded from the working directory when present.
const DefaultEnvFile = ".env"

// Env looks up settings in the process environment first and a .env file
// second. The .env file never overrides the real environment.
type Env struct {
	lookup  func(string) (string, bool)
	dotenv  map[string]string
	EnvFile string
}

// LoadEnv reads path with godotenv. A missing file is ignored unless
// required is set, which is the case when the path was given explicitly.
func LoadEnv(path string, required bool) (*Env, error) {
	env := &Env{lookup: os.LookupEnv, dotenv: map[string]string{}}
	if path == "" {
		return env, nil
	}

	values, err := godotenv.Read(path)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return env, nil
		}
		return nil, fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	env.dotenv = values
	env.EnvFile = path
	return env, nil
}

// NewEnv creates an Env from explicit sources, for tests.
func NewEnv(lookup func(string) (string, bool), dotenv map[string]string) *Env {
	if lookup == nil {
		lookup = func(string) (string, bool) { return "", false }
	}
	if dotenv == nil {
		dotenv = map[string]string{}
	}
	return &Env{lookup: lookup, dotenv: dotenv}
}

// Get returns the value of key, or "" when unset.
func (e *Env) Get(key string) string {
	if v, ok := e.lookup(key); ok {
		return v
	}
	return e.dotenv[key]
}
