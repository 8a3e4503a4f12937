package config

import (
	"fmt"
	"os"
	"strings"
)

// TokenSource hands the admin token to the API client. A token file wins over a
// static token and is re-read on every call, so rotating the file takes effect
// without a restart.
type TokenSource struct {
	static string
	file   string
}

func (c *Config) Tokens() *TokenSource {
	return &TokenSource{static: c.Token, file: c.TokenFile}
}

func (s *TokenSource) Token() (string, error) {
	if s.file == "" {
		return s.static, nil
	}
	data, err := os.ReadFile(s.file)
	if err != nil {
		return "", fmt.Errorf("failed to read token file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}
