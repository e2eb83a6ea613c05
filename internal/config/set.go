package config

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

type field struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

var fields = map[string]field{
	"chat_endpoint": {
		get: func(c *Config) string { return c.ChatEndpoint },
		set: func(c *Config, v string) error { return setURL(&c.ChatEndpoint, v) },
	},
	"projects_url": {
		get: func(c *Config) string { return c.ProjectsURL },
		set: func(c *Config, v string) error { return setURL(&c.ProjectsURL, v) },
	},
	"n_results": {
		get: func(c *Config) string { return strconv.Itoa(c.NResults) },
		set: func(c *Config, v string) error { return setPositiveInt(&c.NResults, v) },
	},
	"request_timeout": {
		get: func(c *Config) string { return strconv.Itoa(c.RequestTimeout) },
		set: func(c *Config, v string) error { return setPositiveInt(&c.RequestTimeout, v) },
	},
	"api_key": {
		get: func(c *Config) string { return mask(c.APIKey) },
		set: func(c *Config, v string) error { c.APIKey = v; return nil },
	},
	"verbose": {
		get: func(c *Config) string { return strconv.FormatBool(c.Verbose) },
		set: func(c *Config, v string) error { return setBool(&c.Verbose, v) },
	},
	"tui_theme": {
		get: func(c *Config) string { return c.TUITheme },
		set: func(c *Config, v string) error { c.TUITheme = v; return nil },
	},
	"markdown.style": {
		get: func(c *Config) string { return c.Markdown.Style },
		set: func(c *Config, v string) error { c.Markdown.Style = v; return nil },
	},
	"markdown.enable_emoji": {
		get: func(c *Config) string { return strconv.FormatBool(c.Markdown.EnableEmoji) },
		set: func(c *Config, v string) error { return setBool(&c.Markdown.EnableEmoji, v) },
	},
	"markdown.preserve_newlines": {
		get: func(c *Config) string { return strconv.FormatBool(c.Markdown.PreserveNewLines) },
		set: func(c *Config, v string) error { return setBool(&c.Markdown.PreserveNewLines, v) },
	},
	"auth.domain": {
		get: func(c *Config) string { return c.Auth.Domain },
		set: func(c *Config, v string) error {
			c.Auth.Domain = strings.TrimSuffix(strings.TrimPrefix(v, "https://"), "/")
			return nil
		},
	},
	"auth.client_id": {
		get: func(c *Config) string { return c.Auth.ClientID },
		set: func(c *Config, v string) error { c.Auth.ClientID = v; return nil },
	},
	"auth.audience": {
		get: func(c *Config) string { return c.Auth.Audience },
		set: func(c *Config, v string) error { c.Auth.Audience = v; return nil },
	},
	"auth.callback_port": {
		get: func(c *Config) string { return strconv.Itoa(c.Auth.CallbackPort) },
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 || n > 65535 {
				return fmt.Errorf("invalid port: %q", v)
			}
			c.Auth.CallbackPort = n
			return nil
		},
	},
	"auth.scopes": {
		get: func(c *Config) string { return strings.Join(c.Auth.Scopes, ",") },
		set: func(c *Config, v string) error {
			var scopes []string
			for _, s := range strings.Split(v, ",") {
				if s = strings.TrimSpace(s); s != "" {
					scopes = append(scopes, s)
				}
			}
			if len(scopes) == 0 {
				return fmt.Errorf("at least one scope is required")
			}
			c.Auth.Scopes = scopes
			return nil
		},
	},
}

// Keys returns the settable configuration keys in sorted order
func Keys() []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the display value of key. Secrets are masked.
func (c *Config) Get(key string) (string, error) {
	f, ok := fields[key]
	if !ok {
		return "", fmt.Errorf("unknown config key: %s", key)
	}
	return f.get(c), nil
}

// Set validates value and assigns it to key
func (c *Config) Set(key, value string) error {
	f, ok := fields[key]
	if !ok {
		return fmt.Errorf("unknown config key: %s (valid keys: %s)", key, strings.Join(Keys(), ", "))
	}
	if err := f.set(c, strings.TrimSpace(value)); err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	return nil
}

func setURL(dst *string, v string) error {
	u, err := url.Parse(v)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("expected an http(s) URL, got %q", v)
	}
	*dst = v
	return nil
}

func setPositiveInt(dst *int, v string) error {
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fmt.Errorf("expected a positive integer, got %q", v)
	}
	*dst = n
	return nil
}

func setBool(dst *bool, v string) error {
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("expected true or false, got %q", v)
	}
	*dst = b
	return nil
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= 4 {
		return "****"
	}
	return strings.Repeat("*", len(secret)-4) + secret[len(secret)-4:]
}
