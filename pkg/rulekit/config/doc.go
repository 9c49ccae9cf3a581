// Package config provides type-safe access to loosely-typed settings and
// constant tables.
//
// A Config wraps a map[string]any decoded from YAML, JSON or TOML. Every
// accessor takes a default returned when the key is missing or the value
// cannot be converted:
//
//	cfg, err := config.FromFile("rulekit.yaml")
//	level := cfg.String("log_level", "info")
//	size := cfg.Int("cache_size", 512)
//
// Config also implements the interpreter's Env, so a constants file can be
// evaluated against directly:
//
//	consts, _ := config.FromFile("constants.toml")
//	v, err := rulekit.Evaluate(`tier = "gold"`, consts.Raw())
package config
