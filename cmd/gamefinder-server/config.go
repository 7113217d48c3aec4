package main

import (
	"os"
	"strconv"
	"time"

	"gamefinder-backend/lib/fetch"
)

type HttpConfig struct {
	UserAgent      string `json:"user_agent"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

type Config struct {
	Port int        `json:"port"`
	Http HttpConfig `json:"http"`
}

func (c Config) fetchOptions() fetch.Options {
	opts := fetch.Options{
		UserAgent: c.Http.UserAgent,
	}
	if c.Http.TimeoutSeconds > 0 {
		opts.Timeout = time.Duration(c.Http.TimeoutSeconds) * time.Second
	}
	return opts
}

func (c Config) port() int {
	if c.Port > 0 {
		return c.Port
	}
	if env, err := strconv.Atoi(os.Getenv("PORT")); err == nil && env > 0 {
		return env
	}
	return 8000
}
