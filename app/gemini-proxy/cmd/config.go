package cmd

import (
	"github.com/cchalm/gemini-proxy/internal/config"
)

// cfg is populated from the environment before any command runs, then overridden by flags
var cfg = config.Config{}

// Flag values, applied on top of the environment when set
var (
	portFlag     string
	providerFlag string
)

func applyFlagOverrides() {
	if portFlag != "" {
		cfg.Port = portFlag
	}
	if providerFlag != "" {
		cfg.Provider = config.Provider(providerFlag)
	}
}
