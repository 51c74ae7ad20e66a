package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/siimots/sadamad-data/internal/config"
)

func TestConfigCommand_PrintsYAML(t *testing.T) {
	orig := cfg
	t.Cleanup(func() { cfg = orig })

	cfg = &config.Config{}
	cfg.Registry.BaseURL = "https://www.sadamaregister.ee"
	cfg.Output.Dir = "public"
	cfg.Server.Port = 8080

	var buf bytes.Buffer
	configCmd.SetOut(&buf)
	t.Cleanup(func() { configCmd.SetOut(nil) })
	require.NoError(t, configCmd.RunE(configCmd, nil))

	assert.Contains(t, buf.String(), "registry:\n  base_url: ")
	assert.Contains(t, buf.String(), "\nlog:\n")

	var back config.Config
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &back))
	assert.Equal(t, *cfg, back)
}
