// SPDX-License-Identifier: MIT
package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestRunConfig_Usage(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 0, runConfig(nil, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "filmshelf config validate")

	stderr.Reset()
	assert.Equal(t, 2, runConfig([]string{"explode"}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "Unknown subcommand: explode")
}

func TestRunConfigValidate(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode int
		wantOut  string
	}{
		{
			name:     "valid",
			body:     "dataFile: films.json\napi:\n  listenAddr: \":9000\"\n",
			wantCode: 0,
			wantOut:  "is valid",
		},
		{
			name:     "unknown_field",
			body:     "dataFile: films.json\nposterDir: /srv\n",
			wantCode: 1,
			wantOut:  "unknown config field",
		},
		{
			name:     "bad_log_level",
			body:     "logLevel: loud\n",
			wantCode: 1,
			wantOut:  "Configuration error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.body)
			var stdout, stderr bytes.Buffer
			code := runConfig([]string{"validate", "-f", path}, &stdout, &stderr)
			assert.Equal(t, tt.wantCode, code, "stderr: %s", stderr.String())
			assert.Contains(t, stdout.String()+stderr.String(), tt.wantOut)
		})
	}
}

func TestRunConfigValidate_DefaultsOnly(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := runConfig([]string{"validate"}, &stdout, &stderr)
	assert.Equal(t, 0, code, "stderr: %s", stderr.String())
	assert.Contains(t, stdout.String(), "environment and defaults is valid")
}

func TestRunConfigDump_YAML(t *testing.T) {
	path := writeConfig(t, "dataFile: films.json\nwatch: true\n")
	var stdout, stderr bytes.Buffer
	code := runConfig([]string{"dump", "--file", path}, &stdout, &stderr)
	require.Equal(t, 0, code, "stderr: %s", stderr.String())

	var out map[string]any
	require.NoError(t, yaml.Unmarshal(stdout.Bytes(), &out))
	assert.Equal(t, "films.json", out["dataFile"])
	assert.Equal(t, true, out["watch"])
}

func TestRunConfigDump_JSONEnvOverride(t *testing.T) {
	t.Setenv("FILMSHELF_LISTEN", "127.0.0.1:9999")
	path := writeConfig(t, "api:\n  listenAddr: \":9000\"\n")

	var stdout, stderr bytes.Buffer
	code := runConfig([]string{"dump", "-f", path, "--format", "json"}, &stdout, &stderr)
	require.Equal(t, 0, code, "stderr: %s", stderr.String())
	assert.Equal(t, "127.0.0.1:9999", gjson.Get(stdout.String(), "api.listenAddr").String())
}

func TestRunConfigDump_BadFormat(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := runConfig([]string{"dump", "--format", "toml"}, &stdout, &stderr)
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr.String(), "Unsupported format")
	assert.Empty(t, stdout.String())
}
