// SPDX-License-Identifier: MIT

package config

import (
	"bytes"
	"testing"
	"time"

	"github.com/ManuGH/filmshelf/internal/log"
	"github.com/stretchr/testify/assert"
)

func TestParseString(t *testing.T) {
	t.Setenv("FILMSHELF_TEST_STRING", "from-env")
	t.Setenv("FILMSHELF_TEST_STRING_EMPTY", "")

	assert.Equal(t, "from-env", ParseString("FILMSHELF_TEST_STRING", "default"))
	assert.Equal(t, "default", ParseString("FILMSHELF_TEST_STRING_EMPTY", "default"))
	assert.Equal(t, "default", ParseString("FILMSHELF_TEST_STRING_UNSET", "default"))
}

func TestParseString_SensitiveValueNotLogged(t *testing.T) {
	var buf bytes.Buffer
	log.Configure(log.Config{Level: "debug", Output: &buf})
	defer log.Configure(log.Config{})

	t.Setenv("FILMSHELF_TEST_PASSWORD", "secret123")
	assert.Equal(t, "secret123", ParseString("FILMSHELF_TEST_PASSWORD", ""))
	assert.NotContains(t, buf.String(), "secret123")
	assert.Contains(t, buf.String(), `"sensitive":true`)
}

func TestParseInt(t *testing.T) {
	tests := []struct {
		name string
		env  string
		set  bool
		want int
	}{
		{name: "valid", env: "42", set: true, want: 42},
		{name: "negative", env: "-7", set: true, want: -7},
		{name: "invalid falls back", env: "forty", set: true, want: 10},
		{name: "float falls back", env: "4.2", set: true, want: 10},
		{name: "empty falls back", env: "", set: true, want: 10},
		{name: "unset", want: 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.set {
				t.Setenv("FILMSHELF_TEST_INT", tt.env)
			}
			assert.Equal(t, tt.want, ParseInt("FILMSHELF_TEST_INT", 10))
		})
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		name string
		env  string
		set  bool
		want time.Duration
	}{
		{name: "seconds", env: "5s", set: true, want: 5 * time.Second},
		{name: "compound", env: "1m30s", set: true, want: 90 * time.Second},
		{name: "bare number falls back", env: "30", set: true, want: time.Minute},
		{name: "garbage falls back", env: "soon", set: true, want: time.Minute},
		{name: "unset", want: time.Minute},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.set {
				t.Setenv("FILMSHELF_TEST_DURATION", tt.env)
			}
			assert.Equal(t, tt.want, ParseDuration("FILMSHELF_TEST_DURATION", time.Minute))
		})
	}
}

func TestParseBool(t *testing.T) {
	for env, want := range map[string]bool{
		"true": true, "TRUE": true, "1": true, "yes": true,
		"false": false, "0": false, "no": false,
	} {
		t.Run(env, func(t *testing.T) {
			t.Setenv("FILMSHELF_TEST_BOOL", env)
			assert.Equal(t, want, ParseBool("FILMSHELF_TEST_BOOL", !want))
		})
	}

	t.Run("invalid falls back", func(t *testing.T) {
		t.Setenv("FILMSHELF_TEST_BOOL", "maybe")
		assert.True(t, ParseBool("FILMSHELF_TEST_BOOL", true))
	})
	t.Run("empty falls back", func(t *testing.T) {
		t.Setenv("FILMSHELF_TEST_BOOL", "")
		assert.False(t, ParseBool("FILMSHELF_TEST_BOOL", false))
	})
}

func TestParseFloat(t *testing.T) {
	t.Setenv("FILMSHELF_TEST_FLOAT", "0.25")
	t.Setenv("FILMSHELF_TEST_FLOAT_BAD", "half")

	assert.Equal(t, 0.25, ParseFloat("FILMSHELF_TEST_FLOAT", 1))
	assert.Equal(t, 1.0, ParseFloat("FILMSHELF_TEST_FLOAT_BAD", 1))
	assert.Equal(t, 0.5, ParseFloat("FILMSHELF_TEST_FLOAT_UNSET", 0.5))
}

func TestParseStringList(t *testing.T) {
	t.Setenv("FILMSHELF_TEST_LIST", " http://a.example , ,http://b.example")
	t.Setenv("FILMSHELF_TEST_LIST_BLANK", " , ")

	assert.Equal(t, []string{"http://a.example", "http://b.example"}, ParseStringList("FILMSHELF_TEST_LIST", nil))
	assert.Equal(t, []string{"*"}, ParseStringList("FILMSHELF_TEST_LIST_BLANK", []string{"*"}))
	assert.Equal(t, []string{"*"}, ParseStringList("FILMSHELF_TEST_LIST_UNSET", []string{"*"}))
}
