package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitNameValue(t *testing.T) {
	tests := []struct {
		name      string
		in        string
		wantName  string
		wantValue string
		wantOK    bool
	}{
		{name: "with value", in: "foo=bar", wantName: "foo", wantValue: "bar", wantOK: true},
		{name: "empty value", in: "foo=", wantName: "foo", wantValue: "", wantOK: true},
		{name: "value contains equals", in: "foo=a=b", wantName: "foo", wantValue: "a=b", wantOK: true},
		{name: "no value", in: "foo", wantName: "foo", wantValue: "", wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, value, ok := splitNameValue(tt.in)
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantValue, value)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestSplitNameFile(t *testing.T) {
	name, file, err := splitNameFile("foo=/tmp/bar")
	require.NoError(t, err)
	assert.Equal(t, "foo", name)
	assert.Equal(t, "/tmp/bar", file)

	_, _, err = splitNameFile("foo")
	assert.Error(t, err)
}

func TestEnvOrError(t *testing.T) {
	t.Setenv("RSJSONNET_TEST_VAR", "hello")
	v, err := envOrError("RSJSONNET_TEST_VAR")
	require.NoError(t, err)
	assert.Equal(t, "hello", v)

	_, err = envOrError("RSJSONNET_TEST_VAR_UNSET_XYZ")
	assert.Error(t, err)
}
