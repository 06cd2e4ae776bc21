package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		opts    *Options
		wantErr bool
	}{
		{
			name: "ok default JSON output",
			opts: &Options{Filename: "a.jsonnet"},
		},
		{
			name: "ok string output",
			opts: &Options{Filename: "a.jsonnet", StringOut: true},
		},
		{
			name:    "y and S are mutually exclusive",
			opts:    &Options{Filename: "a.jsonnet", YAMLStream: true, StringOut: true},
			wantErr: true,
		},
		{
			name:    "m and o are mutually exclusive",
			opts:    &Options{Filename: "a.jsonnet", MultiDir: "out", OutputFile: "out.json"},
			wantErr: true,
		},
		{
			name:    "missing filename",
			opts:    &Options{},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
