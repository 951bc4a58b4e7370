package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDomain(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{
			name: "Plain domain",
			raw:  "example.com",
			want: "example.com",
		},
		{
			name: "Uppercase lowered",
			raw:  "EXAMPLE.Com",
			want: "example.com",
		},
		{
			name: "Leading www stripped",
			raw:  "www.example.com",
			want: "example.com",
		},
		{
			name: "Scheme stripped",
			raw:  "https://example.com",
			want: "example.com",
		},
		{
			name: "Scheme, www and path stripped",
			raw:  "https://www.example.com/login?next=/",
			want: "example.com",
		},
		{
			name: "Port stripped",
			raw:  "example.com:8443",
			want: "example.com",
		},
		{
			name: "Trailing dot removed",
			raw:  "example.com.",
			want: "example.com",
		},
		{
			name: "Surrounding whitespace trimmed",
			raw:  "  example.com  ",
			want: "example.com",
		},
		{
			name: "Subdomain kept",
			raw:  "api.example.com",
			want: "api.example.com",
		},
		{
			name:    "Empty input",
			raw:     "",
			wantErr: true,
		},
		{
			name:    "Whitespace only",
			raw:     "   ",
			wantErr: true,
		},
		{
			name:    "Embedded space",
			raw:     "exa mple.com",
			wantErr: true,
		},
		{
			name:    "Only www",
			raw:     "www.",
			wantErr: true,
		},
		{
			name: "Leading www and trailing dot together",
			raw:  "www.example.com.",
			want: "example.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeDomain(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
