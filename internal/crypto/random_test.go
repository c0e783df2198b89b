package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomBytes(t *testing.T) {
	tests := []struct {
		name    string
		n       int
		wantErr bool
	}{
		{name: "salt size", n: SaltSize},
		{name: "token id size", n: TokenIDSize},
		{name: "single byte", n: 1},
		{name: "zero", n: 0, wantErr: true},
		{name: "negative", n: -1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := RandomBytes(tt.n)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, b, tt.n)
		})
	}
}

func TestRandomBytes_Unique(t *testing.T) {
	a, err := RandomBytes(32)
	require.NoError(t, err)
	b, err := RandomBytes(32)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}
