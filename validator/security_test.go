package validator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateTokenFormat(t *testing.T) {
	testCases := []struct {
		name    string
		token   string
		wantErr error
	}{
		{name: "three parts", token: "a.b.c"},
		{name: "empty signature", token: "a.b."},
		{name: "two parts", token: "a.b", wantErr: ErrExcessiveTokenDots},
		{name: "JWE shaped", token: "a.b.c.d.e", wantErr: ErrExcessiveTokenDots},
		{name: "too large", token: strings.Repeat("a", maxTokenSize) + ".b.c", wantErr: ErrTokenTooLarge},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := validateTokenFormat(tc.token)
			if tc.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}

	t.Run("empty", func(t *testing.T) {
		assert.Error(t, validateTokenFormat(""))
	})
}
