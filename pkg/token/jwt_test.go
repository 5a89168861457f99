package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEngine(t *testing.T) {
	engine := NewEngine("secret")

	tkn, err := engine.Generate(time.Minute, AdminClaims{Name: "mapper"})
	require.NoError(t, err)

	var claims AdminClaims
	require.NoError(t, engine.Verify(tkn, &claims))
	require.Equal(t, "mapper", claims.Name)

	require.Error(t, NewEngine("other").Verify(tkn, &claims))

	expired, err := engine.Generate(-time.Minute, AdminClaims{Name: "mapper"})
	require.NoError(t, err)
	require.Error(t, engine.Verify(expired, &claims))
}
