package initchecker

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type provider interface {
	Name() string
}

type impl struct{}

func (i *impl) Name() string { return "impl" }

func TestCheck(t *testing.T) {
	var typedNil *impl
	var p provider = typedNil

	require.NoError(t, Check("media", &impl{}))
	require.EqualError(t, Check("media", nil), "media dependency not initialized")
	require.EqualError(t, Check("notify", p), "notify dependency not initialized")
	require.Error(t, Check("media"))
	require.Error(t, Check(1, &impl{}))
}

func TestCheckInitPanics(t *testing.T) {
	require.Panics(t, func() { CheckInit("exporter", nil) })
	require.NotPanics(t, func() { CheckInit("exporter", &impl{}) })
}
