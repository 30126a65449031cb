package registry

import (
	"testing"

	"github.com/ariel-frischer/blockcraft/internal/block"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type opts struct {
	Name string `mapstructure:"name" validate:"required"`
}

func noop(ctx block.Context, o opts) block.Contribution { return block.Contribution{} }

func TestRegistry_RegisterAndLookup(t *testing.T) {
	t.Parallel()

	r := New()
	r.Register(block.Define("b", "", func() opts { return opts{Name: "x"} }, noop))
	r.Register(block.Define("a", "", func() opts { return opts{Name: "y"} }, noop))

	assert.Equal(t, 2, r.Len())
	assert.Equal(t, []string{"a", "b"}, r.Names())

	all := r.All()
	require.Len(t, all, 2)
	assert.Equal(t, "a", all[0].Name())

	b, ok := r.Get("b")
	require.True(t, ok)
	assert.Equal(t, "b", b.Name())

	_, ok = r.Get("missing")
	assert.False(t, ok)

	found, err := r.Lookup("a", "b")
	require.NoError(t, err)
	assert.Len(t, found, 2)

	_, err = r.Lookup("a", "zzz")
	var unknown *UnknownBlockError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "zzz", unknown.Name)
	assert.Contains(t, err.Error(), "a, b")
}

func TestRegistry_PanicsOnDuplicates(t *testing.T) {
	t.Parallel()

	r := New()
	r.Register(block.Define("a", "", nil, noop))
	assert.Panics(t, func() { r.Register(block.Define("a", "", nil, noop)) })
	assert.Panics(t, func() { r.Register(block.Define("", "", nil, noop)) })
	assert.Panics(t, func() { r.MustGet("nope") })
}

func TestRegistry_Validate(t *testing.T) {
	t.Parallel()

	r := New()
	r.Register(block.Define("good", "", func() opts { return opts{Name: "x"} }, noop))
	require.NoError(t, r.Validate())

	r.Register(block.Define("bad", "", nil, noop))
	err := r.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `block "bad"`)
	assert.NotContains(t, err.Error(), `block "good"`)
}
