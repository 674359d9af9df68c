package callback

import (
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNavigator struct {
	opened []string
	err    error
}

func (f *fakeNavigator) Open(target string) error {
	f.opened = append(f.opened, target)
	return f.err
}

func TestRedirect_AppendsResultParams(t *testing.T) {
	nav := &fakeNavigator{}
	r := New(nav, nil)

	r.Redirect("https://merchant.example/done?orderId=42", "0xabc", "ETH")

	require.Len(t, nav.opened, 1)
	parsed, err := url.Parse(nav.opened[0])
	require.NoError(t, err)
	query := parsed.Query()
	assert.Equal(t, "42", query.Get("orderId"))
	assert.Equal(t, "0xabc", query.Get("txhash"))
	assert.Equal(t, "ETH", query.Get("currency"))
}

func TestRedirect_NoExistingQuery(t *testing.T) {
	nav := &fakeNavigator{}
	r := New(nav, nil)

	r.Redirect("https://merchant.example/done", "0xabc", "DAI")

	require.Len(t, nav.opened, 1)
	parsed, err := url.Parse(nav.opened[0])
	require.NoError(t, err)
	assert.Equal(t, "0xabc", parsed.Query().Get("txhash"))
	assert.Equal(t, "DAI", parsed.Query().Get("currency"))
}

func TestRedirect_GuardsAbsentCallback(t *testing.T) {
	nav := &fakeNavigator{}
	r := New(nav, nil)

	r.Redirect("", "0xabc", "ETH")
	r.Redirect("undefined", "0xabc", "ETH")

	assert.Empty(t, nav.opened)
}

func TestRedirect_SilentOnNavigationFailure(t *testing.T) {
	nav := &fakeNavigator{err: errors.New("no display")}
	r := New(nav, nil)

	// must not panic or propagate
	r.Redirect("https://merchant.example/done", "0xabc", "ETH")
	assert.Len(t, nav.opened, 1)
}

func TestRedirect_NilNavigatorIsNoOp(t *testing.T) {
	r := New(nil, nil)
	r.Redirect("https://merchant.example/done", "0xabc", "ETH")
}

func TestAppendToQueryString_PreservesExisting(t *testing.T) {
	out, err := AppendToQueryString("https://example.com/cb?a=1&b=2", map[string]string{"txhash": "0x1"})
	require.NoError(t, err)

	parsed, err := url.Parse(out)
	require.NoError(t, err)
	assert.Equal(t, "1", parsed.Query().Get("a"))
	assert.Equal(t, "2", parsed.Query().Get("b"))
	assert.Equal(t, "0x1", parsed.Query().Get("txhash"))
}
