package match_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dw-bridge/internal/match"
)

func TestFindBestMatch_Exact(t *testing.T) {
	m := match.New(0, nil, nil)

	res := m.FindBestMatch("customer", []string{"ORDERS", "CUSTOMER"}, true)
	require.NotNil(t, res)
	assert.Equal(t, "CUSTOMER", res.Name)
	assert.Equal(t, match.KindExact, res.Kind)
	assert.Equal(t, 1.0, res.Score)
}

func TestFindBestMatch_ExactBeatsNormalized(t *testing.T) {
	m := match.New(0, nil, nil)

	// Both candidates normalize to CUSTOMER; the exact one must win.
	res := m.FindBestMatch("STG_CUSTOMER", []string{"CUSTOMER", "STG_CUSTOMER"}, true)
	require.NotNil(t, res)
	assert.Equal(t, "STG_CUSTOMER", res.Name)
	assert.Equal(t, match.KindExact, res.Kind)
}

func TestFindBestMatch_NormalizedExact(t *testing.T) {
	m := match.New(0, nil, nil)

	res := m.FindBestMatch("STG_CUSTOMER", []string{"CUSTOMER", "ORDERS"}, true)
	require.NotNil(t, res)
	assert.Equal(t, "CUSTOMER", res.Name)
	assert.Equal(t, match.KindNormalizedExact, res.Kind)
	assert.Equal(t, 0.95, res.Score)

	res = m.FindBestMatch("CUSTOMER_BACKUP", []string{"CUSTOMER"}, true)
	require.NotNil(t, res)
	assert.Equal(t, match.KindNormalizedExact, res.Kind)
}

func TestFindBestMatch_Fuzzy(t *testing.T) {
	m := match.New(0.85, nil, nil)

	res := m.FindBestMatch("CUSTOMERS", []string{"CUSTOMER", "ORDERS"}, true)
	require.NotNil(t, res)
	assert.Equal(t, "CUSTOMER", res.Name)
	assert.Equal(t, match.KindFuzzy, res.Kind)
	assert.GreaterOrEqual(t, res.Score, 0.85)
	assert.Less(t, res.Score, 1.0)
}

func TestFindBestMatch_BelowThreshold(t *testing.T) {
	m := match.New(0.85, nil, nil)

	assert.Nil(t, m.FindBestMatch("INVENTORY", []string{"CUSTOMER", "ORDERS"}, true))
}

func TestFindBestMatch_NoCandidates(t *testing.T) {
	m := match.New(0, nil, nil)

	assert.Nil(t, m.FindBestMatch("CUSTOMER", nil, true))
}

func TestNormalize(t *testing.T) {
	m := match.New(0, nil, nil)

	assert.Equal(t, "CUSTOMER", m.Normalize("STG_CUSTOMER"))
	assert.Equal(t, "CUSTOMER", m.Normalize("customer_backup"))
	assert.Equal(t, "ORDERS", m.Normalize("TMP_ORDERS_OLD"))
	assert.Equal(t, "ORDERS", m.Normalize("  orders "))
}

func TestNormalize_StripsAtMostOnePrefix(t *testing.T) {
	m := match.New(0, nil, nil)

	// One prefix, one suffix: never recursive.
	assert.Equal(t, "TMP_CUSTOMER", m.Normalize("STG_TMP_CUSTOMER"))
}

func TestFindTopN(t *testing.T) {
	m := match.New(0.8, nil, nil)

	res := m.FindTopN("CUSTOMER", []string{"CUSTOMER", "CUSTOMERS", "ORDERS"}, 2)
	require.Len(t, res, 2)
	assert.Equal(t, "CUSTOMER", res[0].Name)
	assert.Equal(t, "CUSTOMERS", res[1].Name)
	assert.GreaterOrEqual(t, res[0].Score, res[1].Score)
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"CUSTOMER", "ADDRESS"}, match.Tokenize("CUSTOMER_ADDRESS"))
	assert.Equal(t, []string{"CUSTOMER", "ADDRESS"}, match.Tokenize("customerAddress"))
	assert.Equal(t, []string{"CUSTOMER"}, match.Tokenize("CUSTOMER"))
}

func TestTokenSimilarity_ReorderedTokens(t *testing.T) {
	m := match.New(0.85, nil, nil)

	res := m.TokenSimilarity("CUSTOMER_ADDRESS", []string{"ADDRESS_CUSTOMER", "ORDERS"})
	require.NotNil(t, res)
	assert.Equal(t, "ADDRESS_CUSTOMER", res.Name)
	assert.Equal(t, match.KindToken, res.Kind)
	assert.Equal(t, 1.0, res.Score)
}

func TestTokenSimilarity_NoMatch(t *testing.T) {
	m := match.New(0.85, nil, nil)

	assert.Nil(t, m.TokenSimilarity("CUSTOMER_ADDRESS", []string{"PRODUCT_PRICE"}))
}
