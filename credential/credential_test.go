package credential

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClass_Distinct(t *testing.T) {
	issuer, err := NewIssuer()
	require.NoError(t, err)

	a := issuer.NewClass("marketplace", nil)
	b := issuer.NewClass("marketplace", nil)
	assert.NotEqual(t, a, b, "same name must still yield distinct classes")

	other, err := NewIssuer()
	require.NoError(t, err)
	c := other.NewClass("marketplace", nil)
	assert.NotEqual(t, a, c, "classes must not collide across issuers")
}

func TestIssue_UnknownClass(t *testing.T) {
	issuer, err := NewIssuer()
	require.NoError(t, err)

	_, err = issuer.Issue(Class("forged"))
	assert.ErrorIs(t, err, ErrUnknownClass)
}

func TestIssue_Metadata(t *testing.T) {
	issuer, err := NewIssuer()
	require.NoError(t, err)

	class := issuer.NewClass("marketplace", map[string]string{"fee_rate": "0.02"})
	cred, err := issuer.Issue(class)
	require.NoError(t, err)

	assert.Equal(t, class, cred.Class())
	assert.NotEmpty(t, cred.ID())

	rate, ok := cred.Metadata("fee_rate")
	require.True(t, ok)
	assert.Equal(t, "0.02", rate)

	_, ok = cred.Metadata("missing")
	assert.False(t, ok)
}

func TestZeroCredential(t *testing.T) {
	var c Credential
	assert.True(t, c.IsZero())
	assert.Empty(t, c.Class())
}
