package form

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeepLink(t *testing.T) {
	link := DeepLink("+62 812-3456-7890", "*Nama Anak:* Budi & Sari\nA+B?")
	assert.Equal(t, "https://wa.me/6281234567890?text=%2ANama%20Anak%3A%2A%20Budi%20%26%20Sari%0AA%2BB%3F", link)

	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "*Nama Anak:* Budi & Sari\nA+B?", u.Query().Get("text"))
}

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "6281234567890", NormalizePhone(" +62 (812) 3456-7890 "))
	assert.Equal(t, "", NormalizePhone("n/a"))
}
