package metadata

import (
	"testing"
	"time"

	"github.com/scode/shastity/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringForms(t *testing.T) {
	mtime := time.Unix(1257894000, 123456789)

	assert.Equal(t, "f~1257894000123456789", Regular(mtime).String())
	assert.Equal(t, "d~1257894000123456789", Dir(mtime).String())
	assert.Equal(t, "l~../some/target", Symlink("../some/target").String())
	assert.Equal(t, "o~", Other().String())
}

func TestRoundTrip(t *testing.T) {
	mtime := time.Unix(1257894000, 123456789)
	for _, m := range []Metadata{
		Regular(mtime),
		Dir(mtime),
		Symlink("/abs/target with spaces"),
		Symlink(""),
		Other(),
	} {
		back, err := Parse(m.String())
		require.NoError(t, err)
		assert.True(t, m.Equal(back), "metadata %q", m.String())
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	for _, s := range []string{
		"",
		"f",            // no separator
		"f~",           // missing mtime
		"f~notanumber", // mtime must be an integer
		"x~123",        // unknown kind
		"o~trailing",   // skip entries carry no detail
		"fd~123",       // kind is a single letter
	} {
		_, err := Parse(s)
		require.Error(t, err, "input %q", s)
		assert.True(t, errors.Is(err, ErrInvalidMetadata))
	}
}

func TestEqualIgnoresLocation(t *testing.T) {
	mtime := time.Unix(1257894000, 42)
	a := Regular(mtime.UTC())
	b := Regular(mtime.In(time.FixedZone("elsewhere", 3600)))
	assert.True(t, a.Equal(b))
}
