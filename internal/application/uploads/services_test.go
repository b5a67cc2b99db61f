package uploads

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bryanwahyu/automaton-shop/internal/domain/files"
	"github.com/bryanwahyu/automaton-shop/internal/middleware"
	"github.com/bryanwahyu/automaton-shop/internal/testutil"
)

func TestUploadFile(t *testing.T) {
	store := testutil.NewFiles()
	svc := &Service{Files: store, Log: zap.NewNop()}

	up, err := svc.UploadFile(context.Background(), "Owner@Shop.io", KindImage, "../hero banner.png", "image/png", strings.NewReader("png"), 3)
	require.NoError(t, err)
	assert.True(t, store.Has(up.Key))
	assert.True(t, strings.HasPrefix(up.FileURL, "https://files.test/"))
	assert.True(t, strings.HasSuffix(up.Key, "-hero-banner.png"), up.Key)
	assert.Contains(t, up.Key, "/images/")
	assert.NotContains(t, up.Key, "Owner")

	_, err = svc.UploadFile(context.Background(), "a@b.c", KindImage, "doc.pdf", "application/pdf", strings.NewReader("%PDF"), 4)
	assert.True(t, middleware.IsValidation(err))
}

func TestUploadFile_Disabled(t *testing.T) {
	svc := &Service{Log: zap.NewNop()}
	_, err := svc.UploadFile(context.Background(), "a@b.c", KindGeneric, "x.txt", "text/plain", strings.NewReader("x"), 1)
	assert.ErrorIs(t, err, files.ErrDisabled)
}

func TestKey_SameOwnerSamePrefix(t *testing.T) {
	a := Key("m@x.io", KindTheme, "theme.zip")
	b := Key("M@X.io", KindTheme, "theme.zip")
	assert.Equal(t, strings.SplitN(a, "/", 2)[0], strings.SplitN(b, "/", 2)[0])
	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasSuffix(Key("m@x.io", KindGeneric, "///"), "-file"))
}
