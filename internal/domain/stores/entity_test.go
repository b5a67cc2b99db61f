package stores

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeShopDomain(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"my-shop", "my-shop.myshopify.com"},
		{"https://My-Shop.myshopify.com/admin?x=1", "my-shop.myshopify.com"},
		{"  http://glow.myshopify.com/ ", "glow.myshopify.com"},
		{"", ""},
		{"https://", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeShopDomain(tt.in), tt.in)
	}
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Super ai shop", DisplayName("super-ai-shop.myshopify.com"))
	assert.Equal(t, "Glow", DisplayName("glow.myshopify.com"))
	assert.Equal(t, "", DisplayName(".myshopify.com"))
}

func TestApplyScores(t *testing.T) {
	var st Store
	st.ApplyScores(Scores{Speed: 68, SEO: 83, Accessibility: 71, Content: 77, Bloat: 64})
	assert.Equal(t, 73, st.HealthScore)

	st.ApplyScores(Scores{Speed: 140, SEO: -5, Accessibility: 50, Content: 50, Bloat: 51})
	assert.Equal(t, 100, st.Speed)
	assert.Equal(t, 0, st.SEO)
	// (100+0+50+50+51)/5 = 50.2
	assert.Equal(t, 50, st.HealthScore)
}
