package markdown

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/javierhbr/test-inventory-sub000/internal/domain/registry"
)

func TestNew_Styles(t *testing.T) {
	for _, style := range []string{"", "dark", "light"} {
		r, err := New(60, style)
		require.NoError(t, err, style)
		require.Equal(t, 60, r.Width())
	}

	_, err := New(60, "neon")
	require.ErrorIs(t, err, ErrUnknownStyle)
}

func TestRecipeDocument(t *testing.T) {
	doc := RecipeDocument(registry.Recipe{
		Name:           "VIP checking",
		LineOfBusiness: "retail",
		Description:    "Checking account owned by a **VIP** customer.",
		Tags:           []string{"customer-type:vip", "smoke"},
	})

	require.Equal(t, "## VIP checking\n\n_retail_\n\n- `customer-type:vip`\n- `smoke`\n\nChecking account owned by a **VIP** customer.\n", doc)
}

func TestRecipeDocument_NoOptionalParts(t *testing.T) {
	doc := RecipeDocument(registry.Recipe{Name: "Bare"})

	require.Equal(t, "## Bare\n\n", doc)
}

func TestRenderRecipe(t *testing.T) {
	r, err := New(60, "dark")
	require.NoError(t, err)

	out, err := r.RenderRecipe(registry.Recipe{
		Name: "New saver",
		Tags: []string{"account:savings"},
	})
	require.NoError(t, err)
	require.Contains(t, out, "New saver")
	require.Contains(t, out, "account:savings")
}
