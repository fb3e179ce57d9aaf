package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsComponentName(t *testing.T) {
	valid := []string{"button", "blog/article-card", "ui/forms/text-input", "nav2"}
	for _, name := range valid {
		assert.True(t, IsComponentName(name), "expected valid: %s", name)
	}

	invalid := []string{"", "Button", "/button", "button/", "foo bar", "-foo", "foo--bar", "foo_bar"}
	for _, name := range invalid {
		assert.False(t, IsComponentName(name), "expected invalid: %s", name)
	}
}

func TestIsPagePath(t *testing.T) {
	valid := []string{"/", "/about", "/blog/first-post", "/a1/b2"}
	for _, path := range valid {
		assert.True(t, IsPagePath(path), "expected valid: %s", path)
	}

	invalid := []string{"", "about", "/About", "/about/", "//about", "/foo_bar"}
	for _, path := range invalid {
		assert.False(t, IsPagePath(path), "expected invalid: %s", path)
	}
}

func TestIsAssetPath(t *testing.T) {
	assert.True(t, IsAssetPath("/assets/logo.svg"))
	assert.True(t, IsAssetPath("/assets/fonts/Inter-Bold.woff2"))
	assert.False(t, IsAssetPath("assets/logo.svg"))
	assert.False(t, IsAssetPath("/assets/"))
	assert.False(t, IsAssetPath("/assets/logo file.svg"))
}

func TestIsPropertyName(t *testing.T) {
	assert.True(t, IsPropertyName("title"))
	assert.True(t, IsPropertyName("item_count"))
	assert.False(t, IsPropertyName("Title"))
	assert.False(t, IsPropertyName("_private"))
	assert.False(t, IsPropertyName("item-count"))
}

func TestIsGlobalName(t *testing.T) {
	assert.True(t, IsGlobalName("SITE_NAME"))
	assert.True(t, IsGlobalName("VERSION2"))
	assert.False(t, IsGlobalName("site_name"))
	assert.False(t, IsGlobalName("_SITE"))
}

func TestIsScssVariableName(t *testing.T) {
	assert.True(t, IsScssVariableName("$primaryColor"))
	assert.True(t, IsScssVariableName("$gap"))
	assert.False(t, IsScssVariableName("primaryColor"))
	assert.False(t, IsScssVariableName("$PrimaryColor"))
	assert.False(t, IsScssVariableName("$primary-color"))
}

func TestIsAttributeName(t *testing.T) {
	valid := []string{"class", "x-data", "x-on:click", "@click", ":disabled", "data-id", "x-transition.opacity"}
	for _, name := range valid {
		assert.True(t, IsAttributeName(name), "expected valid: %s", name)
	}

	invalid := []string{"", "Class", "1class", "@", "foo bar"}
	for _, name := range invalid {
		assert.False(t, IsAttributeName(name), "expected invalid: %s", name)
	}
}

func TestIsOutletName(t *testing.T) {
	assert.True(t, IsOutletName("main"))
	assert.True(t, IsOutletName("sidebar-top"))
	assert.False(t, IsOutletName("Main"))
	assert.False(t, IsOutletName("side_bar"))
}
