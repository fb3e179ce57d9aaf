package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeView is a minimal in-test project backing.
type fakeView struct {
	components  map[string]*Component
	globals     map[string]string
	development bool
}

func (v *fakeView) HasComponent(name string) bool {
	_, ok := v.components[name]
	return ok
}

func (v *fakeView) ComponentByName(name string) *Component {
	return v.components[name]
}

func (v *fakeView) Globals() map[string]string { return v.globals }

func (v *fakeView) Development() bool { return v.development }

func newView(development bool) *fakeView {
	return &fakeView{
		components:  make(map[string]*Component),
		globals:     make(map[string]string),
		development: development,
	}
}

func (v *fakeView) add(t *testing.T, name, raw string) *Component {
	t.Helper()
	component, err := NewComponent(name, raw)
	require.NoError(t, err)
	component.AttachProject(v)
	component.SetIndex(len(v.components))
	v.components[name] = component
	return component
}

func (v *fakeView) page(t *testing.T, path, raw string) *Page {
	t.Helper()
	page, err := NewPage(path, raw)
	require.NoError(t, err)
	page.AttachProject(v)
	return page
}

func messages(diags []RenderDiagnostic) []string {
	out := make([]string, len(diags))
	for i, d := range diags {
		out[i] = d.Message
	}
	return out
}

func lintMessages(tpl Template, categories ...Category) []string {
	tpl.Lint(categories...)
	var out []string
	for _, d := range tpl.Diagnostics(categories...) {
		out = append(out, d.Message)
	}
	return out
}

func TestNewComponentRejectsInvalidName(t *testing.T) {
	_, err := NewComponent("Bad Name", "<div></div>")
	assert.Error(t, err)
}

func TestNewPageRejectsInvalidPath(t *testing.T) {
	_, err := NewPage("about", "<div></div>")
	assert.Error(t, err)
}

func TestComponentAccessors(t *testing.T) {
	component, err := NewComponent("blog/card", `<div if="visible"><h2>{{ title }}</h2><outlet name="footer"></outlet></div>`)
	require.NoError(t, err)

	assert.Equal(t, "blog/card", component.Name())
	assert.Equal(t, "blog/card", component.ID())
	assert.Equal(t, []string{"title", "visible"}, component.PropertyNames())
	assert.Equal(t, []string{"footer"}, component.OutletNames())
	assert.True(t, component.HasOutlet("footer"))
	assert.False(t, component.HasOutlet("main"))
	assert.Empty(t, component.Dependencies())
}

func TestComponentLintStructure(t *testing.T) {
	cases := []struct {
		name    string
		raw     string
		message string
	}{
		{"two roots", "<div></div><div></div>", "Components must have exactly one root node."},
		{"text root", "just text", "The root node must be an HTML element."},
		{"template root", "<template><p>x</p></template>", "Components cannot have a template root element."},
		{"outlet root", "<outlet></outlet>", "Outlets cannot be root nodes."},
		{"x-if on root", `<div x-if="open"></div>`, "The x-if directive is not allowed on the root element."},
		{"x-for on root", `<div x-for="item in items"></div>`, "The x-for directive is not allowed on the root element."},
		{"nested x-data", `<div><p x-data="{ open: false }"></p></div>`, "The x-data directive is only allowed on the root element."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			component, err := NewComponent("sample", tc.raw)
			require.NoError(t, err)
			assert.Contains(t, lintMessages(component, CategoryStructure), tc.message)
		})
	}

	component, err := NewComponent("sample", `<div x-data="{ open: false }"><p>{{ text }}</p></div>`)
	require.NoError(t, err)
	assert.Empty(t, lintMessages(component, CategoryStructure))
}

func TestPageLintStructure(t *testing.T) {
	view := newView(true)

	page := view.page(t, "/about", `<div><outlet></outlet></div>`)
	assert.Contains(t, lintMessages(page, CategoryStructure), "Outlets cannot be used in pages.")

	page = view.page(t, "/contact", `<div x-data="{ open: false }"></div>`)
	assert.Contains(t, lintMessages(page, CategoryStructure), "The x-data directive cannot be used in pages.")

	page = view.page(t, "/team", `<div @click="open = true"></div>`)
	assert.Contains(t, lintMessages(page, CategoryStructure),
		"Reactive directives in pages can only be used on include elements and their contents.")

	// Directives under an include are fine.
	page = view.page(t, "/shop", `<div><include component="counter"><button @click="n = n + 1">+</button></include></div>`)
	assert.Empty(t, lintMessages(page, CategoryStructure))
}

func TestLintDependencies(t *testing.T) {
	view := newView(true)
	view.add(t, "card", `<div class="card">{{ title }}<outlet name="footer"></outlet></div>`)

	page := view.page(t, "/", `<div><include component="ghost"></include></div>`)
	assert.Contains(t, lintMessages(page, CategoryDependencies), "Component 'ghost' does not exist.")

	page = view.page(t, "/a", `<div><include component="card" headline="x"></include></div>`)
	assert.Contains(t, lintMessages(page, CategoryDependencies), "Component 'card' does not have a property 'headline'.")

	page = view.page(t, "/b", `<div><include component="card"><inject into="sidebar"><p>x</p></inject></include></div>`)
	assert.Contains(t, lintMessages(page, CategoryDependencies), "Component 'card' does not have an outlet 'sidebar'.")

	page = view.page(t, "/c", `<div><include component="card"><p>implicit</p></include></div>`)
	assert.Contains(t, lintMessages(page, CategoryDependencies), "Component 'card' does not have a 'main' outlet.")

	page = view.page(t, "/d", `<div><include component="card" title="ok"><inject into="footer"><p>x</p></inject></include></div>`)
	assert.Empty(t, lintMessages(page, CategoryDependencies))
}

func TestComponentRenderStandalone(t *testing.T) {
	component, err := NewComponent("greeting", `<p>Hello, {{ name }}!</p>`)
	require.NoError(t, err)

	result := component.Render(map[string]string{"name": "sail"})
	assert.Equal(t, "<p>Hello, sail!</p>", result.HTML)
	assert.Empty(t, result.Diagnostics)
}

func TestRenderEscapesMustaches(t *testing.T) {
	component, err := NewComponent("greeting", `<p>{{ name }}</p>`)
	require.NoError(t, err)

	result := component.Render(map[string]string{"name": "<script>"})
	assert.Equal(t, "<p>&lt;script&gt;</p>", result.HTML)
}

func TestRenderUnresolvedMustacheBecomesEmpty(t *testing.T) {
	component, err := NewComponent("greeting", `<p>{{ missing }}</p>`)
	require.NoError(t, err)

	assert.Equal(t, "<p></p>", component.Render(nil).HTML)
}

func TestRenderIfAttributes(t *testing.T) {
	component, err := NewComponent("toggle", `<div><p if="count == 1">one</p><p if="count > 1">many</p></div>`)
	require.NoError(t, err)

	result := component.Render(map[string]string{"count": "1"})
	assert.Equal(t, "<div><p>one</p></div>", result.HTML)
	assert.Empty(t, result.Diagnostics)
}

func TestRenderFailedConditionDetaches(t *testing.T) {
	component, err := NewComponent("toggle", `<div><p if="null.length">never</p></div>`)
	require.NoError(t, err)

	result := component.Render(nil)
	assert.Equal(t, "<div></div>", result.HTML)
	require.Len(t, result.Diagnostics, 1)
	assert.Equal(t, "toggle", result.Diagnostics[0].TemplateID)
}

func TestRenderPageWithInclude(t *testing.T) {
	view := newView(true)
	view.add(t, "button", `<button class="btn">{{ label }}</button>`)
	page := view.page(t, "/", `<div><include component="button" label="Go"></include></div>`)

	result := page.Render(nil)
	assert.Equal(t, `<div><button class="btn">Go</button></div>`, result.HTML)
	assert.Empty(t, result.Diagnostics)
}

func TestRenderIncludePassesScopedProperties(t *testing.T) {
	view := newView(true)
	view.globals["SITE_NAME"] = "frontsail"
	view.add(t, "banner", `<h1>{{ heading }}</h1>`)
	page := view.page(t, "/", `<div><include component="banner" heading="Welcome to {{ SITE_NAME }}"></include></div>`)

	result := page.Render(nil)
	assert.Equal(t, "<div><h1>Welcome to frontsail</h1></div>", result.HTML)
}

func TestRenderMissingComponent(t *testing.T) {
	view := newView(true)
	page := view.page(t, "/", `<div><include component="ghost"></include></div>`)

	result := page.Render(nil)
	assert.Equal(t, "<div></div>", result.HTML)
	assert.Contains(t, messages(result.Diagnostics), "Component 'ghost' does not exist.")
}

func TestRenderInjections(t *testing.T) {
	view := newView(true)
	view.add(t, "card", `<div class="card"><outlet></outlet><outlet name="footer"><span>no footer</span></outlet></div>`)
	page := view.page(t, "/", `<div><include component="card"><p>body</p><inject into="footer"><b>f</b></inject></include></div>`)

	result := page.Render(nil)
	assert.Equal(t, `<div><div class="card"><p>body</p><b>f</b></div></div>`, result.HTML)
	assert.Empty(t, result.Diagnostics)
}

func TestRenderInjectionDefaultsKept(t *testing.T) {
	view := newView(true)
	view.add(t, "card", `<div><outlet><p>default</p></outlet></div>`)
	page := view.page(t, "/", `<section><include component="card"></include></section>`)

	result := page.Render(nil)
	assert.Equal(t, "<section><div><p>default</p></div></section>", result.HTML)
}

func TestRenderNestedIncludes(t *testing.T) {
	view := newView(true)
	view.add(t, "inner", `<em>{{ text }}</em>`)
	view.add(t, "outer", `<div><include component="inner" text="{{ text }}"></include></div>`)
	page := view.page(t, "/", `<main><include component="outer" text="deep"></include></main>`)

	result := page.Render(nil)
	assert.Equal(t, "<main><div><em>deep</em></div></main>", result.HTML)
	assert.Empty(t, result.Diagnostics)
}

func TestRenderRecursiveIncludeIsBounded(t *testing.T) {
	view := newView(true)
	view.add(t, "loop", `<div><include component="loop"></include></div>`)
	page := view.page(t, "/", `<main><include component="loop"></include></main>`)

	result := page.Render(nil)
	assert.Equal(t, "<main><div></div></main>", result.HTML)
	assert.Contains(t, messages(result.Diagnostics), "The component 'loop' is included recursively.")
}

func TestRenderMutualRecursionIsBounded(t *testing.T) {
	view := newView(true)
	view.add(t, "ping", `<div><include component="pong"></include></div>`)
	view.add(t, "pong", `<span><include component="ping"></include></span>`)
	page := view.page(t, "/", `<main><include component="ping"></include></main>`)

	result := page.Render(nil)
	assert.Equal(t, "<main><div><span></span></div></main>", result.HTML)
	assert.Contains(t, messages(result.Diagnostics), "The component 'ping' is included recursively.")
}

func TestRenderProductionMinifies(t *testing.T) {
	view := newView(false)
	page := view.page(t, "/", "<div>\n  <p>Hello</p>\n</div>")

	result := page.Render(nil)
	assert.Equal(t, "<div><p>Hello</p></div>", result.HTML)
}

func TestStyleSources(t *testing.T) {
	component, err := NewComponent("badge", `<span css="color: red"><i css="  "></i><b css="font-weight: bold"></b></span>`)
	require.NoError(t, err)

	sources := component.StyleSources()
	require.Len(t, sources, 2)
	assert.Equal(t, "badge_e1", sources[0].Class)
	assert.Equal(t, "color: red", sources[0].CSS)
	// The blank css attribute still consumed a counter slot.
	assert.Equal(t, "badge_e3", sources[1].Class)
}

func TestRenderAssignsStyleClasses(t *testing.T) {
	component, err := NewComponent("badge", `<span class="badge" css="color: red">x</span>`)
	require.NoError(t, err)

	result := component.Render(nil)
	assert.Equal(t, `<span class="badge badge_e1">x</span>`, result.HTML)
}

func TestDataKey(t *testing.T) {
	component, err := NewComponent("blog/article-card", `<div x-data="{ open: false }"></div>`)
	require.NoError(t, err)

	assert.Equal(t, "blogArticleCard", component.DataKey())

	view := newView(false)
	component.AttachProject(view)
	component.SetIndex(4)
	assert.Equal(t, "c4", component.DataKey())
}

func TestResolveAlpineData(t *testing.T) {
	component, err := NewComponent("counter",
		`<div x-data="{ count: 0 }"><button @click="count = count + 1">+</button><span x-text="count"></span></div>`)
	require.NoError(t, err)

	script := component.ResolveAlpineData()
	assert.Contains(t, script, "Alpine.data('counter', () => ({")
	assert.Contains(t, script, "count: 0,")
	assert.Contains(t, script, "b1() { this.count = this.count + 1 },")
	assert.Contains(t, script, "get b2() { return this.count },")
	assert.True(t, len(script) > 0)

	// The same source yields the cached script.
	assert.Equal(t, script, component.ResolveAlpineData())
}

func TestResolveAlpineDataWithoutDirectives(t *testing.T) {
	component, err := NewComponent("static", `<div><p>plain</p></div>`)
	require.NoError(t, err)

	assert.Equal(t, "", component.ResolveAlpineData())
}

func TestApplyHoistingRewritesDirectives(t *testing.T) {
	view := newView(true)
	view.add(t, "counter",
		`<div x-data="{ count: 0 }"><button @click="count = count + 1">+</button></div>`)
	page := view.page(t, "/", `<main><include component="counter"></include></main>`)

	result := page.Render(nil)
	assert.Contains(t, result.HTML, `x-data="counter"`)
	assert.Contains(t, result.HTML, `@click="b1"`)
	assert.NotContains(t, result.HTML, "count = count + 1")
}

func TestApplyHoistingSkipsInjectedContent(t *testing.T) {
	view := newView(true)
	component := view.add(t, "toggle",
		`<div x-data="{ open: false }"><outlet><span @click="open = true">default</span></outlet></div>`)
	page := view.page(t, "/",
		`<main><include component="toggle"><b @click="open = false">x</b></include></main>`)

	// The registration is generated from the component's own tree, outlet
	// defaults included.
	script := component.ResolveAlpineData()
	assert.Contains(t, script, "b1() { this.open = true },")

	// Injected directives keep their inline expressions; a binding key
	// registered for the default content must never land on injected
	// markup.
	result := page.Render(nil)
	assert.Equal(t,
		`<main><div x-data="toggle"><b @click="open = false">x</b></div></main>`,
		result.HTML)
}

func TestRenderSyntaxProblemsAbort(t *testing.T) {
	view := newView(true)
	page := view.page(t, "/", "<div><span></div>")

	result := page.Render(nil)
	assert.Equal(t, "", result.HTML)
	assert.NotEmpty(t, result.Diagnostics)
}
