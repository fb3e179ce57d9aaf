package project

import (
	"sort"
	"strings"

	"github.com/frontsail/frontsail-sub000/internal/cssast"
)

// BuildStyles aggregates the project stylesheet: the custom project CSS
// followed by every registered template's inline CSS in registration
// order, flattened, with media queries merged and ordered by the SCSS
// variable declaration order, and `$variable` references substituted.
// Production output is minified.
func (p *Project) BuildStyles() string {
	p.mutex.RLock()
	defer p.mutex.RUnlock()

	aliases := make([]string, 0, len(p.scssVariables))
	for _, variable := range p.scssVariables {
		aliases = append(aliases, strings.TrimPrefix(variable.Name, "$"))
	}

	var nodes []cssast.Node
	appendSource := func(raw string) {
		if strings.TrimSpace(raw) == "" {
			return
		}
		css := cssast.New(raw)
		if css.HasProblems(cssast.CategorySyntax) {
			return
		}
		nodes = append(nodes, css.Flatten(aliases)...)
	}

	appendSource(p.css)
	for _, name := range p.componentOrder {
		for _, source := range p.components[name].StyleSources() {
			appendSource("." + source.Class + " {\n" + source.CSS + "\n}")
		}
	}
	for _, path := range p.pageOrder {
		for _, source := range p.pages[path].StyleSources() {
			appendSource("." + source.Class + " {\n" + source.CSS + "\n}")
		}
	}

	merged := cssast.SortAndMergeMediaQueries(nodes, aliases)
	out := cssast.Serialize(merged, p.environment == EnvironmentProduction)
	return p.substituteScssVariables(out)
}

// substituteScssVariables replaces `$name` references with their values,
// longest names first so shared prefixes never clip.
func (p *Project) substituteScssVariables(css string) string {
	if len(p.scssVariables) == 0 {
		return css
	}
	variables := make([]Variable, len(p.scssVariables))
	copy(variables, p.scssVariables)
	sort.SliceStable(variables, func(i, j int) bool {
		return len(variables[i].Name) > len(variables[j].Name)
	})
	pairs := make([]string, 0, len(variables)*2)
	for _, variable := range variables {
		pairs = append(pairs, variable.Name, variable.Value)
	}
	return strings.NewReplacer(pairs...).Replace(css)
}

// BuildScripts aggregates the project script: the custom project JS
// followed by one data registration per component with directives, in
// registration order, wrapped in a single init listener.
func (p *Project) BuildScripts() string {
	// Resolving component scripts refreshes their caches, so this takes
	// the write lock.
	p.mutex.Lock()
	defer p.mutex.Unlock()

	var blocks []string
	for _, name := range p.componentOrder {
		if script := p.components[name].ResolveAlpineData(); script != "" {
			blocks = append(blocks, script)
		}
	}

	var b strings.Builder
	if custom := strings.TrimSpace(p.js); custom != "" {
		b.WriteString(custom)
		b.WriteString("\n")
	}
	if len(blocks) > 0 {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString("document.addEventListener('alpine:init', () => {\n")
		for _, block := range blocks {
			for _, line := range strings.Split(block, "\n") {
				b.WriteString("  ")
				b.WriteString(line)
				b.WriteString("\n")
			}
		}
		b.WriteString("})\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}
