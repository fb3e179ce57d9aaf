// Package project implements the compile-time registry: components,
// pages, assets, globals, and SCSS variables, plus the aggregate
// stylesheet and script builds. A Project serializes every operation
// behind one lock; the template layer reads back through an unlocked view
// that is only ever used while that lock is held.
package project

import (
	"sync"

	"github.com/frontsail/frontsail-sub000/internal/diagnostics"
	"github.com/frontsail/frontsail-sub000/internal/errors"
	"github.com/frontsail/frontsail-sub000/internal/pattern"
	"github.com/frontsail/frontsail-sub000/internal/template"
)

// Environment selects between readable development output and compact
// minified production output.
type Environment string

const (
	EnvironmentDevelopment Environment = "development"
	EnvironmentProduction  Environment = "production"
)

// Variable is one named string value. SCSS variables keep declaration
// order because it drives media-query ordering in the built stylesheet.
type Variable struct {
	Name  string
	Value string
}

// TemplateInput seeds one component or page at construction time. ID is a
// component name or a page path.
type TemplateInput struct {
	ID   string
	HTML string
}

// Options configures a new Project.
type Options struct {
	Environment   Environment
	Globals       map[string]string
	ScssVariables []Variable
	Components    []TemplateInput
	Pages         []TemplateInput
	CSS           string
	JS            string
}

// Project is the component/page registry and build aggregator. All
// methods are safe for concurrent use; mutation is serialized against
// lint/render/build passes by the registry lock.
type Project struct {
	mutex sync.RWMutex

	environment   Environment
	globals       map[string]string
	scssVariables []Variable

	components     map[string]*template.Component
	componentOrder []string
	pages          map[string]*template.Page
	pageOrder      []string
	assets         []string

	css string
	js  string

	// nextComponentIndex and nextPageIndex are monotonic so production
	// keys stay stable across removals.
	nextComponentIndex int
	nextPageIndex      int
}

// New builds a project from options. Invalid identifiers and duplicate
// registrations are hard errors.
func New(options Options) (*Project, error) {
	environment := options.Environment
	if environment == "" {
		environment = EnvironmentDevelopment
	}
	if environment != EnvironmentDevelopment && environment != EnvironmentProduction {
		return nil, errors.InvalidIdentifier("environment", string(environment))
	}
	p := &Project{
		environment: environment,
		globals:     make(map[string]string),
		components:  make(map[string]*template.Component),
		pages:       make(map[string]*template.Page),
		css:         options.CSS,
		js:          options.JS,
	}
	for name, value := range options.Globals {
		if !pattern.IsGlobalName(name) {
			return nil, errors.InvalidIdentifier("global name", name)
		}
		p.globals[name] = value
	}
	for _, variable := range options.ScssVariables {
		if !pattern.IsScssVariableName(variable.Name) {
			return nil, errors.InvalidIdentifier("SCSS variable name", variable.Name)
		}
		p.scssVariables = append(p.scssVariables, variable)
	}
	for _, input := range options.Components {
		if err := p.AddComponent(input.ID, input.HTML); err != nil {
			return nil, err
		}
	}
	for _, input := range options.Pages {
		if err := p.AddPage(input.ID, input.HTML); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// SetEnvironment switches between development and production output.
// Component script caches invalidate lazily because their checksums cover
// the environment-dependent data key.
func (p *Project) SetEnvironment(environment Environment) error {
	if environment != EnvironmentDevelopment && environment != EnvironmentProduction {
		return errors.InvalidIdentifier("environment", string(environment))
	}
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.environment = environment
	return nil
}

// Environment returns the current environment.
func (p *Project) Environment() Environment {
	p.mutex.RLock()
	defer p.mutex.RUnlock()
	return p.environment
}

// SetCSS replaces the project-level custom stylesheet source.
func (p *Project) SetCSS(css string) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.css = css
}

// SetJS replaces the project-level custom script source.
func (p *Project) SetJS(js string) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.js = js
}

// AddComponent registers a new component. Registering an existing name is
// a hard error.
func (p *Project) AddComponent(name, html string) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	if _, exists := p.components[name]; exists {
		return errors.DuplicateEntry("component", name)
	}
	component, err := template.NewComponent(name, html)
	if err != nil {
		return err
	}
	component.AttachProject(view{p})
	component.SetIndex(p.nextComponentIndex)
	p.nextComponentIndex++
	p.components[name] = component
	p.componentOrder = append(p.componentOrder, name)
	return nil
}

// UpdateComponent replaces the HTML of a registered component, keeping
// its index. Updating an unknown name is a hard error.
func (p *Project) UpdateComponent(name, html string) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	existing, exists := p.components[name]
	if !exists {
		return errors.NotFound("component", name)
	}
	component, err := template.NewComponent(name, html)
	if err != nil {
		return err
	}
	component.AttachProject(view{p})
	component.SetIndex(existing.Index())
	p.components[name] = component
	return nil
}

// RemoveComponent unregisters a component. Removing an unknown name is a
// hard error.
func (p *Project) RemoveComponent(name string) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	if _, exists := p.components[name]; !exists {
		return errors.NotFound("component", name)
	}
	delete(p.components, name)
	p.componentOrder = removeString(p.componentOrder, name)
	return nil
}

// HasComponent reports whether a component is registered under name.
func (p *Project) HasComponent(name string) bool {
	p.mutex.RLock()
	defer p.mutex.RUnlock()
	_, exists := p.components[name]
	return exists
}

// AddPage registers a new page. Registering an existing path is a hard
// error.
func (p *Project) AddPage(path, html string) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	if _, exists := p.pages[path]; exists {
		return errors.DuplicateEntry("page", path)
	}
	page, err := template.NewPage(path, html)
	if err != nil {
		return err
	}
	page.AttachProject(view{p})
	page.SetIndex(p.nextPageIndex)
	p.nextPageIndex++
	p.pages[path] = page
	p.pageOrder = append(p.pageOrder, path)
	return nil
}

// UpdatePage replaces the HTML of a registered page, keeping its index.
// Updating an unknown path is a hard error.
func (p *Project) UpdatePage(path, html string) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	existing, exists := p.pages[path]
	if !exists {
		return errors.NotFound("page", path)
	}
	page, err := template.NewPage(path, html)
	if err != nil {
		return err
	}
	page.AttachProject(view{p})
	page.SetIndex(existing.Index())
	p.pages[path] = page
	return nil
}

// RemovePage unregisters a page. Removing an unknown path is a hard
// error.
func (p *Project) RemovePage(path string) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	if _, exists := p.pages[path]; !exists {
		return errors.NotFound("page", path)
	}
	delete(p.pages, path)
	p.pageOrder = removeString(p.pageOrder, path)
	return nil
}

// HasPage reports whether a page is registered under path.
func (p *Project) HasPage(path string) bool {
	p.mutex.RLock()
	defer p.mutex.RUnlock()
	_, exists := p.pages[path]
	return exists
}

// AddAsset registers an asset path. Invalid paths and duplicates are hard
// errors.
func (p *Project) AddAsset(path string) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	if !pattern.IsAssetPath(path) {
		return errors.InvalidIdentifier("asset path", path)
	}
	for _, existing := range p.assets {
		if existing == path {
			return errors.DuplicateEntry("asset", path)
		}
	}
	p.assets = append(p.assets, path)
	return nil
}

// RemoveAsset unregisters an asset path. Removing an unknown path is a
// hard error.
func (p *Project) RemoveAsset(path string) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	next := removeString(p.assets, path)
	if len(next) == len(p.assets) {
		return errors.NotFound("asset", path)
	}
	p.assets = next
	return nil
}

// HasAsset reports whether an asset is registered under path.
func (p *Project) HasAsset(path string) bool {
	p.mutex.RLock()
	defer p.mutex.RUnlock()
	for _, existing := range p.assets {
		if existing == path {
			return true
		}
	}
	return false
}

// LintComponent runs the named rule families on a registered component.
func (p *Project) LintComponent(name string, categories ...template.Category) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	component, exists := p.components[name]
	if !exists {
		return errors.NotFound("component", name)
	}
	component.Lint(categories...)
	return nil
}

// LintPage runs the named rule families on a registered page.
func (p *Project) LintPage(path string, categories ...template.Category) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	page, exists := p.pages[path]
	if !exists {
		return errors.NotFound("page", path)
	}
	page.Lint(categories...)
	return nil
}

// GetComponentDiagnostics lints a registered component for the named
// categories and returns its collected diagnostics, including parse-time
// syntax problems.
func (p *Project) GetComponentDiagnostics(name string, categories ...template.Category) ([]diagnostics.Diagnostic, error) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	component, exists := p.components[name]
	if !exists {
		return nil, errors.NotFound("component", name)
	}
	component.Lint(categories...)
	return component.Diagnostics(categories...), nil
}

// GetPageDiagnostics lints a registered page for the named categories and
// returns its collected diagnostics, including parse-time syntax problems.
func (p *Project) GetPageDiagnostics(path string, categories ...template.Category) ([]diagnostics.Diagnostic, error) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	page, exists := p.pages[path]
	if !exists {
		return nil, errors.NotFound("page", path)
	}
	page.Lint(categories...)
	return page.Diagnostics(categories...), nil
}

// Render renders a registered component or page by its identifier. The
// identifier pattern decides the dispatch. Rendering refreshes component
// script caches, so it takes the write lock like the lint surface.
func (p *Project) Render(id string, properties map[string]string) (template.RenderResult, error) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	if pattern.IsComponentName(id) {
		component, exists := p.components[id]
		if !exists {
			return template.RenderResult{}, errors.NotFound("component", id)
		}
		return component.Render(properties), nil
	}
	if pattern.IsPagePath(id) {
		page, exists := p.pages[id]
		if !exists {
			return template.RenderResult{}, errors.NotFound("page", id)
		}
		return page.Render(properties), nil
	}
	return template.RenderResult{}, errors.InvalidIdentifier("template identifier", id)
}

func removeString(list []string, value string) []string {
	out := list[:0:0]
	for _, item := range list {
		if item != value {
			out = append(out, item)
		}
	}
	return out
}

// view is the unlocked read surface handed to templates. It is only ever
// used while the owning project's lock is held by the public entry point
// that triggered the callback.
type view struct {
	p *Project
}

func (v view) HasComponent(name string) bool {
	_, exists := v.p.components[name]
	return exists
}

func (v view) ComponentByName(name string) *template.Component {
	return v.p.components[name]
}

func (v view) Globals() map[string]string {
	return v.p.globals
}

func (v view) Development() bool {
	return v.p.environment == EnvironmentDevelopment
}
