package project

import (
	"sort"

	"github.com/frontsail/frontsail-sub000/internal/errors"
	"github.com/frontsail/frontsail-sub000/internal/pattern"
)

// ListComponents returns registered component names, sorted.
func (p *Project) ListComponents() []string {
	p.mutex.RLock()
	defer p.mutex.RUnlock()
	return sortedCopy(p.componentOrder)
}

// ListPages returns registered page paths, sorted.
func (p *Project) ListPages() []string {
	p.mutex.RLock()
	defer p.mutex.RUnlock()
	return sortedCopy(p.pageOrder)
}

// ListAssets returns registered asset paths, sorted.
func (p *Project) ListAssets() []string {
	p.mutex.RLock()
	defer p.mutex.RUnlock()
	return sortedCopy(p.assets)
}

// ListGlobals returns the global variable names, sorted.
func (p *Project) ListGlobals() []string {
	p.mutex.RLock()
	defer p.mutex.RUnlock()
	names := make([]string, 0, len(p.globals))
	for name := range p.globals {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetIncludedComponentNames returns the component names a registered
// template includes, sorted. With deep it follows includes transitively
// through registered components.
func (p *Project) GetIncludedComponentNames(id string, deep bool) ([]string, error) {
	p.mutex.RLock()
	defer p.mutex.RUnlock()
	direct, err := p.dependencies(id)
	if err != nil {
		return nil, err
	}
	if !deep {
		return sortedCopy(direct), nil
	}
	seen := make(map[string]bool)
	queue := append([]string(nil), direct...)
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		if seen[name] {
			continue
		}
		seen[name] = true
		if component, exists := p.components[name]; exists {
			queue = append(queue, component.Dependencies()...)
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// GetOutletNames returns the outlet names a registered component
// declares, in document order.
func (p *Project) GetOutletNames(name string) ([]string, error) {
	p.mutex.RLock()
	defer p.mutex.RUnlock()
	component, exists := p.components[name]
	if !exists {
		return nil, errors.NotFound("component", name)
	}
	return component.OutletNames(), nil
}

// GetIncluders returns the identifiers of registered templates that
// include the named component, sorted. With deep it also returns
// templates that reach it through intermediate components.
func (p *Project) GetIncluders(name string, deep bool) ([]string, error) {
	p.mutex.RLock()
	defer p.mutex.RUnlock()
	if _, exists := p.components[name]; !exists {
		return nil, errors.NotFound("component", name)
	}
	reaches := map[string]bool{name: true}
	var includers []string
	// Components first: with deep, a component reaching the target makes
	// its own includers reachable too, so iterate to a fixed point.
	for {
		grew := false
		for _, componentName := range p.componentOrder {
			if reaches[componentName] {
				continue
			}
			for _, dep := range p.components[componentName].Dependencies() {
				if dep == name || deep && reaches[dep] {
					reaches[componentName] = true
					includers = append(includers, componentName)
					grew = true
					break
				}
			}
		}
		if !grew || !deep {
			break
		}
	}
	for _, path := range p.pageOrder {
		for _, dep := range p.pages[path].Dependencies() {
			if dep == name || deep && reaches[dep] {
				includers = append(includers, path)
				break
			}
		}
	}
	sort.Strings(includers)
	return includers, nil
}

// dependencies returns the direct dependency names of a component or
// page, dispatched by identifier pattern.
func (p *Project) dependencies(id string) ([]string, error) {
	if pattern.IsComponentName(id) {
		component, exists := p.components[id]
		if !exists {
			return nil, errors.NotFound("component", id)
		}
		return component.Dependencies(), nil
	}
	if pattern.IsPagePath(id) {
		page, exists := p.pages[id]
		if !exists {
			return nil, errors.NotFound("page", id)
		}
		return page.Dependencies(), nil
	}
	return nil, errors.InvalidIdentifier("template identifier", id)
}

func sortedCopy(list []string) []string {
	out := make([]string, len(list))
	copy(out, list)
	sort.Strings(out)
	return out
}
