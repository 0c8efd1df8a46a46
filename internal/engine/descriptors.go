// Package engine wires the already-built algorithmic packages
// (resolver, hierarchy, methodres, fieldres, registrar, depgraph,
// verify) into a single runnable verification job, and defines the
// external-interface shapes spec.md §6 names but leaves to a host
// (IdeDescriptor, PluginDetails, JdkDescriptor, VerifierParameters,
// VerificationResult) along with the minimal filesystem-backed
// implementations needed to run the engine end-to-end from the CLI.
package engine

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/Ololoshechkin/plugin-verifier/internal/depgraph"
	"github.com/Ololoshechkin/plugin-verifier/internal/registrar"
	"github.com/Ololoshechkin/plugin-verifier/internal/resolver"
)

// IdeDescriptor is the opaque host handle spec.md §6 names: a version
// string, a class resolver over the IDE's own classes, and optionally a
// bundled JDK resolver consulted as part of the same classpath.
type IdeDescriptor interface {
	Version() string
	ClassResolver() resolver.Resolver
	BundledJDK() (JdkDescriptor, bool)
	Close() error
}

// JdkDescriptor is a version plus a resolver over the JDK's core classes.
type JdkDescriptor interface {
	Version() string
	ClassResolver() resolver.Resolver
	Close() error
}

// PluginDetails is the opaque handle spec.md §6 names for the plugin
// under verification (and, via depgraph.PluginDetails, for every
// resolved transitive dependency).
type PluginDetails interface {
	PluginID() string
	DeclaredDependencies() []depgraph.Dependency
	PluginClassResolver() resolver.Resolver
	ClassesToCheck() []string
	Close() error
}

// VerifierParameters is the recognized configuration surface of spec.md
// §6: which package prefixes are external, an additional classpath
// resolver appended last, whether to record deprecated/experimental/
// internal API usages, and problem filters.
type VerifierParameters struct {
	ExternalClassPrefixes  []string
	ExternalClasspath      []string // directory/archive paths, appended last
	FindDeprecatedAPIUsages bool
	ProblemFilterGlobs     []string
}

// pluginTOML is the on-disk shape of the plugin.toml sidecar that
// stands in for the real plugin-descriptor parser, which spec.md names
// as an external collaborator out of scope for this engine.
type pluginTOML struct {
	ID             string             `toml:"id"`
	Dependencies   []dependencyTOML   `toml:"dependencies"`
	ClassesToCheck []string           `toml:"classes_to_check"`
}

type dependencyTOML struct {
	ID       string `toml:"id"`
	Optional bool   `toml:"optional"`
}

// FilesystemPluginDetails builds PluginDetails from a single plugin
// archive (.jar/.zip or exploded directory) plus a plugin.toml sidecar
// sitting next to it. When classes_to_check is absent from the sidecar,
// every class in the archive is checked.
type FilesystemPluginDetails struct {
	id           string
	dependencies []depgraph.Dependency
	classes      resolver.Resolver
	toCheck      []string
}

// LoadFilesystemPluginDetails reads archivePath's sidecar (archivePath
// with its extension replaced by ".toml", or "plugin.toml" next to it
// when archivePath is a directory) and indexes the archive itself as a
// ClassPool.
func LoadFilesystemPluginDetails(archivePath string) (*FilesystemPluginDetails, error) {
	sidecar, err := sidecarPath(archivePath)
	if err != nil {
		return nil, err
	}

	var doc pluginTOML
	if _, err := toml.DecodeFile(sidecar, &doc); err != nil {
		return nil, fmt.Errorf("failed to load plugin descriptor %s: %w", sidecar, err)
	}
	if doc.ID == "" {
		return nil, fmt.Errorf("plugin descriptor %s is missing id", sidecar)
	}

	pool := resolver.NewClassPool(archivePath)

	deps := make([]depgraph.Dependency, 0, len(doc.Dependencies))
	for _, d := range doc.Dependencies {
		deps = append(deps, depgraph.Dependency{ID: d.ID, Optional: d.Optional})
	}

	toCheck := doc.ClassesToCheck
	if len(toCheck) == 0 {
		toCheck = pool.AllClassNames()
	}

	return &FilesystemPluginDetails{
		id:           doc.ID,
		dependencies: deps,
		classes:      pool,
		toCheck:      toCheck,
	}, nil
}

func sidecarPath(archivePath string) (string, error) {
	info, err := os.Stat(archivePath)
	if err != nil {
		return "", fmt.Errorf("failed to stat plugin archive %s: %w", archivePath, err)
	}
	if info.IsDir() {
		return filepath.Join(archivePath, "plugin.toml"), nil
	}
	ext := filepath.Ext(archivePath)
	return archivePath[:len(archivePath)-len(ext)] + ".toml", nil
}

func (p *FilesystemPluginDetails) PluginID() string                         { return p.id }
func (p *FilesystemPluginDetails) DeclaredDependencies() []depgraph.Dependency { return p.dependencies }
func (p *FilesystemPluginDetails) PluginClassResolver() resolver.Resolver   { return p.classes }
func (p *FilesystemPluginDetails) ClassesToCheck() []string                { return p.toCheck }
func (p *FilesystemPluginDetails) Close() error                            { return p.classes.Close() }

// FilesystemIdeDescriptor builds an IdeDescriptor from one class pool
// path (a directory tree of the IDE's .class files, or a single .jar/.zip
// archive; jars inside a directory are not read), with an optional
// bundled JDK directory alongside it.
type FilesystemIdeDescriptor struct {
	version string
	classes resolver.Resolver
	jdk     *FilesystemJdkDescriptor
}

func NewFilesystemIdeDescriptor(version, classDir string, bundledJdkDir string) *FilesystemIdeDescriptor {
	d := &FilesystemIdeDescriptor{version: version, classes: resolver.NewClassPool(classDir)}
	if bundledJdkDir != "" {
		d.jdk = NewFilesystemJdkDescriptor(version, bundledJdkDir)
	}
	return d
}

func (d *FilesystemIdeDescriptor) Version() string                  { return d.version }
func (d *FilesystemIdeDescriptor) ClassResolver() resolver.Resolver { return d.classes }
func (d *FilesystemIdeDescriptor) BundledJDK() (JdkDescriptor, bool) {
	if d.jdk == nil {
		return nil, false
	}
	return d.jdk, true
}
func (d *FilesystemIdeDescriptor) Close() error {
	if d.jdk != nil {
		_ = d.jdk.Close()
	}
	return d.classes.Close()
}

// FilesystemJdkDescriptor builds a JdkDescriptor from a directory of
// extracted JDK classes (an exploded jmods/rt.jar layout).
type FilesystemJdkDescriptor struct {
	version string
	classes resolver.Resolver
}

func NewFilesystemJdkDescriptor(version, classDir string) *FilesystemJdkDescriptor {
	return &FilesystemJdkDescriptor{version: version, classes: resolver.NewClassPool(classDir)}
}

func (d *FilesystemJdkDescriptor) Version() string                  { return d.version }
func (d *FilesystemJdkDescriptor) ClassResolver() resolver.Resolver { return d.classes }
func (d *FilesystemJdkDescriptor) Close() error                     { return d.classes.Close() }

// MapDependencyFinder is a DependencyFinder backed by a static map of
// plugin id to PluginDetails, used by tests and by the CLI's --deps-dir
// flag (a directory of sibling plugin archives, each with its own
// plugin.toml, loaded up front into this map).
type MapDependencyFinder struct {
	plugins map[string]PluginDetails
}

func NewMapDependencyFinder(plugins map[string]PluginDetails) *MapDependencyFinder {
	return &MapDependencyFinder{plugins: plugins}
}

func (f *MapDependencyFinder) Find(pluginID string) depgraph.FindResult {
	details, ok := f.plugins[pluginID]
	if !ok {
		return depgraph.FindResult{Kind: depgraph.NotFound, Reason: "no such plugin: " + pluginID}
	}
	return depgraph.FindResult{
		Kind: depgraph.FoundPlugin,
		Details: &depgraph.PluginDetails{
			PluginID:     details.PluginID(),
			Dependencies: details.DeclaredDependencies(),
			ClassPool:    details.PluginClassResolver(),
		},
	}
}

// LoadDependencyDirectory loads every subdirectory/archive under dir as
// a FilesystemPluginDetails (skipping entries whose sidecar is missing
// or invalid) and returns a ready-to-use MapDependencyFinder.
func LoadDependencyDirectory(dir string) (*MapDependencyFinder, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read dependency directory %s: %w", dir, err)
	}
	plugins := make(map[string]PluginDetails)
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".toml" {
			continue // a sidecar, read together with its archive
		}
		path := filepath.Join(dir, e.Name())
		details, err := LoadFilesystemPluginDetails(path)
		if err != nil {
			continue
		}
		plugins[details.PluginID()] = details
	}
	return NewMapDependencyFinder(plugins), nil
}

// NewFilters compiles a Registrar's glob filters from ProblemFilterGlobs.
func NewFilters(patterns []string) ([]registrar.Filter, error) {
	filters := make([]registrar.Filter, 0, len(patterns))
	for _, p := range patterns {
		f, err := registrar.NewFilter(p)
		if err != nil {
			return nil, fmt.Errorf("invalid problem filter %q: %w", p, err)
		}
		filters = append(filters, f)
	}
	return filters, nil
}
