// Package types holds the data shapes shared across the indexer, the
// store, the query engine and the CLI surface.
package types

import "time"

// ProjectType is the marker-file classification produced by the project
// detector.
type ProjectType int

const (
	ProjectUnknown ProjectType = iota
	ProjectAndroid
	ProjectIOS
	ProjectPerl
	ProjectFrontend
	ProjectPython
	ProjectGo
	ProjectRust
	ProjectBazel
	ProjectMixed
)

func (p ProjectType) String() string {
	switch p {
	case ProjectAndroid:
		return "Android (Kotlin/Java)"
	case ProjectIOS:
		return "iOS (Swift/ObjC)"
	case ProjectPerl:
		return "Perl"
	case ProjectFrontend:
		return "Frontend (JS/TS)"
	case ProjectPython:
		return "Python"
	case ProjectGo:
		return "Go"
	case ProjectRust:
		return "Rust"
	case ProjectBazel:
		return "Bazel"
	case ProjectMixed:
		return "Mixed"
	default:
		return "Unknown"
	}
}

// SymbolKind enumerates the structural symbols the parsers recognize.
type SymbolKind string

const (
	KindClass     SymbolKind = "class"
	KindInterface SymbolKind = "interface"
	KindProtocol  SymbolKind = "protocol"
	KindObject    SymbolKind = "object"
	KindStruct    SymbolKind = "struct"
	KindActor     SymbolKind = "actor"
	KindEnum      SymbolKind = "enum"
	KindFunction  SymbolKind = "function"
	KindProperty  SymbolKind = "property"
	KindTypeAlias SymbolKind = "typealias"
	KindPackage   SymbolKind = "package"
	KindConstant  SymbolKind = "constant"
	KindImport    SymbolKind = "import"
)

// ClassLikeKinds lists the kinds that query.FindClassLike treats as
// class-like (can be subclassed, implemented, conformed to).
var ClassLikeKinds = []SymbolKind{
	KindClass, KindInterface, KindObject, KindEnum,
	KindProtocol, KindStruct, KindActor, KindPackage,
}

// File is a single indexed source file.
type File struct {
	ID    int64  `json:"id,omitempty"`
	Path  string `json:"path"`
	MTime int64  `json:"mtime"`
	Size  int64  `json:"size"`
}

// Symbol is a structural declaration found inside a file: a class,
// function, property, and so on.
type Symbol struct {
	ID        int64      `json:"id,omitempty"`
	FileID    int64      `json:"file_id"`
	Name      string     `json:"name"`
	Kind      SymbolKind `json:"kind"`
	Line      int        `json:"line"`
	ParentID  int64      `json:"parent_id,omitempty"`
	Signature string     `json:"signature,omitempty"`
}

// InheritanceEdge records that a symbol extends, implements, or conforms
// to a named parent type. The parent is stored by name only: it may live
// in a file that hasn't been indexed yet, or outside the project
// entirely.
type InheritanceEdge struct {
	ID         int64  `json:"id,omitempty"`
	ChildID    int64  `json:"child_id"`
	ParentName string `json:"parent_name"`
	Kind       string `json:"kind"` // extends, implements, conforms

	// SymbolIndex is only meaningful between parsing and storage: it is
	// the index into the owning ParsedFile.Symbols slice of the symbol
	// this edge describes, since the symbol has no database id yet at
	// parse time.
	SymbolIndex int `json:"-"`
}

// Ref is a use-site of a name: a call, a field access, a type reference.
type Ref struct {
	ID      int64  `json:"id,omitempty"`
	FileID  int64  `json:"file_id"`
	Name    string `json:"name"`
	Line    int    `json:"line"`
	Context string `json:"context,omitempty"`
}

// Module is a build unit: a Gradle module, an SPM target, a CocoaPods
// pod, a Perl distribution.
type Module struct {
	ID   int64  `json:"id,omitempty"`
	Name string `json:"name"`
	Path string `json:"path"`
	Kind string `json:"kind,omitempty"`
}

// ModuleEdge records a direct build dependency between two modules.
type ModuleEdge struct {
	ID          int64  `json:"id,omitempty"`
	ModuleID    int64  `json:"module_id"`
	DepModuleID int64  `json:"dep_module_id"`
	DepKind     string `json:"dep_kind,omitempty"`
}

// TransitiveEdge is a cached, cycle-free transitive module dependency
// reachable within a bounded BFS depth.
type TransitiveEdge struct {
	ID           int64  `json:"id,omitempty"`
	ModuleID     int64  `json:"module_id"`
	DependencyID int64  `json:"dependency_id"`
	Depth        int    `json:"depth"`
	Path         string `json:"path,omitempty"`
}

// XMLUsage is a class name referenced from an Android layout/manifest XML
// file.
type XMLUsage struct {
	ID        int64  `json:"id,omitempty"`
	ModuleID  int64  `json:"module_id,omitempty"`
	FilePath  string `json:"file_path"`
	Line      int    `json:"line"`
	ClassName string `json:"class_name"`
	UsageType string `json:"usage_type,omitempty"`
	ElementID string `json:"element_id,omitempty"`
}

// Resource is an Android resource definition (string, layout, drawable,
// ...).
type Resource struct {
	ID       int64  `json:"id,omitempty"`
	ModuleID int64  `json:"module_id,omitempty"`
	Type     string `json:"type"`
	Name     string `json:"name"`
	FilePath string `json:"file_path"`
	Line     int    `json:"line,omitempty"`
}

// ResourceUsage is a use-site of an Android resource (R.string.foo, ...).
type ResourceUsage struct {
	ID         int64  `json:"id,omitempty"`
	ResourceID int64  `json:"resource_id,omitempty"`
	UsageFile  string `json:"usage_file"`
	UsageLine  int    `json:"usage_line"`
	UsageType  string `json:"usage_type,omitempty"`
}

// StoryboardUsage is a class referenced from an iOS storyboard/xib file.
type StoryboardUsage struct {
	ID            int64  `json:"id,omitempty"`
	ModuleID      int64  `json:"module_id,omitempty"`
	FilePath      string `json:"file_path"`
	Line          int    `json:"line"`
	ClassName     string `json:"class_name"`
	UsageType     string `json:"usage_type,omitempty"`
	StoryboardID  string `json:"storyboard_id,omitempty"`
}

// IOSAsset is an image/color/data asset declared in an .xcassets catalog.
type IOSAsset struct {
	ID       int64  `json:"id,omitempty"`
	ModuleID int64  `json:"module_id,omitempty"`
	Type     string `json:"type"`
	Name     string `json:"name"`
	FilePath string `json:"file_path"`
}

// IOSAssetUsage is a use-site of an iOS asset (UIImage(named:), Color(...)).
type IOSAssetUsage struct {
	ID        int64  `json:"id,omitempty"`
	AssetID   int64  `json:"asset_id,omitempty"`
	UsageFile string `json:"usage_file"`
	UsageLine int    `json:"usage_line"`
	UsageType string `json:"usage_type,omitempty"`
}

// APIEndpoint is an HTTP/RPC route declaration discovered in source.
type APIEndpoint struct {
	ID       int64  `json:"id,omitempty"`
	FileID   int64  `json:"file_id,omitempty"`
	Method   string `json:"method"`
	Path     string `json:"path"`
	Handler  string `json:"handler,omitempty"`
	Line     int    `json:"line"`
	Framework string `json:"framework,omitempty"`
}

// ConfigVar is an environment-backed configuration key referenced or
// defined in source or in a .env file.
type ConfigVar struct {
	ID       int64  `json:"id,omitempty"`
	FileID   int64  `json:"file_id,omitempty"`
	Key      string `json:"key"`
	Line     int    `json:"line,omitempty"`
	Default  string `json:"default,omitempty"`
	Source   string `json:"source"` // env_usage, dotenv, struct_tag
}

// ImportEdge is a source-level import/require/use dependency from one
// file to another module or file.
type ImportEdge struct {
	ID       int64  `json:"id,omitempty"`
	FileID   int64  `json:"file_id"`
	Target   string `json:"target"`
	Kind     string `json:"kind,omitempty"` // relative, package, stdlib
	Line     int    `json:"line,omitempty"`
}

// ParsedFile is the output of parsing a single file: everything the
// indexing pipeline needs to write in one transaction.
type ParsedFile struct {
	Path        string
	MTime       int64
	Size        int64
	Symbols     []Symbol
	Inheritance []InheritanceEdge
	Refs        []Ref
	Imports     []ImportEdge
	APIEndpoints []APIEndpoint
	ConfigVars   []ConfigVar
}

// SearchResult is a row returned by the query engine's symbol lookups.
type SearchResult struct {
	Name      string `json:"name"`
	Kind      string `json:"kind"`
	Line      int    `json:"line"`
	Signature string `json:"signature,omitempty"`
	Path      string `json:"path"`
}

// RefResult is a row returned by the query engine's reference lookups.
type RefResult struct {
	Name    string `json:"name"`
	Line    int    `json:"line"`
	Context string `json:"context,omitempty"`
	Path    string `json:"path"`
}

// GrepMatch is a single matching line from the parallel grep engine.
type GrepMatch struct {
	Path string `json:"path"`
	Line int    `json:"line"`
	Text string `json:"text"`
}

// CallSite locates a function/method call and, when known, the name of
// the enclosing definition it was found in.
type CallSite struct {
	Caller   string `json:"caller,omitempty"`
	FilePath string `json:"path"`
	Line     int    `json:"line"`
}

// Stats summarizes the contents of the index for reporting.
type Stats struct {
	FileCount             int64 `json:"file_count"`
	SymbolCount           int64 `json:"symbol_count"`
	ModuleCount           int64 `json:"module_count"`
	RefCount              int64 `json:"refs_count"`
	XMLUsageCount         int64 `json:"xml_usages_count"`
	ResourceCount         int64 `json:"resources_count"`
	StoryboardUsageCount  int64 `json:"storyboard_usages_count"`
	IOSAssetCount         int64 `json:"ios_assets_count"`
	APIEndpointCount      int64 `json:"api_endpoints_count"`
	ConfigVarCount        int64 `json:"config_vars_count"`
	ImportEdgeCount       int64 `json:"import_edges_count"`
	LastIndexedAt         time.Time `json:"last_indexed_at,omitempty"`
}

// IndexConfig controls how a project is walked and parsed.
type IndexConfig struct {
	Root            string   `json:"root"`
	NoIgnore        bool     `json:"no_ignore"`
	MaxFileBytes    int64    `json:"max_file_bytes"`
	Extensions      []string `json:"extensions,omitempty"`
	WorkerCount     int      `json:"worker_count,omitempty"`
	ChunkSize       int      `json:"chunk_size,omitempty"`
}

// DefaultMaxFileBytes mirrors the original implementation's per-file size
// cap: files larger than this are still yielded by a walk (path, mtime
// and size are tracked) but marked oversized and never parsed.
const DefaultMaxFileBytes = 1024 * 1024

// DefaultChunkSize is the number of files parsed in memory before a batch
// is flushed to the store in a single transaction.
const DefaultChunkSize = 500
