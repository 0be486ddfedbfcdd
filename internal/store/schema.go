package store

// schema is the full set of tables, indexes, and FTS5 sync triggers the
// store depends on. Every statement is idempotent so opening an existing
// database is as cheap as creating a fresh one.
const schema = `
CREATE TABLE IF NOT EXISTS metadata (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS files (
	id INTEGER PRIMARY KEY,
	path TEXT NOT NULL UNIQUE,
	mtime INTEGER NOT NULL,
	size INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_files_path ON files(path);

CREATE TABLE IF NOT EXISTS symbols (
	id INTEGER PRIMARY KEY,
	file_id INTEGER NOT NULL,
	name TEXT NOT NULL,
	kind TEXT NOT NULL,
	line INTEGER NOT NULL,
	parent_id INTEGER,
	signature TEXT,
	FOREIGN KEY (file_id) REFERENCES files(id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_symbols_name ON symbols(name);
CREATE INDEX IF NOT EXISTS idx_symbols_kind ON symbols(kind);
CREATE INDEX IF NOT EXISTS idx_symbols_file ON symbols(file_id);

CREATE VIRTUAL TABLE IF NOT EXISTS symbols_fts USING fts5(
	name,
	signature,
	content=symbols,
	content_rowid=id
);

CREATE TRIGGER IF NOT EXISTS symbols_ai AFTER INSERT ON symbols BEGIN
	INSERT INTO symbols_fts(rowid, name, signature) VALUES (new.id, new.name, new.signature);
END;
CREATE TRIGGER IF NOT EXISTS symbols_ad AFTER DELETE ON symbols BEGIN
	INSERT INTO symbols_fts(symbols_fts, rowid, name, signature) VALUES('delete', old.id, old.name, old.signature);
END;
CREATE TRIGGER IF NOT EXISTS symbols_au AFTER UPDATE ON symbols BEGIN
	INSERT INTO symbols_fts(symbols_fts, rowid, name, signature) VALUES('delete', old.id, old.name, old.signature);
	INSERT INTO symbols_fts(rowid, name, signature) VALUES (new.id, new.name, new.signature);
END;

CREATE TABLE IF NOT EXISTS modules (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL UNIQUE,
	path TEXT NOT NULL,
	kind TEXT
);
CREATE INDEX IF NOT EXISTS idx_modules_name ON modules(name);

CREATE TABLE IF NOT EXISTS module_deps (
	id INTEGER PRIMARY KEY,
	module_id INTEGER NOT NULL,
	dep_module_id INTEGER NOT NULL,
	dep_kind TEXT,
	FOREIGN KEY (module_id) REFERENCES modules(id) ON DELETE CASCADE,
	FOREIGN KEY (dep_module_id) REFERENCES modules(id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_module_deps_module ON module_deps(module_id);
CREATE INDEX IF NOT EXISTS idx_module_deps_dep ON module_deps(dep_module_id);

CREATE TABLE IF NOT EXISTS inheritance (
	id INTEGER PRIMARY KEY,
	child_id INTEGER NOT NULL,
	parent_name TEXT NOT NULL,
	kind TEXT NOT NULL,
	FOREIGN KEY (child_id) REFERENCES symbols(id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_inheritance_child ON inheritance(child_id);
CREATE INDEX IF NOT EXISTS idx_inheritance_parent ON inheritance(parent_name);

CREATE TABLE IF NOT EXISTS refs (
	id INTEGER PRIMARY KEY,
	file_id INTEGER NOT NULL,
	name TEXT NOT NULL,
	line INTEGER NOT NULL,
	context TEXT,
	FOREIGN KEY (file_id) REFERENCES files(id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_refs_name ON refs(name);
CREATE INDEX IF NOT EXISTS idx_refs_file ON refs(file_id);

CREATE TABLE IF NOT EXISTS xml_usages (
	id INTEGER PRIMARY KEY,
	module_id INTEGER,
	file_path TEXT NOT NULL,
	line INTEGER NOT NULL,
	class_name TEXT NOT NULL,
	usage_type TEXT,
	element_id TEXT,
	FOREIGN KEY (module_id) REFERENCES modules(id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_xml_usages_class ON xml_usages(class_name);
CREATE INDEX IF NOT EXISTS idx_xml_usages_module ON xml_usages(module_id);

CREATE TABLE IF NOT EXISTS resources (
	id INTEGER PRIMARY KEY,
	module_id INTEGER,
	type TEXT NOT NULL,
	name TEXT NOT NULL,
	file_path TEXT NOT NULL,
	line INTEGER,
	FOREIGN KEY (module_id) REFERENCES modules(id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_resources_name ON resources(name);
CREATE INDEX IF NOT EXISTS idx_resources_type ON resources(type);
CREATE INDEX IF NOT EXISTS idx_resources_module ON resources(module_id);

CREATE TABLE IF NOT EXISTS resource_usages (
	id INTEGER PRIMARY KEY,
	resource_id INTEGER,
	usage_file TEXT NOT NULL,
	usage_line INTEGER NOT NULL,
	usage_type TEXT,
	FOREIGN KEY (resource_id) REFERENCES resources(id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_resource_usages_resource ON resource_usages(resource_id);

CREATE TABLE IF NOT EXISTS transitive_deps (
	id INTEGER PRIMARY KEY,
	module_id INTEGER NOT NULL,
	dependency_id INTEGER NOT NULL,
	depth INTEGER NOT NULL,
	path TEXT,
	FOREIGN KEY (module_id) REFERENCES modules(id) ON DELETE CASCADE,
	FOREIGN KEY (dependency_id) REFERENCES modules(id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_transitive_deps_module ON transitive_deps(module_id);
CREATE INDEX IF NOT EXISTS idx_transitive_deps_dep ON transitive_deps(dependency_id);

CREATE TABLE IF NOT EXISTS storyboard_usages (
	id INTEGER PRIMARY KEY,
	module_id INTEGER,
	file_path TEXT NOT NULL,
	line INTEGER NOT NULL,
	class_name TEXT NOT NULL,
	usage_type TEXT,
	storyboard_id TEXT,
	FOREIGN KEY (module_id) REFERENCES modules(id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_storyboard_usages_class ON storyboard_usages(class_name);
CREATE INDEX IF NOT EXISTS idx_storyboard_usages_module ON storyboard_usages(module_id);

CREATE TABLE IF NOT EXISTS ios_assets (
	id INTEGER PRIMARY KEY,
	module_id INTEGER,
	type TEXT NOT NULL,
	name TEXT NOT NULL,
	file_path TEXT NOT NULL,
	FOREIGN KEY (module_id) REFERENCES modules(id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_ios_assets_name ON ios_assets(name);
CREATE INDEX IF NOT EXISTS idx_ios_assets_type ON ios_assets(type);

CREATE TABLE IF NOT EXISTS ios_asset_usages (
	id INTEGER PRIMARY KEY,
	asset_id INTEGER,
	usage_file TEXT NOT NULL,
	usage_line INTEGER NOT NULL,
	usage_type TEXT,
	FOREIGN KEY (asset_id) REFERENCES ios_assets(id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_ios_asset_usages_asset ON ios_asset_usages(asset_id);

CREATE TABLE IF NOT EXISTS api_endpoints (
	id INTEGER PRIMARY KEY,
	file_id INTEGER,
	method TEXT NOT NULL,
	path TEXT NOT NULL,
	handler TEXT,
	line INTEGER NOT NULL,
	framework TEXT,
	FOREIGN KEY (file_id) REFERENCES files(id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_api_endpoints_path ON api_endpoints(path);

CREATE TABLE IF NOT EXISTS config_vars (
	id INTEGER PRIMARY KEY,
	file_id INTEGER,
	key TEXT NOT NULL,
	line INTEGER,
	default_value TEXT,
	source TEXT NOT NULL,
	FOREIGN KEY (file_id) REFERENCES files(id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_config_vars_key ON config_vars(key);

CREATE TABLE IF NOT EXISTS import_edges (
	id INTEGER PRIMARY KEY,
	file_id INTEGER NOT NULL,
	target TEXT NOT NULL,
	kind TEXT,
	line INTEGER,
	FOREIGN KEY (file_id) REFERENCES files(id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_import_edges_target ON import_edges(target);
CREATE INDEX IF NOT EXISTS idx_import_edges_file ON import_edges(file_id);
`
