// Package assets provides the skeleton stylesheets written into the head of
// every rendered email.
//
// # Loader Architecture
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - go:embed stylesheets shipped with the binary
//	    ├── FilesystemLoader  - {basePath}/styles/{name}.css on disk
//	    └── AssetResolver     - custom-first lookup with embedded fallback
//
// Two styles exist: StyleReset, the client reset block, and StyleOutlook, the
// group fix served to Outlook 2007-2010 inside a conditional comment. A custom
// directory only needs the files it overrides.
//
// # Security
//
// Asset names are validated to prevent path traversal.
// FilesystemLoader resolves symlinks and verifies paths stay within basePath.
package assets
