// Package all imports all bundled registry provider implementations.
//
// Import this package for its side effects to register every ecosystem:
//
//	import (
//		"github.com/git-pkgs/resolve"
//		_ "github.com/git-pkgs/resolve/all"
//	)
//
//	ecosystems := resolve.SupportedEcosystems()
//	// ["cargo"]
package all

import (
	_ "github.com/git-pkgs/resolve/internal/cargo"
)
