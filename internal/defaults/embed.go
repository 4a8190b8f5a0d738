// Package defaults embeds the default pumpbuild configuration. It seeds
// config.Default and is written out by `pumpbuild init`.
package defaults

import _ "embed"

// FileName is the name `pumpbuild init` writes the defaults to.
const FileName = "assemble.yml"

// AssembleYAML is the default assemble.yml.
//
//go:embed assemble.yml
var AssembleYAML []byte
