package entry

import "embed"

// builtinFS embeds the builtin entry sets.
//
//go:embed builtin/*.yaml
var builtinFS embed.FS
