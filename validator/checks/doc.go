// Package checks declares all built-in validators.
//
// Importing this package declares every built-in validator namespace.
// For selective imports, import individual packages:
//
//	import _ "github.com/BigKAA/redpen-go/validator/sentence"
//	import _ "github.com/BigKAA/redpen-go/validator/section"
package checks

import (
	_ "github.com/BigKAA/redpen-go/validator/builtin"
	_ "github.com/BigKAA/redpen-go/validator/section"
	_ "github.com/BigKAA/redpen-go/validator/sentence"
)
