// Package project discovers and parses the QuickGo project file of a
// directory.
//
// Two formats are supported, checked in this order:
//
//   - quickgo.yaml, parsed with gopkg.in/yaml.v3
//   - quickgo.json, JSONC (comments and trailing commas allowed), cleaned
//     with github.com/tidwall/jsonc before parsing with encoding/json
//
// Only the fields the release commands use are interpreted: `name`, the
// free-form `context` bag and `context.versionMapping`. The version mapping
// is decoded in declaration order because files are rewritten one after
// another in that order.
package project
