// Package manifest reads, patches and validates the package.json manifest
// produced by the package manager's init command. Script injection is a
// structural edit of the JSON document: every other key keeps its value and
// position, and applying the same patch twice yields identical bytes.
package manifest
