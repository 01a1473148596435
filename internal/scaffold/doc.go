// Package scaffold generates new backend project skeletons. It powers the
// "boiler new" command: Place resolves the target directory, the bootstrap
// steps initialize git and the package manifest, and a variant's Plan writes
// the folder structure, configuration files and sources from embedded
// templates and installs dependencies through the package manager.
package scaffold
