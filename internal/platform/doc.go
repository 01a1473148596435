// Package platform provides cross-platform filesystem writes that enforce
// permission bits. On Unix systems modes are applied with chmod after every
// write; on Windows permission bits are ignored.
package platform
