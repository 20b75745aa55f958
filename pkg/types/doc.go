// Package types holds the records shared across cpgen packages: the
// filesystem seam, the validated parameter records produced by the command
// line, and the results returned by create and update operations.
package types
