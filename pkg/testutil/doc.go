// Package testutil provides helpers shared by cpgen tests: building file
// trees from maps, reading them back, and producing template bundles as
// gzip-compressed tar archives.
//
// Helpers take a *testing.T and fail the test on setup errors so test bodies
// stay focused on behavior.
package testutil
