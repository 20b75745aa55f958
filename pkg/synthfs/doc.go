// Package synthfs performs planned file system operations through the
// synthfs pipeline executor.
//
// Callers decide what to create (skipping existing paths, ordering parents
// before children) and hand the resulting types.Operation batch to an
// Executor, which converts each operation and runs them on the OS
// filesystem. Every target must live under the executor's root.
package synthfs
