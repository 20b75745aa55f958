// Package generator is the entry point for creating projects and components.
//
// Every create operation follows the same sequence:
//
//  1. the catalog validates the parameters and picks the template subtree
//     and substitution values, before anything touches the filesystem
//  2. the template cache is made ready (downloaded on first use)
//  3. the subtree is materialized into the destination
//  4. leftover placeholders are reported, and fail the operation in strict
//     mode
//
// Projects are created at <root>/<name> and substituted as a whole.
// Libraries, executables and tests are materialized into an existing project
// root and only the entries they contribute are substituted.
package generator
