// Package printer renders the structural result of a document walk as JSON
// or as an indented text tree.
package printer
