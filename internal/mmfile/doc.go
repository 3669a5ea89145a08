// Package mmfile maps OneStore files into memory for random access. On unix
// the file is mapped read-only; elsewhere it is read fully.
package mmfile
