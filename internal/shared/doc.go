// Package shared holds helpers used by more than one package.
//
// The testutil subpackage provides a capturing slog handler and builders for
// time-tracking CSV fixtures. It must not import any other internal package.
package shared
