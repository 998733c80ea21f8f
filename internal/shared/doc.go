// Package shared holds helpers used across the Skye report packages.
//
// The testutil subpackage provides a capturing slog handler and builders
// for order/3PL fixtures, including real CSV and xlsx files written with
// excelize, so parser and pipeline tests can run against files shaped like
// the real exports.
package shared
