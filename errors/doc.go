// Package errors provides the structured error type used across tinydi.
// Every failure raised by the container carries a machine-readable code and
// a kind that separates configuration mistakes from resolution failures.
package errors
