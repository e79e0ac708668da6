// Package utils provides small helpers shared by the HTTP handlers and CLI
// commands, such as mapping filenames to object keys and decoding route
// parameters.
package utils
