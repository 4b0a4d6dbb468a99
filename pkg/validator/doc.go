// Package validator provides small composable validation rules evaluated
// with Apply. Failures are collected into ValidationErrors, which handlers
// can map to a 400 response.
package validator
