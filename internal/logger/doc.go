// Package logger wraps zap with a global sugared logger and context helpers.
//
// The pipeline passes a context through every layer; ToContext, WithName and
// WithKV attach a scoped logger to it, and the package-level Info/Debug/...
// helpers pull it back out.
package logger
