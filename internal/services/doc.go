// Package services provides the shared error taxonomy for pipeline stages
// and external tool wrappers.
package services
