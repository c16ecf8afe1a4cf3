// Package preflight provides readiness checks for external binaries
// and filesystem paths that Hardsub depends on.
//
// These checks run in two contexts:
//   - The daemon calls RunAll at startup. Failures are logged so a broken
//     environment is visible before the first job is claimed.
//   - The CLI "hardsub deps" and "hardsub status" commands use individual
//     check functions to display dependency health.
package preflight
