// Package handle issues the opaque integer identifiers that cross the
// foreign boundary.
//
// The boundary cannot carry owned references, so live objects are named by
// handles and resolved through indirection tables on the native side.
// Platform handles are process-wide and never reused; response handles are
// scoped to one platform and restart at zero for each new platform.
package handle
