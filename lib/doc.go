// Package lib provide useful functions and features that are not
// particularly tied up with hmemory's tracking engine, settings,
// histogram, call-stack helpers and raw memory views. They are meant
// to be small, self-contained and shall not depend on anything other
// than the standard library.
package lib
