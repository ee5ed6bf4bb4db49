package dexload

import "errors"

var (
	// ErrClassNotFound occurs when no classpath entry nor the parent loader defines a class.
	ErrClassNotFound = errors.New("class not found")
	// ErrResourceNotFound occurs when no archive entry nor the parent loader carries a resource.
	ErrResourceNotFound = errors.New("resource not found")
	// ErrMissingSymbol occurs when a method's native symbol is not registered.
	ErrMissingSymbol = errors.New("missing symbol")
	// ErrMissingMethod occurs when invoking a method a class does not define.
	ErrMissingMethod = errors.New("missing method")
	// ErrMissingField occurs when reading a field a class does not define.
	ErrMissingField = errors.New("missing field")
	// ErrNotStatic occurs when calling an instance member without a receiver.
	ErrNotStatic = errors.New("member not static")
	// ErrEmptyClasspath occurs when constructing a loader from an empty classpath.
	ErrEmptyClasspath = errors.New("empty classpath")
	// ErrBadContainer occurs when a container has a wrong magic or a broken payload.
	ErrBadContainer = errors.New("malformed dex container")
	// ErrBadChecksum occurs when a container payload does not match its checksum.
	ErrBadChecksum = errors.New("dex container checksum mismatch")
)
