/*
Package dexload is a runtime class and resource loader for dex containers and
jar archives.

# License

Source codes are under Apache License Version 2.0.

# Underwater

 1. A dex container carries class definitions only: names, fields with
    initial values, and methods bound to native symbols. A jar archive wraps
    a container as classes.dex plus arbitrary resource files.
 2. Behavior is native: every method symbol resolves through a Symbols table
    of registered Go functions, populated at fixture-authoring time. Loading
    a class never executes foreign bytecode.
 3. A loader resolves parent first, then its classpath entries in
    configuration order, first match wins. Jar class tables are read through
    an optimized artifact extracted once into the loader's optimized
    directory.

# Compile tool

Containers are authored as HCL manifests and compiled by the dexc tool:

	go install github.com/dexkit/dexload/dexc@latest

It can also inspect a container's classes and resources, pre-extract a jar's
optimized artifact and so on ... . For more details see the cli help:

	dexc -h

# Samples

See testdata and tests.
*/
package dexload
