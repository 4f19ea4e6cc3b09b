/*
Package util collects the small, dependency-free helpers used throughout
gradenet: a generic single-assignment cell for one-shot task results, a
line-oriented file reader, an extension-stripping basename helper, and
external IP discovery for workers that need to self-report an identity.
*/
package util
