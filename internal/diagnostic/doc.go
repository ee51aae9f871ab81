// Package diagnostic provides structured compile-time warnings and errors for
// the adapter generator.
//
// Every diagnostic carries a stable code, the declaration it points at, and
// the source position of that declaration when one is known:
//   - UnresolvedGenerics: a generic converter without a concrete instantiation (warning)
//   - MultipleConverterInstantiations: a generic converter instantiated with several type argument sets
//   - DuplicateConversion: two origins for the same source/target pair
//   - ConflictingConfiguration: configuration declarations that disagree
//   - ConfigError: malformed configuration
//   - InaccessibleType: a converter whose types cannot be named from the output package
//   - NoConversions: nothing left to generate
package diagnostic
