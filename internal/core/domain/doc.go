// Package domain defines the core business entities for tutorbot.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Subject: A named topic domain with its own knowledge base
//   - KnowledgeRecord: A cluster of paraphrased questions sharing one answer
//   - KnowledgeBase: The ordered records of one subject
//   - Session: The active subject and its knowledge base for one user
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
