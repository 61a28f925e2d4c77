// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - EmbeddingService: Maps text to fixed-dimension vectors. Used both at
//     index-build time and for every query.
//   - LLMService: Generates answers from role-tagged messages.
//   - VectorStore: Persists and searches the chunk embeddings.
//
// # Optional Interfaces
//
//   - PromptStore: Supplies the system/user prompt templates. When nil,
//     services fall back to the embedded defaults.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
