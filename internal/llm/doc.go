// Package llm categorizes expenses and answers spending questions with a
// remote language model. Each task walks an ordered list of model
// identifiers and degrades to a deterministic answer when none respond:
// the keyword classifier for categorization, a fixed apology for chat.
package llm
