// Package discuss implements the turn-taking core of a panel round.
//
// A round is one user message answered by every panel member in fixed order.
// The package provides:
//   - ContextBuilder: deterministic prompt assembly for one persona's turn
//   - ParseReply: extraction of the {response, mood} document from raw output
//   - DetectReferences: name-based cross-reference detection between members
//   - Sequencer: the strictly sequential round driver with per-turn timeouts
//     and degraded fallbacks on provider failure
//
// Sequential execution is load-bearing, not an optimization target: persona
// k's context includes the live replies of personas 1..k-1, which is what
// makes the output a discussion rather than independent parallel answers.
package discuss
