// Package pipeline implements the single-threaded post-processing
// stages that run after C3-C5 merge (spec §4.7-§4.10, components
// C7-C10): frequency limiting, campaign conflict resolution,
// post-window makeup generation, and load balancing. Run wires them in
// the order spec §2's data-flow diagram requires; each stage is also
// exported individually for testing against the scenarios in spec §8.
package pipeline
