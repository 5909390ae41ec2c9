package domain

// RunID identifies one invocation of the engine. It is assigned at
// scheduler entry and stamped into every schedule record the run
// creates or changes (spec §3).
type RunID string
