package eventlog

// DefaultCapacity is the number of most recent records the log retains.
const DefaultCapacity = 100
