package sim

// VTimeInMin is the virtual time in minutes since the start of the batch.
type VTimeInMin float64
