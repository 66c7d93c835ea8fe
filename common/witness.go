package common

import "github.com/nspcc-dev/neo-go/pkg/interop/runtime"

// ErrWitnessFailed appears when the method must be called
// by a certain account but was not.
const ErrWitnessFailed = "witness check failed"

// CheckWitness checks witness of the passed account.
// It panics with ErrWitnessFailed message on fail.
func CheckWitness(acc []byte) {
	CheckWitnessWithMessage(acc, ErrWitnessFailed)
}

// CheckWitnessWithMessage checks witness of the passed account and panics
// with the given message on fail.
func CheckWitnessWithMessage(acc []byte, msg string) {
	if !runtime.CheckWitness(acc) {
		panic(msg)
	}
}
