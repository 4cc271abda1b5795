// Package sm2 implements a simplified SM-2 spaced repetition algorithm
// on a three-point quality scale.
//
// The package is dependency-free and side-effect-free: Advance maps a
// prior Progress and a review Quality to the next Progress without any
// I/O, so scheduling decisions are fully reproducible from their inputs.
//
// Basic usage:
//
//	p := sm2.NewProgress(time.Now())
//	p = sm2.Advance(p, sm2.QualityGood, time.Now())
package sm2
