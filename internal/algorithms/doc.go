// Package algorithms provides the instrumented step generators.
//
// Each generator is a pure function from a dataset to a lazy sequence of
// [ops.Operation] values:
//
//   - [Bubble]: adjacent compare/swap passes
//   - [Insertion]: key hold and right shifts via Overwrite
//   - [Selection]: minimum scan, one swap per position
//   - [Merge]: top-down split, merge via Overwrite
//   - [Quick]: Lomuto partition, rightmost pivot
//   - [Radix]: LSD base-10 counting sort passes
//
// Applying the data effect of every emitted operation, in order, to a copy of
// the input yields the ascending sort of that input, and every index is
// covered by at least one MarkSorted. Generators never touch their argument
// and are deterministic: iterating the same sequence twice, or generating
// twice from equal input, yields identical operations.
//
// # Example
//
//	alg, _ := algorithms.Lookup("quick")
//	for op := range alg.Generate(dataset.Dataset{5, 3, 8, 1}) {
//		fmt.Println(op)
//	}
//
// Stopping a range loop early is safe; recursive generators unwind without
// emitting further operations.
package algorithms
