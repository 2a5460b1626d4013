// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package async provides a small Future and Promise abstraction for handing
// the result of a background operation to a caller. A Promise is the
// producer-side handle used to fulfill a Future; a Future can be awaited
// once for the value or error the operation ended with.
//
// The producer side typically looks as follows:
//
//	promise, future := async.Create[T]()
//	go func() {
//	   promise.Fulfill(someOperation())
//	}()
//	return future
package async

// outcome carries the value or error a Future resolves to.
type outcome[T any] struct {
	value T
	err   error
}

// Promise is the handle used to fulfill a Future. It must be fulfilled
// exactly once.
type Promise[T any] struct {
	c chan<- outcome[T]
}

// Future is a placeholder for the result of an operation that may still be
// in flight. It is resolved by the corresponding Promise.
type Future[T any] struct {
	c <-chan outcome[T]
}

// Create initializes a connected Promise and Future pair.
func Create[T any]() (Promise[T], Future[T]) {
	ch := make(chan outcome[T], 1)
	return Promise[T]{c: ch}, Future[T]{c: ch}
}

// Immediate creates a Future that is already resolved with the given value.
func Immediate[T any](value T) Future[T] {
	ch := make(chan outcome[T], 1)
	ch <- outcome[T]{value: value}
	close(ch)
	return Future[T]{c: ch}
}

// Failed creates a Future that is already resolved with the given error.
func Failed[T any](err error) Future[T] {
	ch := make(chan outcome[T], 1)
	ch <- outcome[T]{err: err}
	close(ch)
	return Future[T]{c: ch}
}

// Fulfill resolves the Future connected to this Promise with the given value
// and error, making it available to the awaiting consumer.
func (p Promise[T]) Fulfill(value T, err error) {
	p.c <- outcome[T]{value: value, err: err}
	close(p.c)
}

// Await blocks until the Future is resolved and returns its value or error.
// A Future may only be awaited once.
func (f Future[T]) Await() (T, error) {
	res := <-f.c
	return res.value, res.err
}
