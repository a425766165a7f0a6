// Package testutil holds helpers shared by package tests.
package testutil

import (
	"context"
	"sync"
	"sync/atomic"

	dErrors "hrconsole/pkg/domain-errors"
)

// ConcurrentResult tracks outcomes of concurrent test operations.
type ConcurrentResult struct {
	Successes    int32
	Errors       int32
	Unauthorized int32
	NotFounds    int32
}

// Total returns the total number of operations executed.
func (r *ConcurrentResult) Total() int32 {
	return r.Successes + r.Errors + r.Unauthorized + r.NotFounds
}

// Classifier maps an error to a domain code. Backend errors carry HTTP
// statuses, so callers supply the mapping.
type Classifier func(err error) dErrors.Code

// DomainCode classifies by the domain error code, if any.
func DomainCode(err error) dErrors.Code {
	for _, code := range []dErrors.Code{dErrors.CodeUnauthorized, dErrors.CodeNotFound} {
		if dErrors.HasCode(err, code) {
			return code
		}
	}
	return dErrors.CodeInternal
}

// RunConcurrent executes fn in parallel goroutines and counts the outcomes.
func RunConcurrent(goroutines int, classify Classifier, fn func(idx int) error) *ConcurrentResult {
	if classify == nil {
		classify = DomainCode
	}
	var wg sync.WaitGroup
	var successes, errs, unauthorized, notFounds atomic.Int32

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			err := fn(idx)
			if err == nil {
				successes.Add(1)
				return
			}
			switch classify(err) {
			case dErrors.CodeUnauthorized:
				unauthorized.Add(1)
			case dErrors.CodeNotFound:
				notFounds.Add(1)
			default:
				errs.Add(1)
			}
		}(i)
	}

	wg.Wait()

	return &ConcurrentResult{
		Successes:    successes.Load(),
		Errors:       errs.Load(),
		Unauthorized: unauthorized.Load(),
		NotFounds:    notFounds.Load(),
	}
}

// RunConcurrentCtx executes fn in parallel goroutines with a shared context.
func RunConcurrentCtx(ctx context.Context, goroutines int, classify Classifier, fn func(ctx context.Context, idx int) error) *ConcurrentResult {
	return RunConcurrent(goroutines, classify, func(idx int) error {
		return fn(ctx, idx)
	})
}
