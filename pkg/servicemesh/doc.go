/*
Package servicemesh provides service mesh components for microservices.

Subpackages:

  - circuitbreaker: Circuit breaker pattern implementation
  - ratelimit: Rate limiting algorithms

Usage:

	import "github.com/chris-alexander-pop/system-design-library/pkg/servicemesh/ratelimit"

	limiter := ratelimit.NewTokenBucket(50, 800.0/60)
	if limiter.Allow() {
	    // send
	}
*/
package servicemesh
