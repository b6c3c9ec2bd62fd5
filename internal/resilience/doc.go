// Package resilience groups the fault tolerance helpers used around the PAC
// SFTP transport: retry with exponential backoff and jitter, and circuit
// breakers backed by sony/gobreaker.
//
// Usage Example:
//
//	cb := circuitbreaker.New(circuitbreaker.SFTPConfig())
//	err := retry.WithBackoff(ctx, retry.SFTPConfig(), func() error {
//	    _, err := cb.Execute(func() (interface{}, error) {
//	        return nil, fetch(ctx)
//	    })
//	    return err
//	})
package resilience
