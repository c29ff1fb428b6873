package database

import (
	"log"
	"time"
)

// Waiter blocks process startup until the backing store accepts
// connections. It probes once per interval and retries without bound:
// no backoff, no jitter, no attempt ceiling. The gate is consumed once,
// before any request-serving capacity exists; if the store never comes
// up the process hangs here until killed, which is the intended behavior
// in deployments that start the service and the database concurrently.
type Waiter struct {
	Probe    func() error        // connection probe, required
	Interval time.Duration       // sleep between failed probes, defaults to 1s
	Sleep    func(time.Duration) // injectable for tests, defaults to time.Sleep
}

// Wait polls the probe until it succeeds and returns the number of
// attempts it took. Each failure is logged before sleeping.
func (w *Waiter) Wait() int {
	interval := w.Interval
	if interval <= 0 {
		interval = time.Second
	}
	sleep := w.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	log.Print("waiting for database...")
	attempts := 0
	for {
		attempts++
		err := w.Probe()
		if err == nil {
			log.Printf("database ready after %d attempt(s)", attempts)
			return attempts
		}
		log.Printf("database unavailable (%v), retrying in %s", err, interval)
		sleep(interval)
	}
}
