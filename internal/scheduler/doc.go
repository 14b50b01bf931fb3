// Package scheduler drives time-based update checks for the cruxd
// daemon. It runs a single goroutine over a min-heap of check events
// sorted by trigger time, with a 60-second max-sleep-cap to handle NTP
// steps, DST transitions, and system sleep.
//
// Events are one-shot or recurring. Recurring events carry a cron
// expression; after firing, the next occurrence is computed and pushed
// back onto the heap. The scheduler holds no state of its own: the
// heap is rebuilt from the daemon configuration on restart, and firing
// an event only invokes the registered callback, which forwards to the
// update engine's on-demand check path.
package scheduler
